// Package cpu defines the 6502 architecture and provides the methods
// needed to run the CPU and interface with it for emulation.
package cpu

import (
	"fmt"

	"github.com/jmchacon/go6502core/irq"
	"github.com/jmchacon/go6502core/memory"
)

// Vector addresses the CPU loads PC from when running the BRK/IRQ/NMI
// sequences. These are host memory-layout conventions (§6); the core
// itself only reads them when executing BRK or servicing an asserted
// IRQ/NMI line.
const (
	NMI_VECTOR   = uint16(0xFFFA)
	RESET_VECTOR = uint16(0xFFFC)
	IRQ_VECTOR   = uint16(0xFFFE)
)

// Status register bit masks. P_S1 (the Unused bit) always reads 1 and is
// never clearable from this CPU model's perspective.
const (
	P_CARRY     = uint8(0x01)
	P_ZERO      = uint8(0x02)
	P_INTERRUPT = uint8(0x04)
	P_DECIMAL   = uint8(0x08)
	P_B         = uint8(0x10) // Set at power-on and in the copy BRK/PHP push. Cleared when RTI/PLP restore P.
	P_S1        = uint8(0x20) // Always 1.
	P_OVERFLOW  = uint8(0x40)
	P_NEGATIVE  = uint8(0x80)
)

// Status register bit indices, used with GetFlag/SetFlag. Bit layout
// LSB->MSB: Carry, Zero, Interrupt, Decimal, Break, Unused, Overflow, Negative.
const (
	CarryBit = iota
	ZeroBit
	InterruptBit
	DecimalBit
	BreakBit
	UnusedBit
	OverflowBit
	NegativeBit
)

// StatusBitError is returned when a caller attempts to set a status
// register bit to anything other than the literal values 0 or 1.
type StatusBitError struct {
	Bit int
}

// Error implements the error interface.
func (e StatusBitError) Error() string {
	return fmt.Sprintf("status bit error: bit %d may only be set to 0 or 1", e.Bit)
}

// UnknownOpcodeError is returned by Step when the opcode table has no
// entry for the fetched byte (an unofficial/undocumented opcode).
type UnknownOpcodeError struct {
	Opcode uint8
	PC     uint16
}

// Error implements the error interface.
func (e UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%.2X at PC 0x%.4X", e.Opcode, e.PC)
}

// Chip holds the full register file and cycle counter of a 6502 along
// with the memory bank it's wired to. PC/SP/SR in spec terms correspond
// to PC/S/P below; the shorter names follow how the teacher emulator
// names them.
type Chip struct {
	A  uint8  // Accumulator register.
	X  uint8  // X index register.
	Y  uint8  // Y index register.
	S  uint8  // Stack pointer (spec SP). Physical stack address is always 0x0100+S.
	P  uint8  // Status register (spec SR).
	PC uint16 // Program counter.
	CC uint64 // Cumulative cycle count since last Reset/PowerOn.

	ram memory.Bank
	irq irq.Sender // Optional external IRQ line.
	nmi irq.Sender // Optional external NMI line.
}

// ChipDef describes how to construct a Chip: the memory bank it talks to,
// plus optional external interrupt sources Step will poll before each
// instruction fetch.
type ChipDef struct {
	Ram memory.Bank
	Irq irq.Sender
	Nmi irq.Sender
}

// Init creates a new Chip wired to the given definition and returns it in
// powered-on state.
func Init(def *ChipDef) (*Chip, error) {
	if def.Ram == nil {
		return nil, fmt.Errorf("cpu.Init: Ram must be non-nil")
	}
	c := &Chip{
		ram: def.Ram,
		irq: def.Irq,
		nmi: def.Nmi,
	}
	c.PowerOn()
	return c, nil
}

// PowerOn resets the CPU register file and its RAM to their documented
// defaults: PC=0xFFFC, SP=0xFF, SR=0x30, X=Y=A=0, CC=0. See SPEC_FULL.md
// §13.2 for why this doesn't perform a vector fetch the way real 6502
// hardware's RESET line does.
func (c *Chip) PowerOn() {
	c.A = 0
	c.X = 0
	c.Y = 0
	c.S = 0xFF
	c.P = P_B | P_S1
	c.PC = RESET_VECTOR
	c.CC = 0
	c.ram.PowerOn()
}

// Reset is an alias for PowerOn: the host-facing operation that
// reinitializes both CPU and RAM to their defaults (§6).
func (c *Chip) Reset() {
	c.PowerOn()
}

// Ram returns the memory bank this Chip is wired to.
func (c *Chip) Ram() memory.Bank {
	return c.ram
}

// GetFlag returns 0 or 1 for the named status bit (see the *Bit constants).
func (c *Chip) GetFlag(bit int) uint8 {
	if c.P&(1<<uint(bit)) != 0 {
		return 1
	}
	return 0
}

// SetFlag sets the named status bit to val, which must be 0 or 1. Any
// other value returns StatusBitError without modifying P. Bit 5 (Unused)
// always reads back as 1 regardless of what's requested, since it can't
// be cleared on real hardware either.
func (c *Chip) SetFlag(bit int, val uint8) error {
	if val != 0 && val != 1 {
		return StatusBitError{Bit: bit}
	}
	mask := uint8(1) << uint(bit)
	if val == 1 {
		c.P |= mask
	} else {
		c.P &^= mask
	}
	c.P |= P_S1
	return nil
}

// Carry, Zero, Interrupt, Decimal, Break, Overflow, and Negative are named
// accessors for each status bit, mirroring the named flags in the spec.
func (c *Chip) Carry() bool     { return c.GetFlag(CarryBit) == 1 }
func (c *Chip) Zero() bool      { return c.GetFlag(ZeroBit) == 1 }
func (c *Chip) Interrupt() bool { return c.GetFlag(InterruptBit) == 1 }
func (c *Chip) Decimal() bool   { return c.GetFlag(DecimalBit) == 1 }
func (c *Chip) Break() bool     { return c.GetFlag(BreakBit) == 1 }
func (c *Chip) Overflow() bool  { return c.GetFlag(OverflowBit) == 1 }
func (c *Chip) Negative() bool  { return c.GetFlag(NegativeBit) == 1 }

// setFlagsNZ sets Zero (v == 0) and Negative (bit 7 of v) from v. Nearly
// every arithmetic and transfer instruction invokes this.
func (c *Chip) setFlagsNZ(v uint8) {
	if v == 0 {
		c.P |= P_ZERO
	} else {
		c.P &^= P_ZERO
	}
	if v&P_NEGATIVE != 0 {
		c.P |= P_NEGATIVE
	} else {
		c.P &^= P_NEGATIVE
	}
}

// setCarry sets or clears the Carry flag based on set.
func (c *Chip) setCarry(set bool) {
	if set {
		c.P |= P_CARRY
	} else {
		c.P &^= P_CARRY
	}
}

// setOverflow sets or clears the Overflow flag based on set.
func (c *Chip) setOverflow(set bool) {
	if set {
		c.P |= P_OVERFLOW
	} else {
		c.P &^= P_OVERFLOW
	}
}

// PushByte writes v to the stack page at 0x0100+S and decrements S,
// wrapping within 0..255. The stack never leaves page 1.
func (c *Chip) PushByte(v uint8) {
	c.ram.Write(0x0100+uint16(c.S), v)
	c.S--
}

// PushWord pushes v as high byte then low byte, so a later PopWord
// reads the low byte first.
func (c *Chip) PushWord(v uint16) {
	c.PushByte(uint8(v >> 8))
	c.PushByte(uint8(v & 0xFF))
}

// PopByte increments S and returns the byte now at 0x0100+S.
func (c *Chip) PopByte() uint8 {
	c.S++
	return c.ram.Read(0x0100 + uint16(c.S))
}

// PopWord pops a low byte then a high byte and returns them combined
// little-endian.
func (c *Chip) PopWord() uint16 {
	lo := c.PopByte()
	hi := c.PopByte()
	return uint16(lo) | uint16(hi)<<8
}

// Step executes exactly one instruction (or, if an external IRQ/NMI line
// is asserted and not masked, one interrupt-service sequence instead) and
// returns the number of cycles it consumed along with the mnemonic that
// ran. CC is advanced by the same amount. An UnknownOpcodeError leaves
// PC one past the offending opcode byte and CC unchanged.
func (c *Chip) Step() (int, string, error) {
	ensureTable()

	if mnemonic, cycles, handled := c.maybeServiceInterrupt(); handled {
		c.CC += uint64(cycles)
		return cycles, mnemonic, nil
	}

	opAddr := c.PC
	opcode := c.ram.Read(c.PC)
	c.PC++

	entry := opcodeTable[opcode]
	if entry == nil {
		return 0, "", UnknownOpcodeError{Opcode: opcode, PC: opAddr}
	}

	extra := entry.exec(c)
	if !entry.controlsPC && entry.bytes > 1 {
		c.PC += uint16(entry.bytes - 1)
	}

	cycles := int(entry.cycles) + extra
	c.CC += uint64(cycles)
	return cycles, entry.mnemonic, nil
}

// maybeServiceInterrupt checks the optional external IRQ/NMI lines and, if
// one is asserted (and, for IRQ, not masked by the Interrupt-disable
// flag), runs the standard push-PC/push-P/set-I/load-vector sequence in
// place of a normal opcode fetch. This is an additive supplement (see
// SPEC_FULL.md §11): a Chip with no Irq/Nmi installed never takes this
// path and Step behaves exactly per §4.4.
func (c *Chip) maybeServiceInterrupt() (string, int, bool) {
	nmiRaised := c.nmi != nil && c.nmi.Raised()
	irqRaised := c.irq != nil && c.irq.Raised()
	if !nmiRaised && !irqRaised {
		return "", 0, false
	}
	if irqRaised && !nmiRaised && c.Interrupt() {
		return "", 0, false
	}
	vector := IRQ_VECTOR
	mnemonic := "IRQ"
	if nmiRaised {
		vector = NMI_VECTOR
		mnemonic = "NMI"
	}
	c.PushWord(c.PC)
	c.PushByte(c.P &^ P_B)
	c.P |= P_INTERRUPT
	c.PC = c.ram.ReadWord(vector, false)
	return mnemonic, 7, true
}
