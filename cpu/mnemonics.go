package cpu

// This file holds per-mnemonic behavior. Each function is deliberately
// narrow: arithmetic and flag effects only. Operand resolution, PC
// advancement, and cycle bookkeeping are handled once by the driver in
// Step and the registration helpers in opcodes.go.

// opLDA, opLDX, opLDY load a register from the resolved value and update N,Z.
func opLDA(c *Chip, v uint8) { c.A = v; c.setFlagsNZ(c.A) }
func opLDX(c *Chip, v uint8) { c.X = v; c.setFlagsNZ(c.X) }
func opLDY(c *Chip, v uint8) { c.Y = v; c.setFlagsNZ(c.Y) }

// getA, getX, getY fetch the register a store mnemonic writes out.
func getA(c *Chip) uint8 { return c.A }
func getX(c *Chip) uint8 { return c.X }
func getY(c *Chip) uint8 { return c.Y }

// opAND, opORA, opEOR perform the bitwise accumulator ops and update N,Z.
func opAND(c *Chip, v uint8) { c.A &= v; c.setFlagsNZ(c.A) }
func opORA(c *Chip, v uint8) { c.A |= v; c.setFlagsNZ(c.A) }
func opEOR(c *Chip, v uint8) { c.A ^= v; c.setFlagsNZ(c.A) }

// opADC implements A <- A + v + Carry with Carry/Overflow/N/Z update.
// Decimal mode is not implemented (§1 non-goal; SPEC_FULL.md §13.6):
// the Decimal flag may be set and read back but never alters this
// arithmetic.
func opADC(c *Chip, v uint8) {
	carryIn := uint16(c.GetFlag(CarryBit))
	a := uint16(c.A)
	tmp := a + uint16(v) + carryIn
	result := uint8(tmp)
	c.setCarry(tmp > 0xFF)
	c.setOverflow((uint8(a)^result)&(v^result)&0x80 != 0)
	c.A = result
	c.setFlagsNZ(c.A)
}

// opSBC is ADC with the operand bit-inverted, per the spec's equivalence.
func opSBC(c *Chip, v uint8) {
	opADC(c, v^0xFF)
}

// opASL, opLSR, opROL, opROR are the shift/rotate family. They operate on
// whatever operand.Read/Write resolved to (accumulator or memory) via
// rmwOp in opcodes.go; here they just take and return the 8 bit value.
func opASL(c *Chip, v uint8) uint8 {
	c.setCarry(v&0x80 != 0)
	r := v << 1
	c.setFlagsNZ(r)
	return r
}

func opLSR(c *Chip, v uint8) uint8 {
	c.setCarry(v&0x01 != 0)
	r := v >> 1
	c.setFlagsNZ(r)
	return r
}

func opROL(c *Chip, v uint8) uint8 {
	carryIn := c.GetFlag(CarryBit)
	c.setCarry(v&0x80 != 0)
	r := (v << 1) | carryIn
	c.setFlagsNZ(r)
	return r
}

func opROR(c *Chip, v uint8) uint8 {
	carryIn := c.GetFlag(CarryBit)
	c.setCarry(v&0x01 != 0)
	r := (v >> 1) | (carryIn << 7)
	c.setFlagsNZ(r)
	return r
}

// opINC, opDEC adjust a memory byte by one and update N,Z.
func opINC(c *Chip, v uint8) uint8 { r := v + 1; c.setFlagsNZ(r); return r }
func opDEC(c *Chip, v uint8) uint8 { r := v - 1; c.setFlagsNZ(r); return r }

// compare implements the shared CMP/CPX/CPY arithmetic: Carry <- reg>=v,
// N,Z from (reg-v)&0xFF.
func compare(c *Chip, reg, v uint8) {
	tmp := uint16(reg) - uint16(v)
	c.setCarry(reg >= v)
	c.setFlagsNZ(uint8(tmp))
}

func opCMP(c *Chip, v uint8) { compare(c, c.A, v) }
func opCPX(c *Chip, v uint8) { compare(c, c.X, v) }
func opCPY(c *Chip, v uint8) { compare(c, c.Y, v) }

// opBIT tests A & v without modifying A: Z from the masked result,
// N/Overflow copied directly from bits 7/6 of the operand.
func opBIT(c *Chip, v uint8) {
	if c.A&v == 0 {
		c.P |= P_ZERO
	} else {
		c.P &^= P_ZERO
	}
	c.setOverflow(v&P_OVERFLOW != 0)
	if v&P_NEGATIVE != 0 {
		c.P |= P_NEGATIVE
	} else {
		c.P &^= P_NEGATIVE
	}
}

// opINX, opINY, opDEX, opDEY step an index register by one.
func opINX(c *Chip) { c.X++; c.setFlagsNZ(c.X) }
func opINY(c *Chip) { c.Y++; c.setFlagsNZ(c.Y) }
func opDEX(c *Chip) { c.X--; c.setFlagsNZ(c.X) }
func opDEY(c *Chip) { c.Y--; c.setFlagsNZ(c.Y) }

// opTAX, opTAY, opTXA, opTYA, opTSX copy between registers and update N,Z.
func opTAX(c *Chip) { c.X = c.A; c.setFlagsNZ(c.X) }
func opTAY(c *Chip) { c.Y = c.A; c.setFlagsNZ(c.Y) }
func opTXA(c *Chip) { c.A = c.X; c.setFlagsNZ(c.A) }
func opTYA(c *Chip) { c.A = c.Y; c.setFlagsNZ(c.A) }
func opTSX(c *Chip) { c.X = c.S; c.setFlagsNZ(c.X) }

// opTXS copies X into the stack pointer without touching any flags,
// matching real 6502 behavior (the spec is silent on this but doesn't
// contradict it).
func opTXS(c *Chip) { c.S = c.X }

// opCLC, opSEC, opCLD, opSED, opCLI, opSEI, opCLV set or clear a single
// named flag. Errors from SetFlag can't occur here since the literal is
// always 0 or 1.
func opCLC(c *Chip) { _ = c.SetFlag(CarryBit, 0) }
func opSEC(c *Chip) { _ = c.SetFlag(CarryBit, 1) }
func opCLD(c *Chip) { _ = c.SetFlag(DecimalBit, 0) }
func opSED(c *Chip) { _ = c.SetFlag(DecimalBit, 1) }
func opCLI(c *Chip) { _ = c.SetFlag(InterruptBit, 0) }
func opSEI(c *Chip) { _ = c.SetFlag(InterruptBit, 1) }
func opCLV(c *Chip) { _ = c.SetFlag(OverflowBit, 0) }

// opNOP does nothing.
func opNOP(c *Chip) {}

// opPHA, opPLA push/pop the accumulator. PLA updates N,Z; PHA doesn't
// touch any flags.
func opPHA(c *Chip) { c.PushByte(c.A) }
func opPLA(c *Chip) { c.A = c.PopByte(); c.setFlagsNZ(c.A) }

// opPHP pushes the status register with Break and Unused forced to 1.
func opPHP(c *Chip) { c.PushByte(c.P | P_B | P_S1) }

// opPLP restores the status register, forcing Break back to 0 and
// Unused to 1 the same way RTI does (see restoreStatus).
func opPLP(c *Chip) { c.P = restoreStatus(c.PopByte()) }

// restoreStatus applies the shared RTI/PLP convention: the Break bit
// popped off the stack is discarded (it has no physical latch) and the
// Unused bit always reads 1.
func restoreStatus(v uint8) uint8 {
	return (v &^ P_B) | P_S1
}

// branchOp builds the PC-controlling exec function for a conditional
// branch: flagMask identifies the tested bit and want is the value that
// causes the branch to be taken. Cycle cost follows §4.4 exactly: base
// (already in the table) + 1 if taken + 1 more if taken and the target
// crosses a page.
func branchOp(flagMask uint8, want bool) func(c *Chip) int {
	return func(c *Chip) int {
		target, crossed := c.addrRelative()
		taken := (c.P&flagMask != 0) == want
		if !taken {
			return 0
		}
		c.PC = target
		extra := 1
		if crossed {
			extra++
		}
		return extra
	}
}

// jmpAbsolute sets PC to the absolute address at PC.
func jmpAbsolute(c *Chip) int {
	c.PC = c.ram.ReadWord(c.PC, false)
	return 0
}

// jmpIndirect sets PC to the word pointed to by the absolute address at
// PC, reproducing the page-wrap bug on the high-byte fetch (the
// "JMP (0x10FF)" scenario in §8).
func jmpIndirect(c *Chip) int {
	ptr := c.ram.ReadWord(c.PC, false)
	c.PC = c.ram.ReadWord(ptr, true)
	return 0
}

// jsr pushes the address of the last operand byte (PC+1, since PC at
// entry points at the low byte of the target) and jumps to the target.
func jsr(c *Chip) int {
	target := c.ram.ReadWord(c.PC, false)
	c.PushWord(c.PC + 1)
	c.PC = target
	return 0
}

// rts pops a return address and resumes one byte past it.
func rts(c *Chip) int {
	c.PC = c.PopWord() + 1
	return 0
}

// rti pops the status register (Break discarded, Unused forced to 1) and
// then PC, with no +1 adjustment.
func rti(c *Chip) int {
	c.P = restoreStatus(c.PopByte())
	c.PC = c.PopWord()
	return 0
}

// brk pushes PC+1 (skipping the conventional signature byte that follows
// the BRK opcode), pushes P with Break set, sets Interrupt-disable, and
// loads PC from the IRQ/BRK vector.
func brk(c *Chip) int {
	c.PushWord(c.PC + 1)
	c.PushByte(c.P | P_B | P_S1)
	_ = c.SetFlag(InterruptBit, 1)
	c.PC = c.ram.ReadWord(IRQ_VECTOR, false)
	return 0
}
