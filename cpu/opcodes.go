package cpu

import "sync"

// addrFunc is the signature shared by every addressing mode that resolves
// to an operand (everything except relative, which branchOp drives
// directly since it also owns PC and the taken/cross cycle cost).
type addrFunc func(c *Chip) (operand, int)

// opcodeEntry is one slot of the 256-entry opcode table: the mnemonic
// name, total instruction length in bytes (including the opcode byte),
// base cycle cost, whether the mnemonic manages PC itself, and the bound
// exec function the driver invokes.
type opcodeEntry struct {
	mnemonic   string
	bytes      uint8
	cycles     uint8
	controlsPC bool
	exec       func(c *Chip) int // returns cycles beyond the table's base cost
}

var (
	opcodeTable [256]*opcodeEntry
	tableOnce   sync.Once
)

// ensureTable lazily builds the process-wide opcode table on first use.
// The table is immutable once built and may be shared across any number
// of Chip/Ram instances (§5).
func ensureTable() {
	tableOnce.Do(buildOpcodeTable)
}

// reg registers a non-PC-controlling opcode.
func reg(op uint8, mnemonic string, bytes, cycles uint8, exec func(c *Chip) int) {
	opcodeTable[op] = &opcodeEntry{mnemonic: mnemonic, bytes: bytes, cycles: cycles, exec: exec}
}

// regPC registers a PC-controlling opcode (branches, JMP, JSR, RTS, RTI,
// BRK): the driver never applies its own generic "advance PC by
// bytes-1" step for these since the mnemonic fully manages PC.
func regPC(op uint8, mnemonic string, bytes, cycles uint8, exec func(c *Chip) int) {
	opcodeTable[op] = &opcodeEntry{mnemonic: mnemonic, bytes: bytes, cycles: cycles, controlsPC: true, exec: exec}
}

// loadOp binds an addressing mode to a value-consuming mnemonic (LDA,
// ADC, AND, CMP, BIT, ...): resolve the operand, read its value, and
// invoke op. Returns whatever page-cross cycles the addressing mode
// reports.
func loadOp(addr addrFunc, op func(c *Chip, val uint8)) func(c *Chip) int {
	return func(c *Chip) int {
		o, extra := addr(c)
		op(c, o.Read(c))
		return extra
	}
}

// rmwOp binds an addressing mode to a read-modify-write mnemonic (ASL,
// LSR, ROL, ROR, INC, DEC): resolve the operand, read its value, compute
// the new value, and write it back to the same place (accumulator or
// memory, whichever the addressing mode resolved to).
func rmwOp(addr addrFunc, op func(c *Chip, val uint8) uint8) func(c *Chip) int {
	return func(c *Chip) int {
		o, extra := addr(c)
		o.Write(c, op(c, o.Read(c)))
		return extra
	}
}

// storeOp binds an addressing mode to a store mnemonic (STA, STX, STY):
// resolve the operand and write get's value to it.
func storeOp(addr addrFunc, get func(c *Chip) uint8) func(c *Chip) int {
	return func(c *Chip) int {
		o, extra := addr(c)
		o.Write(c, get(c))
		return extra
	}
}

// impliedOp wraps a no-operand mnemonic (INX, CLC, PHA, ...) so it fits
// the table's uniform exec signature. These never report extra cycles.
func impliedOp(op func(c *Chip)) func(c *Chip) int {
	return func(c *Chip) int {
		op(c)
		return 0
	}
}

// buildOpcodeTable populates every documented NMOS 6502 opcode. Unofficial
// opcodes (0x02, 0x12, 0x22, ...) are deliberately left nil: per §9/§13.5
// they surface as UnknownOpcodeError rather than emulating undocumented
// behavior.
//
// Opcode/cycle/byte-length data matches the well known NMOS 6502
// instruction reference (e.g. http://obelisk.me.uk/6502/reference.html);
// see SPEC_FULL.md §11/§13.1 for why LDX/LDY/STX/STY are present even
// though the distilled mnemonic list in §4.4 omits them.
func buildOpcodeTable() {
	// LDA
	reg(0xA9, "LDA", 2, 2, loadOp((*Chip).addrImmediate, opLDA))
	reg(0xA5, "LDA", 2, 3, loadOp((*Chip).addrZeroPage, opLDA))
	reg(0xB5, "LDA", 2, 4, loadOp((*Chip).addrZeroPageX, opLDA))
	reg(0xAD, "LDA", 3, 4, loadOp((*Chip).addrAbsolute, opLDA))
	reg(0xBD, "LDA", 3, 4, loadOp((*Chip).addrAbsoluteX, opLDA))
	reg(0xB9, "LDA", 3, 4, loadOp((*Chip).addrAbsoluteY, opLDA))
	reg(0xA1, "LDA", 2, 6, loadOp((*Chip).addrIndirectX, opLDA))
	reg(0xB1, "LDA", 2, 5, loadOp((*Chip).addrIndirectY, opLDA))

	// LDX (supplemented, §13.1)
	reg(0xA2, "LDX", 2, 2, loadOp((*Chip).addrImmediate, opLDX))
	reg(0xA6, "LDX", 2, 3, loadOp((*Chip).addrZeroPage, opLDX))
	reg(0xB6, "LDX", 2, 4, loadOp((*Chip).addrZeroPageY, opLDX))
	reg(0xAE, "LDX", 3, 4, loadOp((*Chip).addrAbsolute, opLDX))
	reg(0xBE, "LDX", 3, 4, loadOp((*Chip).addrAbsoluteY, opLDX))

	// LDY (supplemented, §13.1)
	reg(0xA0, "LDY", 2, 2, loadOp((*Chip).addrImmediate, opLDY))
	reg(0xA4, "LDY", 2, 3, loadOp((*Chip).addrZeroPage, opLDY))
	reg(0xB4, "LDY", 2, 4, loadOp((*Chip).addrZeroPageX, opLDY))
	reg(0xAC, "LDY", 3, 4, loadOp((*Chip).addrAbsolute, opLDY))
	reg(0xBC, "LDY", 3, 4, loadOp((*Chip).addrAbsoluteX, opLDY))

	// STA
	reg(0x85, "STA", 2, 3, storeOp((*Chip).addrZeroPage, getA))
	reg(0x95, "STA", 2, 4, storeOp((*Chip).addrZeroPageX, getA))
	reg(0x8D, "STA", 3, 4, storeOp((*Chip).addrAbsolute, getA))
	reg(0x9D, "STA", 3, 5, storeOp((*Chip).addrAbsoluteX, getA))
	reg(0x99, "STA", 3, 5, storeOp((*Chip).addrAbsoluteY, getA))
	reg(0x81, "STA", 2, 6, storeOp((*Chip).addrIndirectX, getA))
	reg(0x91, "STA", 2, 6, storeOp((*Chip).addrIndirectY, getA))

	// STX (supplemented, §13.1)
	reg(0x86, "STX", 2, 3, storeOp((*Chip).addrZeroPage, getX))
	reg(0x96, "STX", 2, 4, storeOp((*Chip).addrZeroPageY, getX))
	reg(0x8E, "STX", 3, 4, storeOp((*Chip).addrAbsolute, getX))

	// STY (supplemented, §13.1)
	reg(0x84, "STY", 2, 3, storeOp((*Chip).addrZeroPage, getY))
	reg(0x94, "STY", 2, 4, storeOp((*Chip).addrZeroPageX, getY))
	reg(0x8C, "STY", 3, 4, storeOp((*Chip).addrAbsolute, getY))

	// ADC
	reg(0x69, "ADC", 2, 2, loadOp((*Chip).addrImmediate, opADC))
	reg(0x65, "ADC", 2, 3, loadOp((*Chip).addrZeroPage, opADC))
	reg(0x75, "ADC", 2, 4, loadOp((*Chip).addrZeroPageX, opADC))
	reg(0x6D, "ADC", 3, 4, loadOp((*Chip).addrAbsolute, opADC))
	reg(0x7D, "ADC", 3, 4, loadOp((*Chip).addrAbsoluteX, opADC))
	reg(0x79, "ADC", 3, 4, loadOp((*Chip).addrAbsoluteY, opADC))
	reg(0x61, "ADC", 2, 6, loadOp((*Chip).addrIndirectX, opADC))
	reg(0x71, "ADC", 2, 5, loadOp((*Chip).addrIndirectY, opADC))

	// SBC
	reg(0xE9, "SBC", 2, 2, loadOp((*Chip).addrImmediate, opSBC))
	reg(0xE5, "SBC", 2, 3, loadOp((*Chip).addrZeroPage, opSBC))
	reg(0xF5, "SBC", 2, 4, loadOp((*Chip).addrZeroPageX, opSBC))
	reg(0xED, "SBC", 3, 4, loadOp((*Chip).addrAbsolute, opSBC))
	reg(0xFD, "SBC", 3, 4, loadOp((*Chip).addrAbsoluteX, opSBC))
	reg(0xF9, "SBC", 3, 4, loadOp((*Chip).addrAbsoluteY, opSBC))
	reg(0xE1, "SBC", 2, 6, loadOp((*Chip).addrIndirectX, opSBC))
	reg(0xF1, "SBC", 2, 5, loadOp((*Chip).addrIndirectY, opSBC))

	// AND
	reg(0x29, "AND", 2, 2, loadOp((*Chip).addrImmediate, opAND))
	reg(0x25, "AND", 2, 3, loadOp((*Chip).addrZeroPage, opAND))
	reg(0x35, "AND", 2, 4, loadOp((*Chip).addrZeroPageX, opAND))
	reg(0x2D, "AND", 3, 4, loadOp((*Chip).addrAbsolute, opAND))
	reg(0x3D, "AND", 3, 4, loadOp((*Chip).addrAbsoluteX, opAND))
	reg(0x39, "AND", 3, 4, loadOp((*Chip).addrAbsoluteY, opAND))
	reg(0x21, "AND", 2, 6, loadOp((*Chip).addrIndirectX, opAND))
	reg(0x31, "AND", 2, 5, loadOp((*Chip).addrIndirectY, opAND))

	// ORA
	reg(0x09, "ORA", 2, 2, loadOp((*Chip).addrImmediate, opORA))
	reg(0x05, "ORA", 2, 3, loadOp((*Chip).addrZeroPage, opORA))
	reg(0x15, "ORA", 2, 4, loadOp((*Chip).addrZeroPageX, opORA))
	reg(0x0D, "ORA", 3, 4, loadOp((*Chip).addrAbsolute, opORA))
	reg(0x1D, "ORA", 3, 4, loadOp((*Chip).addrAbsoluteX, opORA))
	reg(0x19, "ORA", 3, 4, loadOp((*Chip).addrAbsoluteY, opORA))
	reg(0x01, "ORA", 2, 6, loadOp((*Chip).addrIndirectX, opORA))
	reg(0x11, "ORA", 2, 5, loadOp((*Chip).addrIndirectY, opORA))

	// EOR
	reg(0x49, "EOR", 2, 2, loadOp((*Chip).addrImmediate, opEOR))
	reg(0x45, "EOR", 2, 3, loadOp((*Chip).addrZeroPage, opEOR))
	reg(0x55, "EOR", 2, 4, loadOp((*Chip).addrZeroPageX, opEOR))
	reg(0x4D, "EOR", 3, 4, loadOp((*Chip).addrAbsolute, opEOR))
	reg(0x5D, "EOR", 3, 4, loadOp((*Chip).addrAbsoluteX, opEOR))
	reg(0x59, "EOR", 3, 4, loadOp((*Chip).addrAbsoluteY, opEOR))
	reg(0x41, "EOR", 2, 6, loadOp((*Chip).addrIndirectX, opEOR))
	reg(0x51, "EOR", 2, 5, loadOp((*Chip).addrIndirectY, opEOR))

	// ASL
	reg(0x0A, "ASL", 1, 2, rmwOp((*Chip).addrAccumulator, opASL))
	reg(0x06, "ASL", 2, 5, rmwOp((*Chip).addrZeroPage, opASL))
	reg(0x16, "ASL", 2, 6, rmwOp((*Chip).addrZeroPageX, opASL))
	reg(0x0E, "ASL", 3, 6, rmwOp((*Chip).addrAbsolute, opASL))
	reg(0x1E, "ASL", 3, 7, rmwOp((*Chip).addrAbsoluteX, opASL))

	// LSR
	reg(0x4A, "LSR", 1, 2, rmwOp((*Chip).addrAccumulator, opLSR))
	reg(0x46, "LSR", 2, 5, rmwOp((*Chip).addrZeroPage, opLSR))
	reg(0x56, "LSR", 2, 6, rmwOp((*Chip).addrZeroPageX, opLSR))
	reg(0x4E, "LSR", 3, 6, rmwOp((*Chip).addrAbsolute, opLSR))
	reg(0x5E, "LSR", 3, 7, rmwOp((*Chip).addrAbsoluteX, opLSR))

	// ROL
	reg(0x2A, "ROL", 1, 2, rmwOp((*Chip).addrAccumulator, opROL))
	reg(0x26, "ROL", 2, 5, rmwOp((*Chip).addrZeroPage, opROL))
	reg(0x36, "ROL", 2, 6, rmwOp((*Chip).addrZeroPageX, opROL))
	reg(0x2E, "ROL", 3, 6, rmwOp((*Chip).addrAbsolute, opROL))
	reg(0x3E, "ROL", 3, 7, rmwOp((*Chip).addrAbsoluteX, opROL))

	// ROR
	reg(0x6A, "ROR", 1, 2, rmwOp((*Chip).addrAccumulator, opROR))
	reg(0x66, "ROR", 2, 5, rmwOp((*Chip).addrZeroPage, opROR))
	reg(0x76, "ROR", 2, 6, rmwOp((*Chip).addrZeroPageX, opROR))
	reg(0x6E, "ROR", 3, 6, rmwOp((*Chip).addrAbsolute, opROR))
	reg(0x7E, "ROR", 3, 7, rmwOp((*Chip).addrAbsoluteX, opROR))

	// INC/DEC
	reg(0xE6, "INC", 2, 5, rmwOp((*Chip).addrZeroPage, opINC))
	reg(0xF6, "INC", 2, 6, rmwOp((*Chip).addrZeroPageX, opINC))
	reg(0xEE, "INC", 3, 6, rmwOp((*Chip).addrAbsolute, opINC))
	reg(0xFE, "INC", 3, 7, rmwOp((*Chip).addrAbsoluteX, opINC))
	reg(0xC6, "DEC", 2, 5, rmwOp((*Chip).addrZeroPage, opDEC))
	reg(0xD6, "DEC", 2, 6, rmwOp((*Chip).addrZeroPageX, opDEC))
	reg(0xCE, "DEC", 3, 6, rmwOp((*Chip).addrAbsolute, opDEC))
	reg(0xDE, "DEC", 3, 7, rmwOp((*Chip).addrAbsoluteX, opDEC))

	// Register increment/decrement, transfer, implied single-byte ops.
	reg(0xE8, "INX", 1, 2, impliedOp(opINX))
	reg(0xC8, "INY", 1, 2, impliedOp(opINY))
	reg(0xCA, "DEX", 1, 2, impliedOp(opDEX))
	reg(0x88, "DEY", 1, 2, impliedOp(opDEY))
	reg(0xAA, "TAX", 1, 2, impliedOp(opTAX))
	reg(0xA8, "TAY", 1, 2, impliedOp(opTAY))
	reg(0x8A, "TXA", 1, 2, impliedOp(opTXA))
	reg(0x98, "TYA", 1, 2, impliedOp(opTYA))
	reg(0xBA, "TSX", 1, 2, impliedOp(opTSX))
	reg(0x9A, "TXS", 1, 2, impliedOp(opTXS))
	reg(0x18, "CLC", 1, 2, impliedOp(opCLC))
	reg(0x38, "SEC", 1, 2, impliedOp(opSEC))
	reg(0xD8, "CLD", 1, 2, impliedOp(opCLD))
	reg(0xF8, "SED", 1, 2, impliedOp(opSED))
	reg(0x58, "CLI", 1, 2, impliedOp(opCLI))
	reg(0x78, "SEI", 1, 2, impliedOp(opSEI))
	reg(0xB8, "CLV", 1, 2, impliedOp(opCLV))
	reg(0xEA, "NOP", 1, 2, impliedOp(opNOP))
	reg(0x48, "PHA", 1, 3, impliedOp(opPHA))
	reg(0x68, "PLA", 1, 4, impliedOp(opPLA))
	reg(0x08, "PHP", 1, 3, impliedOp(opPHP))
	reg(0x28, "PLP", 1, 4, impliedOp(opPLP))

	// BIT
	reg(0x24, "BIT", 2, 3, loadOp((*Chip).addrZeroPage, opBIT))
	reg(0x2C, "BIT", 3, 4, loadOp((*Chip).addrAbsolute, opBIT))

	// CMP
	reg(0xC9, "CMP", 2, 2, loadOp((*Chip).addrImmediate, opCMP))
	reg(0xC5, "CMP", 2, 3, loadOp((*Chip).addrZeroPage, opCMP))
	reg(0xD5, "CMP", 2, 4, loadOp((*Chip).addrZeroPageX, opCMP))
	reg(0xCD, "CMP", 3, 4, loadOp((*Chip).addrAbsolute, opCMP))
	reg(0xDD, "CMP", 3, 4, loadOp((*Chip).addrAbsoluteX, opCMP))
	reg(0xD9, "CMP", 3, 4, loadOp((*Chip).addrAbsoluteY, opCMP))
	reg(0xC1, "CMP", 2, 6, loadOp((*Chip).addrIndirectX, opCMP))
	reg(0xD1, "CMP", 2, 5, loadOp((*Chip).addrIndirectY, opCMP))

	// CPX/CPY
	reg(0xE0, "CPX", 2, 2, loadOp((*Chip).addrImmediate, opCPX))
	reg(0xE4, "CPX", 2, 3, loadOp((*Chip).addrZeroPage, opCPX))
	reg(0xEC, "CPX", 3, 4, loadOp((*Chip).addrAbsolute, opCPX))
	reg(0xC0, "CPY", 2, 2, loadOp((*Chip).addrImmediate, opCPY))
	reg(0xC4, "CPY", 2, 3, loadOp((*Chip).addrZeroPage, opCPY))
	reg(0xCC, "CPY", 3, 4, loadOp((*Chip).addrAbsolute, opCPY))

	// Branches. Base cycle cost is 2; branchOp adds +1 taken / +1 crossed.
	// Registered via regPC since addrRelative/branchOp fully manage PC
	// themselves (consuming the offset byte and, if taken, jumping to the
	// target) — the driver must not also apply its generic "PC += bytes-1".
	regPC(0x90, "BCC", 2, 2, branchOp(P_CARRY, false))
	regPC(0xB0, "BCS", 2, 2, branchOp(P_CARRY, true))
	regPC(0xF0, "BEQ", 2, 2, branchOp(P_ZERO, true))
	regPC(0xD0, "BNE", 2, 2, branchOp(P_ZERO, false))
	regPC(0x30, "BMI", 2, 2, branchOp(P_NEGATIVE, true))
	regPC(0x10, "BPL", 2, 2, branchOp(P_NEGATIVE, false))
	regPC(0x50, "BVC", 2, 2, branchOp(P_OVERFLOW, false))
	regPC(0x70, "BVS", 2, 2, branchOp(P_OVERFLOW, true))

	// PC-controlling: JMP/JSR/RTS/RTI/BRK.
	regPC(0x4C, "JMP", 3, 3, jmpAbsolute)
	regPC(0x6C, "JMP", 3, 5, jmpIndirect)
	regPC(0x20, "JSR", 3, 6, jsr)
	regPC(0x60, "RTS", 1, 6, rts)
	regPC(0x40, "RTI", 1, 6, rti)
	regPC(0x00, "BRK", 2, 7, brk)
}
