package cpu

// operandKind tags what an addressing mode resolved to: nothing (implied),
// the accumulator register, or a memory address. This is the tagged value
// the spec's "Addressing-mode writer" design note calls for, so
// read/write can be two small functions that match on the tag instead of
// each mnemonic knowing how its operand was resolved.
type operandKind int

const (
	kindImplied operandKind = iota
	kindAccumulator
	kindAddress
)

// operand is the result of resolving an addressing mode: either nothing,
// the accumulator, or an effective address.
type operand struct {
	kind operandKind
	addr uint16
}

// Read returns the byte this operand designates: A for the accumulator,
// the byte at addr for a memory address, or 0 for implied (callers that
// care about value never resolve through implied).
func (o operand) Read(c *Chip) uint8 {
	switch o.kind {
	case kindAccumulator:
		return c.A
	case kindAddress:
		return c.ram.Read(o.addr)
	default:
		return 0
	}
}

// Write stores v to wherever this operand resolved: A or the effective
// address. Implied operands silently discard the write (no mnemonic using
// implied addressing ever calls Write).
func (o operand) Write(c *Chip, v uint8) {
	switch o.kind {
	case kindAccumulator:
		c.A = v
	case kindAddress:
		c.ram.Write(o.addr, v)
	}
}

// highByte isolates the page (high byte) of an address for page-cross
// comparisons.
func highByte(addr uint16) uint16 {
	return addr & 0xFF00
}

// addrImplied resolves the implied addressing mode: no operand, no bytes
// consumed beyond the opcode itself.
func (c *Chip) addrImplied() (operand, int) {
	return operand{kind: kindImplied}, 0
}

// addrAccumulator designates the accumulator as the operand.
func (c *Chip) addrAccumulator() (operand, int) {
	return operand{kind: kindAccumulator}, 0
}

// addrImmediate resolves to the operand byte's own address (PC), so
// Read returns the literal byte following the opcode.
func (c *Chip) addrImmediate() (operand, int) {
	return operand{kind: kindAddress, addr: c.PC}, 0
}

// addrZeroPage resolves to the zero-page address named by the byte at PC.
func (c *Chip) addrZeroPage() (operand, int) {
	zp := c.ram.Read(c.PC)
	return operand{kind: kindAddress, addr: uint16(zp)}, 0
}

// addrZeroPageX resolves to (zero-page + X) & 0xFF, staying in page zero.
func (c *Chip) addrZeroPageX() (operand, int) {
	zp := c.ram.Read(c.PC)
	return operand{kind: kindAddress, addr: uint16(zp + c.X)}, 0
}

// addrZeroPageY resolves to (zero-page + Y) & 0xFF, staying in page zero.
func (c *Chip) addrZeroPageY() (operand, int) {
	zp := c.ram.Read(c.PC)
	return operand{kind: kindAddress, addr: uint16(zp + c.Y)}, 0
}

// addrAbsolute resolves to the little-endian word at PC.
func (c *Chip) addrAbsolute() (operand, int) {
	addr := c.ram.ReadWord(c.PC, false)
	return operand{kind: kindAddress, addr: addr}, 0
}

// addrAbsoluteX resolves to absolute+X, adding a cycle when the result
// crosses a page boundary from the unindexed absolute address.
func (c *Chip) addrAbsoluteX() (operand, int) {
	return c.addrAbsoluteIndexed(c.X)
}

// addrAbsoluteY resolves to absolute+Y, adding a cycle when the result
// crosses a page boundary from the unindexed absolute address.
func (c *Chip) addrAbsoluteY() (operand, int) {
	return c.addrAbsoluteIndexed(c.Y)
}

// addrAbsoluteIndexed implements the shared arithmetic for addrAbsoluteX
// and addrAbsoluteY, which differ only in which index register is used.
func (c *Chip) addrAbsoluteIndexed(reg uint8) (operand, int) {
	base := c.ram.ReadWord(c.PC, false)
	addr := base + uint16(reg)
	extra := 0
	if highByte(addr) != highByte(base) {
		extra = 1
	}
	return operand{kind: kindAddress, addr: addr}, extra
}

// addrIndirect resolves to the word stored at the absolute address given
// at PC, with the classic 6502 page-wrap bug on the high-byte fetch. Only
// JMP uses this mode.
func (c *Chip) addrIndirect() (operand, int) {
	ptr := c.ram.ReadWord(c.PC, false)
	addr := c.ram.ReadWord(ptr, true)
	return operand{kind: kindAddress, addr: addr}, 0
}

// addrIndirectX resolves (indirect,X): the word stored at
// (zero-page + X) & 0xFF, page-wrapped.
func (c *Chip) addrIndirectX() (operand, int) {
	zp := c.ram.Read(c.PC)
	ptr := uint16(zp + c.X)
	addr := c.ram.ReadWord(ptr, true)
	return operand{kind: kindAddress, addr: addr}, 0
}

// addrIndirectY resolves (indirect),Y: base = word at zero-page
// (page-wrapped), result = base+Y, with a page-cross cycle penalty
// measured against base.
func (c *Chip) addrIndirectY() (operand, int) {
	zp := c.ram.Read(c.PC)
	base := c.ram.ReadWord(uint16(zp), true)
	addr := base + uint16(c.Y)
	extra := 0
	if highByte(addr) != highByte(base) {
		extra = 1
	}
	return operand{kind: kindAddress, addr: addr}, extra
}

// addrRelative consumes the signed offset byte at PC (advancing PC past
// it) and returns the branch target along with whether it crosses a page
// boundary from the post-consumption PC. It does not apply any cycle
// penalty itself: per SPEC_FULL.md §13.7 the "+1 if taken"/"+1 if taken
// and crossed" costs belong to the branch mnemonic, which only pays them
// when the branch is actually taken.
func (c *Chip) addrRelative() (target uint16, crossed bool) {
	offset := c.ram.Read(c.PC)
	c.PC++
	pc := c.PC
	if offset&0x80 != 0 {
		target = pc - (uint16(offset^0xFF) + 1)
	} else {
		target = pc + uint16(offset)
	}
	crossed = highByte(target) != highByte(pc)
	return target, crossed
}
