// Package memory defines the basic interfaces for working with a 6502
// family memory map along with the flat 64k RAM implementation the core
// CPU uses by default.
package memory

import (
	"github.com/pkg/errors"
)

// addrSpace is the size of the entire 6502 address space.
const addrSpace = 1 << 16

// Bank defines the interface a 6502 implementation uses to access memory.
// A single flat Bank covers the whole 64k address space for this core;
// hosts needing memory-mapped peripherals provide their own Bank.
type Bank interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with the new value.
	Write(addr uint16, val uint8)
	// PowerOn resets the bank to its power-on state (zero-filled).
	PowerOn()
	// ReadWord returns the little-endian word at addr, addr+1 (or,
	// with wrapPage, addr, (addr&0xFF00)|((addr+1)&0xFF) to reproduce
	// the indirect-addressing page-wrap bug).
	ReadWord(addr uint16, wrapPage bool) uint16
	// WriteWord stores v little-endian at addr, addr+1. Never wraps pages.
	WriteWord(addr uint16, v uint16)
}

// Ram implements Bank as a flat, contiguous 65,536 byte address space.
// Every address is valid by construction; reads and writes never fail.
type Ram struct {
	ram [addrSpace]uint8
}

// New returns a freshly zeroed Ram covering the full 64k address space.
func New() *Ram {
	r := &Ram{}
	r.PowerOn()
	return r
}

// Read implements Bank.
func (r *Ram) Read(addr uint16) uint8 {
	return r.ram[addr]
}

// Write implements Bank.
func (r *Ram) Write(addr uint16, val uint8) {
	r.ram[addr] = val
}

// PowerOn implements Bank. Unlike real hardware's undefined power-up state,
// this zero-fills the array so emulation runs are deterministic by default;
// a host wanting randomized contents can overwrite via WriteRange.
func (r *Ram) PowerOn() {
	for i := range r.ram {
		r.ram[i] = 0
	}
}

// ReadWord returns the little-endian 16 bit value starting at addr. When
// wrapPage is true the high byte is fetched from (addr & 0xFF00)|((addr+1)&0xFF)
// instead of addr+1, reproducing the 6502's indirect-addressing page-wrap bug.
func (r *Ram) ReadWord(addr uint16, wrapPage bool) uint16 {
	lo := r.Read(addr)
	hiAddr := addr + 1
	if wrapPage {
		hiAddr = (addr & 0xFF00) | ((addr + 1) & 0xFF)
	}
	hi := r.Read(hiAddr)
	return uint16(lo) | uint16(hi)<<8
}

// WriteWord stores v as a little-endian 16 bit value at addr, addr+1. This
// writer never wraps pages.
func (r *Ram) WriteWord(addr uint16, v uint16) {
	r.Write(addr, uint8(v&0xFF))
	r.Write(addr+1, uint8(v>>8))
}

// errOutOfRange is the sentinel wrapped (with call-site context) by
// ReadRange/WriteRange when a caller's bounds fall outside the address space.
var errOutOfRange = errors.New("address range out of bounds")

// ReadRange returns a copy of the bytes in [start, end). It refuses to read
// past the end of the address space.
func (r *Ram) ReadRange(start, end int) ([]uint8, error) {
	if start < 0 || end > addrSpace || start > end {
		return nil, errors.Wrapf(errOutOfRange, "ReadRange(%d, %d)", start, end)
	}
	out := make([]uint8, end-start)
	copy(out, r.ram[start:end])
	return out, nil
}

// WriteRange copies bytes into memory starting at start. It refuses to
// write past the end of the address space.
func (r *Ram) WriteRange(start int, bytes []uint8) error {
	if start < 0 || start+len(bytes) > addrSpace {
		return errors.Wrapf(errOutOfRange, "WriteRange(%d, len=%d)", start, len(bytes))
	}
	copy(r.ram[start:], bytes)
	return nil
}
