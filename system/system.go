// Package system wires a cpu.Chip to a memory.Bank and exposes the
// host-facing operations a front end drives a 6502 through: reset,
// image load/save, raw memory access, and single-step execution.
package system

import (
	"github.com/jmchacon/go6502core/cpu"
	"github.com/jmchacon/go6502core/irq"
	"github.com/jmchacon/go6502core/memory"
)

// Machine pairs a CPU with its memory bank and is the unit a host
// creates, resets, steps, and snapshots.
type Machine struct {
	Chip *cpu.Chip
	Ram  memory.Bank
}

// New builds a Machine with a fresh flat 64k Ram and an optional pair of
// external interrupt sources, then powers it on.
func New(irqSrc, nmiSrc irq.Sender) (*Machine, error) {
	ram := memory.New()
	c, err := cpu.Init(&cpu.ChipDef{Ram: ram, Irq: irqSrc, Nmi: nmiSrc})
	if err != nil {
		return nil, err
	}
	return &Machine{Chip: c, Ram: ram}, nil
}

// Reset reinitializes the CPU and RAM to their documented defaults.
func (m *Machine) Reset() {
	m.Chip.Reset()
}

// Image is the snapshot pair returned by SaveImage and accepted by
// LoadImage: a full copy of CPU register state and the entire 64k
// address space. There is no mandated on-disk format (§6); callers
// that need persistence serialize this struct however they see fit.
type Image struct {
	A, X, Y, S, P uint8
	PC            uint16
	CC            uint64
	Ram           [65536]uint8
}

// SaveImage returns a snapshot of the current CPU and RAM state.
func (m *Machine) SaveImage() (Image, error) {
	var img Image
	img.A, img.X, img.Y = m.Chip.A, m.Chip.X, m.Chip.Y
	img.S, img.P, img.PC, img.CC = m.Chip.S, m.Chip.P, m.Chip.PC, m.Chip.CC
	bytes, err := readAll(m.Ram)
	if err != nil {
		return Image{}, err
	}
	copy(img.Ram[:], bytes)
	return img, nil
}

// LoadImage installs a previously saved snapshot's CPU registers and RAM
// contents into this Machine.
func (m *Machine) LoadImage(img Image) error {
	m.Chip.A, m.Chip.X, m.Chip.Y = img.A, img.X, img.Y
	m.Chip.S, m.Chip.P, m.Chip.PC, m.Chip.CC = img.S, img.P, img.PC, img.CC
	return writeAll(m.Ram, img.Ram[:])
}

// readAll copies the full address space out of a memory.Bank, using
// ReadRange when the bank supports it (the default Ram does) and falling
// back to a byte-by-byte Read for any other Bank implementation.
func readAll(b memory.Bank) ([]uint8, error) {
	if rr, ok := b.(interface {
		ReadRange(start, end int) ([]uint8, error)
	}); ok {
		return rr.ReadRange(0, 65536)
	}
	out := make([]uint8, 65536)
	for i := range out {
		out[i] = b.Read(uint16(i))
	}
	return out, nil
}

// writeAll installs bytes across the full address space of a memory.Bank,
// using WriteRange when available and falling back to Write otherwise.
func writeAll(b memory.Bank, bytes []uint8) error {
	if wr, ok := b.(interface {
		WriteRange(start int, bytes []uint8) error
	}); ok {
		return wr.WriteRange(0, bytes)
	}
	for i, v := range bytes {
		b.Write(uint16(i), v)
	}
	return nil
}

// ReadByte, WriteByte, ReadWord, WriteWord, ReadRange, and WriteRange are
// thin passthroughs to the wired memory bank (§6's memory accessors).
func (m *Machine) ReadByte(addr uint16) uint8         { return m.Ram.Read(addr) }
func (m *Machine) WriteByte(addr uint16, v uint8)     { m.Ram.Write(addr, v) }
func (m *Machine) ReadWord(addr uint16) uint16        { return m.Ram.ReadWord(addr, false) }
func (m *Machine) WriteWord(addr uint16, v uint16)    { m.Ram.WriteWord(addr, v) }

// ReadRange and WriteRange use the wired Bank's own ranged access when it
// has one (the default flat Ram does). Otherwise ReadRange slices the full
// copy returned by readAll and WriteRange writes byte by byte via Write.
func (m *Machine) ReadRange(start, end int) ([]uint8, error) {
	if rr, ok := m.Ram.(interface {
		ReadRange(start, end int) ([]uint8, error)
	}); ok {
		return rr.ReadRange(start, end)
	}
	all, err := readAll(m.Ram)
	if err != nil {
		return nil, err
	}
	return all[start:end], nil
}

func (m *Machine) WriteRange(start int, bytes []uint8) error {
	if wr, ok := m.Ram.(interface {
		WriteRange(start int, bytes []uint8) error
	}); ok {
		return wr.WriteRange(start, bytes)
	}
	for i, v := range bytes {
		m.Ram.Write(uint16(start+i), v)
	}
	return nil
}

// Step executes exactly one instruction (or interrupt-service sequence)
// and returns the cycles it consumed.
func (m *Machine) Step() (int, string, error) {
	return m.Chip.Step()
}
