package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/jmchacon/go6502core/memory"
)

// setup returns a freshly powered-on Chip wired to a real flat Ram, which
// is simple enough that the production memory.Ram doubles as its own
// test double (mirrors using a real teacher type instead of a mock).
func setup(t *testing.T) *Chip {
	t.Helper()
	c, err := Init(&ChipDef{Ram: memory.New()})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return c
}

// load copies bytes into RAM starting at addr and points PC at addr.
func load(c *Chip, addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		c.ram.Write(addr+uint16(i), b)
	}
	c.PC = addr
}

func TestPowerOnDefaults(t *testing.T) {
	c := setup(t)
	if c.PC != RESET_VECTOR {
		t.Errorf("PC: got 0x%.4X want 0x%.4X", c.PC, RESET_VECTOR)
	}
	if c.S != 0xFF {
		t.Errorf("S: got 0x%.2X want 0xFF", c.S)
	}
	if got, want := c.P, P_B|P_S1; got != want {
		t.Errorf("P: got 0x%.2X want 0x%.2X\n%s", got, want, spew.Sdump(c))
	}
	if c.A != 0 || c.X != 0 || c.Y != 0 {
		t.Errorf("A/X/Y not zeroed: %s", spew.Sdump(c))
	}
	if c.CC != 0 {
		t.Errorf("CC: got %d want 0", c.CC)
	}
}

func TestSetFlagInvalid(t *testing.T) {
	c := setup(t)
	if err := c.SetFlag(CarryBit, 2); err == nil {
		t.Fatalf("SetFlag(CarryBit, 2) returned nil error")
	}
	if _, ok := interface{}(StatusBitError{}).(error); !ok {
		t.Fatalf("StatusBitError does not implement error")
	}
}

func TestUnusedBitAlwaysSet(t *testing.T) {
	c := setup(t)
	if err := c.SetFlag(UnusedBit, 0); err != nil {
		t.Fatalf("SetFlag(UnusedBit, 0): %v", err)
	}
	if c.GetFlag(UnusedBit) != 1 {
		t.Errorf("Unused bit cleared: %s", spew.Sdump(c))
	}
}

func TestLDAImmediateFlags(t *testing.T) {
	tests := []struct {
		name      string
		val       uint8
		wantZero  bool
		wantNeg   bool
	}{
		{"zero", 0x00, true, false},
		{"positive", 0x42, false, false},
		{"negative", 0x80, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := setup(t)
			load(c, 0x0200, 0xA9, tc.val) // LDA #val
			cycles, mnemonic, err := c.Step()
			if err != nil {
				t.Fatalf("Step: %v", err)
			}
			if mnemonic != "LDA" {
				t.Errorf("mnemonic: got %q want LDA", mnemonic)
			}
			if cycles != 2 {
				t.Errorf("cycles: got %d want 2", cycles)
			}
			if c.A != tc.val {
				t.Errorf("A: got 0x%.2X want 0x%.2X", c.A, tc.val)
			}
			if c.Zero() != tc.wantZero {
				t.Errorf("Zero: got %v want %v\n%s", c.Zero(), tc.wantZero, spew.Sdump(c))
			}
			if c.Negative() != tc.wantNeg {
				t.Errorf("Negative: got %v want %v\n%s", c.Negative(), tc.wantNeg, spew.Sdump(c))
			}
			if c.PC != 0x0202 {
				t.Errorf("PC: got 0x%.4X want 0x0202", c.PC)
			}
		})
	}
}

func TestADCOverflow(t *testing.T) {
	// 0x50 + 0x50 with no carry in produces a signed overflow (0xA0, N set)
	// and must set the Overflow flag without setting Carry.
	c := setup(t)
	c.A = 0x50
	load(c, 0x0300, 0x69, 0x50) // ADC #0x50
	if _, _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0xA0 {
		t.Errorf("A: got 0x%.2X want 0xA0", c.A)
	}
	if !c.Overflow() {
		t.Errorf("Overflow not set: %s", spew.Sdump(c))
	}
	if c.Carry() {
		t.Errorf("Carry unexpectedly set: %s", spew.Sdump(c))
	}
	if !c.Negative() {
		t.Errorf("Negative not set: %s", spew.Sdump(c))
	}
}

func TestBranchTakenPageCross(t *testing.T) {
	// BEQ at 0x02FD with Zero set: after the offset byte PC is 0x02FF, and
	// a forward offset into page 3 costs base(2) + taken(1) + crossed(1) = 4 cycles.
	c := setup(t)
	_ = c.SetFlag(ZeroBit, 1)
	load(c, 0x02FD, 0xF0, 0x11) // BEQ +0x11 -> target 0x0310, crosses from page 0x02
	cycles, mnemonic, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if mnemonic != "BEQ" {
		t.Errorf("mnemonic: got %q want BEQ", mnemonic)
	}
	if cycles != 4 {
		t.Errorf("cycles: got %d want 4", cycles)
	}
	if c.PC != 0x0310 {
		t.Errorf("PC: got 0x%.4X want 0x0310", c.PC)
	}
}

func TestBranchNotTaken(t *testing.T) {
	c := setup(t)
	_ = c.SetFlag(ZeroBit, 0)
	load(c, 0x0400, 0xF0, 0x10) // BEQ, Zero clear: not taken
	cycles, _, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 2 {
		t.Errorf("cycles: got %d want 2", cycles)
	}
	if c.PC != 0x0402 {
		t.Errorf("PC: got 0x%.4X want 0x0402", c.PC)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c := setup(t)
	load(c, 0x0500, 0x20, 0x00, 0x06) // JSR 0x0600
	c.ram.Write(0x0600, 0x60)         // RTS
	if _, mnemonic, err := c.Step(); err != nil || mnemonic != "JSR" {
		t.Fatalf("JSR step: mnemonic=%q err=%v", mnemonic, err)
	}
	if c.PC != 0x0600 {
		t.Fatalf("PC after JSR: got 0x%.4X want 0x0600", c.PC)
	}
	if got, want := c.S, uint8(0xFD); got != want {
		t.Fatalf("S after JSR: got 0x%.2X want 0x%.2X", got, want)
	}
	if _, mnemonic, err := c.Step(); err != nil || mnemonic != "RTS" {
		t.Fatalf("RTS step: mnemonic=%q err=%v", mnemonic, err)
	}
	if c.PC != 0x0503 {
		t.Fatalf("PC after RTS: got 0x%.4X want 0x0503", c.PC)
	}
	if c.S != 0xFF {
		t.Fatalf("S after RTS: got 0x%.2X want 0xFF", c.S)
	}
}

func TestIndirectYPageCross(t *testing.T) {
	c := setup(t)
	c.Y = 0x01
	c.ram.Write(0x0010, 0xFF) // zero-page pointer low byte
	c.ram.Write(0x0011, 0x02) // zero-page pointer high byte -> base 0x02FF
	c.ram.Write(0x0300, 0x42) // base+Y = 0x0300, crosses page
	load(c, 0x0600, 0xB1, 0x10) // LDA (0x10),Y
	cycles, _, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x42 {
		t.Errorf("A: got 0x%.2X want 0x42", c.A)
	}
	if cycles != 6 {
		t.Errorf("cycles: got %d want 6 (5 base + 1 page-cross)", cycles)
	}
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	// JMP ($10FF) must fetch its high byte from $1000, not $1100,
	// reproducing the classic 6502 hardware bug.
	c := setup(t)
	c.ram.Write(0x10FF, 0x34)
	c.ram.Write(0x1000, 0x12) // wrong-page byte the bug actually reads
	c.ram.Write(0x1100, 0xFF) // correct-page byte a non-buggy CPU would read
	load(c, 0x0700, 0x6C, 0xFF, 0x10) // JMP ($10FF)
	if _, _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x1234 {
		t.Errorf("PC: got 0x%.4X want 0x1234 (page-wrap bug)", c.PC)
	}
}

func TestBRKPushesStatusAndFlags(t *testing.T) {
	c := setup(t)
	c.ram.WriteWord(IRQ_VECTOR, 0x0900)
	load(c, 0x0800, 0x00, 0x00) // BRK <signature byte>
	cycles, mnemonic, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if mnemonic != "BRK" || cycles != 7 {
		t.Fatalf("mnemonic=%q cycles=%d, want BRK/7", mnemonic, cycles)
	}
	if c.PC != 0x0900 {
		t.Fatalf("PC: got 0x%.4X want 0x0900", c.PC)
	}
	if !c.Interrupt() {
		t.Fatalf("Interrupt flag not set after BRK")
	}
	// Stack order: PC high, PC low, status (S starts at 0xFF and walks
	// down), so status lands at 0x01FD and the return address spans
	// 0x01FF (high byte) / 0x01FE (low byte).
	pushedStatus := c.ram.Read(0x01FD)
	if pushedStatus&P_B == 0 {
		t.Errorf("pushed status missing Break bit: 0x%.2X", pushedStatus)
	}
	pushedPC := uint16(c.ram.Read(0x01FE)) | uint16(c.ram.Read(0x01FF))<<8
	if pushedPC != 0x0802 {
		t.Errorf("pushed return PC: got 0x%.4X want 0x0802", pushedPC)
	}
}

func TestUnknownOpcode(t *testing.T) {
	c := setup(t)
	load(c, 0x0A00, 0x02) // unofficial/undocumented opcode, never registered
	_, _, err := c.Step()
	if err == nil {
		t.Fatalf("expected UnknownOpcodeError, got nil")
	}
	if _, ok := err.(UnknownOpcodeError); !ok {
		t.Fatalf("error type: got %T want UnknownOpcodeError", err)
	}
}

// fakeSender is a trivial irq.Sender test double, matching the teacher's
// own style of a minimal bool-backed stand-in for a hardware line.
type fakeSender bool

func (f fakeSender) Raised() bool { return bool(f) }

func TestIRQServicedPushesStatusWithoutBreak(t *testing.T) {
	c, err := Init(&ChipDef{Ram: memory.New(), Irq: fakeSender(true)})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	c.ram.WriteWord(IRQ_VECTOR, 0x0900)
	load(c, 0x0800, 0xEA) // NOP; IRQ line is asserted, so Step should service it instead
	cycles, mnemonic, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if mnemonic != "IRQ" || cycles != 7 {
		t.Fatalf("mnemonic=%q cycles=%d, want IRQ/7", mnemonic, cycles)
	}
	if c.PC != 0x0900 {
		t.Fatalf("PC: got 0x%.4X want 0x0900", c.PC)
	}
	if !c.Interrupt() {
		t.Fatalf("Interrupt flag not set after servicing IRQ")
	}
	pushedStatus := c.ram.Read(0x01FD)
	if pushedStatus&P_B != 0 {
		t.Errorf("pushed status unexpectedly has Break set: 0x%.2X\n%s", pushedStatus, spew.Sdump(c))
	}
	pushedPC := uint16(c.ram.Read(0x01FE)) | uint16(c.ram.Read(0x01FF))<<8
	if pushedPC != 0x0800 {
		t.Errorf("pushed return PC: got 0x%.4X want 0x0800", pushedPC)
	}
}

func TestIRQMaskedByInterruptFlag(t *testing.T) {
	c, err := Init(&ChipDef{Ram: memory.New(), Irq: fakeSender(true)})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	_ = c.SetFlag(InterruptBit, 1)
	load(c, 0x0800, 0xEA) // NOP; IRQ asserted but masked, so it must run normally
	cycles, mnemonic, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if mnemonic != "NOP" || cycles != 2 {
		t.Fatalf("mnemonic=%q cycles=%d, want NOP/2 (IRQ should be masked)", mnemonic, cycles)
	}
	if c.PC != 0x0801 {
		t.Fatalf("PC: got 0x%.4X want 0x0801", c.PC)
	}
}

func TestNMITakesPriorityOverIRQAndIgnoresMask(t *testing.T) {
	c, err := Init(&ChipDef{Ram: memory.New(), Irq: fakeSender(true), Nmi: fakeSender(true)})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	_ = c.SetFlag(InterruptBit, 1) // would mask IRQ, but must not mask NMI
	c.ram.WriteWord(NMI_VECTOR, 0x0A00)
	c.ram.WriteWord(IRQ_VECTOR, 0x0B00)
	load(c, 0x0800, 0xEA)
	cycles, mnemonic, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if mnemonic != "NMI" || cycles != 7 {
		t.Fatalf("mnemonic=%q cycles=%d, want NMI/7", mnemonic, cycles)
	}
	if c.PC != 0x0A00 {
		t.Fatalf("PC: got 0x%.4X want 0x0A00 (NMI vector, not IRQ vector)", c.PC)
	}
}

func TestStackWrapsWithinPageOne(t *testing.T) {
	c := setup(t)
	c.S = 0x00
	c.PushByte(0xAB)
	if c.S != 0xFF {
		t.Fatalf("S after push at 0: got 0x%.2X want 0xFF (wrapped)", c.S)
	}
	if got := c.ram.Read(0x0100); got != 0xAB {
		t.Fatalf("pushed byte: got 0x%.2X want 0xAB", got)
	}
}
