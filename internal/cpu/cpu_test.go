package cpu

import "testing"

// flatBus is a 16MB flat byte array addressable by (bank, offset),
// sufficient for instruction-level CPU tests without a real bus.
type flatBus struct {
	mem [256 * 65536]uint8
}

func (b *flatBus) index(addr Addr24) int { return int(addr.Bank)<<16 | int(addr.Off) }

func (b *flatBus) Read8(addr Addr24) uint8 { return b.mem[b.index(addr)] }

func (b *flatBus) Write8(addr Addr24, value uint8) { b.mem[b.index(addr)] = value }

func (b *flatBus) loadAt(bank uint8, off uint16, bytes ...uint8) {
	for i, v := range bytes {
		b.mem[b.index(Addr24{Bank: bank, Off: off + uint16(i)})] = v
	}
}

func newTestCPU() (*CPU, *flatBus) {
	bus := &flatBus{}
	c := New(bus)
	return c, bus
}

func TestLDAImmediateInEmulationMode(t *testing.T) {
	c, bus := newTestCPU()
	bus.loadAt(0x00, 0xFFFC, 0x00, 0x80) // reset vector -> $8000
	c.Reset()
	bus.loadAt(0x00, 0x8000, 0xA9, 0x80) // LDA #$80

	if err := c.StepInstruction(); err != nil {
		t.Fatalf("StepInstruction: %v", err)
	}

	if got := uint8(c.A); got != 0x80 {
		t.Errorf("A.low = %#02x, want 0x80", got)
	}
	if !c.N {
		t.Errorf("N flag not set")
	}
	if c.Z {
		t.Errorf("Z flag set, want clear")
	}
	if c.PC != 0x8002 {
		t.Errorf("PC = %#04x, want 0x8002", c.PC)
	}
}

func TestADCChainWithCLCAndSEC(t *testing.T) {
	c, bus := newTestCPU()
	bus.loadAt(0x00, 0xFFFC, 0x00, 0x80)
	c.Reset()
	// CLC; LDA #$10; ADC #$0F; SEC; ADC #$01
	bus.loadAt(0x00, 0x8000, 0x18, 0xA9, 0x10, 0x69, 0x0F, 0x38, 0x69, 0x01)

	for i := 0; i < 5; i++ {
		if err := c.StepInstruction(); err != nil {
			t.Fatalf("instruction %d: %v", i, err)
		}
	}

	if got := uint8(c.A); got != 0x21 {
		t.Errorf("A.low = %#02x, want 0x21", got)
	}
	if c.C {
		t.Errorf("C set, want clear")
	}
	if c.V {
		t.Errorf("V set, want clear")
	}
	if c.Z {
		t.Errorf("Z set, want clear")
	}
	if c.N {
		t.Errorf("N set, want clear")
	}
}

func TestBEQTaken(t *testing.T) {
	c, bus := newTestCPU()
	bus.loadAt(0x00, 0xFFFC, 0x00, 0x80)
	c.Reset()
	// LDA #$00; BEQ +2; LDA #$01; NOP; LDA #$02; BNE +2; LDA #$03; NOP
	bus.loadAt(0x00, 0x8000,
		0xA9, 0x00,
		0xF0, 0x02,
		0xA9, 0x01,
		0xEA,
		0xA9, 0x02,
		0xD0, 0x02,
		0xA9, 0x03,
		0xEA,
	)

	for i := 0; i < 6; i++ {
		if err := c.StepInstruction(); err != nil {
			t.Fatalf("instruction %d: %v", i, err)
		}
	}

	if got := uint8(c.A); got != 0x02 {
		t.Errorf("A.low = %#02x, want 0x02", got)
	}
}

func TestJSRRTS(t *testing.T) {
	c, bus := newTestCPU()
	bus.loadAt(0x00, 0xFFFC, 0x00, 0x80)
	c.Reset()
	bus.loadAt(0x00, 0x8000, 0x20, 0x00, 0x90) // JSR $9000
	bus.loadAt(0x00, 0x9000, 0x60)             // RTS

	if err := c.StepInstruction(); err != nil {
		t.Fatalf("JSR: %v", err)
	}
	if c.PC != 0x9000 {
		t.Errorf("PC after JSR = %#04x, want 0x9000", c.PC)
	}
	if c.S != 0x01FD {
		t.Errorf("S after JSR = %#04x, want 0x01FD", c.S)
	}

	if err := c.StepInstruction(); err != nil {
		t.Fatalf("RTS: %v", err)
	}
	if c.PC != 0x8003 {
		t.Errorf("PC after RTS = %#04x, want 0x8003", c.PC)
	}
}

func TestEModeStackPushPullRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	bus.loadAt(0x00, 0xFFFC, 0x00, 0x80)
	c.Reset()

	before := c.S
	c.push16(0xBEEF)
	if c.pull16() != 0xBEEF {
		t.Fatalf("16-bit push/pull round trip failed")
	}
	if c.S != before {
		t.Errorf("S = %#04x after round trip, want %#04x", c.S, before)
	}
	if c.S&0xFF00 != 0x0100 {
		t.Errorf("E-mode stack left page $01: S = %#04x", c.S)
	}
}

func TestDPIndirectPointerWrapDependsOnDLowByte(t *testing.T) {
	c, bus := newTestCPU()
	bus.loadAt(0x00, 0xFFFC, 0x00, 0x80)
	c.Reset()

	c.D = 0
	bus.loadAt(0x00, 0x00FF, 0x34) // low byte of pointer at $FF
	bus.loadAt(0x00, 0x0000, 0x12) // high byte wraps to $00 when D low byte is 0
	if got := c.readDPPointer16(0x00FF); got != 0x1234 {
		t.Errorf("D=0 pointer wrap: got %#04x, want 0x1234", got)
	}

	c.D = 0x0101 // low byte non-zero: pointer read uses 16-bit wrap
	bus.loadAt(0x00, 0x01FF, 0x78)
	bus.loadAt(0x00, 0x0200, 0x56)
	if got := c.readDPPointer16(0x01FF); got != 0x5678 {
		t.Errorf("D low byte != 0 pointer wrap: got %#04x, want 0x5678", got)
	}
}

func TestSEPSetsOnlyMaskedBits(t *testing.T) {
	c, bus := newTestCPU()
	bus.loadAt(0x00, 0xFFFC, 0x00, 0x80)
	c.Reset()
	bus.loadAt(0x00, 0x8000, 0xE2, 0x04) // SEP #$04 (set I)

	if err := c.StepInstruction(); err != nil {
		t.Fatalf("SEP: %v", err)
	}
	if !c.I {
		t.Errorf("I not set by SEP #$04")
	}
	if c.D_ {
		t.Errorf("D flag unexpectedly set, SEP mask did not name it")
	}
}

func TestREPAndSEPToggleNativeModeWidthFlags(t *testing.T) {
	c, bus := newTestCPU()
	bus.loadAt(0x00, 0xFFFC, 0x00, 0x80)
	c.Reset()
	// CLC; XCE (enter native mode); REP #$30 (16-bit A/X/Y); SEP #$20 (8-bit A)
	bus.loadAt(0x00, 0x8000, 0x18, 0xFB, 0xC2, 0x30, 0xE2, 0x20)

	for i := 0; i < 3; i++ {
		if err := c.StepInstruction(); err != nil {
			t.Fatalf("instruction %d: %v", i, err)
		}
	}
	if c.E {
		t.Fatalf("still in emulation mode after XCE")
	}
	if c.M {
		t.Errorf("M flag set after REP #$30, want clear")
	}
	if c.Xf {
		t.Errorf("Xf flag set after REP #$30, want clear")
	}

	if err := c.StepInstruction(); err != nil {
		t.Fatalf("SEP: %v", err)
	}
	if !c.M {
		t.Errorf("M flag not set after SEP #$20")
	}
	if c.Xf {
		t.Errorf("Xf flag set after SEP #$20, want still clear (mask named only M)")
	}
}

func TestSEPSettingIndexWidthTruncatesXAndY(t *testing.T) {
	c, bus := newTestCPU()
	bus.loadAt(0x00, 0xFFFC, 0x00, 0x80)
	c.Reset()
	bus.loadAt(0x00, 0x8000, 0x18, 0xFB, 0xC2, 0x30) // CLC; XCE; REP #$30 -> native, 16-bit

	for i := 0; i < 3; i++ {
		if err := c.StepInstruction(); err != nil {
			t.Fatalf("instruction %d: %v", i, err)
		}
	}
	c.X = 0x1234
	c.Y = 0x5678
	bus.loadAt(0x00, 0x8004, 0xE2, 0x10) // SEP #$10 -> 8-bit index

	if err := c.StepInstruction(); err != nil {
		t.Fatalf("SEP: %v", err)
	}
	if c.X != 0x0034 {
		t.Errorf("X = %#04x after SEP #$10, want 0x0034", c.X)
	}
	if c.Y != 0x0078 {
		t.Errorf("Y = %#04x after SEP #$10, want 0x0078", c.Y)
	}
}

func TestREPInEmulationModeLeavesMAndXfForced(t *testing.T) {
	c, bus := newTestCPU()
	bus.loadAt(0x00, 0xFFFC, 0x00, 0x80)
	c.Reset()
	bus.loadAt(0x00, 0x8000, 0xC2, 0x30) // REP #$30, still in emulation mode

	if err := c.StepInstruction(); err != nil {
		t.Fatalf("REP: %v", err)
	}
	if !c.M {
		t.Errorf("M cleared despite E=1 forcing it set")
	}
	if !c.Xf {
		t.Errorf("Xf cleared despite E=1 forcing it set")
	}
}
