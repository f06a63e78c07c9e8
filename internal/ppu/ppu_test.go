package ppu

import "testing"

func TestVRAMPortIncrementAfterHighWriteReadBack(t *testing.T) {
	p := New(nil)
	p.WriteReg(0x15, 0x00) // VMAIN: increment-after-high, step 1
	p.WriteReg(0x16, 0x34) // VMADDL
	p.WriteReg(0x17, 0x12) // VMADDH -> addr = $1234

	p.WriteReg(0x18, 0xEF) // VMDATAL
	p.WriteReg(0x19, 0xBE) // VMDATAH -> commits word, addr -> $1235

	p.WriteReg(0x18, 0xCA)
	p.WriteReg(0x19, 0xCA) // word $CACA at $1235

	if got := p.VRAM[0x1234]; got != 0xBEEF {
		t.Fatalf("VRAM[$1234] = %#04x, want 0xBEEF", got)
	}
	if got := p.VRAM[0x1235]; got != 0xCACA {
		t.Fatalf("VRAM[$1235] = %#04x, want 0xCACA", got)
	}

	p.WriteReg(0x16, 0x34)
	p.WriteReg(0x17, 0x12) // reset addr to $1234, also latches read word

	first := uint16(p.ReadReg(0x39)) | uint16(p.ReadReg(0x3A))<<8
	if first != 0xBEEF {
		t.Fatalf("first read word = %#04x, want 0xBEEF", first)
	}
	second := uint16(p.ReadReg(0x39)) | uint16(p.ReadReg(0x3A))<<8
	if second != 0xCACA {
		t.Fatalf("second read word = %#04x, want 0xCACA", second)
	}
}

func TestVRAMWriteAdvancesByConfiguredStep(t *testing.T) {
	p := New(nil)
	p.WriteReg(0x15, 0x01) // step 32
	p.WriteReg(0x16, 0x00)
	p.WriteReg(0x17, 0x00)

	p.WriteReg(0x18, 0x11)
	p.WriteReg(0x19, 0x22)
	p.WriteReg(0x18, 0x33)
	p.WriteReg(0x19, 0x44)

	if p.VRAM[0] != 0x2211 {
		t.Errorf("VRAM[0] = %#04x, want 0x2211", p.VRAM[0])
	}
	if p.VRAM[32] != 0x4433 {
		t.Errorf("VRAM[32] = %#04x, want 0x4433", p.VRAM[32])
	}
}

func TestCGRAMWraparound(t *testing.T) {
	p := New(nil)
	p.WriteReg(0x21, 0xFF) // CGADD = 255 -> byte index 510/511
	p.WriteReg(0x22, 0xAA)
	p.WriteReg(0x22, 0xBB) // commits, CGADD -> 0 (wraps mod 256 addr units)

	if p.CGRAM[510] != 0xAA || p.CGRAM[511] != 0xBB {
		t.Fatalf("CGRAM[510:512] = %#02x %#02x, want AA BB", p.CGRAM[510], p.CGRAM[511])
	}

	p.WriteReg(0x22, 0x01)
	p.WriteReg(0x22, 0x02)
	if p.CGRAM[0] != 0x01 || p.CGRAM[1] != 0x02 {
		t.Fatalf("CGRAM wrapped write: got %#02x %#02x, want 01 02", p.CGRAM[0], p.CGRAM[1])
	}
}

func TestWindowInsideSimpleRange(t *testing.T) {
	cases := []struct {
		left, right uint8
		x           int
		want        bool
	}{
		{10, 20, 10, true},
		{10, 20, 20, true},
		{10, 20, 15, true},
		{10, 20, 9, false},
		{10, 20, 21, false},
	}
	for _, c := range cases {
		if got := windowInside(c.left, c.right, c.x); got != c.want {
			t.Errorf("windowInside(%d,%d,%d) = %v, want %v", c.left, c.right, c.x, got, c.want)
		}
	}
}

func TestWindowInsideWrapForm(t *testing.T) {
	// left > right: wraps around the screen edge.
	cases := []struct {
		left, right uint8
		x           int
		want        bool
	}{
		{200, 50, 210, true},
		{200, 50, 30, true},
		{200, 50, 100, false},
		{200, 50, 200, true},
		{200, 50, 50, true},
	}
	for _, c := range cases {
		if got := windowInside(c.left, c.right, c.x); got != c.want {
			t.Errorf("windowInside(%d,%d,%d) = %v, want %v", c.left, c.right, c.x, got, c.want)
		}
	}
}

func TestWindowPredicateIsDeterministic(t *testing.T) {
	for x := 0; x < 256; x++ {
		a := windowInside(30, 200, x)
		b := windowInside(30, 200, x)
		if a != b {
			t.Fatalf("windowInside not deterministic at x=%d", x)
		}
	}
}

func TestSnapshotReflectsRegisterState(t *testing.T) {
	p := New(nil)
	p.WriteReg(0x00, 0x8F) // INIDISP: forced blank + brightness
	p.WriteReg(0x2C, 0x01) // TM
	p.WriteReg(0x2D, 0x02) // TS
	p.StartFrame()

	snap := p.Snapshot()
	if snap.INIDISP != 0x8F {
		t.Errorf("Snapshot.INIDISP = %#02x, want 0x8F", snap.INIDISP)
	}
	if snap.TM != 0x01 || snap.TS != 0x02 {
		t.Errorf("Snapshot TM/TS = %#02x/%#02x, want 01/02", snap.TM, snap.TS)
	}
	if snap.Frame != p.Frame() {
		t.Errorf("Snapshot.Frame = %d, want %d", snap.Frame, p.Frame())
	}
}

func TestHOFSCommitsAtNextEightPixelBoundary(t *testing.T) {
	p := New(nil)
	p.WriteReg(0x05, 0x00) // BGMODE: 8x8 tiles for BG1
	// BG1 HOFS write-twice: low then high.
	p.WriteReg(0x0D, 0x08) // low byte of offset = 8
	p.WriteReg(0x0D, 0x00) // high bits = 0 -> pending offset 8

	if p.bg[0].hofs != 0 {
		t.Fatalf("hofs committed before an 8-pixel boundary sample: %d", p.bg[0].hofs)
	}

	p.commitHOFS(&p.bg[0], 0)
	if p.bg[0].hofs != 8 {
		t.Fatalf("hofs after boundary commit = %d, want 8", p.bg[0].hofs)
	}
}

func TestForcedBlankProducesBlackOutput(t *testing.T) {
	p := New(nil)
	p.WriteReg(0x00, 0x80) // INIDISP forced blank bit
	if got := p.Sample(0, 0); got != 0 {
		t.Errorf("Sample during forced blank = %#04x, want 0", uint16(got))
	}
}
