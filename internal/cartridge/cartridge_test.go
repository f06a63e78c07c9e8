package cartridge

import (
	"testing"

	"github.com/mattias800/ai-snes-gpt5-sub003/internal/config"
)

func makeROM(size int, fill byte) []byte {
	rom := make([]byte, size)
	for i := range rom {
		rom[i] = fill
	}
	return rom
}

func TestNew_EmptyROM_ShouldError(t *testing.T) {
	if _, err := New(nil, config.MappingLoROM, 0); err != ErrEmptyROM {
		t.Fatalf("expected ErrEmptyROM, got %v", err)
	}
}

func TestNew_CopierHeaderPresent_ShouldStrip(t *testing.T) {
	rom := makeROM(0x8000+copierHeaderSize, 0xAA)
	for i := 0; i < copierHeaderSize; i++ {
		rom[i] = 0xEE
	}
	cart, err := New(rom, config.MappingLoROM, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(cart.PRG) != 0x8000 {
		t.Fatalf("expected stripped length 0x8000, got %#x", len(cart.PRG))
	}
	if cart.PRG[0] != 0xAA {
		t.Fatalf("expected stripped ROM to start with payload byte, got %#x", cart.PRG[0])
	}
}

func TestNew_StripIsIdempotent(t *testing.T) {
	rom := makeROM(0x8000+copierHeaderSize, 0xAA)
	cart, err := New(rom, config.MappingLoROM, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cart2, err := New(cart.PRG, config.MappingLoROM, 0)
	if err != nil {
		t.Fatalf("New (second pass): %v", err)
	}
	if len(cart2.PRG) != len(cart.PRG) {
		t.Fatalf("second strip changed length: %d vs %d", len(cart2.PRG), len(cart.PRG))
	}
}

func TestTranslate_LoROM_MapsUpperHalfOfEachBank(t *testing.T) {
	rom := makeROM(0x80000, 0) // 512KB
	for i := range rom {
		rom[i] = byte(i)
	}
	cart, err := New(rom, config.MappingLoROM, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	off, ok := cart.Translate(0x00, 0x8000)
	if !ok || off != 0 {
		t.Fatalf("bank 0 offset 0x8000 -> (%d, %t), want (0, true)", off, ok)
	}
	off, ok = cart.Translate(0x01, 0x8000)
	if !ok || off != 0x8000 {
		t.Fatalf("bank 1 offset 0x8000 -> (%d, %t), want (0x8000, true)", off, ok)
	}
	// Mirror bank $80 should match bank $00.
	off, ok = cart.Translate(0x80, 0x8000)
	if !ok || off != 0 {
		t.Fatalf("bank 0x80 offset 0x8000 -> (%d, %t), want (0, true)", off, ok)
	}
	// Low half of the bank is not ROM under LoROM.
	if _, ok := cart.Translate(0x00, 0x7FFF); ok {
		t.Fatalf("bank 0 offset 0x7FFF should not map to ROM under LoROM")
	}
}

func TestTranslate_HiROM_MapsFullBank(t *testing.T) {
	rom := makeROM(0x100000, 0) // 1MB
	cart, err := New(rom, config.MappingHiROM, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	off, ok := cart.Translate(0x40, 0x0000)
	if !ok || off != 0 {
		t.Fatalf("bank 0x40 offset 0 -> (%d, %t), want (0, true)", off, ok)
	}
	off, ok = cart.Translate(0xC0, 0x0000)
	if !ok || off != 0 {
		t.Fatalf("bank 0xC0 offset 0 -> (%d, %t), want (0, true)", off, ok)
	}
	// $00-$3F only exposes the high half of the corresponding HiROM bank.
	if _, ok := cart.Translate(0x00, 0x7FFF); ok {
		t.Fatalf("bank 0 offset 0x7FFF should not map to ROM under HiROM")
	}
	off, ok = cart.Translate(0x00, 0x8000)
	if !ok || off != 0x8000 {
		t.Fatalf("bank 0 offset 0x8000 -> (%d, %t), want (0x8000, true)", off, ok)
	}
}

func TestSRAM_OutOfRangeAccess_DoesNotPanic(t *testing.T) {
	cart, err := New(makeROM(0x8000, 0), config.MappingLoROM, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cart.WriteSRAM(100, 0x42) // no SRAM configured; must not panic
	if v := cart.ReadSRAM(100); v != 0 {
		t.Fatalf("expected 0 from sram-less cartridge, got %#x", v)
	}
}

func TestInspectHeader_ValidLoROMChecksum_IsValid(t *testing.T) {
	rom := makeROM(0x8000, 0)
	title := "TEST GAME"
	copy(rom[loROMHeaderOffset:loROMHeaderOffset+len(title)], title)
	rom[loROMHeaderOffset+hdrMapModeOff] = 0x20
	checksum := uint16(0x1234)
	complement := ^checksum
	rom[loROMHeaderOffset+hdrChecksumOff] = byte(checksum)
	rom[loROMHeaderOffset+hdrChecksumOff+1] = byte(checksum >> 8)
	rom[loROMHeaderOffset+hdrComplementOff] = byte(complement)
	rom[loROMHeaderOffset+hdrComplementOff+1] = byte(complement >> 8)

	h := InspectHeader(rom)
	if !h.Valid {
		t.Fatalf("expected valid header, got %+v", h)
	}
	if h.Title != title {
		t.Fatalf("title = %q, want %q", h.Title, title)
	}
}
