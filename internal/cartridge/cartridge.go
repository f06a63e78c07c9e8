// Package cartridge owns ROM/SRAM storage and the LoROM/HiROM address
// mapping the bus consults to translate a 24-bit address into a ROM or
// SRAM offset. ROM file loading and header parsing proper are out of the
// core's scope (spec.md §1); this package accepts already-extracted ROM
// bytes plus a mapping tag supplied by the caller.
package cartridge

import (
	"errors"
	"fmt"

	"github.com/mattias800/ai-snes-gpt5-sub003/internal/config"
)

// ErrEmptyROM is returned by New when given a zero-length ROM.
var ErrEmptyROM = errors.New("cartridge: empty ROM")

const copierHeaderSize = 512

// Cartridge holds the normalized ROM image, optional battery-backed SRAM,
// and the mapping mode used to translate CPU-visible addresses.
type Cartridge struct {
	PRG     []byte
	SRAM    []byte
	Mapping config.MappingMode
}

// New strips a copier header if present (total length modulo 0x8000 ==
// 512, spec.md §6) and returns a Cartridge over the remaining ROM bytes.
// sramSize is the caller-declared SRAM size in bytes (0 if the cartridge
// has none); stripping is idempotent, since a correctly stripped ROM's
// length no longer satisfies the modulo check.
func New(rom []byte, mapping config.MappingMode, sramSize int) (*Cartridge, error) {
	if len(rom) == 0 {
		return nil, ErrEmptyROM
	}
	if len(rom)%0x8000 == copierHeaderSize {
		rom = rom[copierHeaderSize:]
	}
	if sramSize < 0 {
		return nil, fmt.Errorf("cartridge: negative SRAM size %d", sramSize)
	}
	return &Cartridge{
		PRG:     rom,
		SRAM:    make([]byte, sramSize),
		Mapping: mapping,
	}, nil
}

// Translate maps a 24-bit address (bank, offset) already known to be a
// ROM or WRAM-mirror reference (the bus has already ruled out MMIO and
// the $7E/$7F WRAM banks) to a PRG ROM byte offset, modulo ROM length.
// ok is false for addresses this mapping mode does not route to ROM at
// all (e.g. LoROM's $00-$3F/$80-$BF bank 0x0000-0x7FFF window).
func (c *Cartridge) Translate(bank uint8, offset uint16) (romOffset int, ok bool) {
	switch c.Mapping {
	case config.MappingHiROM:
		return c.translateHiROM(bank, offset)
	default:
		return c.translateLoROM(bank, offset)
	}
}

func (c *Cartridge) translateLoROM(bank uint8, offset uint16) (int, bool) {
	b := bank
	if b >= 0x80 {
		b -= 0x80
	}
	if b > 0x7D {
		return 0, false
	}
	if offset < 0x8000 {
		return 0, false
	}
	idx := int(b)*0x8000 + int(offset-0x8000)
	return idx % len(c.PRG), true
}

func (c *Cartridge) translateHiROM(bank uint8, offset uint16) (int, bool) {
	switch {
	case (bank >= 0x40 && bank <= 0x7D) || (bank >= 0xC0 && bank <= 0xFF):
		b := bank
		if b >= 0xC0 {
			b -= 0xC0
		} else {
			b -= 0x40
		}
		idx := int(b)*0x10000 + int(offset)
		return idx % len(c.PRG), true
	case (bank <= 0x3F) || (bank >= 0x80 && bank <= 0xBF):
		if offset < 0x8000 {
			return 0, false
		}
		b := bank
		if b >= 0x80 {
			b -= 0x80
		}
		idx := int(b)*0x10000 + int(offset)
		return idx % len(c.PRG), true
	default:
		return 0, false
	}
}

// ReadSRAM and WriteSRAM wrap a non-negative offset modulo the
// cartridge's declared SRAM size, so offsets past the end mirror onto the
// start. With no SRAM, reads return 0 and writes are dropped.
func (c *Cartridge) ReadSRAM(offset int) uint8 {
	if len(c.SRAM) == 0 {
		return 0
	}
	return c.SRAM[offset%len(c.SRAM)]
}

func (c *Cartridge) WriteSRAM(offset int, value uint8) {
	if len(c.SRAM) == 0 {
		return
	}
	c.SRAM[offset%len(c.SRAM)] = value
}
