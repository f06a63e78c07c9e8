// Package bus implements the SNES memory bus: WRAM, MMIO dispatch to the
// PPU and the bus's own CPU/DMA registers, the controller ports, and the
// DMA/HDMA engine. The CPU reaches all other components exclusively
// through this package, via the cpu.Bus interface it satisfies.
package bus

import (
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/apu"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/cartridge"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/config"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/cpu"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/input"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/ppu"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/trace"
)

const wramSize = 0x20000 // banks $7E/$7F, 128 KB linear

// Bus owns WRAM, the cartridge, the PPU, the controller port, and every
// register in the $4200-$43FF range, and is the single point through
// which the CPU reaches the rest of the system.
type Bus struct {
	WRAM [wramSize]uint8
	Cart *cartridge.Cartridge
	PPU  *ppu.PPU
	Pad  *input.Controller
	APU  *apu.APU

	cfg  config.Config
	sink trace.Sink

	nmitimen   uint8
	rdnmiLatch bool
	joy1       uint16

	mdmaen uint8
	hdmaen uint8
	dma    [8]dmaChannel

	lastBusValue uint8
}

// New constructs a Bus over the given cartridge, PPU, and controller.
func New(cfg config.Config, cart *cartridge.Cartridge, p *ppu.PPU, pad *input.Controller, sink trace.Sink) *Bus {
	if sink == nil {
		sink = trace.Discard
	}
	return &Bus{
		Cart: cart,
		PPU:  p,
		Pad:  pad,
		APU:  apu.New(cfg.APUStub),
		cfg:  cfg,
		sink: sink,
	}
}

// Reset clears WRAM and every MMIO latch the bus owns. The cartridge and
// PPU are reset by their own owners (the scheduler), per spec.md §3's
// ownership rules.
func (b *Bus) Reset() {
	for i := range b.WRAM {
		b.WRAM[i] = 0
	}
	b.nmitimen, b.rdnmiLatch, b.joy1 = 0, false, 0
	b.mdmaen, b.hdmaen = 0, 0
	b.dma = [8]dmaChannel{}
	b.lastBusValue = 0
	if b.APU != nil {
		b.APU.Reset()
	}
}

func isLowBank(bank uint8) bool {
	return bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)
}

func isSRAMBank(bank uint8) bool {
	return (bank >= 0x70 && bank <= 0x7D) || (bank >= 0xF0 && bank <= 0xFF)
}

// Read8 implements cpu.Bus.
func (b *Bus) Read8(addr cpu.Addr24) uint8 {
	bank, off := addr.Bank, addr.Off

	if isLowBank(bank) {
		if off <= 0x1FFF {
			return b.WRAM[off]
		}
		if isMMIO(off) {
			return b.dispatchRead(off)
		}
		if off >= 0x6000 && off <= 0x7FFF && isSRAMBank(bank) && b.Cart != nil {
			bankIdx := int(bank)
			if bankIdx >= 0xF0 {
				bankIdx -= 0xF0
			} else {
				bankIdx -= 0x70
			}
			return b.Cart.ReadSRAM(bankIdx*0x2000 + int(off-0x6000))
		}
	}

	if bank == 0x7E || bank == 0x7F {
		idx := int(bank-0x7E)*0x10000 + int(off)
		return b.WRAM[idx]
	}

	if b.Cart != nil {
		if romOff, ok := b.Cart.Translate(bank, off); ok {
			return b.Cart.PRG[romOff]
		}
	}

	b.sink.Tracef("bus: open-bus read bank=%02X off=%04X", bank, off)
	return b.lastBusValue
}

// Write8 implements cpu.Bus.
func (b *Bus) Write8(addr cpu.Addr24, value uint8) {
	bank, off := addr.Bank, addr.Off
	b.lastBusValue = value

	if isLowBank(bank) {
		if off <= 0x1FFF {
			b.WRAM[off] = value
			return
		}
		if isMMIO(off) {
			b.dispatchWrite(off, value)
			return
		}
		if off >= 0x6000 && off <= 0x7FFF && isSRAMBank(bank) && b.Cart != nil {
			bankIdx := int(bank)
			if bankIdx >= 0xF0 {
				bankIdx -= 0xF0
			} else {
				bankIdx -= 0x70
			}
			b.Cart.WriteSRAM(bankIdx*0x2000+int(off-0x6000), value)
			return
		}
	}

	if bank == 0x7E || bank == 0x7F {
		idx := int(bank-0x7E)*0x10000 + int(off)
		b.WRAM[idx] = value
		return
	}

	// ROM writes (battery SRAM aside) are silently latched, per spec.md
	// §4.1's failure semantics.
	b.sink.Tracef("bus: write to ROM-mapped bank=%02X off=%04X ignored", bank, off)
}

func isMMIO(off uint16) bool {
	return (off >= 0x2100 && off <= 0x21FF) ||
		(off >= 0x4200 && off <= 0x43FF) ||
		off == 0x4016 || off == 0x4017
}

func isAPUPort(off uint16) bool { return off >= 0x2140 && off <= 0x2143 }

func (b *Bus) dispatchRead(off uint16) uint8 {
	switch {
	case isAPUPort(off):
		v := b.APU.ReadPort(uint8(off - 0x2140))
		b.lastBusValue = v
		return v
	case off >= 0x2100 && off <= 0x21FF:
		v := b.PPU.ReadReg(uint8(off & 0xFF))
		b.lastBusValue = v
		return v
	case off == 0x4016:
		v := b.Pad.ReadSerial() & 1
		b.lastBusValue = v
		return v
	case off == 0x4017:
		return 0
	case off == 0x4210:
		v := b.readRDNMI()
		b.lastBusValue = v
		return v
	case off == 0x4212:
		v := b.readHVBJOY()
		b.lastBusValue = v
		return v
	case off == 0x4218:
		return uint8(b.joy1)
	case off == 0x4219:
		return uint8(b.joy1 >> 8)
	case off >= 0x4300 && off <= 0x43FF:
		return b.readDMAReg(off)
	default:
		return b.lastBusValue
	}
}

func (b *Bus) dispatchWrite(off uint16, value uint8) {
	switch {
	case isAPUPort(off):
		b.APU.WritePort(uint8(off-0x2140), value)
	case off >= 0x2100 && off <= 0x21FF:
		b.PPU.WriteReg(uint8(off&0xFF), value)
	case off == 0x4016:
		b.Pad.WriteStrobe(value)
	case off == 0x4200:
		b.nmitimen = value
	case off == 0x420B:
		b.mdmaen = value
		b.runDMA(value)
	case off == 0x420C:
		b.hdmaen = value
	case off >= 0x4300 && off <= 0x43FF:
		b.writeDMAReg(off, value)
	default:
		// Other $42xx registers (WRMPYA/DIVB/multiplication etc.) are out
		// of scope for the core; latched into open-bus only.
	}
}

func (b *Bus) readRDNMI() uint8 {
	v := uint8(0x02) // CPU revision nibble, arbitrary but stable
	if b.rdnmiLatch {
		v |= 0x80
	}
	b.rdnmiLatch = false
	return v
}

func (b *Bus) readHVBJOY() uint8 {
	var v uint8
	if b.PPU.Scanline() >= 224 {
		v |= 0x80
	}
	if b.PPU.HBlank() {
		v |= 0x40
	}
	return v
}

// NMIEnabled reports NMITIMEN bit 7, consulted by the scheduler at the
// 223->224 scanline transition.
func (b *Bus) NMIEnabled() bool { return b.nmitimen&0x80 != 0 }

// AutoJoypadEnabled reports NMITIMEN bit 0.
func (b *Bus) AutoJoypadEnabled() bool { return b.nmitimen&0x01 != 0 }

// PulseVBlankLatch sets the RDNMI latch; called by the scheduler once per
// frame at the 223->224 transition regardless of NMITIMEN.
func (b *Bus) PulseVBlankLatch() { b.rdnmiLatch = true }

// LatchAutoJoypad snapshots the controller into $4218/$4219.
func (b *Bus) LatchAutoJoypad() {
	if b.Pad != nil {
		b.joy1 = b.Pad.Pack()
	}
}

// JOY1 returns the latched auto-joypad snapshot, for tests and debug UIs.
func (b *Bus) JOY1() uint16 { return b.joy1 }
