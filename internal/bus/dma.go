package bus

import "github.com/mattias800/ai-snes-gpt5-sub003/internal/cpu"

// dmaChannel holds one of the 8 DMA/HDMA channels' $43x0-$43xA register
// state plus the HDMA engine's per-channel runtime cursor.
type dmaChannel struct {
	control   uint8
	bAddr     uint8
	aAddrOff  uint16
	aAddrBank uint8
	count     uint16

	hdmaIndBank     uint8
	hdmaTableAddr   uint16
	hdmaIndAddr     uint16
	hdmaLineCounter uint8
	hdmaDone        bool
}

func (b *Bus) readDMAReg(off uint16) uint8 {
	ch, reg := dmaChannelReg(off)
	if ch < 0 {
		return b.lastBusValue
	}
	c := &b.dma[ch]
	switch reg {
	case 0x0:
		return c.control
	case 0x1:
		return c.bAddr
	case 0x2:
		return uint8(c.aAddrOff)
	case 0x3:
		return uint8(c.aAddrOff >> 8)
	case 0x4:
		return c.aAddrBank
	case 0x5:
		return uint8(c.count)
	case 0x6:
		return uint8(c.count >> 8)
	case 0x7:
		return c.hdmaIndBank
	case 0xA:
		return c.hdmaLineCounter
	default:
		return b.lastBusValue
	}
}

func (b *Bus) writeDMAReg(off uint16, value uint8) {
	ch, reg := dmaChannelReg(off)
	if ch < 0 {
		return
	}
	c := &b.dma[ch]
	switch reg {
	case 0x0:
		c.control = value
	case 0x1:
		c.bAddr = value
	case 0x2:
		c.aAddrOff = (c.aAddrOff & 0xFF00) | uint16(value)
	case 0x3:
		c.aAddrOff = (c.aAddrOff & 0x00FF) | uint16(value)<<8
	case 0x4:
		c.aAddrBank = value
	case 0x5:
		c.count = (c.count & 0xFF00) | uint16(value)
	case 0x6:
		c.count = (c.count & 0x00FF) | uint16(value)<<8
	case 0x7:
		c.hdmaIndBank = value
	case 0xA:
		c.hdmaLineCounter = value
	}
}

func dmaChannelReg(off uint16) (ch int, reg uint16) {
	if off < 0x4300 || off > 0x43FF {
		return -1, 0
	}
	rel := off - 0x4300
	return int(rel / 0x10), rel % 0x10
}

// dmaPatternOffsets returns the sequence of B-bus register offsets (from
// $2100+bAddr) a DMA/HDMA transfer cycles through, per spec.md §4.1's
// 8 transfer patterns. Patterns 5-7 are documented hardware aliases of
// 1, 2, and 3 respectively.
func dmaPatternOffsets(pattern uint8) []uint16 {
	switch pattern & 0x07 {
	case 0:
		return []uint16{0}
	case 1, 5:
		return []uint16{0, 1}
	case 2, 6:
		return []uint16{0, 0}
	case 3, 7:
		return []uint16{0, 0, 1, 1}
	case 4:
		return []uint16{0, 1, 2, 3}
	default:
		return []uint16{0}
	}
}

func dmaAddrStep(control uint8) int32 {
	switch (control >> 3) & 0x03 {
	case 0:
		return 1
	case 1:
		return -1
	default:
		return 0
	}
}

// runDMA executes every channel selected by a write to $420B. Transfers
// run to completion synchronously, matching spec.md §4.1's atomicity
// requirement (no CPU instruction observes a partially-run DMA).
func (b *Bus) runDMA(mask uint8) {
	for ch := 0; ch < 8; ch++ {
		if mask&(1<<uint(ch)) != 0 {
			b.runDMAChannel(ch)
		}
	}
}

func (b *Bus) runDMAChannel(ch int) {
	c := &b.dma[ch]
	count := int(c.count)
	if count == 0 {
		count = 0x10000
	}

	bToA := c.control&0x80 != 0
	step := dmaAddrStep(c.control)
	offsets := dmaPatternOffsets(c.control)

	aBank := c.aAddrBank
	aOff := c.aAddrOff

	for i := 0; count > 0; i++ {
		regOff := offsets[i%len(offsets)]
		bReg := uint16(0x2100) + uint16(c.bAddr) + regOff
		aAddr := cpu.Addr24{Bank: aBank, Off: aOff}
		if bToA {
			b.Write8(aAddr, b.dispatchRead(bReg))
		} else {
			b.dispatchWrite(bReg, b.Read8(aAddr))
		}
		aOff = uint16(int32(aOff) + step)
		count--
	}

	c.aAddrOff = aOff
	c.count = 0
}

// StartFrame primes every HDMA channel enabled in $420C: the table
// pointer resets to the channel's A-bus address and the line counter is
// forced to reload on the next visible scanline's tick, matching
// spec.md §4.1's "start-of-frame load" minimal HDMA model.
func (b *Bus) StartFrame() {
	for ch := 0; ch < 8; ch++ {
		if b.hdmaen&(1<<uint(ch)) == 0 {
			continue
		}
		c := &b.dma[ch]
		c.hdmaTableAddr = c.aAddrOff
		c.hdmaLineCounter = 0
		c.hdmaDone = false
	}
}

// RunHDMA performs one scanline's worth of HDMA transfer for every
// active channel, per spec.md §4.1's per-scanline HDMA tick. Called by
// the scheduler at the start of each visible scanline.
func (b *Bus) RunHDMA() {
	for ch := 0; ch < 8; ch++ {
		if b.hdmaen&(1<<uint(ch)) == 0 {
			continue
		}
		b.tickHDMAChannel(ch)
	}
}

func (b *Bus) tickHDMAChannel(ch int) {
	c := &b.dma[ch]
	if c.hdmaDone {
		return
	}
	indirect := c.control&0x40 != 0

	if c.hdmaLineCounter&0x7F == 0 {
		lineByte := b.Read8(cpu.Addr24{Bank: c.aAddrBank, Off: c.hdmaTableAddr})
		c.hdmaTableAddr++
		if lineByte == 0 {
			c.hdmaDone = true
			return
		}
		c.hdmaLineCounter = lineByte
		if indirect {
			lo := b.Read8(cpu.Addr24{Bank: c.aAddrBank, Off: c.hdmaTableAddr})
			c.hdmaTableAddr++
			hi := b.Read8(cpu.Addr24{Bank: c.aAddrBank, Off: c.hdmaTableAddr})
			c.hdmaTableAddr++
			c.hdmaIndAddr = uint16(hi)<<8 | uint16(lo)
		}
	}

	srcBank, srcAddr := c.aAddrBank, c.hdmaTableAddr
	if indirect {
		srcBank, srcAddr = c.hdmaIndBank, c.hdmaIndAddr
	}

	for _, regOff := range dmaPatternOffsets(c.control) {
		value := b.Read8(cpu.Addr24{Bank: srcBank, Off: srcAddr})
		srcAddr++
		bReg := uint16(0x2100) + uint16(c.bAddr) + regOff
		b.dispatchWrite(bReg, value)
	}

	if indirect {
		c.hdmaIndAddr = srcAddr
	} else {
		c.hdmaTableAddr = srcAddr
	}

	low7 := int(c.hdmaLineCounter&0x7F) - 1
	if low7 < 0 {
		low7 = 0
	}
	c.hdmaLineCounter = (c.hdmaLineCounter & 0x80) | uint8(low7)
}
