// Package ppu implements the SNES Picture Processing Unit: VRAM/CGRAM/OAM
// storage, the $2100-$213F port state machines, and the per-dot
// background/sprite compositing pipeline.
package ppu

import "github.com/mattias800/ai-snes-gpt5-sub003/internal/trace"

// bgLayer holds the per-layer tilemap/character decoding parameters and
// scroll state described in spec.md §3.
type bgLayer struct {
	mapBaseWords  uint16
	charBaseWords uint16
	screenW       int // 32 or 64 tiles
	screenH       int // 32 or 64 tiles
	tileSize      int // 8 or 16

	hofs, vofs     uint16
	pendingHOFS    uint16
	hofsArmed      bool
	scrollLatchLow uint8
	scrollHasLow   bool
}

// PPU owns VRAM, CGRAM, OAM, and every port and rendering register listed
// in spec.md §3/§4.2.
type PPU struct {
	VRAM  [0x8000]uint16
	CGRAM [512]uint8
	OAM   [544]uint8

	// VRAM port ($2115-$2119, $2139/$213A)
	vmain      uint8
	vaddr      uint16
	vramLatch  uint16 // word latched for the read port
	vwriteLow  uint8
	vwriteArmed bool

	// CGRAM port ($2121/$2122/$213B)
	cgAddr     uint8
	cgLowLatch uint8
	cgHasLow   bool

	// OAM port ($2102-$2104, $2138)
	oamAddr    uint16
	oamLowLatch uint8
	oamHasLow  bool

	inidisp uint8
	bgmode  uint8
	mosaic  uint8
	bg      [4]bgLayer
	tm, ts  uint8

	w12sel, w34sel, wobjsel uint8
	wh                      [4]uint8

	cgwsel, cgadsub uint8
	fixedColor      uint16 // 5-5-5 accumulated from COLDATA plane-select writes

	ophct, opvct uint16

	scanline int
	dot      int
	frame    uint64
	hblank   bool

	sink trace.Sink
}

// New returns a PPU with zeroed VRAM/CGRAM/OAM, per spec.md §3's
// lifecycle (zero-initialized at creation, persists across reset).
func New(sink trace.Sink) *PPU {
	if sink == nil {
		sink = trace.Discard
	}
	return &PPU{sink: sink}
}

// Reset returns port/register state to power-up defaults without
// clearing VRAM/CGRAM/OAM (spec.md §3: their reset behavior is
// deliberately left as "persist", not hardware-accurate).
func (p *PPU) Reset() {
	p.vmain, p.vaddr, p.vramLatch = 0, 0, 0
	p.vwriteLow, p.vwriteArmed = 0, false
	p.cgAddr, p.cgLowLatch, p.cgHasLow = 0, 0, false
	p.oamAddr, p.oamLowLatch, p.oamHasLow = 0, 0, false
	p.inidisp, p.bgmode, p.mosaic, p.tm, p.ts = 0, 0, 0, 0, 0
	p.bg = [4]bgLayer{}
	p.w12sel, p.w34sel, p.wobjsel = 0, 0, 0
	p.wh = [4]uint8{}
	p.cgwsel, p.cgadsub, p.fixedColor = 0, 0, 0
	p.ophct, p.opvct = 0, 0
	p.scanline, p.dot, p.frame, p.hblank = 0, 0, 0, false
}

// StartFrame resets the scanline counter and bumps the frame counter.
func (p *PPU) StartFrame() {
	p.scanline = 0
	p.hblank = false
	p.frame++
}

// EndScanline advances to the next scanline, wrapping at 262.
func (p *PPU) EndScanline() {
	p.scanline++
	if p.scanline >= 262 {
		p.scanline = 0
	}
}

// SetHBlank sets the hblank flag the scheduler toggles per spec.md §4.4.
func (p *PPU) SetHBlank(v bool) { p.hblank = v }

func (p *PPU) Scanline() int   { return p.scanline }
func (p *PPU) Frame() uint64   { return p.frame }
func (p *PPU) HBlank() bool    { return p.hblank }
func (p *PPU) ForcedBlank() bool { return p.inidisp&0x80 != 0 }

// Snapshot is the read-only debug facade spec.md's Design Notes §9 calls
// for, replacing ad-hoc reflection over PPU internals in tests.
type Snapshot struct {
	Scanline int
	Frame    uint64
	HBlank   bool
	INIDISP  uint8
	TM, TS   uint8
	VAddr    uint16
}

func (p *PPU) Snapshot() Snapshot {
	return Snapshot{
		Scanline: p.scanline,
		Frame:    p.frame,
		HBlank:   p.hblank,
		INIDISP:  p.inidisp,
		TM:       p.tm,
		TS:       p.ts,
		VAddr:    p.vaddr,
	}
}

func vramStep(vmain uint8) uint16 {
	switch vmain & 0x03 {
	case 1:
		return 32
	case 2, 3:
		return 128
	default:
		return 1
	}
}

// WriteReg dispatches a CPU write to $21(lowByte).
func (p *PPU) WriteReg(lowByte uint8, value uint8) {
	switch lowByte {
	case 0x00:
		p.inidisp = value
	case 0x05:
		p.bgmode = value
		for i := range p.bg {
			if value&(0x10<<uint(i)) != 0 {
				p.bg[i].tileSize = 16
			} else {
				p.bg[i].tileSize = 8
			}
		}
	case 0x06:
		p.mosaic = value
	case 0x07, 0x08, 0x09, 0x0A:
		i := lowByte - 0x07
		layer := &p.bg[i]
		layer.mapBaseWords = uint16(value>>2) * 0x400
		switch value & 0x03 {
		case 0:
			layer.screenW, layer.screenH = 32, 32
		case 1:
			layer.screenW, layer.screenH = 64, 32
		case 2:
			layer.screenW, layer.screenH = 32, 64
		case 3:
			layer.screenW, layer.screenH = 64, 64
		}
	case 0x0B:
		p.bg[0].charBaseWords = uint16(value&0x0F) * 0x1000
		p.bg[1].charBaseWords = uint16(value>>4) * 0x1000
	case 0x0C:
		p.bg[2].charBaseWords = uint16(value&0x0F) * 0x1000
		p.bg[3].charBaseWords = uint16(value>>4) * 0x1000
	case 0x0D, 0x0F, 0x11, 0x13:
		i := (lowByte - 0x0D) / 2
		p.writeHOFS(&p.bg[i], value)
	case 0x0E, 0x10, 0x12, 0x14:
		i := (lowByte - 0x0E) / 2
		p.writeVOFS(&p.bg[i], value)
	case 0x15:
		p.vmain = value
	case 0x16:
		p.vaddr = (p.vaddr & 0xFF00) | uint16(value)
		p.latchVRAMRead()
	case 0x17:
		p.vaddr = (p.vaddr & 0x00FF) | uint16(value)<<8
		p.latchVRAMRead()
	case 0x18:
		p.writeVRAMLow(value)
	case 0x19:
		p.writeVRAMHigh(value)
	case 0x02:
		p.oamAddr = (p.oamAddr & 0x300) | uint16(value)
	case 0x03:
		p.oamAddr = (p.oamAddr & 0x0FF) | (uint16(value&1) << 8)
	case 0x04:
		p.writeOAM(value)
	case 0x21:
		p.cgAddr = value
		p.cgHasLow = false
	case 0x22:
		p.writeCGRAM(value)
	case 0x23:
		p.w12sel = value
	case 0x24:
		p.w34sel = value
	case 0x25:
		p.wobjsel = value
	case 0x26, 0x27, 0x28, 0x29:
		p.wh[lowByte-0x26] = value
	case 0x2C:
		p.tm = value
	case 0x2D:
		p.ts = value
	case 0x30:
		p.cgwsel = value
	case 0x31:
		p.cgadsub = value
	case 0x32:
		p.writeFixedColor(value)
	case 0x37:
		p.latchHV()
	}
}

// ReadReg dispatches a CPU read from $21(lowByte).
func (p *PPU) ReadReg(lowByte uint8) uint8 {
	switch lowByte {
	case 0x37:
		p.latchHV()
		return 0
	case 0x38:
		return p.readOAM()
	case 0x39:
		return p.readVRAMLow()
	case 0x3A:
		return p.readVRAMHigh()
	case 0x3B:
		return p.readCGRAM()
	case 0x3C:
		return uint8(p.ophct)
	case 0x3D:
		return uint8(p.ophct>>8) & 1
	case 0x3E:
		return uint8(p.opvct)
	case 0x3F:
		return uint8(p.opvct>>8) & 1
	default:
		return 0
	}
}

func (p *PPU) latchHV() {
	p.ophct = uint16(p.dot)
	p.opvct = uint16(p.scanline)
}

// --- VRAM port ---

func (p *PPU) latchVRAMRead() {
	p.vramLatch = p.VRAM[p.vaddr&0x7FFF]
}

func (p *PPU) writeVRAMLow(value uint8) {
	addr := p.vaddr & 0x7FFF
	if p.vmain&0x80 == 0 {
		p.VRAM[addr] = (p.VRAM[addr] & 0xFF00) | uint16(value)
		// Pointer advances only once writeVRAMHigh lands the matching
		// high byte, not here.
	} else {
		p.vwriteLow = value
		p.vaddr += vramStep(p.vmain)
	}
}

func (p *PPU) writeVRAMHigh(value uint8) {
	if p.vmain&0x80 == 0 {
		addr := p.vaddr & 0x7FFF
		p.VRAM[addr] = (p.VRAM[addr] & 0x00FF) | uint16(value)<<8
		p.vaddr += vramStep(p.vmain)
	} else {
		addr := (p.vaddr - vramStep(p.vmain)) & 0x7FFF
		p.VRAM[addr] = uint16(value)<<8 | uint16(p.vwriteLow)
	}
}

func (p *PPU) readVRAMLow() uint8 {
	return uint8(p.vramLatch)
}

func (p *PPU) readVRAMHigh() uint8 {
	v := uint8(p.vramLatch >> 8)
	if p.vmain&0x80 == 0 {
		p.vaddr += vramStep(p.vmain)
		p.latchVRAMRead()
	}
	return v
}

// --- CGRAM port ---

func (p *PPU) writeCGRAM(value uint8) {
	idx := int(p.cgAddr) * 2
	if !p.cgHasLow {
		p.cgLowLatch = value
		p.cgHasLow = true
		return
	}
	p.CGRAM[idx%512] = p.cgLowLatch
	p.CGRAM[(idx+1)%512] = value
	p.cgAddr++
	p.cgHasLow = false
}

func (p *PPU) readCGRAM() uint8 {
	idx := int(p.cgAddr) * 2
	var v uint8
	if !p.cgHasLow {
		v = p.CGRAM[idx%512]
	} else {
		v = p.CGRAM[(idx+1)%512]
		p.cgAddr++
	}
	p.cgHasLow = !p.cgHasLow
	return v
}

func (p *PPU) cgramColor(index int) uint16 {
	i := (index * 2) % 512
	return uint16(p.CGRAM[i]) | uint16(p.CGRAM[i+1])<<8
}

// --- OAM port ---

func (p *PPU) writeOAM(value uint8) {
	if p.oamAddr%2 == 0 {
		p.oamLowLatch = value
		p.OAM[p.oamAddr%544] = value
	} else {
		p.OAM[p.oamAddr%544] = value
	}
	p.oamAddr = (p.oamAddr + 1) % 544
}

func (p *PPU) readOAM() uint8 {
	v := p.OAM[p.oamAddr%544]
	p.oamAddr = (p.oamAddr + 1) % 544
	return v
}

// --- BG scroll write-twice latches ---

func (p *PPU) writeHOFS(layer *bgLayer, value uint8) {
	if !layer.scrollHasLow {
		layer.scrollLatchLow = value
		layer.scrollHasLow = true
		return
	}
	layer.scrollHasLow = false
	offset := (uint16(value&0x07)<<8 | uint16(layer.scrollLatchLow)) & 0x7FF
	layer.pendingHOFS = offset
	layer.hofsArmed = true
}

func (p *PPU) writeVOFS(layer *bgLayer, value uint8) {
	if !layer.scrollHasLow {
		layer.scrollLatchLow = value
		layer.scrollHasLow = true
		return
	}
	layer.scrollHasLow = false
	layer.vofs = (uint16(value&0x07)<<8 | uint16(layer.scrollLatchLow)) & 0x7FF
}

func (p *PPU) writeFixedColor(value uint8) {
	intensity := uint16(value & 0x1F)
	if value&0x20 != 0 {
		p.fixedColor = (p.fixedColor &^ 0x001F) | intensity
	}
	if value&0x40 != 0 {
		p.fixedColor = (p.fixedColor &^ 0x03E0) | intensity<<5
	}
	if value&0x80 != 0 {
		p.fixedColor = (p.fixedColor &^ 0x7C00) | intensity<<10
	}
}
