// Package scheduler drives the CPU, PPU, bus DMA/HDMA engine, and APU
// mailbox stub at the instruction-count granularity spec.md §4.4
// describes: a fixed instruction budget per scanline split into visible
// and hblank segments, not a cycle-accurate model.
package scheduler

import (
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/bus"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/config"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/cpu"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/graphics"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/ppu"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/trace"
)

// EventKind tags a Scheduler event delivered through a single
// outward-facing notification, rather than wiring bus/PPU callbacks
// directly into each other.
type EventKind int

const (
	VBlankStart EventKind = iota
	HBlankStart
	FrameComplete
	APUStep
)

// Event is the payload delivered to a registered Handler.
type Event struct {
	Kind     EventKind
	Scanline int
	Frame    uint64
}

// Handler receives Scheduler events. Registering a Handler is optional;
// a nil handler means events are simply not published.
type Handler func(Event)

// Scheduler owns the CPU, Bus, and PPU for the duration of a run and
// advances them together. It never references a graphics.Backend except
// through the optional SetBackend hook, and it never hands the Bus or
// PPU a reference back to itself, avoiding cyclic ownership between
// components.
type Scheduler struct {
	cfg config.Config
	CPU *cpu.CPU
	Bus *bus.Bus
	PPU *ppu.PPU

	handler Handler
	backend graphics.Backend

	nmiGuard      bool
	haltedByError bool
	lastErr       error

	sink trace.Sink

	frameBuf [graphics.ScreenWidth * graphics.ScreenHeight]uint16
}

// New constructs a Scheduler over already-constructed components. The
// caller is responsible for wiring the Bus's PPU/Pad/Cart fields before
// the first StepFrame. sink may be nil, in which case trace output is
// discarded.
func New(cfg config.Config, c *cpu.CPU, b *bus.Bus, p *ppu.PPU, sink trace.Sink) *Scheduler {
	if sink == nil {
		sink = trace.Discard
	}
	return &Scheduler{cfg: cfg, CPU: c, Bus: b, PPU: p, sink: sink}
}

// SetHandler registers the event callback.
func (s *Scheduler) SetHandler(h Handler) { s.handler = h }

// SetBackend registers the frame presentation backend; StepFrame calls
// Present once per frame when a backend is set.
func (s *Scheduler) SetBackend(b graphics.Backend) { s.backend = b }

// LastError returns the most recently recorded CPU error under
// config.ErrorRecord, or nil.
func (s *Scheduler) LastError() error { return s.lastErr }

// Reset cascades to the CPU, PPU, and Bus, and clears scheduler-owned
// state (the once-per-frame NMI guard, the recorded error).
func (s *Scheduler) Reset() {
	s.CPU.Reset()
	s.PPU.Reset()
	s.Bus.Reset()
	s.nmiGuard = false
	s.haltedByError = false
	s.lastErr = nil
}

func (s *Scheduler) publish(kind EventKind) {
	if s.handler == nil {
		return
	}
	s.handler(Event{Kind: kind, Scanline: s.PPU.Scanline(), Frame: s.PPU.Frame()})
}

// StepInstruction executes exactly one CPU instruction, applying
// config.CPUErrorPolicy to any decode error it raises.
func (s *Scheduler) StepInstruction() error {
	if s.haltedByError {
		return nil
	}
	err := s.CPU.StepInstruction()
	if err == nil {
		s.traceCPU()
		return nil
	}
	switch s.cfg.CPUErrorPolicy {
	case config.ErrorThrow:
		return err
	case config.ErrorRecord:
		s.lastErr = err
		s.haltedByError = true
		return nil
	default: // config.ErrorIgnore
		return nil
	}
}

// traceCPU samples CPU state into the trace sink every cfg.TraceEvery
// instructions, per spec.md §6's optional trace callback.
func (s *Scheduler) traceCPU() {
	if s.cfg.TraceEvery <= 0 {
		return
	}
	n := s.CPU.InstructionCount()
	if n%uint64(s.cfg.TraceEvery) != 0 {
		return
	}
	s.sink.CPUState(trace.Sample{
		PBR:   s.CPU.PBR,
		DBR:   s.CPU.DBR,
		PC:    s.CPU.PC,
		P:     s.CPU.GetP(),
		A:     s.CPU.A,
		X:     s.CPU.X,
		Y:     s.CPU.Y,
		E:     s.CPU.E,
		Instr: n,
	})
}

func (s *Scheduler) runBudget(n int) error {
	for i := 0; i < n; i++ {
		if err := s.StepInstruction(); err != nil {
			return err
		}
	}
	return nil
}

// StepScanline runs one scanline's visible and hblank instruction
// budgets, advances the PPU's scanline counter, ticks the APU stub, runs
// one HDMA line for active channels, and delivers the VBlank NMI edge
// and auto-joypad latch at the 223->224 transition, per spec.md §4.4's
// six-step per-scanline algorithm.
func (s *Scheduler) StepScanline() error {
	s.PPU.SetHBlank(false)
	if s.PPU.Scanline() < 224 {
		s.Bus.RunHDMA()
	}

	if err := s.runBudget(s.cfg.VisibleBudget()); err != nil {
		return err
	}

	s.PPU.SetHBlank(true)
	s.publish(HBlankStart)
	if err := s.runBudget(s.cfg.HBlankBudget()); err != nil {
		return err
	}
	s.PPU.SetHBlank(false)

	prevScanline := s.PPU.Scanline()
	s.PPU.EndScanline()
	s.Bus.APU.Step()
	s.publish(APUStep)

	if prevScanline == 223 && s.PPU.Scanline() == 224 {
		s.Bus.PulseVBlankLatch()
		s.publish(VBlankStart)
		if s.cfg.AutoNMI && s.Bus.NMIEnabled() && !s.nmiGuard {
			s.CPU.NMI()
			s.nmiGuard = true
		}
		if s.Bus.AutoJoypadEnabled() {
			s.Bus.LatchAutoJoypad()
		}
	}
	if s.PPU.Scanline() == 0 {
		s.nmiGuard = false
	}
	return nil
}

// StepFrame runs all 262 scanlines of one frame, samples the composited
// frame buffer, and presents it to the registered backend (if any).
func (s *Scheduler) StepFrame() error {
	s.haltedByError = false
	s.PPU.StartFrame()
	s.Bus.StartFrame()

	for i := 0; i < 262; i++ {
		if err := s.StepScanline(); err != nil {
			return err
		}
	}

	s.renderFrame()
	s.publish(FrameComplete)
	if s.backend != nil {
		return s.backend.Present(s.frameBuf[:])
	}
	return nil
}

func (s *Scheduler) renderFrame() {
	for y := 0; y < graphics.ScreenHeight; y++ {
		for x := 0; x < graphics.ScreenWidth; x++ {
			s.frameBuf[y*graphics.ScreenWidth+x] = uint16(s.PPU.Sample(x, y))
		}
	}
}

// FrameBuffer returns the most recently rendered frame, in RGB555 words,
// row-major. Callers must not retain the returned slice across the next
// StepFrame call.
func (s *Scheduler) FrameBuffer() []uint16 { return s.frameBuf[:] }
