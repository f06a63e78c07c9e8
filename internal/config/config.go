// Package config holds the immutable configuration record threaded
// through construction of the emulator core. Grouping every recognized
// option here keeps environment-gated behavior out of package-level
// globals.
package config

// TimingMode selects how the scheduler paces itself. Frame mode (the only
// one the core models precisely) advances by instruction quota per
// scanline; Cycle mode is reserved for a future cycle-accurate core and is
// accepted here only so callers can name it without the type changing.
type TimingMode int

const (
	TimingFrame TimingMode = iota
	TimingCycle
)

// APUStubMode selects the behavior of the stubbed audio mailbox.
type APUStubMode int

const (
	// APUStubNone never satisfies a handshake; ports start at zero and
	// read back whatever the CPU last wrote to them.
	APUStubNone APUStubMode = iota
	// APUStubHandshake echoes the SPC700 boot handshake most ROMs poll
	// for before giving up on audio.
	APUStubHandshake
)

// ErrorPolicy selects how the scheduler reacts to a CPU decode error.
type ErrorPolicy int

const (
	// ErrorIgnore drops the error and keeps advancing (the CPU itself
	// still halts at the faulting PC; only the scheduler's frame loop
	// is protected).
	ErrorIgnore ErrorPolicy = iota
	// ErrorThrow aborts the current frame and returns the error to the
	// stepFrame caller.
	ErrorThrow
	// ErrorRecord stores the error on the scheduler for inspection and
	// continues, never advancing PC again within the frame.
	ErrorRecord
)

// MappingMode selects the cartridge address mapping.
type MappingMode int

const (
	MappingLoROM MappingMode = iota
	MappingHiROM
)

// Config is the single immutable record passed at construction to the
// bus and the scheduler. Nothing in the core reads an environment
// variable or package-level flag directly; every tunable lives here.
type Config struct {
	TimingMode        TimingMode
	AutoNMI           bool
	APUStub           APUStubMode
	InstrPerScanline  int // 1..2000
	HBlankNumerator   int
	HBlankDenominator int
	CPUErrorPolicy    ErrorPolicy
	TraceEvery        int // 0 disables CPU trace sampling
	Mapping           MappingMode
}

// Default returns the configuration spec.md documents as the default:
// 100 instructions per scanline split 7/8 visible, 1/8 hblank, auto-NMI
// on, errors recorded rather than thrown.
func Default() Config {
	return Config{
		TimingMode:        TimingFrame,
		AutoNMI:           true,
		APUStub:           APUStubHandshake,
		InstrPerScanline:  100,
		HBlankNumerator:   1,
		HBlankDenominator: 8,
		CPUErrorPolicy:    ErrorRecord,
		TraceEvery:        0,
		Mapping:           MappingLoROM,
	}
}

// Normalize clamps InstrPerScanline into the documented runnable range and
// guards against a zero hblank denominator.
func (c Config) Normalize() Config {
	if c.InstrPerScanline < 1 {
		c.InstrPerScanline = 1
	}
	if c.InstrPerScanline > 2000 {
		c.InstrPerScanline = 2000
	}
	if c.HBlankDenominator <= 0 {
		c.HBlankDenominator = 8
	}
	if c.HBlankNumerator < 0 {
		c.HBlankNumerator = 0
	}
	if c.HBlankNumerator > c.HBlankDenominator {
		c.HBlankNumerator = c.HBlankDenominator
	}
	return c
}

// VisibleBudget returns the instruction quota for the visible segment of
// a scanline.
func (c Config) VisibleBudget() int {
	c = c.Normalize()
	hblank := c.HBlankBudget()
	return c.InstrPerScanline - hblank
}

// HBlankBudget returns the instruction quota for the hblank segment of a
// scanline.
func (c Config) HBlankBudget() int {
	c = c.Normalize()
	budget := (c.InstrPerScanline * c.HBlankNumerator) / c.HBlankDenominator
	if budget < 0 {
		budget = 0
	}
	if budget > c.InstrPerScanline {
		budget = c.InstrPerScanline
	}
	return budget
}
