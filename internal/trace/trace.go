// Package trace provides a tracing sink for diagnostics emitted by the
// bus, PPU, and scheduler. Components take a Sink at construction instead
// of reaching for a package-level logging flag.
package trace

// Sink receives diagnostic events from the emulator core. Implementations
// must not block; the core calls Sink methods synchronously on the hot
// path (open-bus reads, CPU traces).
type Sink interface {
	// Tracef receives a free-form diagnostic line, e.g. an open-bus read
	// or an ignored write to a ROM-mapped address.
	Tracef(format string, args ...any)

	// CPUState receives a periodic CPU trace sample. Called every
	// Config.TraceEvery instructions when tracing is enabled.
	CPUState(sample Sample)
}

// Sample is one CPU trace entry, matching the fields spec.md §6 lists for
// the optional trace callback.
type Sample struct {
	PBR, DBR   uint8
	PC         uint16
	P          uint8
	A, X, Y    uint16
	E          bool
	Instr      uint64
}

// Discard is a Sink that drops everything. It is the default when no Sink
// is supplied at construction.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Tracef(string, ...any)  {}
func (discardSink) CPUState(Sample)        {}

// Logf is the log.Printf-shaped function a LineSink writes through; it
// is not a Sink itself. cmd/snesgo passes log.Printf for -debug output.
type Logf func(format string, args ...any)

// LineSink adapts a Logf into a Sink, writing both Tracef and CPUState
// through it; CPUState becomes a single human-readable line.
type LineSink struct {
	Log Logf
}

func (s LineSink) Tracef(format string, args ...any) {
	s.Log(format, args...)
}

func (s LineSink) CPUState(sample Sample) {
	s.Log("instr=%d pbr=%02X pc=%04X p=%02X a=%04X x=%04X y=%04X e=%t",
		sample.Instr, sample.PBR, sample.PC, sample.P, sample.A, sample.X, sample.Y, sample.E)
}
