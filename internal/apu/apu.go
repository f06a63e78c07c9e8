// Package apu stubs the SPC700 audio mailbox the CPU polls at boot. No
// DSP audio synthesis is attempted, per spec.md §1's explicit non-goal;
// this package exists only to satisfy software that waits on the
// handshake before proceeding.
package apu

import "github.com/mattias800/ai-snes-gpt5-sub003/internal/config"

// APU holds the four mailbox ports at $2140-$2143.
type APU struct {
	mode  config.APUStubMode
	ports [4]uint8
	booted bool
}

// New returns an APU stub in the given mode.
func New(mode config.APUStubMode) *APU {
	a := &APU{mode: mode}
	a.Reset()
	return a
}

// Reset restores the well-known SNES boot handshake values ($AA, $BB)
// into ports 0/1 when handshake mode is active.
func (a *APU) Reset() {
	a.ports = [4]uint8{}
	a.booted = false
	if a.mode == config.APUStubHandshake {
		a.ports[0] = 0xAA
		a.ports[1] = 0xBB
	}
}

// ReadPort reads one of $2140-$2143 (port is 0-3).
func (a *APU) ReadPort(port uint8) uint8 {
	return a.ports[port&0x03]
}

// WritePort writes one of $2140-$2143; a later ReadPort of the same port
// returns the written value. In handshake mode a nonzero write to port 0
// marks the boot handshake complete (Booted reports true). The booted
// state does not change what ReadPort returns: ports not written since
// Reset still hold their handshake values.
func (a *APU) WritePort(port uint8, value uint8) {
	a.ports[port&0x03] = value
	if a.mode == config.APUStubHandshake && port == 0 && value != 0 {
		a.booted = true
	}
}

// Booted reports whether the stub has left the boot handshake state.
func (a *APU) Booted() bool { return a.booted }

// Step is the scheduler's once-per-scanline tick hook. The mailbox stub
// has no internal timing of its own to advance; this exists so a future
// cycle-accurate SPC700 core has a call site to extend.
func (a *APU) Step() {}
