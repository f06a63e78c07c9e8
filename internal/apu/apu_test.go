package apu

import (
	"testing"

	"github.com/mattias800/ai-snes-gpt5-sub003/internal/config"
)

func TestHandshakeModeEchoesBootBytes(t *testing.T) {
	a := New(config.APUStubHandshake)
	if a.ReadPort(0) != 0xAA {
		t.Errorf("port 0 = %#02x, want 0xAA", a.ReadPort(0))
	}
	if a.ReadPort(1) != 0xBB {
		t.Errorf("port 1 = %#02x, want 0xBB", a.ReadPort(1))
	}
	if a.Booted() {
		t.Errorf("Booted() true before any write")
	}
}

func TestHandshakeModeBootsOnNonzeroPort0Write(t *testing.T) {
	a := New(config.APUStubHandshake)
	a.WritePort(0, 0x01)
	if !a.Booted() {
		t.Errorf("Booted() false after nonzero port 0 write")
	}
}

func TestHandshakeModeDoesNotBootOnZeroWrite(t *testing.T) {
	a := New(config.APUStubHandshake)
	a.WritePort(0, 0x00)
	if a.Booted() {
		t.Errorf("Booted() true after zero-value write")
	}
}

func TestHandshakeModeDoesNotBootOnOtherPortWrite(t *testing.T) {
	a := New(config.APUStubHandshake)
	a.WritePort(2, 0x01)
	if a.Booted() {
		t.Errorf("Booted() true after write to port other than 0")
	}
}

func TestNoneModeReadsZeroBeforeAnyWrite(t *testing.T) {
	a := New(config.APUStubNone)
	for port := uint8(0); port < 4; port++ {
		if got := a.ReadPort(port); got != 0 {
			t.Errorf("port %d = %#02x, want 0", port, got)
		}
	}
}

func TestResetRestoresHandshakeBytesAndClearsBooted(t *testing.T) {
	a := New(config.APUStubHandshake)
	a.WritePort(0, 0x01)
	a.WritePort(2, 0xFF)
	a.Reset()

	if a.Booted() {
		t.Errorf("Booted() true after Reset")
	}
	if a.ReadPort(0) != 0xAA || a.ReadPort(1) != 0xBB {
		t.Errorf("handshake bytes not restored after Reset")
	}
	if a.ReadPort(2) != 0 {
		t.Errorf("port 2 = %#02x after Reset, want 0", a.ReadPort(2))
	}
}

func TestWritePortMasksToFourPorts(t *testing.T) {
	a := New(config.APUStubNone)
	a.WritePort(4, 0x99) // 4 & 0x03 == 0
	if a.ReadPort(0) != 0x99 {
		t.Errorf("port index did not wrap mod 4")
	}
}
