package graphics

// HeadlessBackend buffers the most recent frame in memory instead of
// presenting to a window; used by tests and cmd/snesgo -nogui.
type HeadlessBackend struct {
	LastFrame []byte
	Frames    uint64
}

// NewHeadlessBackend returns an empty HeadlessBackend.
func NewHeadlessBackend() *HeadlessBackend { return &HeadlessBackend{} }

// Present stores the converted frame and bumps the frame counter.
func (h *HeadlessBackend) Present(pixels []uint16) error {
	h.LastFrame = ToRGBA8888(pixels)
	h.Frames++
	return nil
}

// Close is a no-op for the headless backend.
func (h *HeadlessBackend) Close() error { return nil }
