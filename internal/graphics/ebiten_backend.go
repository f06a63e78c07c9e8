package graphics

import "github.com/hajimehoshi/ebiten/v2"

// EbitenBackend presents frames into an ebiten.Image, for display inside
// an ebiten.Game's Draw callback (see cmd/snesgo).
type EbitenBackend struct {
	img *ebiten.Image
}

// NewEbitenBackend allocates the backing image at the SNES's native
// resolution.
func NewEbitenBackend() *EbitenBackend {
	return &EbitenBackend{img: ebiten.NewImage(ScreenWidth, ScreenHeight)}
}

// Present uploads one composited frame into the backing ebiten.Image.
func (b *EbitenBackend) Present(pixels []uint16) error {
	b.img.WritePixels(ToRGBA8888(pixels))
	return nil
}

// Close releases the backing image.
func (b *EbitenBackend) Close() error {
	b.img.Deallocate()
	return nil
}

// Image returns the current frame for an ebiten.Game's Draw callback to
// blit onto the screen.
func (b *EbitenBackend) Image() *ebiten.Image { return b.img }
