package paper

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
)

// Layer is one pixel buffer in a Paper's stack. Layers never receive
// input themselves; they are drawn on through the owning Paper.
type Layer struct {
	id         uuid.UUID
	dc         *gg.Context
	background color.Color
}

func newLayer(width, height int, background color.Color) *Layer {
	if background == nil {
		background = color.Transparent
	}
	l := &Layer{
		id:         uuid.New(),
		dc:         gg.NewContext(width, height),
		background: background,
	}
	l.Clear()
	return l
}

// ID returns the layer's unique identifier.
func (l *Layer) ID() uuid.UUID { return l.id }

// Width returns the logical width in pixels.
func (l *Layer) Width() int { return l.dc.Width() }

// Height returns the logical height in pixels.
func (l *Layer) Height() int { return l.dc.Height() }

// Background returns the fill color used by Clear.
func (l *Layer) Background() color.Color { return l.background }

// Clear refills the whole layer with its background color.
func (l *Layer) Clear() {
	l.dc.ClearWithColor(gg.FromColor(l.background))
}

// At returns the color of one logical pixel.
func (l *Layer) At(x, y int) color.Color {
	return l.dc.ResizeTarget().At(x, y)
}

// Image returns a copy of the layer content.
func (l *Layer) Image() image.Image {
	return l.dc.Image()
}

// Snapshot is an off-surface copy of a layer's raw pixels.
type Snapshot struct {
	width, height int
	pix           []uint8
}

// Bounds returns the size the snapshot was taken at.
func (s *Snapshot) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// Snapshot copies the current pixel content.
func (l *Layer) Snapshot() *Snapshot {
	pm := l.dc.ResizeTarget()
	pix := make([]uint8, len(pm.Data()))
	copy(pix, pm.Data())
	return &Snapshot{width: pm.Width(), height: pm.Height(), pix: pix}
}

// RestoreImage copies a snapshot back into the layer at the origin.
// Pixels outside the layer bounds are clipped; pixels inside are copied
// unchanged.
func (l *Layer) RestoreImage(s *Snapshot) {
	if s == nil {
		return
	}
	pm := l.dc.ResizeTarget()
	dst := pm.Data()
	w := min(s.width, pm.Width())
	h := min(s.height, pm.Height())
	for y := 0; y < h; y++ {
		copy(dst[y*pm.Width()*4:(y*pm.Width()+w)*4], s.pix[y*s.width*4:(y*s.width+w)*4])
	}
}

// resize reallocates the buffer and fills it with the background. The
// previous content is lost; callers restore it from a snapshot.
func (l *Layer) resize(width, height int) error {
	if err := l.dc.Resize(width, height); err != nil {
		return fmt.Errorf("resize layer %s: %w", l.id, err)
	}
	l.Clear()
	return nil
}

func (l *Layer) apply(fn func(dc *gg.Context)) {
	l.dc.Push()
	defer l.dc.Pop()
	fn(l.dc)
}

func (l *Layer) close() {
	_ = l.dc.Close()
}
