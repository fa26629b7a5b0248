// Package paper implements the drawing surface: a stack of equally sized
// layers, a zoom factor, the page to surface coordinate transform, and the
// dispatcher that routes pointer input to the single active tool.
//
// A Paper is not safe for concurrent use. Every call is expected on the
// goroutine that delivers input events.
package paper

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/Antaniasdasd/ippeint/internal/input"
	"golang.org/x/image/draw"
)

// Paper is the composite drawing area.
type Paper struct {
	element  *input.Element
	document *input.Element

	layers    []*Layer
	active    *Layer
	zoom      float64
	snapshots map[*Layer]*Snapshot

	tools     []*toolSlot
	current   *toolSlot
	switching bool
	subs      []elementSub

	observers []Observer
	stroke    strokeState
	cursor    string
	closed    bool

	// OnCursorChanged is called with the new cursor hint after SetCursor,
	// SetCursorFromURL and RestoreCursor.
	OnCursorChanged func(cursor string)
}

type elementSub struct {
	el  *input.Element
	sub input.Subscription
}

// Option configures a Paper.
type Option func(*options)

type options struct {
	background color.Color
	zoom       float64
}

// WithBackground sets the fill color of the base layer (white by default).
func WithBackground(c color.Color) Option {
	return func(o *options) { o.background = c }
}

// WithZoom sets the initial zoom factor.
func WithZoom(z float64) Option {
	return func(o *options) { o.zoom = z }
}

// New creates a Paper bound to element, the interactive surface. The
// element's on-screen size determines the logical size of the base layer;
// its parent (the wrapper) provides the page offset used for coordinate
// conversion. Click and pointer-down are observed on the element, move and
// pointer-up on the document that roots it.
func New(element *input.Element, opts ...Option) (*Paper, error) {
	o := options{background: color.White, zoom: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.zoom <= 0 {
		return nil, fmt.Errorf("new paper: zoom %v must be positive: %w", o.zoom, ErrInvariantViolation)
	}

	w, h := element.Size()
	lw, lh := int(roundHalfUp(w/o.zoom)), int(roundHalfUp(h/o.zoom))
	if lw <= 0 || lh <= 0 {
		return nil, fmt.Errorf("new paper: size %dx%d must be positive: %w", lw, lh, ErrInvariantViolation)
	}

	p := &Paper{
		element:  element,
		document: element.Root(),
		zoom:     o.zoom,
	}
	base := newLayer(lw, lh, o.background)
	p.layers = append(p.layers, base)
	p.active = base
	p.resizeContainer()

	p.listen(p.element, input.Click, p.onPaperClick)
	p.listen(p.element, input.Down, p.onPaperDown)
	p.listen(p.document, input.Move, p.onDocumentMove)
	p.listen(p.document, input.Up, p.onDocumentUp)

	Logger().Info("paper created", "width", lw, "height", lh, "zoom", o.zoom)
	return p, nil
}

func (p *Paper) listen(el *input.Element, kind input.Kind, fn input.Handler) {
	p.subs = append(p.subs, elementSub{el: el, sub: el.On(kind, fn)})
}

// Element returns the interactive surface element.
func (p *Paper) Element() *input.Element { return p.element }

// BaseLayer returns the bottom layer, which can never be removed.
func (p *Paper) BaseLayer() *Layer { return p.layers[0] }

// Layers returns the layer stack, bottom first.
func (p *Paper) Layers() []*Layer { return slices.Clone(p.layers) }

// Width returns the logical width shared by every layer.
func (p *Paper) Width() int { return p.layers[0].Width() }

// Height returns the logical height shared by every layer.
func (p *Paper) Height() int { return p.layers[0].Height() }

// AddLayer stacks a new layer above all existing ones, sized to the
// current logical size and filled with background.
func (p *Paper) AddLayer(background color.Color) *Layer {
	l := newLayer(p.Width(), p.Height(), background)
	p.layers = append(p.layers, l)
	Logger().Info("layer added", "layer", l.id, "count", len(p.layers))
	return l
}

// RemoveLayer removes a layer from the stack and releases its buffer.
// Removing the base layer, or a layer this Paper does not own, fails.
func (p *Paper) RemoveLayer(l *Layer) error {
	if l == p.BaseLayer() {
		return fmt.Errorf("remove layer: cannot remove the base layer: %w", ErrInvariantViolation)
	}
	i := slices.Index(p.layers, l)
	if i < 0 {
		return fmt.Errorf("remove layer: layer is not part of this paper: %w", ErrInvariantViolation)
	}
	p.layers = slices.Delete(p.layers, i, i+1)
	delete(p.snapshots, l)
	if p.active == l {
		p.active = p.BaseLayer()
	}
	l.close()
	Logger().Info("layer removed", "layer", l.id, "count", len(p.layers))
	return nil
}

// ActiveLayer returns the layer tools draw on.
func (p *Paper) ActiveLayer() *Layer { return p.active }

// SetActiveLayer selects the layer tools draw on.
func (p *Paper) SetActiveLayer(l *Layer) error {
	if !slices.Contains(p.layers, l) {
		return fmt.Errorf("set active layer: layer is not part of this paper: %w", ErrInvariantViolation)
	}
	p.active = l
	return nil
}

// PageToPaper converts page-absolute coordinates to surface-logical
// coordinates: the wrapper's page offset is subtracted, the result divided
// by the zoom factor and rounded to the nearest pixel.
func (p *Paper) PageToPaper(pageX, pageY float64) Point {
	wrapper := p.element.Parent()
	if wrapper == nil {
		wrapper = p.element
	}
	ox, oy := wrapper.Offset()
	return Pt((pageX-ox)/p.zoom, (pageY-oy)/p.zoom).Round()
}

// Zoom returns the current zoom factor.
func (p *Paper) Zoom() float64 { return p.zoom }

// SetZoom changes the on-screen scale of every layer without touching
// their logical content, resizes the container to match and notifies all
// observers.
func (p *Paper) SetZoom(value float64) error {
	if value <= 0 {
		return fmt.Errorf("set zoom %v: zoom must be positive: %w", value, ErrInvariantViolation)
	}
	p.zoom = value
	p.resizeContainer()
	Logger().Info("zoom changed", "zoom", value)
	p.notify(func(o Observer) func() { return o.Zoom })
	return nil
}

// resizeContainer makes the element and its wrapper match the zoomed
// logical size.
func (p *Paper) resizeContainer() {
	w := float64(p.Width()) * p.zoom
	h := float64(p.Height()) * p.zoom
	p.element.SetSize(w, h)
	if wrapper := p.element.Parent(); wrapper != nil {
		wrapper.SetSize(w, h)
	}
}

// OnResizeStart snapshots the content of every layer. Resizing a buffer
// clears it, so the snapshot is what OnResize restores from.
func (p *Paper) OnResizeStart() {
	p.snapshots = make(map[*Layer]*Snapshot, len(p.layers))
	for _, l := range p.layers {
		p.snapshots[l] = l.Snapshot()
	}
	Logger().Debug("resize started", "layers", len(p.layers))
	p.notify(func(o Observer) func() { return o.ResizeStart })
}

// OnResize resizes every layer to width x height logical pixels and the
// container to the matching zoomed size, then restores the content saved
// by OnResizeStart. Content outside the new bounds is clipped. When no
// snapshot is pending, one is taken first; a layer added since
// OnResizeStart is snapshotted on the spot.
func (p *Paper) OnResize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize to %dx%d: size must be positive: %w", width, height, ErrInvariantViolation)
	}
	if p.snapshots == nil {
		p.OnResizeStart()
	}

	for _, l := range p.layers {
		snap, ok := p.snapshots[l]
		if !ok {
			snap = l.Snapshot()
			p.snapshots[l] = snap
		}
		if err := l.resize(width, height); err != nil {
			return err
		}
		l.RestoreImage(snap)
	}
	p.resizeContainer()

	Logger().Info("paper resized", "width", width, "height", height)
	p.notify(func(o Observer) func() { return o.Resize })
	return nil
}

// OnResizeEnd discards the snapshots taken by OnResizeStart.
func (p *Paper) OnResizeEnd() {
	p.snapshots = nil
	Logger().Debug("resize ended")
	p.notify(func(o Observer) func() { return o.ResizeEnd })
}

// Observe registers lifecycle notifications. Empty observers are ignored.
func (p *Paper) Observe(o Observer) {
	if o.empty() {
		return
	}
	p.observers = append(p.observers, o)
}

func (p *Paper) notify(hook func(Observer) func()) {
	for _, o := range p.observers {
		if fn := hook(o); fn != nil {
			fn()
		}
	}
}

// FlattenedImage composites every layer, bottom first, into a new image of
// the unzoomed logical size.
func (p *Paper) FlattenedImage() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, p.Width(), p.Height()))
	for _, l := range p.layers {
		draw.Draw(dst, dst.Bounds(), l.Image(), image.Point{}, draw.Over)
	}
	return dst
}

// Render returns the composited layers scaled by the zoom factor, the way
// they appear on screen.
func (p *Paper) Render() image.Image {
	flat := p.FlattenedImage()
	if p.zoom == 1 {
		return flat
	}
	w := max(1, int(roundHalfUp(float64(p.Width())*p.zoom)))
	h := max(1, int(roundHalfUp(float64(p.Height())*p.zoom)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), flat, flat.Bounds(), draw.Src, nil)
	return dst
}

// Close deactivates the current tool, removes the dispatcher listeners and
// releases every layer. Later calls do nothing.
func (p *Paper) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.current != nil {
		p.deactivateCurrent()
	}
	for _, s := range p.subs {
		s.el.Off(s.sub)
	}
	p.subs = nil
	for _, l := range p.layers {
		l.close()
	}
	Logger().Info("paper closed")
}
