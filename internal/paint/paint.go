// Package paint holds the host application state shared by tools and
// extensions: the paper, the current colors and tool size, and the
// registries of tools and extensions.
package paint

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/Antaniasdasd/ippeint/internal/input"
	"github.com/Antaniasdasd/ippeint/internal/paper"
)

// Tool size bounds, matching the size slider.
const (
	MinToolSize = 1
	MaxToolSize = 20
)

// ErrUnknownTool is returned when activating a tool name that was never
// registered.
var ErrUnknownTool = errors.New("paint: unknown tool")

// Extension is an auxiliary component notified of host changes. It may
// also implement any of the observer interfaces below; support is checked
// once, when the extension is registered.
type Extension interface {
	Name() string
	Init()
}

type (
	PrimaryColorObserver   interface{ OnPrimaryColorChanged() }
	SecondaryColorObserver interface{ OnSecondaryColorChanged() }
	ToolSizeObserver       interface{ OnToolSizeChanged() }
	ResizeStartObserver    interface{ OnResizeStart() }
	ResizeObserver         interface{ OnResize() }
	ResizeEndObserver      interface{ OnResizeEnd() }
	ZoomObserver           interface{ OnZoom() }
)

type extension struct {
	ext              Extension
	primaryChanged   func()
	secondaryChanged func()
	sizeChanged      func()
}

// Paint is the host application.
type Paint struct {
	document *input.Element
	wrapper  *input.Element
	paper    *paper.Paper

	primary   color.Color
	secondary color.Color
	toolSize  float64

	tools      map[string]paper.Tool
	toolOrder  []string
	extensions []extension

	log *slog.Logger
}

// Option configures a Paint.
type Option func(*options)

type options struct {
	primary    color.Color
	secondary  color.Color
	toolSize   float64
	zoom       float64
	background color.Color
}

func defaultOptions() options {
	return options{
		primary:    color.Black,
		secondary:  color.White,
		toolSize:   3,
		zoom:       1,
		background: color.White,
	}
}

// WithPrimaryColor sets the initial primary (ink) color.
func WithPrimaryColor(c color.Color) Option {
	return func(o *options) { o.primary = c }
}

// WithSecondaryColor sets the initial secondary color.
func WithSecondaryColor(c color.Color) Option {
	return func(o *options) { o.secondary = c }
}

// WithToolSize sets the initial tool size.
func WithToolSize(size float64) Option {
	return func(o *options) { o.toolSize = size }
}

// WithZoom sets the initial zoom factor.
func WithZoom(z float64) Option {
	return func(o *options) { o.zoom = z }
}

// WithBackground sets the base layer fill.
func WithBackground(c color.Color) Option {
	return func(o *options) { o.background = c }
}

// New creates the host with a paper of width x height logical pixels.
func New(width, height int, opts ...Option) (*Paint, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	doc := input.NewElement("document", nil)
	wrapper := input.NewElement("paperWrapper", doc)
	el := input.NewElement("paper", wrapper)
	el.SetSize(float64(width)*o.zoom, float64(height)*o.zoom)

	pp, err := paper.New(el, paper.WithZoom(o.zoom), paper.WithBackground(o.background))
	if err != nil {
		return nil, fmt.Errorf("create paint: %w", err)
	}

	return &Paint{
		document:  doc,
		wrapper:   wrapper,
		paper:     pp,
		primary:   o.primary,
		secondary: o.secondary,
		toolSize:  clampSize(o.toolSize),
		tools:     make(map[string]paper.Tool),
		log:       paper.Logger().With("component", "paint"),
	}, nil
}

// Document returns the root input scope.
func (p *Paint) Document() *input.Element { return p.document }

// Wrapper returns the element whose page offset positions the paper.
func (p *Paint) Wrapper() *input.Element { return p.wrapper }

// Paper returns the current paper.
func (p *Paint) Paper() *paper.Paper { return p.paper }

// Surface returns the current paper as seen by tools.
func (p *Paint) Surface() paper.Surface { return p.paper }

// PrimaryColor returns the current primary color.
func (p *Paint) PrimaryColor() color.Color { return p.primary }

// SetPrimaryColor changes the primary color and notifies extensions.
func (p *Paint) SetPrimaryColor(c color.Color) {
	p.primary = c
	for _, e := range p.extensions {
		if e.primaryChanged != nil {
			e.primaryChanged()
		}
	}
}

// SecondaryColor returns the current secondary color.
func (p *Paint) SecondaryColor() color.Color { return p.secondary }

// SetSecondaryColor changes the secondary color and notifies extensions.
func (p *Paint) SetSecondaryColor(c color.Color) {
	p.secondary = c
	for _, e := range p.extensions {
		if e.secondaryChanged != nil {
			e.secondaryChanged()
		}
	}
}

// SwapColors exchanges the primary and secondary colors.
func (p *Paint) SwapColors() {
	primary, secondary := p.primary, p.secondary
	p.SetPrimaryColor(secondary)
	p.SetSecondaryColor(primary)
}

// ToolSize returns the current tool size.
func (p *Paint) ToolSize() float64 { return p.toolSize }

// SetToolSize changes the tool size, clamped to [MinToolSize,
// MaxToolSize], and notifies extensions.
func (p *Paint) SetToolSize(size float64) {
	p.toolSize = clampSize(size)
	for _, e := range p.extensions {
		if e.sizeChanged != nil {
			e.sizeChanged()
		}
	}
}

func clampSize(size float64) float64 {
	return min(max(size, MinToolSize), MaxToolSize)
}

// RegisterExtension initializes ext and wires the observer interfaces it
// implements.
func (p *Paint) RegisterExtension(ext Extension) {
	ext.Init()
	e := extension{ext: ext}
	if o, ok := ext.(PrimaryColorObserver); ok {
		e.primaryChanged = o.OnPrimaryColorChanged
	}
	if o, ok := ext.(SecondaryColorObserver); ok {
		e.secondaryChanged = o.OnSecondaryColorChanged
	}
	if o, ok := ext.(ToolSizeObserver); ok {
		e.sizeChanged = o.OnToolSizeChanged
	}
	p.extensions = append(p.extensions, e)

	var obs paper.Observer
	if o, ok := ext.(ResizeStartObserver); ok {
		obs.ResizeStart = o.OnResizeStart
	}
	if o, ok := ext.(ResizeObserver); ok {
		obs.Resize = o.OnResize
	}
	if o, ok := ext.(ResizeEndObserver); ok {
		obs.ResizeEnd = o.OnResizeEnd
	}
	if o, ok := ext.(ZoomObserver); ok {
		obs.Zoom = o.OnZoom
	}
	p.paper.Observe(obs)
	p.log.Info("extension registered", "extension", ext.Name())
}

// RegisterTool registers t under its name.
func (p *Paint) RegisterTool(t paper.Tool) error {
	name := t.Name()
	if _, ok := p.tools[name]; ok {
		return fmt.Errorf("register tool %q: name already taken: %w", name, paper.ErrInvariantViolation)
	}
	if err := p.paper.RegisterTool(t); err != nil {
		return err
	}
	p.tools[name] = t
	p.toolOrder = append(p.toolOrder, name)
	return nil
}

// Tools returns the registered tools in registration order.
func (p *Paint) Tools() []paper.Tool {
	out := make([]paper.Tool, 0, len(p.toolOrder))
	for _, name := range p.toolOrder {
		out = append(out, p.tools[name])
	}
	return out
}

// ActivateTool makes the named tool the current one.
func (p *Paint) ActivateTool(name string) error {
	t, ok := p.tools[name]
	if !ok {
		return fmt.Errorf("activate %q: %w", name, ErrUnknownTool)
	}
	return p.paper.ActivateTool(t)
}

// CurrentTool returns the active tool, or nil.
func (p *Paint) CurrentTool() paper.Tool { return p.paper.ActiveTool() }

// Zoom returns the paper's zoom factor.
func (p *Paint) Zoom() float64 { return p.paper.Zoom() }

// SetZoom changes the paper's zoom factor.
func (p *Paint) SetZoom(z float64) error { return p.paper.SetZoom(z) }

// Resize runs the full resize protocol to a new logical size.
func (p *Paint) Resize(width, height int) error {
	p.paper.OnResizeStart()
	defer p.paper.OnResizeEnd()
	return p.paper.OnResize(width, height)
}

// Close tears the paper down, deactivating the current tool.
func (p *Paint) Close() {
	p.paper.Close()
}
