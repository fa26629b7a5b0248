// Package pen implements the freehand pen tool.
package pen

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/Antaniasdasd/ippeint/internal/input"
	"github.com/Antaniasdasd/ippeint/internal/paper"
	"github.com/gogpu/gg"
)

// Name is the name the pen registers under.
const Name = "Pen"

// Host is what the pen reads from its owning application.
type Host interface {
	PrimaryColor() color.Color
	ToolSize() float64
	Surface() paper.Surface
}

// ReentryPolicy decides what happens when the pointer re-enters the paper
// while a stroke is still open.
type ReentryPolicy int

const (
	// ReentryRestart starts a fresh segment at the re-entry point; the gap
	// outside the paper stays unpainted.
	ReentryRestart ReentryPolicy = iota
	// ReentryConnect paints a segment from the last point inside the paper
	// to the re-entry point.
	ReentryConnect
)

func (r ReentryPolicy) String() string {
	switch r {
	case ReentryRestart:
		return "restart"
	case ReentryConnect:
		return "connect"
	}
	return "unknown"
}

// ParseReentryPolicy maps "restart" and "connect" to their policies.
func ParseReentryPolicy(s string) (ReentryPolicy, error) {
	switch s {
	case "restart":
		return ReentryRestart, nil
	case "connect":
		return ReentryConnect, nil
	}
	return ReentryRestart, fmt.Errorf("unknown reentry policy %q", s)
}

// Pen paints one segment per pointer move while the button is down.
// Pointer-down and enter/leave are observed on the paper element; move and
// pointer-up on the whole document so a stroke survives the pointer
// briefly leaving the paper.
type Pen struct {
	host   Host
	policy ReentryPolicy
	subs   []subscription
	log    *slog.Logger
}

type subscription struct {
	el  *input.Element
	sub input.Subscription
}

// Option configures a Pen.
type Option func(*Pen)

// WithReentryPolicy selects the re-entry behavior.
func WithReentryPolicy(r ReentryPolicy) Option {
	return func(p *Pen) { p.policy = r }
}

// New creates a pen bound to host.
func New(host Host, opts ...Option) *Pen {
	p := &Pen{host: host}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pen) Name() string { return Name }

// Policy returns the re-entry policy in use.
func (p *Pen) Policy() ReentryPolicy { return p.policy }

// SetPolicy changes the re-entry policy.
func (p *Pen) SetPolicy(r ReentryPolicy) { p.policy = r }

func (p *Pen) Init() {
	p.log = paper.Logger().With("tool", Name)
}

// Handlers is empty: the pen drives the surface from its own listeners.
func (p *Pen) Handlers() paper.Handlers { return paper.Handlers{} }

// Activated subscribes the pen's listeners. A second call while active
// is ignored.
func (p *Pen) Activated() {
	if len(p.subs) > 0 {
		p.logger().Warn("pen activated twice")
		return
	}
	canvas := p.host.Surface().Element()
	doc := canvas.Root()

	p.on(canvas, input.Down, p.canvasDown)
	p.on(canvas, input.Enter, p.canvasEnter)
	p.on(doc, input.Move, p.documentMove)
	p.on(canvas, input.Leave, p.canvasLeave)
	p.on(doc, input.Up, p.documentUp)
	p.logger().Debug("pen listeners registered", "count", len(p.subs))
}

// Deactivated removes every listener added by Activated.
func (p *Pen) Deactivated() {
	for _, s := range p.subs {
		s.el.Off(s.sub)
	}
	p.subs = nil
	p.logger().Debug("pen listeners removed")
}

func (p *Pen) on(el *input.Element, kind input.Kind, fn input.Handler) {
	p.subs = append(p.subs, subscription{el: el, sub: el.On(kind, fn)})
}

func (p *Pen) logger() *slog.Logger {
	if p.log == nil {
		return paper.Logger()
	}
	return p.log
}

// inkColor is read at every segment so a color change applies from the
// next segment on.
func (p *Pen) inkColor() color.Color {
	return p.host.PrimaryColor()
}

// segment paints a line from the stroke's last point to pt.
func (p *Pen) segment(pt paper.Point) paper.DrawOp {
	ink := p.inkColor()
	return func(dc *gg.Context, from paper.Point) paper.Point {
		dc.SetColor(ink)
		dc.MoveTo(from.X, from.Y)
		dc.LineTo(pt.X, pt.Y)
		if err := dc.Stroke(); err != nil {
			p.logger().Warn("stroke segment failed", "error", err)
		}
		return pt
	}
}

func (p *Pen) canvasDown(ev input.Event) {
	s := p.host.Surface()
	s.StartDrawing(s.PageToPaper(ev.PageX, ev.PageY), p.inkColor(), p.host.ToolSize())
}

func (p *Pen) canvasEnter(ev input.Event) {
	s := p.host.Surface()
	if !s.IsDrawing() {
		return
	}
	pt := s.PageToPaper(ev.PageX, ev.PageY)
	switch p.policy {
	case ReentryConnect:
		s.Draw(p.segment(pt))
	default:
		s.StartDrawing(pt, p.inkColor(), p.host.ToolSize())
	}
}

func (p *Pen) documentMove(ev input.Event) {
	s := p.host.Surface()
	pt := s.PageToPaper(ev.PageX, ev.PageY)
	s.RecordOuterPoint(pt)
	if ev.Target == s.Element() {
		s.Draw(p.segment(pt))
	}
}

func (p *Pen) canvasLeave(ev input.Event) {
	s := p.host.Surface()
	s.ExitFromPaper(s.PageToPaper(ev.PageX, ev.PageY))
}

func (p *Pen) documentUp(input.Event) {
	p.host.Surface().StopDrawing()
}
