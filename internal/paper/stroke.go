package paper

import (
	"image/color"

	"github.com/Antaniasdasd/ippeint/internal/input"
	"github.com/gogpu/gg"
)

// DrawOp paints one incremental operation on the active layer. It receives
// the layer's drawing context, already configured with the stroke's ink
// and width, and the last point of the stroke. It returns the new last
// point.
type DrawOp func(dc *gg.Context, from Point) Point

// Surface is the drawing API a Paper exposes to tools.
type Surface interface {
	Element() *input.Element
	PageToPaper(pageX, pageY float64) Point
	StartDrawing(pt Point, ink color.Color, width float64)
	Draw(op DrawOp) bool
	StopDrawing()
	IsDrawing() bool
	RecordOuterPoint(pt Point)
	ExitFromPaper(pt Point)
	ExitPoint() (Point, bool)
}

var _ Surface = (*Paper)(nil)

type strokeState struct {
	drawing bool
	last    Point
	ink     color.Color
	width   float64

	outer  Point
	exit   Point
	exited bool
}

// StartDrawing opens a stroke at pt. A stroke already in progress is
// replaced, so the new one does not connect to it.
func (p *Paper) StartDrawing(pt Point, ink color.Color, width float64) {
	if ink == nil {
		ink = color.Black
	}
	p.stroke = strokeState{
		drawing: true,
		last:    pt,
		ink:     ink,
		width:   width,
		outer:   pt,
	}
	Logger().Debug("stroke started", "point", pt, "width", width)
}

// Draw applies op to the active layer when a stroke is in progress and
// records the point it returns. It reports whether op ran.
func (p *Paper) Draw(op DrawOp) bool {
	if !p.stroke.drawing {
		return false
	}
	p.active.apply(func(dc *gg.Context) {
		dc.SetColor(p.stroke.ink)
		dc.SetLineWidth(p.stroke.width)
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		p.stroke.last = op(dc, p.stroke.last)
	})
	return true
}

// StopDrawing closes the stroke in progress, if any.
func (p *Paper) StopDrawing() {
	if !p.stroke.drawing {
		return
	}
	p.stroke.drawing = false
	p.stroke.exited = false
	Logger().Debug("stroke stopped", "point", p.stroke.last)
}

// IsDrawing reports whether a stroke is in progress.
func (p *Paper) IsDrawing() bool { return p.stroke.drawing }

// LastPoint returns the last point recorded by the current or most
// recent stroke.
func (p *Paper) LastPoint() Point { return p.stroke.last }

// RecordOuterPoint stores the last known pointer position, which may lie
// outside the surface.
func (p *Paper) RecordOuterPoint(pt Point) { p.stroke.outer = pt }

// OuterPoint returns the point stored by RecordOuterPoint.
func (p *Paper) OuterPoint() Point { return p.stroke.outer }

// ExitFromPaper records where the pointer left the surface. The stroke
// stays open.
func (p *Paper) ExitFromPaper(pt Point) {
	p.stroke.exit = pt
	p.stroke.exited = true
}

// ExitPoint returns the point recorded by ExitFromPaper during the current
// stroke.
func (p *Paper) ExitPoint() (Point, bool) {
	return p.stroke.exit, p.stroke.drawing && p.stroke.exited
}
