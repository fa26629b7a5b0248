package ui

import (
	"image"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/Antaniasdasd/ippeint/internal/input"
	"github.com/Antaniasdasd/ippeint/internal/paint"
	"github.com/Antaniasdasd/ippeint/internal/paper"
)

// PaperWidget shows the paper and feeds fyne pointer events into its
// input scopes. Fyne positions become page coordinates; the widget's own
// absolute origin is the wrapper's page offset.
type PaperWidget struct {
	widget.BaseWidget
	paint  *paint.Paint
	raster *canvas.Raster

	inside  bool
	pressed bool
	lastX   float64
	lastY   float64
}

var _ fyne.Widget = (*PaperWidget)(nil)
var _ fyne.Draggable = (*PaperWidget)(nil)
var _ fyne.Tappable = (*PaperWidget)(nil)
var _ desktop.Mouseable = (*PaperWidget)(nil)
var _ desktop.Hoverable = (*PaperWidget)(nil)
var _ desktop.Cursorable = (*PaperWidget)(nil)

func NewPaperWidget(p *paint.Paint) *PaperWidget {
	w := &PaperWidget{paint: p}
	w.raster = canvas.NewRaster(func(int, int) image.Image {
		return w.paint.Paper().Render()
	})
	w.raster.ScaleMode = canvas.ImageScalePixels
	w.ExtendBaseWidget(w)
	w.updateSize()

	p.Paper().Observe(paper.Observer{
		Zoom:   w.updateSize,
		Resize: w.updateSize,
	})
	p.Paper().OnCursorChanged = func(string) { w.Refresh() }
	return w
}

func (w *PaperWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}

func (w *PaperWidget) updateSize() {
	ew, eh := w.paint.Paper().Element().Size()
	w.raster.SetMinSize(fyne.NewSize(float32(ew), float32(eh)))
	w.Refresh()
}

// page converts a fyne point event into page coordinates and moves the
// wrapper and paper elements to the widget's current absolute origin.
func (w *PaperWidget) page(ev fyne.PointEvent) (x, y float64) {
	ox := float64(ev.AbsolutePosition.X - ev.Position.X)
	oy := float64(ev.AbsolutePosition.Y - ev.Position.Y)
	w.paint.Wrapper().SetOffset(ox, oy)
	w.paint.Paper().Element().SetOffset(ox, oy)
	w.lastX, w.lastY = float64(ev.AbsolutePosition.X), float64(ev.AbsolutePosition.Y)
	return w.lastX, w.lastY
}

// target is the innermost element under the pointer.
func (w *PaperWidget) target(x, y float64) *input.Element {
	el := w.paint.Paper().Element()
	if el.HitTest(x, y) {
		return el
	}
	return w.paint.Document()
}

func (w *PaperWidget) dispatch(el *input.Element, kind input.Kind, x, y float64) {
	el.Dispatch(input.Event{Kind: kind, PageX: x, PageY: y})
	w.raster.Refresh()
}

// crossing emits enter or leave when the pointer changes side of the
// paper edge.
func (w *PaperWidget) crossing(x, y float64) {
	el := w.paint.Paper().Element()
	in := el.HitTest(x, y)
	if in == w.inside {
		return
	}
	w.inside = in
	if in {
		w.dispatch(el, input.Enter, x, y)
	} else {
		w.dispatch(el, input.Leave, x, y)
	}
}

func (w *PaperWidget) move(ev fyne.PointEvent) {
	x, y := w.page(ev)
	w.crossing(x, y)
	w.dispatch(w.target(x, y), input.Move, x, y)
}

func (w *PaperWidget) Tapped(ev *fyne.PointEvent) {
	x, y := w.page(*ev)
	w.dispatch(w.paint.Paper().Element(), input.Click, x, y)
}

func (w *PaperWidget) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	x, y := w.page(ev.PointEvent)
	w.pressed = true
	w.inside = true
	w.dispatch(w.paint.Paper().Element(), input.Down, x, y)
}

func (w *PaperWidget) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || !w.pressed {
		return
	}
	x, y := w.page(ev.PointEvent)
	w.pressed = false
	w.dispatch(w.target(x, y), input.Up, x, y)
}

func (w *PaperWidget) Dragged(ev *fyne.DragEvent) {
	w.move(ev.PointEvent)
}

// DragEnd closes a gesture whose button was released away from the widget.
func (w *PaperWidget) DragEnd() {
	if !w.pressed {
		return
	}
	w.pressed = false
	w.dispatch(w.paint.Document(), input.Up, w.lastX, w.lastY)
}

func (w *PaperWidget) MouseIn(ev *desktop.MouseEvent) {
	w.move(ev.PointEvent)
}

func (w *PaperWidget) MouseMoved(ev *desktop.MouseEvent) {
	w.move(ev.PointEvent)
}

// MouseOut emits leave at the last position seen inside the widget; fyne
// reports no coordinate for the exit itself.
func (w *PaperWidget) MouseOut() {
	if !w.inside {
		return
	}
	w.inside = false
	w.dispatch(w.paint.Paper().Element(), input.Leave, w.lastX, w.lastY)
}

// Cursor maps the paper's cursor hint onto a fyne cursor. Image cursors
// are not supported by fyne and fall back to the default.
func (w *PaperWidget) Cursor() desktop.Cursor {
	hint := w.paint.Paper().Cursor()
	name, _, _ := strings.Cut(hint, ",")
	name, _, _ = strings.Cut(name, " ")
	switch name {
	case "crosshair":
		return desktop.CrosshairCursor
	case "text":
		return desktop.TextCursor
	case "pointer":
		return desktop.PointerCursor
	case "none":
		return desktop.HiddenCursor
	}
	return desktop.DefaultCursor
}
