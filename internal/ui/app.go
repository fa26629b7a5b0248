package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/Antaniasdasd/ippeint/internal/paint"
	"github.com/Antaniasdasd/ippeint/internal/paper"
)

// Window is the main application window: toolbar on top, the scrollable
// paper in the middle and a status line at the bottom.
type Window struct {
	fyne.Window
	Paper  *PaperWidget
	status *widget.Label
}

// NewWindow builds the main window for p inside app a.
func NewWindow(a fyne.App, p *paint.Paint, title string) *Window {
	w := &Window{
		Window: a.NewWindow(title),
		status: widget.NewLabel("Ready"),
	}
	w.Resize(fyne.NewSize(1024, 768))

	w.Paper = NewPaperWidget(p)
	toolbar := NewToolbar(p, w.SetStatus)
	center := container.NewCenter(w.Paper)
	scroll := container.NewScroll(center)
	relayout := func() {
		center.Refresh()
		scroll.Refresh()
	}
	p.Paper().Observe(paper.Observer{Zoom: relayout, Resize: relayout})

	w.SetContent(container.NewBorder(toolbar, w.status, nil, nil, scroll))
	w.SetOnClosed(p.Close)
	return w
}

// SetStatus updates the status line.
func (w *Window) SetStatus(msg string) {
	w.status.SetText(msg)
}
