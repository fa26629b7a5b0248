package ui

import (
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Antaniasdasd/ippeint/internal/paint"
)

// Zoom steps used by the zoom buttons.
const (
	zoomStep = 1.25
	minZoom  = 0.25
	maxZoom  = 8
)

var palette = []color.Color{
	color.Black,
	color.White,
	color.NRGBA{R: 255, A: 255},
	color.NRGBA{G: 255, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 255, A: 255},
}

// colorSwatch sets the primary color on tap and the secondary color on
// a secondary tap.
type colorSwatch struct {
	widget.BaseWidget
	Color             color.Color
	OnTapped          func(color.Color)
	OnTappedSecondary func(color.Color)
}

func newColorSwatch(c color.Color, tapped, secondary func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped, OnTappedSecondary: secondary}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

func (s *colorSwatch) TappedSecondary(_ *fyne.PointEvent) {
	if s.OnTappedSecondary != nil {
		s.OnTappedSecondary(s.Color)
	}
}

// colorChooser previews the primary and secondary colors.
type colorChooser struct {
	paint     *paint.Paint
	primary   *canvas.Rectangle
	secondary *canvas.Rectangle
}

func newColorChooser(p *paint.Paint) *colorChooser {
	return &colorChooser{paint: p}
}

func (c *colorChooser) Name() string { return "ColorChooser" }

func (c *colorChooser) Init() {
	c.primary = canvas.NewRectangle(c.paint.PrimaryColor())
	c.primary.SetMinSize(fyne.NewSize(28, 28))
	c.secondary = canvas.NewRectangle(c.paint.SecondaryColor())
	c.secondary.SetMinSize(fyne.NewSize(20, 20))
}

func (c *colorChooser) OnPrimaryColorChanged() {
	c.primary.FillColor = c.paint.PrimaryColor()
	c.primary.Refresh()
}

func (c *colorChooser) OnSecondaryColorChanged() {
	c.secondary.FillColor = c.paint.SecondaryColor()
	c.secondary.Refresh()
}

func (c *colorChooser) object() fyne.CanvasObject {
	swatches := container.NewHBox()
	for _, col := range palette {
		swatches.Add(newColorSwatch(col, c.paint.SetPrimaryColor, c.paint.SetSecondaryColor))
	}
	swap := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), c.paint.SwapColors)
	return container.NewHBox(
		container.NewCenter(c.primary),
		container.NewCenter(c.secondary),
		swap,
		swatches,
	)
}

// sizeChooser keeps a slider in step with the tool size.
type sizeChooser struct {
	paint  *paint.Paint
	slider *widget.Slider
	label  *widget.Label
}

func newSizeChooser(p *paint.Paint) *sizeChooser {
	return &sizeChooser{paint: p}
}

func (s *sizeChooser) Name() string { return "SizeChooser" }

func (s *sizeChooser) Init() {
	s.slider = widget.NewSlider(paint.MinToolSize, paint.MaxToolSize)
	s.slider.Step = 1
	s.slider.SetValue(s.paint.ToolSize())
	s.slider.OnChanged = s.paint.SetToolSize
	s.label = widget.NewLabel(formatSize(s.paint.ToolSize()))
}

func (s *sizeChooser) OnToolSizeChanged() {
	size := s.paint.ToolSize()
	if s.slider.Value != size {
		s.slider.SetValue(size)
	}
	s.label.SetText(formatSize(size))
}

func (s *sizeChooser) object() fyne.CanvasObject {
	slider := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), s.slider)
	return container.NewHBox(slider, s.label)
}

func formatSize(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64) + "px"
}

// zoomControl offers zoom in, zoom out and reset.
type zoomControl struct {
	paint  *paint.Paint
	label  *widget.Label
	status func(string)
}

func newZoomControl(p *paint.Paint, status func(string)) *zoomControl {
	return &zoomControl{paint: p, status: status}
}

func (z *zoomControl) Name() string { return "ZoomControl" }

func (z *zoomControl) Init() {
	z.label = widget.NewLabel(formatZoom(z.paint.Zoom()))
}

func (z *zoomControl) OnZoom() {
	z.label.SetText(formatZoom(z.paint.Zoom()))
}

func (z *zoomControl) set(value float64) {
	value = min(max(value, minZoom), maxZoom)
	if err := z.paint.SetZoom(value); err != nil {
		z.status(err.Error())
	}
}

func (z *zoomControl) object() fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { z.set(z.paint.Zoom() / zoomStep) }),
		widget.NewToolbarAction(theme.ZoomFitIcon(), func() { z.set(1) }),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { z.set(z.paint.Zoom() * zoomStep) }),
	)
	return container.NewHBox(tb, z.label)
}

func formatZoom(z float64) string {
	return fmt.Sprintf("%.0f%%", z*100)
}

// canvasSizeControl edits the logical paper size.
type canvasSizeControl struct {
	paint  *paint.Paint
	width  *widget.Entry
	height *widget.Entry
	status func(string)
}

func newCanvasSizeControl(p *paint.Paint, status func(string)) *canvasSizeControl {
	return &canvasSizeControl{paint: p, status: status}
}

func (c *canvasSizeControl) Name() string { return "CanvasSize" }

func (c *canvasSizeControl) Init() {
	c.width = widget.NewEntry()
	c.height = widget.NewEntry()
	c.OnResize()
}

func (c *canvasSizeControl) OnResize() {
	c.width.SetText(strconv.Itoa(c.paint.Paper().Width()))
	c.height.SetText(strconv.Itoa(c.paint.Paper().Height()))
}

func (c *canvasSizeControl) apply() {
	w, err := strconv.Atoi(c.width.Text)
	if err != nil {
		c.status("invalid width: " + c.width.Text)
		return
	}
	h, err := strconv.Atoi(c.height.Text)
	if err != nil {
		c.status("invalid height: " + c.height.Text)
		return
	}
	if err := c.paint.Resize(w, h); err != nil {
		c.status(err.Error())
		c.OnResize()
		return
	}
	c.status(fmt.Sprintf("Canvas resized to %dx%d", w, h))
}

func (c *canvasSizeControl) object() fyne.CanvasObject {
	entries := container.New(layout.NewGridWrapLayout(fyne.NewSize(70, 35)), c.width, c.height)
	return container.NewHBox(entries, widget.NewButton("Resize", c.apply))
}

// NewToolbar builds the tool buttons and registers the toolbar's
// extensions with p.
func NewToolbar(p *paint.Paint, status func(string)) fyne.CanvasObject {
	tools := container.NewHBox()
	for _, t := range p.Tools() {
		name := t.Name()
		tools.Add(widget.NewButtonWithIcon(name, theme.DocumentCreateIcon(), func() {
			if err := p.ActivateTool(name); err != nil {
				status(err.Error())
				return
			}
			status(name + " selected")
		}))
	}

	colors := newColorChooser(p)
	size := newSizeChooser(p)
	zoom := newZoomControl(p, status)
	canvasSize := newCanvasSizeControl(p, status)
	p.RegisterExtension(colors)
	p.RegisterExtension(size)
	p.RegisterExtension(zoom)
	p.RegisterExtension(canvasSize)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colors.object(),
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		size.object(),
		widget.NewSeparator(),
		zoom.object(),
		widget.NewSeparator(),
		canvasSize.object(),
		layout.NewSpacer(),
	)
}
