package pen

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/Antaniasdasd/ippeint/internal/input"
	"github.com/Antaniasdasd/ippeint/internal/paint"
	"github.com/Antaniasdasd/ippeint/internal/paper"
	"github.com/google/go-cmp/cmp"
)

// recorder wraps the real paper and logs the stroke calls that took
// effect.
type recorder struct {
	*paper.Paper
	calls []string
}

func (r *recorder) StartDrawing(pt paper.Point, ink color.Color, width float64) {
	r.calls = append(r.calls, fmt.Sprintf("start%v %s %g", pt, colorName(ink), width))
	r.Paper.StartDrawing(pt, ink, width)
}

func (r *recorder) Draw(op paper.DrawOp) bool {
	from := r.LastPoint()
	ok := r.Paper.Draw(op)
	if ok {
		r.calls = append(r.calls, fmt.Sprintf("draw%v->%v", from, r.LastPoint()))
	}
	return ok
}

func (r *recorder) StopDrawing() {
	if r.IsDrawing() {
		r.calls = append(r.calls, "stop")
	}
	r.Paper.StopDrawing()
}

func colorName(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	switch {
	case n.R < 32 && n.G < 32 && n.B < 32:
		return "black"
	case n.R > 200 && n.G < 60 && n.B < 60:
		return "red"
	}
	return fmt.Sprint(n)
}

type testHost struct {
	*paint.Paint
	rec *recorder
}

func (h *testHost) Surface() paper.Surface { return h.rec }

func newHost(t *testing.T, opts ...paint.Option) *testHost {
	t.Helper()
	p, err := paint.New(100, 80, opts...)
	if err != nil {
		t.Fatalf("paint.New() error = %v", err)
	}
	t.Cleanup(p.Close)
	return &testHost{Paint: p, rec: &recorder{Paper: p.Paper()}}
}

func newActivePen(t *testing.T, h *testHost, opts ...Option) *Pen {
	t.Helper()
	pen := New(h, opts...)
	if err := h.RegisterTool(pen); err != nil {
		t.Fatal(err)
	}
	if err := h.ActivateTool(Name); err != nil {
		t.Fatal(err)
	}
	return pen
}

func (h *testHost) canvas() *input.Element { return h.Paper().Element() }

func (h *testHost) at(el *input.Element, kind input.Kind, x, y float64) {
	el.Dispatch(input.Event{Kind: kind, PageX: x, PageY: y})
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestStrokeScenario(t *testing.T) {
	h := newHost(t)
	newActivePen(t, h)

	h.at(h.canvas(), input.Down, 10, 10)
	h.at(h.canvas(), input.Move, 20, 10)
	h.at(h.canvas(), input.Up, 20, 10)
	h.at(h.canvas(), input.Move, 30, 10)

	want := []string{
		"start(10,10) black 3",
		"draw(10,10)->(20,10)",
		"stop",
	}
	if diff := cmp.Diff(want, h.rec.calls); diff != "" {
		t.Errorf("surface calls mismatch (-want +got):\n%s", diff)
	}
	base := h.Paper().BaseLayer()
	if isWhite(base.At(15, 10)) {
		t.Error("segment (10,10)-(20,10) not painted at (15,10)")
	}
	if !isWhite(base.At(26, 10)) {
		t.Error("move after pointer-up painted (26,10)")
	}
}

func TestZoomedPointerDown(t *testing.T) {
	h := newHost(t)
	if err := h.SetZoom(2); err != nil {
		t.Fatal(err)
	}
	newActivePen(t, h)

	if w, hh := h.canvas().Size(); w != 200 || hh != 160 {
		t.Fatalf("container = %vx%v, want 200x160", w, hh)
	}
	h.at(h.canvas(), input.Down, 40, 40)

	if diff := cmp.Diff([]string{"start(20,20) black 3"}, h.rec.calls); diff != "" {
		t.Errorf("surface calls mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveOutsidePaperRecordsOuterPointOnly(t *testing.T) {
	h := newHost(t)
	newActivePen(t, h)
	doc := h.Document()

	h.at(h.canvas(), input.Down, 10, 10)
	h.at(doc, input.Move, 150, 10)

	if got := h.Paper().OuterPoint(); got != paper.Pt(150, 10) {
		t.Errorf("OuterPoint() = %v, want (150,10)", got)
	}
	if diff := cmp.Diff([]string{"start(10,10) black 3"}, h.rec.calls); diff != "" {
		t.Errorf("surface calls mismatch (-want +got):\n%s", diff)
	}
	if !h.Paper().IsDrawing() {
		t.Error("stroke ended while the pointer was outside")
	}
	h.at(doc, input.Up, 150, 10)
	if h.Paper().IsDrawing() {
		t.Error("pointer-up outside the paper did not end the stroke")
	}
}

func TestReentryPolicies(t *testing.T) {
	tests := []struct {
		policy   ReentryPolicy
		want     []string
		gapPaint bool
	}{
		{
			policy: ReentryRestart,
			want: []string{
				"start(10,10) black 3",
				"draw(10,10)->(50,10)",
				"start(90,50) black 3",
				"draw(90,50)->(80,50)",
			},
		},
		{
			policy: ReentryConnect,
			want: []string{
				"start(10,10) black 3",
				"draw(10,10)->(50,10)",
				"draw(50,10)->(90,50)",
				"draw(90,50)->(80,50)",
			},
			gapPaint: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			h := newHost(t)
			newActivePen(t, h, WithReentryPolicy(tt.policy))
			doc := h.Document()

			h.at(h.canvas(), input.Down, 10, 10)
			h.at(h.canvas(), input.Move, 50, 10)
			h.at(h.canvas(), input.Leave, 100, 10)
			if pt, ok := h.Paper().ExitPoint(); !ok || pt != paper.Pt(100, 10) {
				t.Errorf("ExitPoint() = %v, %v, want (100,10), true", pt, ok)
			}
			h.at(doc, input.Move, 120, 30)
			h.at(h.canvas(), input.Enter, 90, 50)
			h.at(h.canvas(), input.Move, 80, 50)

			if diff := cmp.Diff(tt.want, h.rec.calls); diff != "" {
				t.Errorf("surface calls mismatch (-want +got):\n%s", diff)
			}
			painted := !isWhite(h.Paper().BaseLayer().At(70, 30))
			if painted != tt.gapPaint {
				t.Errorf("gap pixel (70,30) painted = %v, want %v", painted, tt.gapPaint)
			}
		})
	}
}

func TestEnterWithoutStrokeIsIgnored(t *testing.T) {
	h := newHost(t)
	newActivePen(t, h)
	h.at(h.canvas(), input.Enter, 10, 10)
	if len(h.rec.calls) != 0 {
		t.Errorf("enter without a stroke produced %v", h.rec.calls)
	}
}

func TestInkColorAppliesPerSegment(t *testing.T) {
	h := newHost(t)
	newActivePen(t, h)

	h.at(h.canvas(), input.Down, 10, 10)
	h.at(h.canvas(), input.Move, 40, 10)
	h.SetPrimaryColor(color.NRGBA{R: 255, A: 255})
	h.at(h.canvas(), input.Move, 70, 10)
	h.at(h.canvas(), input.Up, 70, 10)

	base := h.Paper().BaseLayer()
	if got := colorName(base.At(25, 10)); got != "black" {
		t.Errorf("first segment pixel = %s, want black", got)
	}
	if got := colorName(base.At(55, 10)); got != "red" {
		t.Errorf("second segment pixel = %s, want red", got)
	}
}

func listenerCounts(h *testHost) map[string]int {
	return map[string]int{
		"document": h.Document().TotalListeners(),
		"wrapper":  h.Wrapper().TotalListeners(),
		"canvas":   h.canvas().TotalListeners(),
	}
}

func TestDeactivationRemovesEveryListener(t *testing.T) {
	h := newHost(t)
	before := listenerCounts(h)

	pen := newActivePen(t, h)
	during := listenerCounts(h)
	if during["document"] != before["document"]+2 || during["canvas"] != before["canvas"]+3 {
		t.Errorf("listeners while active = %v, baseline %v", during, before)
	}

	pen.Activated() // tolerated double activation
	if diff := cmp.Diff(during, listenerCounts(h)); diff != "" {
		t.Errorf("double activation changed listeners (-want +got):\n%s", diff)
	}

	pen.Deactivated()
	if diff := cmp.Diff(before, listenerCounts(h)); diff != "" {
		t.Errorf("listeners leaked after deactivation (-want +got):\n%s", diff)
	}
}

// idle is a second tool with no hooks, used to switch away from the pen.
type idle struct{}

func (idle) Name() string             { return "idle" }
func (idle) Init()                    {}
func (idle) Activated()               {}
func (idle) Deactivated()             {}
func (idle) Handlers() paper.Handlers { return paper.Handlers{} }

func TestRapidSwitchingMidStroke(t *testing.T) {
	h := newHost(t)
	before := listenerCounts(h)
	newActivePen(t, h)
	if err := h.RegisterTool(idle{}); err != nil {
		t.Fatal(err)
	}

	h.at(h.canvas(), input.Down, 10, 10)
	for i := 0; i < 25; i++ {
		name := "idle"
		if i%2 == 1 {
			name = Name
		}
		if err := h.ActivateTool(name); err != nil {
			t.Fatal(err)
		}
		h.at(h.canvas(), input.Move, float64(20+i), 20)
	}
	// idle is active after an odd number of switches.
	if got := h.CurrentTool().Name(); got != "idle" {
		t.Fatalf("CurrentTool() = %s, want idle", got)
	}
	h.at(h.canvas(), input.Move, 60, 60)

	if diff := cmp.Diff([]string{"start(10,10) black 3"}, h.rec.calls); diff != "" {
		t.Errorf("surface calls mismatch (-want +got):\n%s", diff)
	}
	if h.Paper().IsDrawing() {
		t.Error("stroke survived the tool switch")
	}
	if diff := cmp.Diff(before, listenerCounts(h)); diff != "" {
		t.Errorf("listeners leaked after switching (-want +got):\n%s", diff)
	}
}

func TestParseReentryPolicy(t *testing.T) {
	for _, want := range []ReentryPolicy{ReentryRestart, ReentryConnect} {
		got, err := ParseReentryPolicy(want.String())
		if err != nil || got != want {
			t.Errorf("ParseReentryPolicy(%q) = %v, %v", want.String(), got, err)
		}
	}
	if _, err := ParseReentryPolicy("bridge"); err == nil {
		t.Error("ParseReentryPolicy(bridge) succeeded")
	}
}
