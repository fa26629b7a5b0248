package paper

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"github.com/Antaniasdasd/ippeint/internal/input"
	"github.com/gogpu/gg"
	"github.com/google/go-cmp/cmp"
)

// recordingTool logs every lifecycle call and hook into a shared journal.
type recordingTool struct {
	name    string
	journal *[]string
	hooks   bool
	inits   int
}

func (r *recordingTool) Name() string { return r.name }
func (r *recordingTool) Init()        { r.inits++ }
func (r *recordingTool) Activated()   { r.log("activated") }
func (r *recordingTool) Deactivated() { r.log("deactivated") }
func (r *recordingTool) log(s string) { *r.journal = append(*r.journal, r.name+"."+s) }
func (r *recordingTool) logPt(s string, pt Point) {
	r.log(fmt.Sprintf("%s%v", s, pt))
}

func (r *recordingTool) Handlers() Handlers {
	if !r.hooks {
		return Handlers{}
	}
	return Handlers{
		PaperClick:   func(pt Point) { r.logPt("click", pt) },
		StartDrawing: func(_ *Paper, pt Point) { r.logPt("start", pt) },
		Draw:         func(_ *Paper, pt Point) { r.logPt("draw", pt) },
		StopDrawing:  func(_ *Paper, pt Point) { r.logPt("stop", pt) },
		Observer: Observer{
			Zoom: func() { r.log("zoom") },
		},
	}
}

func TestDispatchRoutesToHooks(t *testing.T) {
	p := newTestPaper(t, 100, 80, 0, 0)
	var journal []string
	tool := &recordingTool{name: "rec", journal: &journal, hooks: true}
	if err := p.RegisterTool(tool); err != nil {
		t.Fatal(err)
	}
	if err := p.ActivateTool(tool); err != nil {
		t.Fatal(err)
	}

	el := p.Element()
	doc := el.Root()
	doc.Dispatch(input.Event{Kind: input.Move, PageX: 5, PageY: 5}) // not drawing yet
	el.Dispatch(input.Event{Kind: input.Click, PageX: 1, PageY: 2})
	el.Dispatch(input.Event{Kind: input.Down, PageX: 10, PageY: 10})
	if !p.ToolDrawing() {
		t.Error("ToolDrawing() = false after pointer-down")
	}
	el.Dispatch(input.Event{Kind: input.Move, PageX: 20, PageY: 10})
	doc.Dispatch(input.Event{Kind: input.Move, PageX: 150, PageY: 10})
	el.Dispatch(input.Event{Kind: input.Up, PageX: 20, PageY: 10})
	doc.Dispatch(input.Event{Kind: input.Move, PageX: 30, PageY: 10})
	doc.Dispatch(input.Event{Kind: input.Up, PageX: 30, PageY: 10})
	_ = p.SetZoom(2)

	want := []string{
		"rec.activated",
		"rec.click(1,2)",
		"rec.start(10,10)",
		"rec.draw(20,10)",
		"rec.draw(150,10)",
		"rec.stop(20,10)",
		"rec.zoom",
	}
	if diff := cmp.Diff(want, journal); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
	if tool.inits != 1 {
		t.Errorf("Init called %d times, want 1", tool.inits)
	}
}

func TestDispatchSkipsUnsupportedHooks(t *testing.T) {
	p := newTestPaper(t, 100, 80, 0, 0)
	var journal []string
	tool := &recordingTool{name: "bare", journal: &journal}
	if err := p.RegisterTool(tool); err != nil {
		t.Fatal(err)
	}
	if err := p.ActivateTool(tool); err != nil {
		t.Fatal(err)
	}

	el := p.Element()
	el.Dispatch(input.Event{Kind: input.Down, PageX: 10, PageY: 10})
	el.Dispatch(input.Event{Kind: input.Move, PageX: 20, PageY: 10})

	if p.ToolDrawing() {
		t.Error("tool without StartDrawing entered the drawing state")
	}
	if diff := cmp.Diff([]string{"bare.activated"}, journal); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
}

func TestActivateToolDeactivatesPreviousFirst(t *testing.T) {
	p := newTestPaper(t, 100, 80, 0, 0)
	var journal []string
	a := &recordingTool{name: "a", journal: &journal, hooks: true}
	b := &recordingTool{name: "b", journal: &journal, hooks: true}
	for _, tool := range []Tool{a, b} {
		if err := p.RegisterTool(tool); err != nil {
			t.Fatal(err)
		}
	}

	steps := []Tool{a, b, b, a}
	for _, tool := range steps {
		if err := p.ActivateTool(tool); err != nil {
			t.Fatalf("ActivateTool(%s) error = %v", tool.Name(), err)
		}
		if p.ActiveTool() != tool {
			t.Fatalf("ActiveTool() = %v, want %s", p.ActiveTool(), tool.Name())
		}
	}

	want := []string{
		"a.activated",
		"a.deactivated", "b.activated",
		"b.deactivated", "a.activated",
	}
	if diff := cmp.Diff(want, journal); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
}

func TestActivateToolErrors(t *testing.T) {
	p := newTestPaper(t, 100, 80, 0, 0)
	var journal []string
	a := &recordingTool{name: "a", journal: &journal}

	if err := p.ActivateTool(a); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("ActivateTool(unregistered) error = %v, want ErrInvariantViolation", err)
	}
	if err := p.RegisterTool(a); err != nil {
		t.Fatal(err)
	}
	if err := p.RegisterTool(a); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("second RegisterTool error = %v, want ErrInvariantViolation", err)
	}
}

// reentrantTool tries to switch tools from inside its own activation.
type reentrantTool struct {
	p     *Paper
	other Tool
	err   error
}

func (r *reentrantTool) Name() string       { return "reentrant" }
func (r *reentrantTool) Init()              {}
func (r *reentrantTool) Activated()         { r.err = r.p.ActivateTool(r.other) }
func (r *reentrantTool) Deactivated()       {}
func (r *reentrantTool) Handlers() Handlers { return Handlers{} }

func TestActivateToolRejectsNestedSwitch(t *testing.T) {
	p := newTestPaper(t, 100, 80, 0, 0)
	var journal []string
	other := &recordingTool{name: "other", journal: &journal}
	r := &reentrantTool{p: p, other: other}
	for _, tool := range []Tool{other, r} {
		if err := p.RegisterTool(tool); err != nil {
			t.Fatal(err)
		}
	}

	if err := p.ActivateTool(r); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(r.err, ErrInvariantViolation) {
		t.Errorf("nested ActivateTool error = %v, want ErrInvariantViolation", r.err)
	}
	if p.ActiveTool() != r {
		t.Errorf("ActiveTool() = %v, want reentrant", p.ActiveTool())
	}
	if len(journal) != 0 {
		t.Errorf("other tool saw %v, want nothing", journal)
	}
}

func TestSwitchMidStrokeAbandonsStroke(t *testing.T) {
	p := newTestPaper(t, 100, 80, 0, 0)
	var journal []string
	a := &recordingTool{name: "a", journal: &journal, hooks: true}
	b := &recordingTool{name: "b", journal: &journal, hooks: true}
	for _, tool := range []Tool{a, b} {
		if err := p.RegisterTool(tool); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.ActivateTool(a); err != nil {
		t.Fatal(err)
	}

	el := p.Element()
	el.Dispatch(input.Event{Kind: input.Down, PageX: 10, PageY: 10})
	p.StartDrawing(Pt(10, 10), color.Black, 3)
	if err := p.ActivateTool(b); err != nil {
		t.Fatal(err)
	}
	el.Dispatch(input.Event{Kind: input.Move, PageX: 20, PageY: 10})
	el.Dispatch(input.Event{Kind: input.Up, PageX: 20, PageY: 10})

	if p.IsDrawing() {
		t.Error("stroke still open after tool switch")
	}
	if p.Draw(func(_ *gg.Context, from Point) Point { return from }) {
		t.Error("Draw ran after the stroke was abandoned")
	}
	want := []string{"a.activated", "a.start(10,10)", "a.deactivated", "b.activated"}
	if diff := cmp.Diff(want, journal); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
}

func TestCloseRemovesDispatcherListeners(t *testing.T) {
	doc := input.NewElement("document", nil)
	wrapper := input.NewElement("wrapper", doc)
	el := input.NewElement("paper", wrapper)
	el.SetSize(100, 80)
	p, err := New(el)
	if err != nil {
		t.Fatal(err)
	}
	if doc.TotalListeners() == 0 || el.TotalListeners() == 0 {
		t.Fatal("dispatcher did not subscribe")
	}
	p.Close()
	if n := doc.TotalListeners() + el.TotalListeners(); n != 0 {
		t.Errorf("%d listeners left after Close", n)
	}
}
