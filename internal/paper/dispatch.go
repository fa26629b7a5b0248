package paper

import (
	"fmt"

	"github.com/Antaniasdasd/ippeint/internal/input"
)

// RegisterTool initializes t and caches its hooks. A tool can be
// registered once.
func (p *Paper) RegisterTool(t Tool) error {
	if p.slot(t) != nil {
		return fmt.Errorf("register tool %q: already registered: %w", t.Name(), ErrInvariantViolation)
	}
	t.Init()
	s := &toolSlot{tool: t, hooks: t.Handlers()}
	p.tools = append(p.tools, s)
	p.Observe(s.hooks.Observer)
	Logger().Info("tool registered", "tool", t.Name())
	return nil
}

func (p *Paper) slot(t Tool) *toolSlot {
	for _, s := range p.tools {
		if s.tool == t {
			return s
		}
	}
	return nil
}

// ActiveTool returns the active tool, or nil.
func (p *Paper) ActiveTool() Tool {
	if p.current == nil {
		return nil
	}
	return p.current.tool
}

// ActivateTool makes t the single active tool. The previous tool is
// deactivated, and any stroke in progress abandoned, before t is
// activated. Activating the active tool again is a no-op. Calling
// ActivateTool from inside Activated or Deactivated fails.
func (p *Paper) ActivateTool(t Tool) error {
	s := p.slot(t)
	if s == nil {
		return fmt.Errorf("activate tool: tool is not registered: %w", ErrInvariantViolation)
	}
	if p.switching {
		return fmt.Errorf("activate tool %q: tool switch already in progress: %w", t.Name(), ErrInvariantViolation)
	}
	if p.current == s {
		Logger().Warn("tool already active", "tool", t.Name())
		return nil
	}

	p.switching = true
	defer func() { p.switching = false }()

	if p.current != nil {
		p.deactivateCurrent()
	}
	p.current = s
	s.tool.Activated()
	Logger().Info("tool activated", "tool", t.Name())
	return nil
}

// DeactivateTool deactivates the active tool, leaving none active.
func (p *Paper) DeactivateTool() {
	if p.current == nil || p.switching {
		return
	}
	p.switching = true
	defer func() { p.switching = false }()
	p.deactivateCurrent()
}

func (p *Paper) deactivateCurrent() {
	prev := p.current
	p.current = nil
	prev.drawing = false
	if p.stroke.drawing {
		p.StopDrawing()
	}
	prev.tool.Deactivated()
	Logger().Info("tool deactivated", "tool", prev.tool.Name())
}

// ToolDrawing reports whether the dispatcher considers the active tool to
// be in the middle of a gesture.
func (p *Paper) ToolDrawing() bool {
	return p.current != nil && p.current.drawing
}

func (p *Paper) onPaperClick(ev input.Event) {
	s := p.current
	if s == nil || s.hooks.PaperClick == nil {
		return
	}
	s.hooks.PaperClick(p.PageToPaper(ev.PageX, ev.PageY))
}

func (p *Paper) onPaperDown(ev input.Event) {
	s := p.current
	if s == nil || s.hooks.StartDrawing == nil {
		return
	}
	s.drawing = true
	s.hooks.StartDrawing(p, p.PageToPaper(ev.PageX, ev.PageY))
}

func (p *Paper) onDocumentMove(ev input.Event) {
	s := p.current
	if s == nil || !s.drawing || s.hooks.Draw == nil {
		return
	}
	s.hooks.Draw(p, p.PageToPaper(ev.PageX, ev.PageY))
}

func (p *Paper) onDocumentUp(ev input.Event) {
	s := p.current
	if s == nil || !s.drawing {
		return
	}
	s.drawing = false
	if s.hooks.StopDrawing != nil {
		s.hooks.StopDrawing(p, p.PageToPaper(ev.PageX, ev.PageY))
	}
}
