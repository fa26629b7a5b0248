package paper

// Tool is a pluggable handler of pointer input. Exactly one registered
// tool is active per Paper at any time.
//
// Init runs once at registration and must not subscribe to input.
// Activated subscribes every listener the tool needs; Deactivated must
// remove all of them.
type Tool interface {
	Name() string
	Init()
	Activated()
	Deactivated()
	// Handlers lists the dispatcher hooks the tool supports. It is read
	// once, at registration.
	Handlers() Handlers
}

// Handlers holds the optional hooks a tool opts into. A nil hook is not
// supported and is never called.
type Handlers struct {
	PaperClick   func(pt Point)
	StartDrawing func(p *Paper, pt Point)
	Draw         func(p *Paper, pt Point)
	StopDrawing  func(p *Paper, pt Point)

	Observer
}

// Observer holds optional notifications for surface lifecycle events.
// Extensions and tools register one; nil fields are skipped.
type Observer struct {
	ResizeStart func()
	Resize      func()
	ResizeEnd   func()
	Zoom        func()
}

func (o Observer) empty() bool {
	return o.ResizeStart == nil && o.Resize == nil && o.ResizeEnd == nil && o.Zoom == nil
}

// toolSlot is a registered tool with its cached hooks and the
// dispatcher-owned drawing flag.
type toolSlot struct {
	tool    Tool
	hooks   Handlers
	drawing bool
}
