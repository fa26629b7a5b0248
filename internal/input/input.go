// Package input models the pointer-event scopes of the drawing window.
//
// Elements form a tree rooted at the document. Events dispatched on an
// element run its listeners and then bubble to every ancestor, except
// Enter and Leave which only reach the element they were dispatched on.
package input

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies a pointer event.
type Kind int

const (
	Click Kind = iota
	Down
	Up
	Move
	Enter
	Leave
)

var kindNames = [...]string{"click", "down", "up", "move", "enter", "leave"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) bubbles() bool {
	return k != Enter && k != Leave
}

// Event is a pointer event in page coordinates.
type Event struct {
	Kind   Kind
	PageX  float64
	PageY  float64
	Target *Element
}

// Handler receives events for a subscription.
type Handler func(ev Event)

// Subscription identifies one registered listener.
type Subscription struct {
	ID   uuid.UUID
	Kind Kind
}

type listener struct {
	id uuid.UUID
	fn Handler
}

// Element is a node in the input tree with a page offset and a size.
type Element struct {
	name      string
	parent    *Element
	x, y      float64
	w, h      float64
	listeners map[Kind][]listener
}

// NewElement creates an element attached under parent. A nil parent
// makes the element a root (the document).
func NewElement(name string, parent *Element) *Element {
	return &Element{
		name:      name,
		parent:    parent,
		listeners: make(map[Kind][]listener),
	}
}

func (e *Element) Name() string     { return e.name }
func (e *Element) Parent() *Element { return e.parent }
func (e *Element) String() string   { return e.name }

// Root returns the topmost ancestor.
func (e *Element) Root() *Element {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// SetOffset sets the page position of the element's top-left corner.
func (e *Element) SetOffset(x, y float64) {
	e.x, e.y = x, y
}

// Offset returns the page position of the element's top-left corner.
func (e *Element) Offset() (x, y float64) {
	return e.x, e.y
}

// SetSize sets the on-screen size of the element.
func (e *Element) SetSize(w, h float64) {
	e.w, e.h = w, h
}

// Size returns the on-screen size of the element.
func (e *Element) Size() (w, h float64) {
	return e.w, e.h
}

// HitTest reports whether the page point lies inside the element.
func (e *Element) HitTest(pageX, pageY float64) bool {
	return pageX >= e.x && pageX < e.x+e.w && pageY >= e.y && pageY < e.y+e.h
}

// On registers fn for events of the given kind and returns the
// subscription needed to remove it.
func (e *Element) On(kind Kind, fn Handler) Subscription {
	l := listener{id: uuid.New(), fn: fn}
	e.listeners[kind] = append(e.listeners[kind], l)
	return Subscription{ID: l.id, Kind: kind}
}

// Off removes a subscription. It reports whether the subscription was
// registered on this element.
func (e *Element) Off(sub Subscription) bool {
	ls := e.listeners[sub.Kind]
	for i, l := range ls {
		if l.id == sub.ID {
			e.listeners[sub.Kind] = append(ls[:i:i], ls[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners registered for kind.
func (e *Element) ListenerCount(kind Kind) int {
	return len(e.listeners[kind])
}

// TotalListeners returns the number of listeners of every kind.
func (e *Element) TotalListeners() int {
	n := 0
	for _, ls := range e.listeners {
		n += len(ls)
	}
	return n
}

func (e *Element) registered(kind Kind, id uuid.UUID) bool {
	for _, l := range e.listeners[kind] {
		if l.id == id {
			return true
		}
	}
	return false
}

// Dispatch delivers ev to e and, for bubbling kinds, to its ancestors.
// The event's Target is set to e when empty. Listeners removed while the
// event is being delivered are not called.
func (e *Element) Dispatch(ev Event) {
	if ev.Target == nil {
		ev.Target = e
	}
	for n := e; n != nil; n = n.parent {
		n.deliver(ev)
		if !ev.Kind.bubbles() {
			return
		}
	}
}

func (e *Element) deliver(ev Event) {
	ls := e.listeners[ev.Kind]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]listener, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		if !e.registered(ev.Kind, l.id) {
			continue
		}
		l.fn(ev)
	}
}
