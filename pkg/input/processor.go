// Package input turns ebiten's polled input state into discrete events and routes
// them to a single Processor, normally the active screen.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Processor receives input events. Every handler reports whether it consumed the event.
//
// Coordinates are screen pixels; use the state manager's Unproject to get world
// coordinates. The mouse is reported as pointer 0; a touch is reported as its ebiten
// touch ID plus one.
type Processor interface {
	KeyDown(key ebiten.Key) bool
	KeyUp(key ebiten.Key) bool
	KeyTyped(char rune) bool
	TouchDown(x, y, pointer int, button ebiten.MouseButton) bool
	TouchUp(x, y, pointer int, button ebiten.MouseButton) bool
	TouchDragged(x, y, pointer int) bool
	MouseMoved(x, y int) bool
	Scrolled(dx, dy float64) bool
}

// Adapter is a Processor that consumes nothing. Embed it and override the handlers you need.
type Adapter struct{}

var _ Processor = Adapter{}

func (Adapter) KeyDown(ebiten.Key) bool                          { return false }
func (Adapter) KeyUp(ebiten.Key) bool                            { return false }
func (Adapter) KeyTyped(rune) bool                               { return false }
func (Adapter) TouchDown(int, int, int, ebiten.MouseButton) bool { return false }
func (Adapter) TouchUp(int, int, int, ebiten.MouseButton) bool   { return false }
func (Adapter) TouchDragged(int, int, int) bool                  { return false }
func (Adapter) MouseMoved(int, int) bool                         { return false }
func (Adapter) Scrolled(float64, float64) bool                   { return false }

// Kind identifies the handler an Event is delivered to.
type Kind int

const (
	KeyDown Kind = iota
	KeyUp
	KeyTyped
	TouchDown
	TouchUp
	TouchDragged
	MouseMoved
	Scrolled
)

var kindNames = [...]string{
	KeyDown:      "KeyDown",
	KeyUp:        "KeyUp",
	KeyTyped:     "KeyTyped",
	TouchDown:    "TouchDown",
	TouchUp:      "TouchUp",
	TouchDragged: "TouchDragged",
	MouseMoved:   "MouseMoved",
	Scrolled:     "Scrolled",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Event is one input occurrence. Only the fields relevant to Kind are set.
type Event struct {
	Kind    Kind
	Key     ebiten.Key
	Char    rune
	X, Y    int
	Pointer int
	Button  ebiten.MouseButton
	DX, DY  float64
}

// Dispatch delivers ev to the matching handler of p and returns whether it was consumed.
func Dispatch(p Processor, ev Event) bool {
	if p == nil {
		return false
	}
	switch ev.Kind {
	case KeyDown:
		return p.KeyDown(ev.Key)
	case KeyUp:
		return p.KeyUp(ev.Key)
	case KeyTyped:
		return p.KeyTyped(ev.Char)
	case TouchDown:
		return p.TouchDown(ev.X, ev.Y, ev.Pointer, ev.Button)
	case TouchUp:
		return p.TouchUp(ev.X, ev.Y, ev.Pointer, ev.Button)
	case TouchDragged:
		return p.TouchDragged(ev.X, ev.Y, ev.Pointer)
	case MouseMoved:
		return p.MouseMoved(ev.X, ev.Y)
	case Scrolled:
		return p.Scrolled(ev.DX, ev.DY)
	}
	return false
}
