package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Source produces the input events that occurred since the previous call.
type Source interface {
	Poll() []Event
}

// Router forwards events to the current Processor. A nil processor consumes nothing.
type Router struct {
	processor Processor
	source    Source
}

// NewRouter creates a router fed by src. A nil src polls ebiten directly.
func NewRouter(src Source) *Router {
	if src == nil {
		src = NewPoller()
	}
	return &Router{source: src}
}

// SetProcessor replaces the current processor. Pass nil to drop all input.
func (r *Router) SetProcessor(p Processor) {
	r.processor = p
}

// Processor returns the current processor, or nil.
func (r *Router) Processor() Processor {
	return r.processor
}

// Dispatch delivers ev to the current processor.
func (r *Router) Dispatch(ev Event) bool {
	return Dispatch(r.processor, ev)
}

// Poll collects this frame's events from the source and dispatches them in order.
// It returns the number of events that were consumed.
func (r *Router) Poll() int {
	if r.source == nil {
		return 0
	}
	consumed := 0
	for _, ev := range r.source.Poll() {
		if r.Dispatch(ev) {
			consumed++
		}
	}
	return consumed
}

var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// Poller reads ebiten's input state once per tick and converts changes into events.
// It must be polled from the game's Update.
type Poller struct {
	initialized    bool
	cursorX        int
	cursorY        int
	keys           []ebiten.Key
	chars          []rune
	touchIDs       []ebiten.TouchID
	activeTouchIDs []ebiten.TouchID
	events         []Event
}

// NewPoller creates a poller.
func NewPoller() *Poller {
	return &Poller{}
}

// Poll returns the events of the current tick. The returned slice is reused by the
// next call.
func (p *Poller) Poll() []Event {
	p.events = p.events[:0]

	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.events = append(p.events, Event{Kind: KeyDown, Key: k})
	}
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.events = append(p.events, Event{Kind: KeyUp, Key: k})
	}
	p.chars = ebiten.AppendInputChars(p.chars[:0])
	for _, c := range p.chars {
		p.events = append(p.events, Event{Kind: KeyTyped, Char: c})
	}

	p.pollMouse()
	p.pollTouches()

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		p.events = append(p.events, Event{Kind: Scrolled, DX: dx, DY: dy})
	}
	return p.events
}

func (p *Poller) pollMouse() {
	x, y := ebiten.CursorPosition()
	if !p.initialized {
		p.cursorX, p.cursorY = x, y
		p.initialized = true
	}

	dragging := false
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			p.events = append(p.events, Event{Kind: TouchDown, X: x, Y: y, Button: b})
		}
		if inpututil.IsMouseButtonJustReleased(b) {
			p.events = append(p.events, Event{Kind: TouchUp, X: x, Y: y, Button: b})
		}
		if ebiten.IsMouseButtonPressed(b) {
			dragging = true
		}
	}

	if x != p.cursorX || y != p.cursorY {
		if dragging {
			p.events = append(p.events, Event{Kind: TouchDragged, X: x, Y: y})
		} else {
			p.events = append(p.events, Event{Kind: MouseMoved, X: x, Y: y})
		}
		p.cursorX, p.cursorY = x, y
	}
}

func (p *Poller) pollTouches() {
	p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		x, y := ebiten.TouchPosition(id)
		p.events = append(p.events, Event{Kind: TouchDown, X: x, Y: y, Pointer: touchPointer(id), Button: ebiten.MouseButtonLeft})
	}

	p.touchIDs = inpututil.AppendJustReleasedTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		p.events = append(p.events, Event{Kind: TouchUp, X: x, Y: y, Pointer: touchPointer(id), Button: ebiten.MouseButtonLeft})
	}

	p.activeTouchIDs = ebiten.AppendTouchIDs(p.activeTouchIDs[:0])
	for _, id := range p.activeTouchIDs {
		if inpututil.IsTouchJustReleased(id) || inpututil.TouchPressDuration(id) <= 1 {
			continue
		}
		x, y := ebiten.TouchPosition(id)
		px, py := inpututil.TouchPositionInPreviousTick(id)
		if x != px || y != py {
			p.events = append(p.events, Event{Kind: TouchDragged, X: x, Y: y, Pointer: touchPointer(id)})
		}
	}
}

func touchPointer(id ebiten.TouchID) int {
	return int(id) + 1
}
