package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/panotour/internal/engine/input"
)

// Poller converts SDL events to input events.
type Poller struct {
	events []input.Event
}

// NewPoller creates a new event poller.
func NewPoller() *Poller {
	return &Poller{
		events: make([]input.Event, 0, 16),
	}
}

// Update polls SDL events and converts them to input events.
// Returns true if the viewer should quit.
func (p *Poller) Update() bool {
	p.events = p.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			p.events = append(p.events, input.Event{Type: input.EventQuit})
			return true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				p.events = append(p.events, input.Event{
					Type:   input.EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			case sdl.WINDOWEVENT_MAXIMIZED, sdl.WINDOWEVENT_RESTORED:
				p.events = append(p.events, input.Event{Type: input.EventFullscreenChange})
			}

		case *sdl.KeyboardEvent:
			key := translateKey(e.Keysym.Sym)
			if key == input.KeyUnknown {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				p.events = append(p.events, input.Event{Type: input.EventKeyDown, Key: key})
			} else if e.Type == sdl.KEYUP {
				p.events = append(p.events, input.Event{Type: input.EventKeyUp, Key: key})
			}

		case *sdl.MouseMotionEvent:
			p.events = append(p.events, input.Event{
				Type:   input.EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DeltaX: int(e.XRel),
				DeltaY: int(e.YRel),
				Button: buttonFromState(e.State),
			})

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				p.events = append(p.events, input.Event{
					Type:   input.EventMouseDown,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
			} else if e.Type == sdl.MOUSEBUTTONUP {
				p.events = append(p.events, input.Event{
					Type:   input.EventMouseUp,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
			}

		case *sdl.MouseWheelEvent:
			p.events = append(p.events, input.Event{
				Type:  input.EventMouseWheel,
				Wheel: float32(e.Y),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (p *Poller) Events() []input.Event {
	return p.events
}

// Pump dispatches the events from the last Update.
func (p *Poller) Pump(d *input.Dispatcher) {
	for _, e := range p.events {
		d.Dispatch(e)
	}
}

func buttonFromState(state uint32) uint8 {
	switch {
	case state&sdl.ButtonLMask() != 0:
		return input.ButtonLeft
	case state&sdl.ButtonRMask() != 0:
		return input.ButtonRight
	case state&sdl.ButtonMMask() != 0:
		return input.ButtonMiddle
	}
	return 0
}

func translateKey(sym sdl.Keycode) input.Key {
	switch sym {
	case sdl.K_LEFT:
		return input.KeyLeft
	case sdl.K_RIGHT:
		return input.KeyRight
	case sdl.K_UP:
		return input.KeyUp
	case sdl.K_DOWN:
		return input.KeyDown
	case sdl.K_PLUS, sdl.K_KP_PLUS:
		return input.KeyPlus
	case sdl.K_EQUALS:
		return input.KeyEquals
	case sdl.K_MINUS, sdl.K_KP_MINUS:
		return input.KeyMinus
	case sdl.K_ESCAPE:
		return input.KeyEscape
	case sdl.K_r:
		return input.KeyR
	case sdl.K_t:
		return input.KeyT
	case sdl.K_f:
		return input.KeyF
	case sdl.K_p:
		return input.KeyP
	}
	if sym >= sdl.K_1 && sym <= sdl.K_9 {
		return input.Key1 + input.Key(sym-sdl.K_1)
	}
	return input.KeyUnknown
}
