// Package input turns platform events into viewer events and fans them out
// to subscribers.
package input

// EventType identifies the kind of event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventFullscreenChange
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Key is a platform-neutral key code.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPlus
	KeyEquals
	KeyMinus
	KeyEscape
	KeyR
	KeyT
	KeyF
	KeyP
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// Digit returns the 1-based number of a digit key, or 0.
func (k Key) Digit() int {
	if k >= Key1 && k <= Key9 {
		return int(k-Key1) + 1
	}
	return 0
}

// Mouse buttons.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Wheel  float32
	Button uint8
}
