// Package state holds the single authoritative viewer state and the busy
// flag shared by the room transition and the theme fade.
package state

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBusy is returned when a transition or theme fade is already running.
var ErrBusy = errors.New("viewer is busy")

// Theme is the light or dark colour scheme.
type Theme int

const (
	Light Theme = iota
	Dark
)

// String returns "light" or "dark".
func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// ParseTheme parses "light" or "dark", case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, fmt.Errorf("unknown theme %q", s)
}

// Viewer is the authoritative viewer state. While either the room
// transition or the theme fade holds the busy flag, neither may start.
type Viewer struct {
	current   int
	theme     Theme
	roomBusy  bool
	themeBusy bool
}

// New creates the state for the given starting room and theme.
func New(current int, theme Theme) *Viewer {
	return &Viewer{current: current, theme: theme}
}

// CurrentRoom returns the committed room index.
func (v *Viewer) CurrentRoom() int {
	return v.current
}

// Theme returns the active theme.
func (v *Viewer) Theme() Theme {
	return v.theme
}

// Transitioning reports whether a room transition is running.
func (v *Viewer) Transitioning() bool {
	return v.roomBusy
}

// Fading reports whether a theme fade is running.
func (v *Viewer) Fading() bool {
	return v.themeBusy
}

// Busy reports whether any state machine holds the busy flag.
func (v *Viewer) Busy() bool {
	return v.roomBusy || v.themeBusy
}

// BeginRoomTransition takes the busy flag for a room transition.
func (v *Viewer) BeginRoomTransition() error {
	if v.Busy() {
		return ErrBusy
	}
	v.roomBusy = true
	return nil
}

// EndRoomTransition commits the target room and releases the busy flag.
func (v *Viewer) EndRoomTransition(room int) {
	v.current = room
	v.roomBusy = false
}

// JumpTo switches room immediately without a transition.
func (v *Viewer) JumpTo(room int) {
	v.current = room
}

// BeginThemeFade takes the busy flag for a theme fade.
func (v *Viewer) BeginThemeFade() error {
	if v.Busy() {
		return ErrBusy
	}
	v.themeBusy = true
	return nil
}

// SetTheme switches the active theme.
func (v *Viewer) SetTheme(t Theme) {
	v.theme = t
}

// EndThemeFade releases the busy flag taken by BeginThemeFade.
func (v *Viewer) EndThemeFade() {
	v.themeBusy = false
}
