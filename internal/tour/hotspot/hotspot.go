// Package hotspot places clickable room icons inside the panorama sphere,
// picks them with rays and animates their click feedback and idle pulse.
package hotspot

import (
	"fmt"
	"time"

	"github.com/Faultbox/panotour/internal/config"
	"github.com/Faultbox/panotour/internal/engine/scene"
	"github.com/Faultbox/panotour/internal/engine/timers"
	"github.com/Faultbox/panotour/internal/tour/rooms"
	"github.com/Faultbox/panotour/internal/tour/state"
	"github.com/Faultbox/panotour/pkg/math"
)

// Policy selects which rooms get a hotspot.
type Policy int

const (
	// PolicyAllOthers shows one hotspot per room other than the current one.
	PolicyAllOthers Policy = iota
	// PolicyNext shows a single hotspot for the following room.
	PolicyNext
)

func (p Policy) String() string {
	if p == PolicyNext {
		return config.HotspotPolicyNext
	}
	return config.HotspotPolicyAll
}

// ParsePolicy maps the config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case config.HotspotPolicyAll, "":
		return PolicyAllOthers, nil
	case config.HotspotPolicyNext:
		return PolicyNext, nil
	}
	return PolicyAllOthers, fmt.Errorf("unknown hotspot policy %q", s)
}

// Config tunes placement and animation.
type Config struct {
	Policy         Policy
	IconRadius     float32 // distance from the sphere centre, inside the panorama
	IconSize       float32 // world-space edge length of the icon quad
	BaseScale      float32
	PressScale     float32
	PressDuration  time.Duration
	PulseAmplitude float32
	PulseHz        float32
	TextureSize    int
}

// DefaultConfig returns the standard hotspot settings.
func DefaultConfig() Config {
	return Config{
		Policy:         PolicyAllOthers,
		IconRadius:     40,
		IconSize:       4,
		BaseScale:      1,
		PressScale:     1.3,
		PressDuration:  200 * time.Millisecond,
		PulseAmplitude: 0.08,
		PulseHz:        0.8,
		TextureSize:    128,
	}
}

// Hotspot is a derived, never persisted icon leading to RoomIndex.
type Hotspot struct {
	RoomIndex int
	Glyph     string
	Theme     state.Theme
	Position  math.Vec3
	Rotation  math.Quat
	BaseScale float32

	mesh    *scene.Mesh
	pressed bool
	restore timers.ID
	dead    bool
}

// Pressed reports whether the icon is showing click feedback.
func (h *Hotspot) Pressed() bool {
	return h.pressed
}

// Mesh returns the icon mesh, nil before the hotspot is added to a Set.
func (h *Hotspot) Mesh() *scene.Mesh {
	return h.mesh
}

// Targets returns the room indices that get a hotspot when current is shown.
func Targets(reg *rooms.Registry, current int, p Policy) []int {
	if p == PolicyNext {
		next := reg.Next(current)
		if next == current {
			return nil
		}
		return []int{next}
	}

	out := make([]int, 0, reg.Count()-1)
	for i := 0; i < reg.Count(); i++ {
		if i != current {
			out = append(out, i)
		}
	}
	return out
}

// Build derives the hotspots for current under theme. It has no side effects.
func Build(reg *rooms.Registry, current int, theme state.Theme, cfg Config) []*Hotspot {
	targets := Targets(reg, current, cfg.Policy)
	out := make([]*Hotspot, 0, len(targets))
	up := math.Vec3{X: 0, Y: 1, Z: 0}

	for _, idx := range targets {
		room, err := reg.RoomAt(idx)
		if err != nil {
			continue
		}
		pos := room.HotspotAnchor.Normalize().Scale(cfg.IconRadius)
		out = append(out, &Hotspot{
			RoomIndex: idx,
			Glyph:     room.Glyph,
			Theme:     theme,
			Position:  pos,
			// Local +Z is the icon's front; point it at the sphere centre
			Rotation:  math.QuatLookRotation(pos.Negate(), up),
			BaseScale: cfg.BaseScale,
		})
	}
	return out
}
