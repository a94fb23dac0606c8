// Package rooms holds the fixed, ordered set of rooms in a walkthrough.
package rooms

import (
	"errors"
	"fmt"

	"github.com/Faultbox/panotour/internal/config"
	"github.com/Faultbox/panotour/pkg/math"
)

// ErrOutOfRange is returned for a room index outside the registry.
var ErrOutOfRange = errors.New("room index out of range")

// Room is one panorama location. The ID is its index in the registry.
type Room struct {
	ID            int
	Name          string
	Panorama      string // asset key of the equirectangular image
	Glyph         string // short label drawn on hotspot icons
	Ambience      string // optional looping sound
	CameraTarget  math.Vec3
	HotspotAnchor math.Vec3
}

// Registry is the immutable room sequence.
type Registry struct {
	rooms []Room
}

// NewRegistry validates rooms and assigns IDs by position.
func NewRegistry(rs []Room) (*Registry, error) {
	if len(rs) == 0 {
		return nil, errors.New("registry needs at least one room")
	}

	out := make([]Room, len(rs))
	for i, r := range rs {
		if r.Panorama == "" {
			return nil, fmt.Errorf("room %d (%s): panorama is empty", i, r.Name)
		}
		if r.CameraTarget.Length() < 1e-6 {
			return nil, fmt.Errorf("room %d (%s): camera target must be non-zero", i, r.Name)
		}
		if r.HotspotAnchor.Length() < 1e-6 {
			return nil, fmt.Errorf("room %d (%s): hotspot anchor must be non-zero", i, r.Name)
		}
		r.ID = i
		out[i] = r
	}
	return &Registry{rooms: out}, nil
}

// FromConfig builds a registry from configured rooms.
func FromConfig(cfgs []config.RoomConfig) (*Registry, error) {
	rs := make([]Room, len(cfgs))
	for i, c := range cfgs {
		rs[i] = Room{
			Name:          c.Name,
			Panorama:      c.Panorama,
			Glyph:         c.Glyph,
			Ambience:      c.Ambience,
			CameraTarget:  vec(c.CameraTarget),
			HotspotAnchor: vec(c.HotspotAnchor),
		}
	}
	return NewRegistry(rs)
}

// Default returns the living room, kitchen, bedroom and bathroom tour.
func Default() *Registry {
	reg, err := FromConfig(config.DefaultRooms())
	if err != nil {
		panic(fmt.Sprintf("default rooms: %v", err))
	}
	return reg
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// RoomAt returns the room with index i.
func (r *Registry) RoomAt(i int) (Room, error) {
	if i < 0 || i >= len(r.rooms) {
		return Room{}, fmt.Errorf("room %d of %d: %w", i, len(r.rooms), ErrOutOfRange)
	}
	return r.rooms[i], nil
}

// Count returns the number of rooms.
func (r *Registry) Count() int {
	return len(r.rooms)
}

// All returns a copy of the rooms in order.
func (r *Registry) All() []Room {
	out := make([]Room, len(r.rooms))
	copy(out, r.rooms)
	return out
}

// Next returns the index after i, wrapping to 0.
func (r *Registry) Next(i int) int {
	return (i + 1) % len(r.rooms)
}

// Valid reports whether i is a room index.
func (r *Registry) Valid(i int) bool {
	return i >= 0 && i < len(r.rooms)
}
