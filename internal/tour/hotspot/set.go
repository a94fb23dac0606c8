package hotspot

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"github.com/Faultbox/panotour/internal/engine/camera"
	"github.com/Faultbox/panotour/internal/engine/picking"
	"github.com/Faultbox/panotour/internal/engine/scene"
	"github.com/Faultbox/panotour/internal/engine/texture"
	"github.com/Faultbox/panotour/internal/engine/timers"
	"github.com/Faultbox/panotour/internal/logger"
	"github.com/Faultbox/panotour/internal/tour/rooms"
	"github.com/Faultbox/panotour/internal/tour/state"
	"github.com/Faultbox/panotour/internal/tour/theme"
	"github.com/Faultbox/panotour/pkg/math"
)

type artKey struct {
	glyph string
	theme state.Theme
}

// Set owns the hotspot meshes in the scene graph. It is rebuilt wholesale
// whenever the current room or the theme changes.
type Set struct {
	sc    *scene.Scene
	reg   *rooms.Registry
	sched *timers.Scheduler
	cfg   Config
	epoch time.Time

	hotspots []*Hotspot
	art      map[artKey]*texture.Texture

	log *zap.Logger
}

// NewSet creates an empty set. The pulse phase is measured from epoch.
func NewSet(sc *scene.Scene, reg *rooms.Registry, sched *timers.Scheduler, cfg Config, epoch time.Time) *Set {
	return &Set{
		sc:    sc,
		reg:   reg,
		sched: sched,
		cfg:   cfg,
		epoch: epoch,
		art:   make(map[artKey]*texture.Texture),
		log:   logger.Named("hotspot"),
	}
}

// Hotspots returns the live hotspots.
func (s *Set) Hotspots() []*Hotspot {
	out := make([]*Hotspot, len(s.hotspots))
	copy(out, s.hotspots)
	return out
}

// Rooms returns the set of room indices that currently have a hotspot.
func (s *Set) Rooms() mapset.Set[int] {
	set := mapset.New[int]()
	for _, h := range s.hotspots {
		set.Put(h.RoomIndex)
	}
	return set
}

// Rebuild removes and releases every existing hotspot, then adds the ones
// derived for current and th.
func (s *Set) Rebuild(current int, th state.Theme) {
	s.clear()

	s.hotspots = Build(s.reg, current, th, s.cfg)
	for _, h := range s.hotspots {
		h.mesh = s.newMesh(h)
		s.sc.Add(h.mesh)
	}

	s.log.Debug("hotspots rebuilt",
		zap.Int("room", current),
		zap.Stringer("theme", th),
		zap.Int("count", len(s.hotspots)),
	)
}

func (s *Set) newMesh(h *Hotspot) *scene.Mesh {
	key := artKey{glyph: h.Glyph, theme: h.Theme}
	tex, ok := s.art[key]
	if !ok {
		img := RenderIcon(h.Glyph, theme.Palette(h.Theme), s.cfg.TextureSize)
		tex = &texture.Texture{
			Key:    fmt.Sprintf("hotspot:%s:%s", h.Glyph, h.Theme),
			Image:  img,
			Width:  img.Bounds().Dx(),
			Height: img.Bounds().Dy(),
		}
		s.art[key] = tex
	}

	m := scene.NewMesh(fmt.Sprintf("hotspot-%d", h.RoomIndex), scene.NewPlane(s.cfg.IconSize, s.cfg.IconSize), &scene.Material{
		Map:         tex,
		Color:       scene.ColorWhite,
		Side:        scene.DoubleSide,
		Opacity:     1,
		Transparent: true,
	})
	m.Position = h.Position
	m.Rotation = h.Rotation
	m.Scale = uniform(h.BaseScale)
	return m
}

func (s *Set) clear() {
	for _, h := range s.hotspots {
		h.dead = true
		if h.mesh != nil {
			s.sc.Remove(h.mesh)
		}
	}
	s.hotspots = nil
}

// Dispose removes every hotspot from the scene.
func (s *Set) Dispose() {
	s.clear()
}

// Pick returns the nearest hotspot hit by the ray through ndc, skipping the
// current room.
func (s *Set) Pick(ndc math.Vec2, cam *camera.Perspective, current int) (*Hotspot, bool) {
	return Pick(ndc, cam, s.hotspots, current, s.cfg.IconSize)
}

// Pick casts a ray from the camera through ndc and intersects every icon
// quad. The nearest hit wins. Hotspots for the current room are ignored.
func Pick(ndc math.Vec2, cam *camera.Perspective, hotspots []*Hotspot, current int, iconSize float32) (*Hotspot, bool) {
	ray := picking.NDCToRay(ndc, cam.ViewProjection().Inverse())

	var best *Hotspot
	bestT := float32(math32.MaxFloat32)
	for _, h := range hotspots {
		if h.RoomIndex == current || h.dead {
			continue
		}
		scale := h.BaseScale
		if h.mesh != nil {
			scale = h.mesh.Scale.X
		}
		t, ok := ray.IntersectQuad(picking.Quad{
			Center:   h.Position,
			Rotation: h.Rotation,
			Width:    iconSize * scale,
			Height:   iconSize * scale,
		})
		if ok && t < bestT {
			best, bestT = h, t
		}
	}
	return best, best != nil
}

// Press scales h up and schedules the restore. Navigation is never gated on
// it; if h is destroyed before the restore fires, the restore does nothing.
func (s *Set) Press(h *Hotspot) {
	if h == nil || h.dead || h.mesh == nil {
		return
	}
	h.pressed = true
	h.mesh.Scale = uniform(h.BaseScale * s.cfg.PressScale)

	// A repeated press restarts the feedback window.
	s.sched.Cancel(h.restore)
	h.restore = s.sched.After(s.cfg.PressDuration, func(time.Time) {
		h.restore = 0
		if h.dead {
			return
		}
		h.pressed = false
		h.mesh.Scale = uniform(h.BaseScale)
	})
}

// Update applies the idle pulse to icons that are not mid-feedback.
func (s *Set) Update(now time.Time) {
	t := float32(now.Sub(s.epoch).Seconds())
	pulse := 1 + s.cfg.PulseAmplitude*math32.Sin(2*math32.Pi*s.cfg.PulseHz*t)
	for _, h := range s.hotspots {
		if h.pressed || h.mesh == nil {
			continue
		}
		h.mesh.Scale = uniform(h.BaseScale * pulse)
	}
}

func uniform(v float32) math.Vec3 {
	return math.Vec3{X: v, Y: v, Z: v}
}
