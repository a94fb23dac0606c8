package hotspot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/panotour/internal/engine/camera"
	"github.com/Faultbox/panotour/internal/engine/scene"
	"github.com/Faultbox/panotour/internal/engine/timers"
	"github.com/Faultbox/panotour/internal/tour/rooms"
	"github.com/Faultbox/panotour/internal/tour/state"
	"github.com/Faultbox/panotour/internal/tour/theme"
	"github.com/Faultbox/panotour/pkg/math"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newSet(t *testing.T) (*Set, *scene.Scene, *timers.Scheduler) {
	t.Helper()
	sc := scene.New()
	sched := timers.New(epoch)
	return NewSet(sc, rooms.Default(), sched, DefaultConfig(), epoch), sc, sched
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyAllOthers, p)

	p, err = ParsePolicy("next")
	require.NoError(t, err)
	assert.Equal(t, PolicyNext, p)
	assert.Equal(t, "next", p.String())

	_, err = ParsePolicy("random")
	assert.Error(t, err)
}

func TestTargetsExcludeCurrentRoom(t *testing.T) {
	reg := rooms.Default()
	for current := 0; current < reg.Count(); current++ {
		got := Targets(reg, current, PolicyAllOthers)
		assert.Len(t, got, reg.Count()-1)
		assert.NotContains(t, got, current)
	}
}

func TestTargetsNextPolicy(t *testing.T) {
	reg := rooms.Default()
	assert.Equal(t, []int{1}, Targets(reg, 0, PolicyNext))
	assert.Equal(t, []int{0}, Targets(reg, 3, PolicyNext))

	single, err := rooms.NewRegistry([]rooms.Room{{
		Name:          "Only",
		Panorama:      "only.webp",
		CameraTarget:  math.Vec3{Z: 1},
		HotspotAnchor: math.Vec3{Z: -1},
	}})
	require.NoError(t, err)
	assert.Empty(t, Targets(single, 0, PolicyNext))
}

func TestBuildPlacesIconsFacingCentre(t *testing.T) {
	cfg := DefaultConfig()
	hs := Build(rooms.Default(), 0, state.Dark, cfg)
	require.Len(t, hs, 3)

	for _, h := range hs {
		assert.InDelta(t, cfg.IconRadius, h.Position.Length(), 1e-3)
		assert.Equal(t, state.Dark, h.Theme)

		front := h.Rotation.Rotate(math.Vec3{Z: 1})
		toCentre := h.Position.Negate().Normalize()
		assert.InDelta(t, 1, front.Dot(toCentre), 1e-4, "room %d icon should face the centre", h.RoomIndex)
	}
}

func TestRebuildNeverAccumulates(t *testing.T) {
	s, sc, _ := newSet(t)
	released := 0
	sc.OnRelease(func(*scene.Mesh) { released++ })

	s.Rebuild(0, state.Light)
	require.Equal(t, 3, sc.Len())

	for i := 0; i < 10; i++ {
		s.Rebuild(i%4, state.Theme(i%2))
		assert.Equal(t, 3, sc.Len())
	}
	assert.Equal(t, 30, released)

	// The last rebuild was room 1 under the dark theme.
	for _, h := range s.Hotspots() {
		assert.Equal(t, state.Dark, h.Theme)
	}
	assert.False(t, s.Rooms().Has(1), "current room 1 must not have a hotspot")

	s.Dispose()
	assert.Equal(t, 0, sc.Len())
	assert.Empty(t, s.Hotspots())
}

func TestRebuildSharesIconArt(t *testing.T) {
	s, _, _ := newSet(t)
	s.Rebuild(0, state.Light)
	first := s.Hotspots()[0].Mesh().Material.Map

	s.Rebuild(2, state.Light)
	var same bool
	for _, h := range s.Hotspots() {
		if h.Mesh().Material.Map == first {
			same = true
		}
		assert.False(t, h.Mesh().Material.MapOwned)
	}
	assert.True(t, same, "art for the same glyph and theme should be reused")
}

func TestPressRestoresAfterDuration(t *testing.T) {
	s, _, sched := newSet(t)
	s.Rebuild(0, state.Light)
	h := s.Hotspots()[0]

	s.Press(h)
	assert.True(t, h.Pressed())
	assert.InDelta(t, 1.3, h.Mesh().Scale.X, 1e-6)

	// Pulse leaves pressed icons alone.
	s.Update(epoch.Add(100 * time.Millisecond))
	assert.InDelta(t, 1.3, h.Mesh().Scale.X, 1e-6)

	sched.Advance(epoch.Add(199 * time.Millisecond))
	assert.True(t, h.Pressed())

	sched.Advance(epoch.Add(200 * time.Millisecond))
	assert.False(t, h.Pressed())
	assert.InDelta(t, 1, h.Mesh().Scale.X, 1e-6)
}

func TestRepeatedPressRestartsFeedback(t *testing.T) {
	s, _, sched := newSet(t)
	s.Rebuild(0, state.Light)
	h := s.Hotspots()[0]

	s.Press(h)
	sched.Advance(epoch.Add(150 * time.Millisecond))
	s.Press(h)
	assert.Equal(t, 1, sched.Pending())

	// The first press would have restored at 200ms.
	sched.Advance(epoch.Add(200 * time.Millisecond))
	assert.True(t, h.Pressed())
	assert.InDelta(t, 1.3, h.Mesh().Scale.X, 1e-6)

	sched.Advance(epoch.Add(349 * time.Millisecond))
	assert.True(t, h.Pressed())
	sched.Advance(epoch.Add(350 * time.Millisecond))
	assert.False(t, h.Pressed())
	assert.InDelta(t, 1, h.Mesh().Scale.X, 1e-6)
}

func TestPressRestoreOnDestroyedHotspotIsNoop(t *testing.T) {
	s, _, sched := newSet(t)
	s.Rebuild(0, state.Light)
	old := s.Hotspots()[0]
	s.Press(old)

	s.Rebuild(1, state.Light)
	assert.NotPanics(t, func() { sched.Advance(epoch.Add(time.Second)) })
	assert.InDelta(t, 1.3, old.Mesh().Scale.X, 1e-6)

	// Pressing a destroyed hotspot schedules nothing.
	s.Press(old)
	assert.Equal(t, 0, sched.Pending())
}

func TestUpdatePulse(t *testing.T) {
	s, _, _ := newSet(t)
	s.Rebuild(0, state.Light)

	// A quarter period of the 0.8 Hz pulse puts the sine at its peak.
	s.Update(epoch.Add(312500 * time.Microsecond))
	for _, h := range s.Hotspots() {
		assert.InDelta(t, 1.08, h.Mesh().Scale.X, 1e-4)
	}

	s.Update(epoch)
	for _, h := range s.Hotspots() {
		assert.InDelta(t, 1, h.Mesh().Scale.X, 1e-6)
	}
}

func lookingAt(target math.Vec3) *camera.Perspective {
	cam := camera.NewPerspective(camera.DefaultFOV, 16.0/9.0, camera.DefaultNear, camera.DefaultFar)
	cam.Position = math.Vec3{}
	cam.Target = target
	return cam
}

func TestPickHitsIconUnderCursor(t *testing.T) {
	s, _, _ := newSet(t)
	s.Rebuild(0, state.Light)

	var bedroom *Hotspot
	for _, h := range s.Hotspots() {
		if h.RoomIndex == 2 {
			bedroom = h
		}
	}
	require.NotNil(t, bedroom)

	cam := lookingAt(bedroom.Position)
	got, ok := s.Pick(math.Vec2{}, cam, 0)
	require.True(t, ok)
	assert.Equal(t, 2, got.RoomIndex)

	_, ok = s.Pick(math.Vec2{X: 0.95, Y: 0.95}, cam, 0)
	assert.False(t, ok, "empty sky should miss")
}

func TestPickSkipsCurrentRoom(t *testing.T) {
	hs := Build(rooms.Default(), 0, state.Light, DefaultConfig())
	var target *Hotspot
	for _, h := range hs {
		if h.RoomIndex == 3 {
			target = h
		}
	}
	require.NotNil(t, target)
	cam := lookingAt(target.Position)

	_, ok := Pick(math.Vec2{}, cam, hs, 0, DefaultConfig().IconSize)
	assert.True(t, ok)
	_, ok = Pick(math.Vec2{}, cam, hs, 3, DefaultConfig().IconSize)
	assert.False(t, ok)
}

func TestRenderIcon(t *testing.T) {
	colors := theme.Palette(state.Light)
	img := RenderIcon("KIT", colors, 64)
	require.Equal(t, 64, img.Bounds().Dx())

	_, _, _, a := img.At(32, 32).RGBA()
	assert.NotZero(t, a, "centre should be covered by the disc")
	_, _, _, corner := img.At(0, 0).RGBA()
	assert.Less(t, corner, a)

	small := RenderIcon("X", colors, 4)
	assert.Equal(t, 16, small.Bounds().Dx())
}
