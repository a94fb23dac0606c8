package theme

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/panotour/internal/engine/scene"
	"github.com/Faultbox/panotour/internal/engine/timers"
	"github.com/Faultbox/panotour/internal/tour/state"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	st    *state.Viewer
	sc    *scene.Scene
	sched *timers.Scheduler
	ctrl  *Controller
	flips []state.Theme
}

func newFixture() *fixture {
	f := &fixture{
		st:    state.New(0, state.Light),
		sc:    scene.New(),
		sched: timers.New(t0),
	}
	f.ctrl = New(f.st, f.sc, f.sched, DefaultTimings(), func(th state.Theme) {
		f.flips = append(f.flips, th)
	})
	return f
}

func (f *fixture) at(ms int) time.Time {
	now := t0.Add(time.Duration(ms) * time.Millisecond)
	f.sched.Advance(now)
	f.ctrl.Update(now)
	return now
}

func TestFullThemeCycle(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.ctrl.Toggle(t0))
	assert.Equal(t, FadingIn, f.ctrl.Phase())
	assert.True(t, f.st.Busy())
	require.NotNil(t, f.ctrl.Overlay())
	assert.True(t, f.sc.Contains(f.ctrl.Overlay()))
	assert.Equal(t, Palette(state.Dark).Overlay, f.ctrl.Overlay().Material.Color)

	f.at(200)
	assert.InDelta(t, 0.35, f.ctrl.Opacity(), 1e-4)

	f.at(400)
	assert.Equal(t, Holding, f.ctrl.Phase())
	assert.InDelta(t, 0.7, f.ctrl.Opacity(), 1e-6)
	assert.Equal(t, state.Light, f.st.Theme())

	f.at(599)
	assert.Empty(t, f.flips, "flip must wait 200ms into the hold")

	f.at(600)
	assert.Equal(t, state.Dark, f.st.Theme())
	assert.Equal(t, []state.Theme{state.Dark}, f.flips)
	assert.Equal(t, Holding, f.ctrl.Phase())

	f.at(900)
	assert.Equal(t, FadingOut, f.ctrl.Phase())

	f.at(1100)
	assert.InDelta(t, 0.35, f.ctrl.Opacity(), 1e-4)

	overlay := f.ctrl.Overlay()
	f.at(1300)
	assert.Equal(t, Steady, f.ctrl.Phase())
	assert.Nil(t, f.ctrl.Overlay())
	assert.False(t, f.sc.Contains(overlay))
	assert.False(t, f.st.Busy())
	assert.Equal(t, 0, f.sc.Len())
}

func TestDoubleToggleFlipsOnce(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.ctrl.Toggle(t0))
	assert.ErrorIs(t, f.ctrl.Toggle(t0.Add(50*time.Millisecond)), state.ErrBusy)

	f.at(2000)
	assert.Equal(t, []state.Theme{state.Dark}, f.flips)
	assert.Equal(t, state.Dark, f.st.Theme())
	assert.Equal(t, 0, f.sc.Len(), "only one overlay should ever be added")
}

func TestToggleRejectedDuringRoomTransition(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.st.BeginRoomTransition())

	assert.ErrorIs(t, f.ctrl.Toggle(t0), state.ErrBusy)
	assert.Equal(t, Steady, f.ctrl.Phase())
	assert.Equal(t, 0, f.sc.Len())
}

func TestLongFrameSkipsToEnd(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.ctrl.Toggle(t0))

	// One stalled frame past the whole timeline runs every phase in order
	f.at(5000)
	assert.Equal(t, Steady, f.ctrl.Phase())
	assert.Equal(t, state.Dark, f.st.Theme())
	assert.False(t, f.st.Busy())
}

func TestToggleBack(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.ctrl.Toggle(t0))
	f.at(1300)

	require.NoError(t, f.ctrl.Toggle(t0.Add(1300*time.Millisecond)))
	assert.Equal(t, Palette(state.Light).Overlay, f.ctrl.Overlay().Material.Color)
	f.at(2600)
	assert.Equal(t, state.Light, f.st.Theme())
	assert.Equal(t, []state.Theme{state.Dark, state.Light}, f.flips)
}

func TestDisposeMidFade(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.ctrl.Toggle(t0))
	f.at(100)

	f.ctrl.Dispose()
	f.ctrl.Dispose()
	assert.Equal(t, 0, f.sc.Len())
	assert.False(t, f.st.Busy())

	f.at(5000)
	assert.Empty(t, f.flips, "cancelled fade must not flip")
}

func TestPaletteDiffers(t *testing.T) {
	assert.NotEqual(t, Palette(state.Light).Background, Palette(state.Dark).Background)
	assert.NotEqual(t, Palette(state.Light).Icon, Palette(state.Dark).Icon)
}
