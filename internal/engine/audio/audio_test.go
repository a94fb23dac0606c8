package audio

import (
	"math"
	"testing"
)

func TestVolumeConversion(t *testing.T) {
	tests := []struct {
		vol  float64
		want float64
	}{
		{1.0, 0},
		{0.5, -1},
		{0.25, -2},
		{0.0, -100},
	}

	for _, tt := range tests {
		got := volumeToExponent(tt.vol)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("volumeToExponent(%f) = %f, want %f", tt.vol, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}

	for _, tt := range tests {
		got := clamp(tt.v, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestNewManager(t *testing.T) {
	m := New()
	if m == nil {
		t.Fatal("New() returned nil")
	}

	if m.MasterVolume() != 1.0 {
		t.Errorf("default master volume = %f, want 1.0", m.MasterVolume())
	}
	if m.AmbienceVolume() != 0.5 {
		t.Errorf("default ambience volume = %f, want 0.5", m.AmbienceVolume())
	}
	if m.CueVolume() != 1.0 {
		t.Errorf("default cue volume = %f, want 1.0", m.CueVolume())
	}
	if m.IsInitialized() {
		t.Error("manager should not be initialized before Init")
	}
}

func TestSetVolume(t *testing.T) {
	m := New()

	m.SetMasterVolume(0.5)
	if m.MasterVolume() != 0.5 {
		t.Errorf("master volume = %f, want 0.5", m.MasterVolume())
	}

	m.SetMasterVolume(2.0)
	if m.MasterVolume() != 1.0 {
		t.Errorf("master volume = %f, want 1.0 (clamped)", m.MasterVolume())
	}

	m.SetCueVolume(-1.0)
	if m.CueVolume() != 0.0 {
		t.Errorf("cue volume = %f, want 0.0 (clamped)", m.CueVolume())
	}
}

func TestPlayCueWithoutInitIsNoop(t *testing.T) {
	m := New()
	m.PlayCue(CueClick)
	if m.HasCue(CueClick) {
		t.Error("no cue should be loaded")
	}
}

func TestLoadCueMissingFile(t *testing.T) {
	m := New()
	if err := m.LoadCue(CueClick, "/nonexistent/click.wav"); err == nil {
		t.Error("expected error loading a missing cue")
	}
}

func TestPlayAmbienceRequiresInit(t *testing.T) {
	m := New()
	if err := m.PlayAmbience("room.wav"); err == nil {
		t.Error("expected error before Init")
	}
}
