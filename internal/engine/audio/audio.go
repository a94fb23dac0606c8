// Package audio plays the viewer's sound cues and per-room ambience.
package audio

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/panotour/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Cue names used by the viewer.
const (
	CueClick  = "click"
	CueWhoosh = "whoosh"
)

// Manager handles cue and ambience playback. Cues are decoded once into
// memory; ambience streams from disk and loops.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	cues map[string]*beep.Buffer

	// Ambience
	ambStreamer beep.StreamSeekCloser
	ambCtrl     *beep.Ctrl
	ambVolume   *effects.Volume
	ambPath     string

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	ambVolLevel  float64
	cueVolLevel  float64

	// Mixer for concurrent cues
	cueMixer *beep.Mixer

	log *zap.Logger
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		cues:         make(map[string]*beep.Buffer),
		masterVolume: 1.0,
		ambVolLevel:  0.5,
		cueVolLevel:  1.0,
		cueMixer:     &beep.Mixer{},
		log:          logger.Named("audio"),
	}
}

// Init initializes the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.cueMixer)

	m.initialized = true
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopAmbienceInternal()
	if m.initialized {
		speaker.Clear()
	}
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
	m.updateAmbienceVolume()
}

// SetAmbienceVolume sets the ambience volume (0.0 to 1.0).
func (m *Manager) SetAmbienceVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ambVolLevel = clamp(vol, 0, 1)
	m.updateAmbienceVolume()
}

// SetCueVolume sets the cue volume (0.0 to 1.0).
func (m *Manager) SetCueVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cueVolLevel = clamp(vol, 0, 1)
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// AmbienceVolume returns the ambience volume.
func (m *Manager) AmbienceVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ambVolLevel
}

// CueVolume returns the cue volume.
func (m *Manager) CueVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cueVolLevel
}

func (m *Manager) updateAmbienceVolume() {
	if m.ambVolume == nil {
		return
	}
	vol := m.masterVolume * m.ambVolLevel
	m.ambVolume.Silent = vol <= 0
	m.ambVolume.Volume = volumeToExponent(vol)
}

// volumeToExponent converts a 0-1 volume to the base-2 exponent used by
// effects.Volume: 1 -> 0, 0.5 -> -1, 0.25 -> -2.
func volumeToExponent(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	return math.Log2(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// LoadCue decodes a WAV file into memory under name.
func (m *Manager) LoadCue(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cue %s: %w", name, err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode cue %s: %w", name, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)

	m.mu.Lock()
	m.cues[name] = buf
	m.mu.Unlock()

	m.log.Debug("cue loaded", zap.String("name", name), zap.String("path", path))
	return nil
}

// HasCue reports whether a cue has been loaded.
func (m *Manager) HasCue(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cues[name]
	return ok
}

// PlayCue plays a loaded cue. Unknown cues and an uninitialized speaker are
// ignored so a missing sound never affects navigation.
func (m *Manager) PlayCue(name string) {
	m.mu.RLock()
	buf, ok := m.cues[name]
	initialized := m.initialized
	vol := m.masterVolume * m.cueVolLevel
	m.mu.RUnlock()

	if !ok || !initialized {
		return
	}

	speaker.Lock()
	m.cueMixer.Add(&effects.Volume{
		Streamer: m.resample(buf.Format().SampleRate, buf.Streamer(0, buf.Len())),
		Base:     2,
		Volume:   volumeToExponent(vol),
		Silent:   vol <= 0,
	})
	speaker.Unlock()
}

func (m *Manager) resample(from beep.SampleRate, s beep.Streamer) beep.Streamer {
	if from == m.sampleRate {
		return s
	}
	return beep.Resample(4, from, m.sampleRate, s)
}

// PlayAmbience loops a WAV file as the room background. Playing the path
// that is already active is a no-op; an empty path stops the ambience.
func (m *Manager) PlayAmbience(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return fmt.Errorf("audio not initialized")
	}
	if path == m.ambPath {
		return nil
	}
	m.stopAmbienceInternal()
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open ambience: %w", err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode wav: %w", err)
	}

	looped, err := beep.Loop2(streamer)
	if err != nil {
		streamer.Close()
		return fmt.Errorf("loop ambience: %w", err)
	}

	m.ambCtrl = &beep.Ctrl{Streamer: m.resample(format.SampleRate, looped)}
	m.ambVolume = &effects.Volume{Streamer: m.ambCtrl, Base: 2}
	m.updateAmbienceVolume()

	m.ambStreamer = streamer
	m.ambPath = path

	speaker.Play(m.ambVolume)
	m.log.Debug("ambience started", zap.String("path", path))
	return nil
}

// StopAmbience stops the current room ambience.
func (m *Manager) StopAmbience() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAmbienceInternal()
}

func (m *Manager) stopAmbienceInternal() {
	if m.ambCtrl != nil {
		speaker.Lock()
		m.ambCtrl.Paused = true
		m.ambCtrl.Streamer = nil
		speaker.Unlock()
	}
	if m.ambStreamer != nil {
		m.ambStreamer.Close()
		m.ambStreamer = nil
	}
	m.ambCtrl = nil
	m.ambVolume = nil
	m.ambPath = ""
}

// AmbiencePath returns the path of the playing ambience.
func (m *Manager) AmbiencePath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ambPath
}
