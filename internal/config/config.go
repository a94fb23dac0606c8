// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"time"
)

// Hotspot placement policies.
const (
	HotspotPolicyAll  = "all"
	HotspotPolicyNext = "next"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Tour    TourConfig    `yaml:"tour"`
	Theme   ThemeConfig   `yaml:"theme"`
	Assets  AssetsConfig  `yaml:"assets"`
	Audio   AudioConfig   `yaml:"audio"`
	Locale  LocaleConfig  `yaml:"locale"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// TourConfig holds navigation settings and the room table.
type TourConfig struct {
	HomeRoom            int           `yaml:"home_room"`
	StartRoom           int           `yaml:"start_room"`
	HotspotPolicy       string        `yaml:"hotspot_policy"`
	TransitionDuration  time.Duration `yaml:"transition_duration"`
	TextureSwapAt       float32       `yaml:"texture_swap_at"`
	EstablishedDistance float32       `yaml:"established_distance"`
	PanStep             float32       `yaml:"pan_step"`
	ZoomFactor          float32       `yaml:"zoom_factor"`
	MinDistance         float32       `yaml:"min_distance"`
	MaxDistance         float32       `yaml:"max_distance"`
	Rooms               []RoomConfig  `yaml:"rooms"`
}

// RoomConfig describes one room of the walkthrough.
type RoomConfig struct {
	Name          string     `yaml:"name"`
	Panorama      string     `yaml:"panorama"`
	Glyph         string     `yaml:"glyph"`
	Ambience      string     `yaml:"ambience,omitempty"`
	CameraTarget  [3]float32 `yaml:"camera_target,flow"`
	HotspotAnchor [3]float32 `yaml:"hotspot_anchor,flow"`
}

// ThemeConfig holds the light/dark overlay timing.
type ThemeConfig struct {
	Initial        string        `yaml:"initial"`
	FadeIn         time.Duration `yaml:"fade_in"`
	HoldBeforeFlip time.Duration `yaml:"hold_before_flip"`
	HoldAfterFlip  time.Duration `yaml:"hold_after_flip"`
	FadeOut        time.Duration `yaml:"fade_out"`
	OverlayOpacity float32       `yaml:"overlay_opacity"`
}

// AssetsConfig holds panorama loading settings.
type AssetsConfig struct {
	Dir            string `yaml:"dir"`
	MaxTextureSize int    `yaml:"max_texture_size"`
	Watch          bool   `yaml:"watch"`
}

// AudioConfig holds sound cue settings.
type AudioConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Volume      float64 `yaml:"volume"`
	ClickSound  string  `yaml:"click_sound"`
	WhooshSound string  `yaml:"whoosh_sound"`
}

// LocaleConfig selects the translation catalog for labels.
type LocaleConfig struct {
	Dir      string `yaml:"dir"`
	Language string `yaml:"language"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the four-room walkthrough.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "360° Virtual Room Tour",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Tour: TourConfig{
			HomeRoom:            0,
			StartRoom:           0,
			HotspotPolicy:       HotspotPolicyAll,
			TransitionDuration:  1200 * time.Millisecond,
			TextureSwapAt:       0.3,
			EstablishedDistance: 5,
			PanStep:             0.5,
			ZoomFactor:          0.9,
			MinDistance:         1,
			MaxDistance:         45,
			Rooms:               DefaultRooms(),
		},
		Theme: ThemeConfig{
			Initial:        "light",
			FadeIn:         400 * time.Millisecond,
			HoldBeforeFlip: 200 * time.Millisecond,
			HoldAfterFlip:  300 * time.Millisecond,
			FadeOut:        400 * time.Millisecond,
			OverlayOpacity: 0.7,
		},
		Assets: AssetsConfig{
			Dir:            "assets",
			MaxTextureSize: 4096,
			Watch:          false,
		},
		Audio: AudioConfig{
			Enabled:     false,
			Volume:      0.8,
			ClickSound:  "sounds/click.wav",
			WhooshSound: "sounds/whoosh.wav",
		},
		Locale: LocaleConfig{
			Dir:      "locales",
			Language: "en",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DefaultRooms returns the living room, kitchen, bedroom and bathroom set.
func DefaultRooms() []RoomConfig {
	return []RoomConfig{
		{
			Name:          "Living Room",
			Panorama:      "livingroom.webp",
			Glyph:         "LIV",
			CameraTarget:  [3]float32{0, 0, 1},
			HotspotAnchor: [3]float32{0.2, -0.1, 1},
		},
		{
			Name:          "Kitchen",
			Panorama:      "kitchen.webp",
			Glyph:         "KIT",
			CameraTarget:  [3]float32{1, 0, 0.2},
			HotspotAnchor: [3]float32{-0.3, -0.05, -1},
		},
		{
			Name:          "Bedroom",
			Panorama:      "bedroom.webp",
			Glyph:         "BED",
			CameraTarget:  [3]float32{-1, 0.1, 0},
			HotspotAnchor: [3]float32{0.4, -0.05, -1},
		},
		{
			Name:          "Bathroom",
			Panorama:      "bathroom.webp",
			Glyph:         "BATH",
			CameraTarget:  [3]float32{0, 0, -1},
			HotspotAnchor: [3]float32{-1, -0.1, 0.1},
		},
	}
}

// Validate checks values that would break the navigation state machines.
func (c *Config) Validate() error {
	t := c.Tour
	if len(t.Rooms) == 0 {
		return fmt.Errorf("tour.rooms: at least one room is required")
	}
	if t.HomeRoom < 0 || t.HomeRoom >= len(t.Rooms) {
		return fmt.Errorf("tour.home_room %d out of range [0, %d)", t.HomeRoom, len(t.Rooms))
	}
	if t.StartRoom < 0 || t.StartRoom >= len(t.Rooms) {
		return fmt.Errorf("tour.start_room %d out of range [0, %d)", t.StartRoom, len(t.Rooms))
	}
	if t.HotspotPolicy != HotspotPolicyAll && t.HotspotPolicy != HotspotPolicyNext {
		return fmt.Errorf("tour.hotspot_policy %q: want %q or %q", t.HotspotPolicy, HotspotPolicyAll, HotspotPolicyNext)
	}
	if t.TransitionDuration <= 0 {
		return fmt.Errorf("tour.transition_duration must be positive")
	}
	if t.TextureSwapAt <= 0 || t.TextureSwapAt >= 1 {
		return fmt.Errorf("tour.texture_swap_at %.2f must be inside (0, 1)", t.TextureSwapAt)
	}
	if t.ZoomFactor <= 0 || t.ZoomFactor >= 1 {
		return fmt.Errorf("tour.zoom_factor %.2f must be inside (0, 1)", t.ZoomFactor)
	}
	if t.MinDistance <= 0 || t.MaxDistance <= t.MinDistance {
		return fmt.Errorf("tour distance limits [%.1f, %.1f] are invalid", t.MinDistance, t.MaxDistance)
	}

	th := c.Theme
	if th.Initial != "light" && th.Initial != "dark" {
		return fmt.Errorf("theme.initial %q: want light or dark", th.Initial)
	}
	if th.FadeIn <= 0 || th.FadeOut <= 0 || th.HoldBeforeFlip < 0 || th.HoldAfterFlip < 0 {
		return fmt.Errorf("theme timings must be positive")
	}
	if th.OverlayOpacity <= 0 || th.OverlayOpacity > 1 {
		return fmt.Errorf("theme.overlay_opacity %.2f must be inside (0, 1]", th.OverlayOpacity)
	}
	return nil
}
