package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Tour.TransitionDuration != 1200*time.Millisecond {
		t.Errorf("expected transition 1.2s, got %v", cfg.Tour.TransitionDuration)
	}
	if cfg.Tour.TextureSwapAt != 0.3 {
		t.Errorf("expected texture swap at 0.3, got %v", cfg.Tour.TextureSwapAt)
	}
	if cfg.Tour.HotspotPolicy != HotspotPolicyAll {
		t.Errorf("expected hotspot policy %q, got %q", HotspotPolicyAll, cfg.Tour.HotspotPolicy)
	}
	if len(cfg.Tour.Rooms) != 4 {
		t.Fatalf("expected 4 default rooms, got %d", len(cfg.Tour.Rooms))
	}
	if cfg.Tour.Rooms[1].Name != "Kitchen" || cfg.Tour.Rooms[1].Panorama != "kitchen.webp" {
		t.Errorf("unexpected second room: %+v", cfg.Tour.Rooms[1])
	}

	if cfg.Theme.Initial != "light" {
		t.Errorf("expected light theme, got %s", cfg.Theme.Initial)
	}
	if cfg.Theme.FadeIn != 400*time.Millisecond || cfg.Theme.FadeOut != 400*time.Millisecond {
		t.Errorf("unexpected fade timings: %v / %v", cfg.Theme.FadeIn, cfg.Theme.FadeOut)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true

tour:
  hotspot_policy: next
  transition_duration: 1.5s
  rooms:
    - name: Attic
      panorama: attic.jpg
      glyph: ATT
      camera_target: [0, 1, 0]
      hotspot_anchor: [0, 0.5, 1]
    - name: Cellar
      panorama: cellar.png
      glyph: CEL
      camera_target: [0, -1, 0.5]
      hotspot_anchor: [1, -0.5, 0]

theme:
  initial: dark
  fade_in: 250ms

logging:
  level: "debug"
  log_file: "tour.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Tour.HotspotPolicy != HotspotPolicyNext {
		t.Errorf("expected policy next, got %s", cfg.Tour.HotspotPolicy)
	}
	if cfg.Tour.TransitionDuration != 1500*time.Millisecond {
		t.Errorf("expected 1.5s transition, got %v", cfg.Tour.TransitionDuration)
	}
	if len(cfg.Tour.Rooms) != 2 {
		t.Fatalf("rooms list should be replaced, got %d rooms", len(cfg.Tour.Rooms))
	}
	if cfg.Tour.Rooms[1].CameraTarget != [3]float32{0, -1, 0.5} {
		t.Errorf("unexpected camera target %v", cfg.Tour.Rooms[1].CameraTarget)
	}
	if cfg.Theme.Initial != "dark" || cfg.Theme.FadeIn != 250*time.Millisecond {
		t.Errorf("unexpected theme config %+v", cfg.Theme)
	}
	// Untouched values keep their defaults
	if cfg.Theme.FadeOut != 400*time.Millisecond {
		t.Errorf("fade_out should keep default, got %v", cfg.Theme.FadeOut)
	}
	if cfg.Logging.LogFile != "tour.log" {
		t.Errorf("expected log file 'tour.log', got %s", cfg.Logging.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no rooms", func(c *Config) { c.Tour.Rooms = nil }},
		{"home out of range", func(c *Config) { c.Tour.HomeRoom = 4 }},
		{"start out of range", func(c *Config) { c.Tour.StartRoom = -1 }},
		{"unknown policy", func(c *Config) { c.Tour.HotspotPolicy = "some" }},
		{"zero duration", func(c *Config) { c.Tour.TransitionDuration = 0 }},
		{"swap at end", func(c *Config) { c.Tour.TextureSwapAt = 1 }},
		{"zoom factor above one", func(c *Config) { c.Tour.ZoomFactor = 1.2 }},
		{"inverted distances", func(c *Config) { c.Tour.MaxDistance = 0.5 }},
		{"unknown theme", func(c *Config) { c.Theme.Initial = "sepia" }},
		{"zero fade", func(c *Config) { c.Theme.FadeIn = 0 }},
		{"opaque overlay overflow", func(c *Config) { c.Theme.OverlayOpacity = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "room flag",
			setup: func() { *flagRoom = 2 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Tour.StartRoom != 2 {
					t.Errorf("expected start room 2, got %d", cfg.Tour.StartRoom)
				}
			},
			teardown: func() { *flagRoom = -1 },
		},
		{
			name: "theme and assets flags",
			setup: func() {
				*flagTheme = "dark"
				*flagAssets = "/srv/panoramas"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Theme.Initial != "dark" {
					t.Errorf("expected dark theme, got %s", cfg.Theme.Initial)
				}
				if cfg.Assets.Dir != "/srv/panoramas" {
					t.Errorf("expected assets dir override, got %s", cfg.Assets.Dir)
				}
			},
			teardown: func() {
				*flagTheme = ""
				*flagAssets = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width comes from the flag, height from the file
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("tour:\n  start_room: 9\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject an out-of-range start room")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Tour.HotspotPolicy = HotspotPolicyNext
	cfg.Theme.Initial = "dark"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Tour.HotspotPolicy != HotspotPolicyNext || loaded.Theme.Initial != "dark" {
		t.Errorf("saved values lost: policy=%s theme=%s", loaded.Tour.HotspotPolicy, loaded.Theme.Initial)
	}
	if loaded.Tour.TransitionDuration != cfg.Tour.TransitionDuration {
		t.Errorf("duration lost: %v", loaded.Tour.TransitionDuration)
	}
}
