package window

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestWindowFlags(t *testing.T) {
	tests := []struct {
		name       string
		fullscreen bool
	}{
		{"windowed", false},
		{"fullscreen", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := windowFlags(Config{Fullscreen: tt.fullscreen})

			if flags&sdl.WINDOW_ALLOW_HIGHDPI != 0 {
				t.Error("high-DPI drawable would not match pointer coordinates")
			}
			if flags&sdl.WINDOW_OPENGL == 0 || flags&sdl.WINDOW_RESIZABLE == 0 {
				t.Errorf("expected an OpenGL resizable window, got %#x", flags)
			}
			if got := flags&sdl.WINDOW_FULLSCREEN_DESKTOP == sdl.WINDOW_FULLSCREEN_DESKTOP; got != tt.fullscreen {
				t.Errorf("fullscreen flag = %v, want %v", got, tt.fullscreen)
			}
		})
	}
}
