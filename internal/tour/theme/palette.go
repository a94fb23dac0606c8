package theme

import (
	"github.com/Faultbox/panotour/internal/engine/scene"
	"github.com/Faultbox/panotour/internal/tour/state"
)

// Colors is the colour set of one theme.
type Colors struct {
	Background scene.Color // clear colour behind the sphere
	SphereTint scene.Color // multiplies the panorama texture
	Icon       scene.Color // hotspot disc fill
	Outline    scene.Color // hotspot disc outline
	Label      scene.Color // glyph text on the disc
	Overlay    scene.Color // fade overlay, the theme's base colour
}

var (
	lightColors = Colors{
		Background: scene.Hex(0xf3f4f6),
		SphereTint: scene.ColorWhite,
		Icon:       scene.Hex(0x3b82f6),
		Outline:    scene.ColorWhite,
		Label:      scene.ColorWhite,
		Overlay:    scene.Hex(0xf9fafb),
	}
	darkColors = Colors{
		Background: scene.Hex(0x111827),
		SphereTint: scene.Hex(0xa3a3a3),
		Icon:       scene.Hex(0xf59e0b),
		Outline:    scene.Hex(0x1f2937),
		Label:      scene.Hex(0x111827),
		Overlay:    scene.Hex(0x0b0f19),
	}
)

// Palette returns the colours for t.
func Palette(t state.Theme) Colors {
	if t == state.Dark {
		return darkColors
	}
	return lightColors
}
