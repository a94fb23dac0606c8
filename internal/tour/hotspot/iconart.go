package hotspot

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/Faultbox/panotour/internal/engine/scene"
	"github.com/Faultbox/panotour/internal/tour/theme"
)

const discSegments = 64

// RenderIcon draws the hotspot art for a room glyph on an off-screen RGBA
// surface: a blurred glow, an outlined disc and the glyph on top.
func RenderIcon(glyph string, colors theme.Colors, size int) *image.RGBA {
	if size < 16 {
		size = 16
	}
	rect := image.Rect(0, 0, size, size)
	img := image.NewRGBA(rect)

	c := float32(size) / 2
	r := float32(size) * 0.34

	glow := image.NewRGBA(rect)
	fillDisc(glow, c, c, r*1.15, withAlpha(toRGBA(colors.Icon), 150))
	draw.Draw(img, rect, blur.Gaussian(glow, float64(size)/16), image.Point{}, draw.Over)

	fillDisc(img, c, c, r, toRGBA(colors.Outline))
	fillDisc(img, c, c, r*0.86, toRGBA(colors.Icon))

	drawLabel(img, glyph, toRGBA(colors.Label), int(r*1.4))
	return img
}

// fillDisc rasterizes a filled circle approximated by a polygon.
func fillDisc(dst draw.Image, cx, cy, radius float32, col color.RGBA) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(cx+radius, cy)
	for i := 1; i < discSegments; i++ {
		a := float32(i) / discSegments * 2 * math32.Pi
		z.LineTo(cx+radius*math32.Cos(a), cy+radius*math32.Sin(a))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(col), image.Point{})
}

// drawLabel renders the glyph with the 7x13 bitmap face, scales it up to
// at most maxWidth pixels and centres it.
func drawLabel(dst *image.RGBA, label string, col color.RGBA, maxWidth int) {
	if label == "" {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face, Src: image.NewUniform(col)}
	w := d.MeasureString(label).Ceil()
	h := face.Metrics().Height.Ceil()
	if w <= 0 || h <= 0 {
		return
	}

	text := image.NewRGBA(image.Rect(0, 0, w, h))
	d.Dst = text
	d.Dot = fixed.P(0, face.Metrics().Ascent.Ceil())
	d.DrawString(label)

	scale := maxWidth / w
	if scale < 1 {
		scale = 1
	}
	if scale > 4 {
		scale = 4
	}
	scaled := transform.Resize(text, w*scale, h*scale, transform.NearestNeighbor)

	b := dst.Bounds()
	at := image.Pt((b.Dx()-w*scale)/2, (b.Dy()-h*scale)/2)
	draw.Draw(dst, scaled.Bounds().Add(at), scaled, image.Point{}, draw.Over)
}

func toRGBA(c scene.Color) color.RGBA {
	r, g, b, a := c.RGBA8()
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// withAlpha returns c with alpha a, premultiplying the colour channels.
func withAlpha(c color.RGBA, a uint8) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(a) / 255),
		G: uint8(uint16(c.G) * uint16(a) / 255),
		B: uint8(uint16(c.B) * uint16(a) / 255),
		A: a,
	}
}
