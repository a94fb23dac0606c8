// Package texture holds decoded panorama and icon images ready for upload.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned when a decoded image has no pixels.
var ErrEmptyImage = errors.New("texture: empty image")

// Texture is CPU-side RGBA pixel data identified by its asset key.
// The renderer uploads it lazily and keeps the GPU handle keyed by pointer,
// so two textures are "the same" only if they are the same *Texture.
type Texture struct {
	Key    string
	Image  *image.RGBA
	Width  int
	Height int
}

// FromImage converts img to RGBA, downscaling it so neither side exceeds
// maxSize. A maxSize <= 0 disables the limit.
func FromImage(key string, img image.Image, maxSize int) (*Texture, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%s: %w", key, ErrEmptyImage)
	}

	var rgba *image.RGBA
	if w, h := fitWithin(b.Dx(), b.Dy(), maxSize); w != b.Dx() || h != b.Dy() {
		rgba = transform.Resize(img, w, h, transform.Linear)
	} else {
		rgba = clone.AsRGBA(img)
	}

	return &Texture{
		Key:    key,
		Image:  rgba,
		Width:  rgba.Bounds().Dx(),
		Height: rgba.Bounds().Dy(),
	}, nil
}

// Decode reads any registered image format (PNG, JPEG, WebP, BMP).
func Decode(key string, r io.Reader, maxSize int) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return FromImage(key, img, maxSize)
}

// Solid returns a 1x1 texture of a single colour.
func Solid(key string, c color.RGBA) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return &Texture{Key: key, Image: img, Width: 1, Height: 1}
}

// fitWithin scales (w, h) down to fit a maxSize square, keeping aspect.
func fitWithin(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		nh := h * maxSize / w
		if nh < 1 {
			nh = 1
		}
		return maxSize, nh
	}
	nw := w * maxSize / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxSize
}
