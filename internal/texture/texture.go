// Package texture builds the bordered, repeating textures applied to picked
// surfaces, and decodes the image formats design assets ship in.
package texture

import (
	"context"
	"image"

	"github.com/Faultbox/tilecraft/internal/tiling"
)

// WrapMode controls texture addressing outside [0,1].
type WrapMode int

const (
	ClampToEdge WrapMode = iota
	Repeat
	MirroredRepeat
)

// ColorSpace tells the renderer how to interpret texel values.
type ColorSpace int

const (
	Linear ColorSpace = iota
	SRGB              // Perceptual; sampled with gamma correction
)

// Texture is a pixel buffer plus the sampling state a renderer needs.
type Texture struct {
	Image      *image.RGBA
	Source     string
	WrapS      WrapMode
	WrapT      WrapMode
	Repeat     tiling.Repeat
	ColorSpace ColorSpace
}

// New wraps img with clamped addressing, a 1×1 repeat and linear color.
func New(img *image.RGBA) *Texture {
	return &Texture{
		Image:  img,
		Repeat: tiling.One,
	}
}

// Size returns the pixel dimensions.
func (t *Texture) Size() (width, height int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// ImageLoader resolves an asset path to a decoded image.
type ImageLoader interface {
	LoadImage(ctx context.Context, path string) (image.Image, error)
}
