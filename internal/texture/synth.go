package texture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/tilecraft/internal/logger"
	"github.com/Faultbox/tilecraft/internal/tiling"
)

// ErrDecodeTimeout is returned when a source image does not finish decoding
// within Options.DecodeTimeout.
var ErrDecodeTimeout = errors.New("image decode timed out")

// Options configures bordered texture synthesis.
type Options struct {
	BorderWidth   int           // Outline width in pixels
	BorderColor   color.Color   // Outline color
	DecodeTimeout time.Duration // Zero disables the timeout
}

// DefaultOptions returns a 10px black outline and a 10s decode timeout.
func DefaultOptions() Options {
	return Options{
		BorderWidth:   10,
		BorderColor:   color.Black,
		DecodeTimeout: 10 * time.Second,
	}
}

// Synthesizer turns flat design images into bordered repeating textures.
type Synthesizer struct {
	loader ImageLoader
	opts   Options
}

// NewSynthesizer creates a synthesizer that reads source images from loader.
func NewSynthesizer(loader ImageLoader, opts Options) *Synthesizer {
	if opts.BorderColor == nil {
		opts.BorderColor = color.Black
	}
	return &Synthesizer{loader: loader, opts: opts}
}

// Options returns the synthesizer's options.
func (s *Synthesizer) Options() Options {
	return s.opts
}

type loadResult struct {
	img image.Image
	err error
}

// Build waits for path to decode, draws the tile outline and returns a
// texture that repeats r times on each axis in sRGB.
//
// The wait is bounded by the decode timeout and by ctx; a loader that never
// returns is abandoned and its result dropped.
func (s *Synthesizer) Build(ctx context.Context, path string, r tiling.Repeat) (*Texture, error) {
	if s.opts.DecodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.DecodeTimeout)
		defer cancel()
	}

	ch := make(chan loadResult, 1)
	go func() {
		img, err := s.loader.LoadImage(ctx, path)
		ch <- loadResult{img: img, err: err}
	}()

	var img image.Image
	select {
	case res := <-ch:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("loading %s: %w after %s", path, ErrDecodeTimeout, s.opts.DecodeTimeout)
			}
			return nil, fmt.Errorf("loading %s: %w", path, res.err)
		}
		img = res.img
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("loading %s: %w after %s", path, ErrDecodeTimeout, s.opts.DecodeTimeout)
		}
		return nil, fmt.Errorf("loading %s: %w", path, ctx.Err())
	}

	tex := New(Bordered(img, s.opts.BorderWidth, s.opts.BorderColor))
	tex.Source = path
	tex.WrapS = Repeat
	tex.WrapT = Repeat
	tex.Repeat = r
	tex.ColorSpace = SRGB

	w, h := tex.Size()
	logger.Debug("built bordered texture",
		zap.String("source", path),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Stringer("repeat", r),
	)
	return tex, nil
}

// Bordered copies img at native resolution into an RGBA buffer anchored at
// the origin and paints a solid outline of the given width flush with its
// edges. Widths larger than half the image fill it completely.
func Bordered(img image.Image, width int, c color.Color) *image.RGBA {
	dst := clone.AsRGBA(img)
	// A fresh buffer's Pix starts at Rect.Min, so rebasing is a bounds change.
	dst.Rect = dst.Rect.Sub(dst.Rect.Min)
	if width <= 0 {
		return dst
	}

	b := dst.Bounds()
	w := min(width, b.Dx())
	h := min(width, b.Dy())
	src := image.NewUniform(c)

	edges := []image.Rectangle{
		image.Rect(0, 0, b.Dx(), h),             // top
		image.Rect(0, b.Dy()-h, b.Dx(), b.Dy()), // bottom
		image.Rect(0, 0, w, b.Dy()),             // left
		image.Rect(b.Dx()-w, 0, b.Dx(), b.Dy()), // right
	}
	for _, r := range edges {
		draw.Draw(dst, r, src, image.Point{}, draw.Src)
	}
	return dst
}
