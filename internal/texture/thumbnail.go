package texture

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/sync/errgroup"
)

// ThumbnailSize is the edge length of design picker previews.
const ThumbnailSize = 60

// maxThumbnailWorkers bounds concurrent decodes while building previews.
const maxThumbnailWorkers = 4

// Thumbnail crops the centered square of img and scales it to size×size,
// filling the preview the way an object-fit: cover image would.
func Thumbnail(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	square := transform.Crop(img, image.Rect(x0, y0, x0+side, y0+side))
	return transform.Resize(square, size, size, transform.Linear)
}

// Thumbnails loads every path through loader and returns a preview per path.
// The first failure cancels the remaining loads.
func Thumbnails(ctx context.Context, loader ImageLoader, paths []string, size int) (map[string]*image.RGBA, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxThumbnailWorkers)

	var mu sync.Mutex
	thumbs := make(map[string]*image.RGBA, len(paths))

	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		if seen[path] {
			continue
		}
		seen[path] = true

		g.Go(func() error {
			img, err := loader.LoadImage(ctx, path)
			if err != nil {
				return fmt.Errorf("thumbnail %s: %w", path, err)
			}
			thumb := Thumbnail(img, size)

			mu.Lock()
			thumbs[path] = thumb
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return thumbs, nil
}
