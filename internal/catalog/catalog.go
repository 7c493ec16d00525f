// Package catalog holds the design options offered for each surface type.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tilecraft/internal/tiling"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

// Catalog errors.
var (
	ErrUnknownType     = errors.New("designs listed for unknown surface type")
	ErrMissingName     = errors.New("design has no name")
	ErrMissingImage    = errors.New("design has no image")
	ErrDuplicateDesign = errors.New("duplicate design name")
	ErrTileSize        = errors.New("invalid tile size")
)

// Design is one choice in the design picker.
type Design struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
	// TileSize is the physical tile size in feet; floors only.
	TileSize *tiling.TileSize `yaml:"tile_size,omitempty"`
}

// Catalog maps surface types to their design options. It is immutable once built.
type Catalog struct {
	designs map[surface.Type][]Design
}

// New builds a catalog from designs, copying the input.
func New(designs map[surface.Type][]Design) (Catalog, error) {
	c := Catalog{designs: make(map[surface.Type][]Design, len(designs))}
	for t, list := range designs {
		c.designs[t] = lo.Map(list, func(d Design, _ int) Design {
			if d.TileSize != nil {
				ts := *d.TileSize
				d.TileSize = &ts
			}
			return d
		})
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() Catalog {
	c, err := New(DefaultDesigns())
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

// DefaultDesigns returns the built-in designs, three per surface type.
func DefaultDesigns() map[surface.Type][]Design {
	return map[surface.Type][]Design{
		surface.Floor: {
			{Name: "Marble", Image: "/designs/QUINCY BROWN_F1.jpg", TileSize: &tiling.TileSize{Width: 2, Height: 2}},
			{Name: "Wood", Image: "/designs/tiles11.jpg", TileSize: &tiling.TileSize{Width: 2, Height: 4}},
			{Name: "Tiles", Image: "/designs/tile1.jpg", TileSize: &tiling.TileSize{Width: 1, Height: 1}},
		},
		surface.Wall: {
			{Name: "Marble", Image: "/designs/QUINCY BROWN_F1.jpg"},
			{Name: "Tiles", Image: "/designs/tile1.jpg"},
			{Name: "Grey Paint", Image: "/designs/wall-grey.jpg"},
		},
		surface.Sofa: {
			{Name: "Red Fabric", Image: "/designs/sofa.png"},
			{Name: "Green Fabric", Image: "/designs/sofa-green.jpg"},
			{Name: "Blue Fabric", Image: "/designs/sofa-blue.jpg"},
		},
		surface.Curtain: {
			{Name: "Red Fabric", Image: "/designs/sofa.png"},
			{Name: "Purple Curtain", Image: "/designs/curtain-purple.jpg"},
			{Name: "Grey Curtain", Image: "/designs/curtain-grey.jpg"},
		},
	}
}

// Parse reads a catalog from YAML keyed by surface type name.
func Parse(data []byte) (Catalog, error) {
	var designs map[surface.Type][]Design
	if err := yaml.Unmarshal(data, &designs); err != nil {
		return Catalog{}, fmt.Errorf("decoding catalog: %w", err)
	}
	return New(designs)
}

// Load reads a catalog file.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the catalog as YAML.
func (c Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c.designs)
}

// Validate reports every problem in the catalog at once.
func (c Catalog) Validate() error {
	var errs error
	for t, list := range c.designs {
		if !t.Known() {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrUnknownType, t))
			continue
		}
		seen := make(map[string]bool, len(list))
		for i, d := range list {
			if d.Name == "" {
				errs = multierr.Append(errs, fmt.Errorf("%s design %d: %w", t, i, ErrMissingName))
			} else if seen[d.Name] {
				errs = multierr.Append(errs, fmt.Errorf("%s design %q: %w", t, d.Name, ErrDuplicateDesign))
			}
			seen[d.Name] = true

			if d.Image == "" {
				errs = multierr.Append(errs, fmt.Errorf("%s design %q: %w", t, d.Name, ErrMissingImage))
			}
			if d.TileSize == nil {
				continue
			}
			if t != surface.Floor {
				errs = multierr.Append(errs, fmt.Errorf("%s design %q: %w: only floors take a tile size", t, d.Name, ErrTileSize))
			} else if d.TileSize.Width <= 0 || d.TileSize.Height <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s design %q: %w: %gx%g",
					t, d.Name, ErrTileSize, d.TileSize.Width, d.TileSize.Height))
			}
		}
	}
	return errs
}

// ForType returns the options for t in display order. The slice is a copy.
func (c Catalog) ForType(t surface.Type) []Design {
	return slices.Clone(c.designs[t])
}

// Find returns the design named name for t.
func (c Catalog) Find(t surface.Type, name string) (Design, bool) {
	return lo.Find(c.designs[t], func(d Design) bool {
		return d.Name == name
	})
}

// Types returns the surface types that have designs, in enum order.
func (c Catalog) Types() []surface.Type {
	types := lo.Keys(c.designs)
	slices.Sort(types)
	return types
}

// Images returns every distinct image path in the catalog, sorted.
func (c Catalog) Images() []string {
	var all []string
	for _, list := range c.designs {
		all = append(all, lo.Map(list, func(d Design, _ int) string { return d.Image })...)
	}
	images := lo.Uniq(all)
	slices.Sort(images)
	return images
}
