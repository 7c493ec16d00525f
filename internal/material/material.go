// Package material defines surface materials and the presets applied per
// surface type.
package material

import (
	"fmt"
	"image/color"

	"github.com/Faultbox/tilecraft/internal/texture"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

// Material is a physically based surface description.
type Material struct {
	Name        string
	Color       color.RGBA
	Metalness   float32
	Roughness   float32
	Texture     *texture.Texture // Optional albedo map
	Transparent bool
	Opacity     float32
	DoubleSided bool
}

// Opaque returns a white, fully opaque material with the given name.
func Opaque(name string) *Material {
	return &Material{
		Name:    name,
		Color:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Opacity: 1,
	}
}

// FloorTop is the material for the upward-facing triangles of a floor.
func FloorTop(tex *texture.Texture) *Material {
	m := Opaque("floor-top")
	m.Texture = tex
	m.Metalness = 0.7
	m.Roughness = 0
	return m
}

// FloorSide is the plain material for a floor slab's sides and bottom.
func FloorSide() *Material {
	m := Opaque("floor-side")
	m.Color = color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
	m.Metalness = 0.2
	m.Roughness = 0.7
	return m
}

// ForType returns the single textured material used for a non-floor surface.
// Floors take two materials; use FloorTop and FloorSide for them.
func ForType(t surface.Type, tex *texture.Texture) (*Material, error) {
	m := Opaque(t.String())
	m.Texture = tex

	switch t {
	case surface.Wall:
		m.Metalness = 0.2
		m.Roughness = 0
	case surface.Sofa:
		m.Metalness = 0.1
		m.Roughness = 0.8
	case surface.Curtain:
		m.Metalness = 0
		m.Roughness = 1
		m.Transparent = true
		m.Opacity = 0.95
		m.DoubleSided = true
	case surface.Floor:
		return FloorTop(tex), nil
	default:
		return nil, fmt.Errorf("no material preset for surface type %s", t)
	}
	return m, nil
}
