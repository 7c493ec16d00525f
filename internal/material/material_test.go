package material

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tilecraft/internal/texture"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

func TestPresets(t *testing.T) {
	tex := texture.New(image.NewRGBA(image.Rect(0, 0, 1, 1)))

	tests := []struct {
		typ         surface.Type
		metal       float32
		rough       float32
		transparent bool
		opacity     float32
		doubleSided bool
	}{
		{surface.Wall, 0.2, 0, false, 1, false},
		{surface.Sofa, 0.1, 0.8, false, 1, false},
		{surface.Curtain, 0, 1, true, 0.95, true},
		{surface.Floor, 0.7, 0, false, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			m, err := ForType(tt.typ, tex)
			require.NoError(t, err)
			assert.Equal(t, tt.metal, m.Metalness)
			assert.Equal(t, tt.rough, m.Roughness)
			assert.Equal(t, tt.transparent, m.Transparent)
			assert.Equal(t, tt.opacity, m.Opacity)
			assert.Equal(t, tt.doubleSided, m.DoubleSided)
			assert.Same(t, tex, m.Texture, "texture not bound")
		})
	}
}

func TestForTypeUnknown(t *testing.T) {
	_, err := ForType(surface.Unknown, nil)
	assert.Error(t, err)
}

func TestFloorSide(t *testing.T) {
	m := FloorSide()
	assert.Equal(t, color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}, m.Color)
	assert.Nil(t, m.Texture, "floor side should be untextured")
}
