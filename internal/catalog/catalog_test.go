package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/Faultbox/tilecraft/internal/tiling"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, []surface.Type{surface.Floor, surface.Wall, surface.Sofa, surface.Curtain}, c.Types())

	for _, typ := range c.Types() {
		assert.Len(t, c.ForType(typ), 3, typ.String())
	}

	wood, ok := c.Find(surface.Floor, "Wood")
	require.True(t, ok)
	require.NotNil(t, wood.TileSize)
	assert.Equal(t, tiling.TileSize{Width: 2, Height: 4}, *wood.TileSize)
	assert.Equal(t, "/designs/tiles11.jpg", wood.Image)

	paint, ok := c.Find(surface.Wall, "Grey Paint")
	require.True(t, ok)
	assert.Nil(t, paint.TileSize)

	_, ok = c.Find(surface.Sofa, "Wood")
	assert.False(t, ok)
	assert.Empty(t, c.ForType(surface.Unknown))
}

func TestImmutable(t *testing.T) {
	designs := DefaultDesigns()
	c, err := New(designs)
	require.NoError(t, err)

	designs[surface.Floor][0].Name = "Changed"
	designs[surface.Floor][0].TileSize.Width = 99
	got := c.ForType(surface.Floor)
	assert.Equal(t, "Marble", got[0].Name)
	assert.Equal(t, float32(2), got[0].TileSize.Width)

	got[1].Name = "Changed too"
	_, ok := c.Find(surface.Floor, "Wood")
	assert.True(t, ok)
}

func TestImages(t *testing.T) {
	images := Default().Images()
	assert.Contains(t, images, "/designs/sofa.png")
	assert.Len(t, images, 9, "shared images listed once")
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
floor:
  - name: Slate
    image: designs/slate.png
    tile_size: {width: 1.5, height: 3}
curtain:
  - name: Linen
    image: designs/linen.jpg
`))
	require.NoError(t, err)
	assert.Equal(t, []surface.Type{surface.Floor, surface.Curtain}, c.Types())

	slate, ok := c.Find(surface.Floor, "Slate")
	require.True(t, ok)
	assert.Equal(t, &tiling.TileSize{Width: 1.5, Height: 3}, slate.TileSize)
}

func TestParseUnknownType(t *testing.T) {
	_, err := Parse([]byte("lamp:\n  - name: Brass\n    image: brass.png\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	_, err := New(map[surface.Type][]Design{
		surface.Floor: {
			{Name: "A", Image: "a.png", TileSize: &tiling.TileSize{Width: 0, Height: 1}},
			{Name: "A", Image: "b.png"},
			{Image: "c.png"},
		},
		surface.Wall: {
			{Name: "Paint", TileSize: &tiling.TileSize{Width: 1, Height: 1}},
		},
		surface.Unknown: {{Name: "x", Image: "x.png"}},
	})
	require.Error(t, err)

	errs := multierr.Errors(err)
	assert.Len(t, errs, 6)
	assert.ErrorIs(t, err, ErrTileSize)
	assert.ErrorIs(t, err, ErrDuplicateDesign)
	assert.ErrorIs(t, err, ErrMissingName)
	assert.ErrorIs(t, err, ErrMissingImage)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestLoadRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().ForType(surface.Floor), c.ForType(surface.Floor))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
