package model_test

import (
	"encoding/json"
	"testing"

	"alignify/src-server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPalette(t *testing.T) {
	want := []string{
		"#FBF8CC", "#FDE4CF", "#FFCFD2", "#F1C0E8", "#CFBAF0",
		"#A3C4F3", "#90DBF4", "#8EECF5", "#98F5E1", "#B9FBC0",
	}
	require.Equal(t, len(want), model.PaletteSize())
	for i, hex := range want {
		assert.Equal(t, hex, model.PaletteColor(i).Hex(), "index %d", i)
	}
	// round-robin
	assert.Equal(t, model.PaletteColor(0), model.PaletteColor(10))
	assert.Equal(t, model.PaletteColor(3), model.PaletteColor(23))
}

func TestColorText(t *testing.T) {
	// every pastel is light
	for i := range model.PaletteSize() {
		assert.Equal(t, model.Black, model.PaletteColor(i).TextColor())
	}
	assert.Equal(t, model.White, model.Color{R: 20, G: 40, B: 90}.TextColor())
	// lightness is (max+min)/2: (200+0)/2 = 100
	assert.Equal(t, 100, model.Color{R: 200, G: 0, B: 0}.Lightness())
	assert.Equal(t, model.White, model.Color{R: 200, G: 0, B: 0}.TextColor())
	assert.Equal(t, model.Black, model.Color{R: 255, G: 1, B: 0}.TextColor())
}

func TestColorJSON(t *testing.T) {
	b, err := json.Marshal(model.CreatedDateColor)
	require.NoError(t, err)
	assert.Equal(t, `"#D3D3D3"`, string(b))
	assert.Equal(t, "#C8E6FF", model.ImportedDateColor.String())
}

func TestParseHex(t *testing.T) {
	c, err := model.ParseHex("#A3C4F3")
	require.NoError(t, err)
	assert.Equal(t, model.PaletteColor(5), c)

	var decoded model.Color
	require.NoError(t, json.Unmarshal([]byte(`"#d3d3d3"`), &decoded))
	assert.Equal(t, model.CreatedDateColor, decoded)

	for _, bad := range []string{"", "A3C4F3", "#A3C4F", "#GGGGGG"} {
		_, err := model.ParseHex(bad)
		assert.Error(t, err, bad)
	}
}
