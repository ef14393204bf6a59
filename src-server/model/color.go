package model

import (
	"encoding/json"
	"fmt"
)

type Color struct {
	R, G, B uint8
}

var (
	CreatedDateColor  = Color{211, 211, 211}
	ImportedDateColor = Color{200, 230, 255}
	White             = Color{255, 255, 255}
	Black             = Color{0, 0, 0}
)

// assigned round-robin, in user creation order
var palette = [...]Color{
	{251, 248, 204}, // yellow
	{253, 228, 207}, // beige pink
	{255, 207, 210}, // pink
	{241, 192, 232}, // magenta
	{207, 186, 240}, // purple
	{163, 196, 243}, // periwinkle
	{144, 219, 244}, // blue
	{142, 236, 245}, // light blue
	{152, 245, 225}, // sea green
	{185, 251, 192}, // green
}

func PaletteColor(index int) Color {
	if index < 0 {
		index = -index
	}
	return palette[index%len(palette)]
}

func PaletteSize() int {
	return len(palette)
}

// Lightness is the HSL lightness scaled to 0-255.
func (c Color) Lightness() int {
	hi := max(c.R, c.G, c.B)
	lo := min(c.R, c.G, c.B)
	return (int(hi) + int(lo)) / 2
}

// TextColor picks a readable foreground for text drawn on c.
func (c Color) TextColor() Color {
	if c.Lightness() < 128 {
		return White
	}
	return Black
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c *Color) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseHex reads "#RRGGBB".
func ParseHex(s string) (Color, error) {
	var c Color
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("ParseHex: %q is not #RRGGBB", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("ParseHex: %w", err)
	}
	return c, nil
}
