package qr

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultColorHex is the module color used when the form has not picked one.
const DefaultColorHex = "#0284c7"

var (
	// DefaultColor is DefaultColorHex as RGBA.
	DefaultColor = color.RGBA{R: 0x02, G: 0x84, B: 0xc7, A: 0xff}
	// White is the background of every produced code.
	White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// ParseHexColor parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func ParseHexColor(s string) (color.RGBA, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return color.RGBA{}, errors.Errorf("invalid hex color %q", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "invalid hex color %q", s)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}

// ParseHexColorOr is ParseHexColor falling back to def on malformed input.
func ParseHexColorOr(s string, def color.RGBA) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return def
	}
	return c
}

// FormatHexColor renders c as "#rrggbb", ignoring alpha.
func FormatHexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
