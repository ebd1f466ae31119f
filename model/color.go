package model

import (
	"fmt"
	"image/color"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	RED_OFFSET   uint8 = 0x10
	GREEN_OFFSET uint8 = 0x08
	BLUE_OFFSET  uint8 = 0x0
)

// Color is a 24-bit RGB value packed into a uint32. The zero value is black
// (all channels off). Colors compare equal when all channels match.
type Color struct {
	val uint32
}

// Black is the all-off color, used to clear strips.
var Black = Color{}

// New builds a Color from a packed 0xRRGGBB value. Bits above the low 24 are
// discarded.
func New(rgb uint32) Color {
	return Color{val: rgb & 0xFFFFFF}
}

// FromRGB builds a Color from individual channel values.
func FromRGB(r, g, b uint8) Color {
	return Color{val: uint32(r)<<RED_OFFSET | uint32(g)<<GREEN_OFFSET | uint32(b)<<BLUE_OFFSET}
}

// FromHSV builds a Color from hue (degrees, 0-360), saturation and value
// (both 0-1).
func FromHSV(h, s, v float64) Color {
	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return FromRGB(r, g, b)
}

// Parse reads a "#RRGGBB" or "RRGGBB" hex string.
func Parse(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return Black, fmt.Errorf("malformed color %q: want RRGGBB", s)
	}
	rgb, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Black, fmt.Errorf("malformed color %q: %w", s, err)
	}
	return New(uint32(rgb)), nil
}

func getchan(c uint32, off uint8) uint8 {
	return uint8((c >> off) & 0xFF)
}

func (c Color) R() uint8 { return getchan(c.val, RED_OFFSET) }
func (c Color) G() uint8 { return getchan(c.val, GREEN_OFFSET) }
func (c Color) B() uint8 { return getchan(c.val, BLUE_OFFSET) }

// RGB returns the packed 0xRRGGBB value.
func (c Color) RGB() uint32 {
	return c.val
}

// Scale multiplies each channel by s/255, dimming the color toward black.
func (c Color) Scale(s uint8) Color {
	scale := func(ch uint8) uint8 {
		return uint8(uint16(ch) * uint16(s) / 255)
	}
	return FromRGB(scale(c.R()), scale(c.G()), scale(c.B()))
}

// ToRGBA converts to an opaque image/color RGBA.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xFF}
}

// ToNRGBA converts to an opaque image/color NRGBA.
func (c Color) ToNRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xFF}
}

// Bytes serializes the color as three bytes in R, G, B order.
func (c Color) Bytes() []byte {
	return []byte{c.R(), c.G(), c.B()}
}

func (c Color) String() string {
	return fmt.Sprintf("#%06X", c.val)
}
