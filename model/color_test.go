package model_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/disquisitioner/LEDControl/model"
)

var TestChannelsPackToExpectedColor = []struct {
	R      uint8
	G      uint8
	B      uint8
	Expect uint32
}{
	{0x11, 0x22, 0x33, 0x112233},
	{0x2A, 0x44, 0x34, 0x2A4434},
	{0x3B, 0x88, 0x35, 0x3B8835},
	{0xFF, 0x00, 0xFF, 0xFF00FF},
	{0x00, 0x00, 0x00, 0x000000},
}

func TestColorsRGB(t *testing.T) {
	for k, v := range TestChannelsPackToExpectedColor {
		t.Run("Given RGB"+strconv.FormatUint(uint64(k), 10), func(t *testing.T) {
			col := FromRGB(v.R, v.G, v.B)
			assert.Equal(t, v.Expect, col.RGB(), "should pack to same val")
			assert.Equal(t, v.R, col.R())
			assert.Equal(t, v.G, col.G())
			assert.Equal(t, v.B, col.B())
		})
	}
}

func TestNewMasksHighBits(t *testing.T) {
	assert.Equal(t, uint32(0x112233), New(0xFF112233).RGB())
}

func TestScale(t *testing.T) {
	c := New(0xFF8000)
	assert.Equal(t, c, c.Scale(255), "full scale is identity")
	assert.Equal(t, Black, c.Scale(0), "zero scale is black")

	half := c.Scale(128)
	assert.Equal(t, uint8(0x80), half.R())
	assert.Equal(t, uint8(0x40), half.G())
	assert.Equal(t, uint8(0x00), half.B())
}

func TestFromHSVPrimaries(t *testing.T) {
	assert.Equal(t, New(0xFF0000), FromHSV(0, 1, 1))
	assert.Equal(t, New(0x00FF00), FromHSV(120, 1, 1))
	assert.Equal(t, New(0x0000FF), FromHSV(240, 1, 1))
}

func TestParse(t *testing.T) {
	c, err := Parse("#FFA500")
	assert.NoError(t, err)
	assert.Equal(t, New(0xFFA500), c)

	c, err = Parse("00ff00")
	assert.NoError(t, err)
	assert.Equal(t, New(0x00FF00), c)

	for _, bad := range []string{"", "#FFF", "xyzxyz", "#GGGGGG"} {
		_, err := Parse(bad)
		assert.Error(t, err, "expected error for %q", bad)
	}
}

func TestConversions(t *testing.T) {
	c := New(0x102030)
	rgba := c.ToRGBA()
	assert.Equal(t, uint8(0x10), rgba.R)
	assert.Equal(t, uint8(0x30), rgba.B)
	assert.Equal(t, uint8(0xFF), rgba.A)
	assert.Equal(t, []byte{0x10, 0x20, 0x30}, c.Bytes())
	assert.Equal(t, "#102030", c.String())
}
