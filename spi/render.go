// Package spi pushes finished pixel buffers to WS281x-class LED strips over
// SPI. It is the transmission side of the system: the animator computes
// frames, this package gets them onto the wire (or, without hardware, onto
// the terminal).
package spi

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/disquisitioner/LEDControl/model"
)

// RefreshRate is the WS281x data rate in kHz.
const RefreshRate physic.Frequency = 800

// Renderer draws finished frames to an LED strip. When no SPI port is
// available it falls back to rendering at the console.
type Renderer struct {
	drawer display.Drawer
	pixels int

	// HW reports whether frames reach real hardware rather than the
	// console fallback.
	HW bool
}

// NewRenderer opens the named SPI port ("" for the first available) and
// prepares an NRZ encoder for a strip of pixels LEDs. Without a usable SPI
// port the renderer prints frames to the console instead.
func NewRenderer(pixels int, dev string) (*Renderer, error) {
	if pixels <= 0 {
		return nil, fmt.Errorf("invalid pixel count: %d", pixels)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	port, err := spireg.Open(dev)
	if err != nil {
		fmt.Printf("Failed to find a SPI port, printing at the console:\n")
		return &Renderer{drawer: screen.New(pixels), pixels: pixels}, nil
	}

	opts := nrzled.Opts{
		NumPixels: pixels,
		Channels:  3,
		Freq:      ((RefreshRate * 3) + 100) * physic.KiloHertz,
	}
	d, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	if err := d.Halt(); err != nil {
		return nil, fmt.Errorf("halt strip: %w", err)
	}
	return &Renderer{drawer: d, pixels: pixels, HW: true}, nil
}

// newRenderer wires an explicit drawer, for tests.
func newRenderer(d display.Drawer, pixels int) *Renderer {
	return &Renderer{drawer: d, pixels: pixels}
}

// Render pushes one frame to the strip. The frame length must match the
// renderer's pixel count.
func (r *Renderer) Render(frame []model.Color) error {
	if len(frame) != r.pixels {
		return fmt.Errorf("frame length %d does not match pixel count %d", len(frame), r.pixels)
	}
	img := image.NewNRGBA(image.Rect(0, 0, len(frame), 1))
	for x, c := range frame {
		img.SetNRGBA(x, 0, c.ToNRGBA())
	}
	if err := r.drawer.Draw(r.drawer.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

// Halt blanks the strip.
func (r *Renderer) Halt() error {
	return r.drawer.Halt()
}
