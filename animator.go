// Package ledcontrol generates patterns and animations on addressable LED
// strips. Every pattern is driven by a small per-strip state machine: a mode
// is assigned through a setter, and Tick advances the strip's pixel buffer by
// one animation step. The caller owns the clock; pushing the finished buffer
// to hardware is left to a transmission collaborator such as package spi.
package ledcontrol

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/disquisitioner/LEDControl/model"
)

// PatternWidth is the number of low-order bitmap bits addressable by the
// pattern-driven modes. Strips longer than this leave their higher-indexed
// pixels untouched by bitmap rendering.
const PatternWidth = 32

type direction int

const (
	dirForward direction = iota
	dirReverse
)

// Animator runs one strip's animation state machine. It owns a pixel buffer
// whose length is fixed at construction; Tick is the only operation that
// writes to it.
//
// An Animator is not safe for concurrent use. A host ticking multiple strips
// may do so in any order, but each instance must be driven by one goroutine
// at a time.
type Animator struct {
	pixels []model.Color

	mode    Mode
	fresh   bool // mode was changed since the last tick
	color   model.Color
	bitmap  uint32
	dir     direction
	dimStep int
}

// New allocates an Animator for a strip of pixelCount pixels, starting in
// ModeOff with all pixels black.
func New(pixelCount int) (*Animator, error) {
	if pixelCount <= 0 {
		return nil, fmt.Errorf("invalid pixel count: %d", pixelCount)
	}
	return &Animator{
		pixels: make([]model.Color, pixelCount),
		mode:   ModeOff,
		fresh:  true,
	}, nil
}

// Mode returns the currently active mode. Note that the Rainbow modes hand
// off to the matching Run mode on their first tick.
func (a *Animator) Mode() Mode {
	return a.mode
}

// Pixels returns the animator's pixel buffer. The slice is owned by the
// animator and rewritten in place by Tick; readers must not retain it across
// ticks if they need a stable frame.
func (a *Animator) Pixels() []model.Color {
	return a.pixels
}

// Len returns the strip length in pixels.
func (a *Animator) Len() int {
	return len(a.pixels)
}

func (a *Animator) setMode(m Mode, c model.Color) {
	a.mode = m
	a.color = c
	a.fresh = true
}

// SetOff turns every pixel off on the next tick.
func (a *Animator) SetOff() {
	a.setMode(ModeOff, model.Black)
}

// SetSolid lights the whole strip with one color.
func (a *Animator) SetSolid(c model.Color) {
	a.setMode(ModeSolid, c)
}

// SetRunForward sequences a single color from the beginning of the strip to
// the end, wrapping around if left on long enough.
func (a *Animator) SetRunForward(c model.Color) {
	a.setMode(ModeRunForward, c)
}

// SetRunReverse sequences a single color from the end of the strip back to
// the beginning, wrapping around if left on long enough.
func (a *Animator) SetRunReverse(c model.Color) {
	a.setMode(ModeRunReverse, c)
}

// SetRainbowForward loads the strip with a rainbow and then runs it forward.
func (a *Animator) SetRainbowForward() {
	a.setMode(ModeRainbowForward, model.Black)
}

// SetRainbowReverse loads the strip with a rainbow and then runs it in
// reverse.
func (a *Animator) SetRainbowReverse() {
	a.setMode(ModeRainbowReverse, model.Black)
}

// SetCylon runs a color back and forth, a la a Cylon's red eye.
func (a *Animator) SetCylon(c model.Color) {
	a.setMode(ModeCylon, c)
}

// SetPattern displays a static bit-per-pixel pattern: pixel i is lit with c
// when bit i of bitmap is set. Bits at or above PatternWidth are ignored.
func (a *Animator) SetPattern(c model.Color, bitmap uint32) {
	a.setMode(ModePattern, c)
	a.bitmap = bitmap
}

// SetProgress displays a progress bar of percent (clamped to 0-100) as a run
// of lit pixels starting from pixel 0, using the pattern machinery.
func (a *Animator) SetProgress(c model.Color, percent int) {
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	lit := len(a.pixels) * percent / 100
	a.setMode(ModePattern, c)
	a.bitmap = lowBits(lit)
}

// SetMarquee displays a bit-per-pixel pattern and rotates it one pixel per
// tick, circularly over the strip's addressable pattern width.
func (a *Animator) SetMarquee(c model.Color, bitmap uint32) {
	a.setMode(ModeMarquee, c)
	a.bitmap = bitmap
}

// SetBreathe pulses the whole strip with c, dimming and brightening through
// the package dimming curve.
func (a *Animator) SetBreathe(c model.Color) {
	a.setMode(ModeBreathe, c)
	a.dir = dirForward
	a.dimStep = 0
}

// Tick advances the animation by exactly one step, rewriting the pixel
// buffer in place. The first tick after a mode change runs that mode's
// one-shot entry computation; later ticks run its steady-state step.
func (a *Animator) Tick() {
	if a.fresh {
		a.fresh = false
		a.enter()
		return
	}
	a.step()
}

// enter performs a mode's first-tick initialization. The Rainbow modes also
// transition the state machine to their matching Run mode here, so their
// steady state is never reached.
func (a *Animator) enter() {
	switch a.mode {
	case ModeOff:
		a.fill(model.Black)

	case ModeSolid:
		a.fill(a.color)

	case ModeRunForward:
		a.fill(model.Black)
		a.pixels[0] = a.color

	case ModeRunReverse:
		a.fill(model.Black)
		a.pixels[len(a.pixels)-1] = a.color

	case ModeRainbowForward:
		a.fillRainbow()
		a.mode = ModeRunForward

	case ModeRainbowReverse:
		a.fillRainbow()
		a.mode = ModeRunReverse

	case ModeCylon:
		a.fill(model.Black)
		a.pixels[0] = a.color
		a.dir = dirForward

	case ModePattern, ModeMarquee:
		a.fill(model.Black)
		a.renderPattern()

	case ModeBreathe:
		a.dir = dirForward
		a.dimStep = 0
		a.breatheStep()

	default:
		log.Error().Int("mode", int(a.mode)).Msg("unrecognized mode")
	}
}

// step performs a mode's steady-state tick.
func (a *Animator) step() {
	switch a.mode {
	case ModeOff, ModeSolid, ModePattern:
		// Static displays; nothing changes until the next setter call.

	case ModeRunForward:
		a.shiftForward()

	case ModeRunReverse:
		a.shiftReverse()

	case ModeRainbowForward, ModeRainbowReverse:
		// Unreachable: enter hands the machine off to a Run mode.
		log.Warn().Stringer("mode", a.mode).Msg("rainbow tick after handoff")

	case ModeCylon:
		a.cylonStep()

	case ModeMarquee:
		a.bitmap = rotateLeft(a.bitmap, a.patternWidth())
		a.renderPattern()

	case ModeBreathe:
		a.breatheStep()

	default:
		log.Error().Int("mode", int(a.mode)).Msg("unrecognized mode")
	}
}

// cylonStep bounces the lit pixel between the strip ends. Reaching an end
// flips the direction without shifting, so the endpoint holds for one extra
// tick and a full cycle stays in sync with a single-direction run of the
// same strip (period 2N).
func (a *Animator) cylonStep() {
	last := len(a.pixels) - 1
	if a.dir == dirForward {
		if a.pixels[last] == a.color {
			a.dir = dirReverse
		} else {
			a.shiftForward()
		}
	} else {
		if a.pixels[0] == a.color {
			a.dir = dirForward
		} else {
			a.shiftReverse()
		}
	}
}

// breatheStep fills the strip with the base color scaled by the current
// dimming level, then walks the dimming index. The index holds for one extra
// tick at each end of the curve, so the strip dwells briefly at its
// brightest and dimmest.
func (a *Animator) breatheStep() {
	a.fill(a.color.Scale(dimming[a.dimStep]))

	if a.dir == dirForward {
		if a.dimStep == NumDimLevels-1 {
			a.dir = dirReverse
		} else {
			a.dimStep++
		}
	} else {
		if a.dimStep == 0 {
			a.dir = dirForward
		} else {
			a.dimStep--
		}
	}
}

func (a *Animator) fill(c model.Color) {
	for i := range a.pixels {
		a.pixels[i] = c
	}
}

// fillRainbow loads the strip with a full hue sweep, spreading 256 hue steps
// across the strip length.
func (a *Animator) fillRainbow() {
	delta := 256 / len(a.pixels)
	for i := range a.pixels {
		hue := uint8(i * delta)
		a.pixels[i] = model.FromHSV(float64(hue)*360.0/256.0, 1.0, 1.0)
	}
}

// patternWidth is the number of pixels addressable by the current strip's
// bitmap: the strip length, clamped to PatternWidth.
func (a *Animator) patternWidth() int {
	if len(a.pixels) < PatternWidth {
		return len(a.pixels)
	}
	return PatternWidth
}

// renderPattern recolors the addressable pattern pixels from the bitmap: lit
// bits get the base color, clear bits go black. Pixels beyond the pattern
// width are left untouched.
func (a *Animator) renderPattern() {
	m := a.patternWidth()
	for i := 0; i < m; i++ {
		if a.bitmap&(1<<uint(i)) != 0 {
			a.pixels[i] = a.color
		} else {
			a.pixels[i] = model.Black
		}
	}
}

// shiftForward rotates the buffer one position toward higher indices, the
// last pixel wrapping around to index 0.
func (a *Animator) shiftForward() {
	last := a.pixels[len(a.pixels)-1]
	copy(a.pixels[1:], a.pixels[:len(a.pixels)-1])
	a.pixels[0] = last
}

// shiftReverse rotates the buffer one position toward lower indices, the
// first pixel wrapping around to the end.
func (a *Animator) shiftReverse() {
	first := a.pixels[0]
	copy(a.pixels[:len(a.pixels)-1], a.pixels[1:])
	a.pixels[len(a.pixels)-1] = first
}

// lowBits returns a bitmap with the n lowest bits set, saturating at
// PatternWidth bits.
func lowBits(n int) uint32 {
	if n >= PatternWidth {
		return ^uint32(0)
	}
	return (1 << uint(n)) - 1
}

// rotateLeft rotates the low width bits of b left by one, the bit leaving
// the top re-entering at bit 0. Bits at or above width are discarded.
func rotateLeft(b uint32, width int) uint32 {
	mask := lowBits(width)
	b &= mask
	if width <= 1 {
		return b
	}
	return ((b << 1) | (b >> uint(width-1))) & mask
}
