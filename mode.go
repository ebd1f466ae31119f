package ledcontrol

import (
	"fmt"
	"strconv"
)

// Mode identifies the animation a strip is running. Exactly one mode is
// active per Animator at any time.
type Mode int

const (
	// ModeOff holds every pixel dark.
	ModeOff Mode = iota
	// ModeSolid holds every pixel at the base color.
	ModeSolid
	// ModeRunForward walks a single lit pixel from the start of the strip to
	// the end, wrapping around.
	ModeRunForward
	// ModeRunReverse walks a single lit pixel from the end of the strip back
	// to the start, wrapping around.
	ModeRunReverse
	// ModeRainbowForward loads a full hue sweep, then runs it forward.
	ModeRainbowForward
	// ModeRainbowReverse loads a full hue sweep, then runs it in reverse.
	ModeRainbowReverse
	// ModeCylon bounces a single lit pixel end to end.
	ModeCylon
	// ModePattern displays a static bit-per-pixel pattern.
	ModePattern
	// ModeMarquee displays a bit-per-pixel pattern, rotating it one pixel
	// each tick.
	ModeMarquee
	// ModeBreathe pulses the whole strip through a brighten/dim cycle.
	ModeBreathe

	numModes
)

var modeNames = [...]string{
	ModeOff:            "off",
	ModeSolid:          "solid",
	ModeRunForward:     "run-forward",
	ModeRunReverse:     "run-reverse",
	ModeRainbowForward: "rainbow-forward",
	ModeRainbowReverse: "rainbow-reverse",
	ModeCylon:          "cylon",
	ModePattern:        "pattern",
	ModeMarquee:        "marquee",
	ModeBreathe:        "breathe",
}

func (m Mode) String() string {
	if m < 0 || m >= numModes {
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m]
}

// ParseMode maps a mode name (as produced by Mode.String) back to its Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return Mode(m), nil
		}
	}
	return ModeOff, fmt.Errorf("unknown mode %q", s)
}
