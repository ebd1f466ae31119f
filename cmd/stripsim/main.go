// Command stripsim runs a demo animation program on a simulated (or real)
// strip, rendering frames at the console when no SPI hardware is present.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/disquisitioner/LEDControl"
	"github.com/disquisitioner/LEDControl/sequence"
	"github.com/disquisitioner/LEDControl/spi"
)

var (
	pixels  = 16
	fps     = 10
	program = ""
)

func init() {
	pflag.IntVar(&pixels, "pixels", pixels, "strip length in pixels")
	pflag.IntVar(&fps, "fps", fps, "ticks per second")
	pflag.StringVar(&program, "program", program, "YAML program file (default: built-in demo)")
}

// demo cycles through every animation mode.
func demo(fps int) sequence.Program {
	sec := func(n int) int { return n * fps }
	return sequence.Program{
		Loop: true,
		Steps: []sequence.Step{
			{Name: "solid", Mode: "solid", Color: "#AA3300", Ticks: sec(2)},
			{Name: "run", Mode: "run-forward", Color: "#00AAFF", Ticks: sec(4)},
			{Name: "rainbow", Mode: "rainbow-forward", Ticks: sec(4)},
			{Name: "cylon", Mode: "cylon", Color: "#FF0000", Ticks: sec(4)},
			{Name: "marquee", Mode: "marquee", Color: "#FFFFFF", Bitmap: 0b00110011, Ticks: sec(4)},
			{Name: "progress", Mode: "pattern", Color: "#00FF00", Percent: 75, Ticks: sec(2)},
			{Name: "breathe", Mode: "breathe", Color: "#8800FF", Ticks: sec(6)},
			{Name: "off", Mode: "off", Ticks: sec(1)},
		},
	}
}

func main() {
	pflag.Parse()

	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	prog := demo(fps)
	if program != "" {
		p, err := sequence.LoadProgram(program)
		if err != nil {
			return fmt.Errorf("load program: %w", err)
		}
		prog = p
	}

	anim, err := ledcontrol.New(pixels)
	if err != nil {
		return err
	}
	runner := sequence.NewRunner()
	if err := runner.Load(prog); err != nil {
		return err
	}
	runner.Start(anim)

	renderer, err := spi.NewRenderer(pixels, "")
	if err != nil {
		return err
	}
	defer renderer.Halt()

	looper := spi.NewLooper(anim, renderer, fps)
	looper.Update = func() {
		if done := runner.Tick(anim); done {
			anim.SetOff()
			anim.Tick()
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return looper.Run(ctx)
}
