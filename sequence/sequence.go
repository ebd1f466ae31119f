// Package sequence plays timed programs of animation modes on a strip: each
// step selects a mode for a fixed number of ticks, and a Runner walks the
// program while driving the Animator's clock.
package sequence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/disquisitioner/LEDControl"
	"github.com/disquisitioner/LEDControl/model"
)

// Step selects one animation mode for a tick count. Mode names follow
// ledcontrol.Mode.String (e.g. "cylon", "run-forward"). Color is a "#RRGGBB"
// hex string and is required by the color-carrying modes. Bitmap feeds the
// pattern and marquee modes; Percent feeds the progress mode.
type Step struct {
	Name    string `yaml:"name,omitempty"`
	Mode    string `yaml:"mode"`
	Color   string `yaml:"color,omitempty"`
	Bitmap  uint32 `yaml:"bitmap,omitempty"`
	Percent int    `yaml:"percent,omitempty"`
	Ticks   int    `yaml:"ticks"`
}

// Program is a full show: an ordered list of steps, optionally looping.
type Program struct {
	Loop  bool   `yaml:"loop,omitempty"`
	Steps []Step `yaml:"steps"`
}

// LoadProgram reads a YAML program file.
func LoadProgram(path string) (Program, error) {
	var p Program
	b, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, err
	}
	return p, nil
}

// RunnerState enumerates runner states.
type RunnerState string

const (
	Idle    RunnerState = "idle"
	Running RunnerState = "running"
)

type compiledStep struct {
	apply func(*ledcontrol.Animator)
	ticks int
}

// Runner owns a program timeline and applies its steps to an Animator as
// ticks elapse.
type Runner struct {
	state     RunnerState
	loop      bool
	steps     []compiledStep
	idx       int
	remaining int
}

// NewRunner returns an idle Runner with no program loaded.
func NewRunner() *Runner {
	return &Runner{state: Idle}
}

// Load replaces the current program, validating and compiling every step.
// The runner resets to Idle.
func (r *Runner) Load(prog Program) error {
	if len(prog.Steps) == 0 {
		return fmt.Errorf("program has no steps")
	}
	steps := make([]compiledStep, 0, len(prog.Steps))
	for i, s := range prog.Steps {
		if s.Ticks <= 0 {
			return fmt.Errorf("step %d (%s): ticks must be positive, got %d", i, s.Name, s.Ticks)
		}
		cs, err := compile(s)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, s.Name, err)
		}
		steps = append(steps, cs)
	}
	r.steps = steps
	r.loop = prog.Loop
	r.state = Idle
	r.idx = 0
	r.remaining = 0
	return nil
}

// Start moves to Running and applies the first step's mode.
func (r *Runner) Start(a *ledcontrol.Animator) {
	if len(r.steps) == 0 || r.state == Running {
		return
	}
	r.state = Running
	r.idx = 0
	r.remaining = r.steps[0].ticks
	r.steps[0].apply(a)
}

// Stop halts playback without touching the strip.
func (r *Runner) Stop() {
	r.state = Idle
}

// State reports whether the runner is playing.
func (r *Runner) State() RunnerState {
	return r.state
}

// Tick advances the animator one step and walks the program: when the
// current step's ticks are spent, the next step's mode is applied so the
// following tick is that mode's first. Returns true once the program has
// finished (never, for looping programs).
func (r *Runner) Tick(a *ledcontrol.Animator) (done bool) {
	if r.state != Running {
		return true
	}

	a.Tick()
	r.remaining--
	if r.remaining > 0 {
		return false
	}

	r.idx++
	if r.idx >= len(r.steps) {
		if !r.loop {
			r.state = Idle
			return true
		}
		r.idx = 0
	}
	r.steps[r.idx].apply(a)
	r.remaining = r.steps[r.idx].ticks
	return false
}

// Apply validates the step and applies its mode to the animator once,
// ignoring Ticks. It is how one-off mode specs (e.g. a daemon's startup
// mode) share the step vocabulary.
func (s Step) Apply(a *ledcontrol.Animator) error {
	cs, err := compile(s)
	if err != nil {
		return err
	}
	cs.apply(a)
	return nil
}

func compile(s Step) (compiledStep, error) {
	mode, err := ledcontrol.ParseMode(s.Mode)
	if err != nil {
		return compiledStep{}, err
	}

	c := model.Black
	if s.Color != "" {
		c, err = model.Parse(s.Color)
		if err != nil {
			return compiledStep{}, err
		}
	}

	var apply func(*ledcontrol.Animator)
	switch mode {
	case ledcontrol.ModeOff:
		apply = (*ledcontrol.Animator).SetOff
	case ledcontrol.ModeSolid:
		apply = func(a *ledcontrol.Animator) { a.SetSolid(c) }
	case ledcontrol.ModeRunForward:
		apply = func(a *ledcontrol.Animator) { a.SetRunForward(c) }
	case ledcontrol.ModeRunReverse:
		apply = func(a *ledcontrol.Animator) { a.SetRunReverse(c) }
	case ledcontrol.ModeRainbowForward:
		apply = (*ledcontrol.Animator).SetRainbowForward
	case ledcontrol.ModeRainbowReverse:
		apply = (*ledcontrol.Animator).SetRainbowReverse
	case ledcontrol.ModeCylon:
		apply = func(a *ledcontrol.Animator) { a.SetCylon(c) }
	case ledcontrol.ModePattern:
		if s.Percent != 0 {
			percent := s.Percent
			apply = func(a *ledcontrol.Animator) { a.SetProgress(c, percent) }
		} else {
			bitmap := s.Bitmap
			apply = func(a *ledcontrol.Animator) { a.SetPattern(c, bitmap) }
		}
	case ledcontrol.ModeMarquee:
		bitmap := s.Bitmap
		apply = func(a *ledcontrol.Animator) { a.SetMarquee(c, bitmap) }
	case ledcontrol.ModeBreathe:
		apply = func(a *ledcontrol.Animator) { a.SetBreathe(c) }
	default:
		return compiledStep{}, fmt.Errorf("mode %q is not playable", s.Mode)
	}

	switch mode {
	case ledcontrol.ModeSolid, ledcontrol.ModeRunForward, ledcontrol.ModeRunReverse,
		ledcontrol.ModeCylon, ledcontrol.ModePattern, ledcontrol.ModeMarquee,
		ledcontrol.ModeBreathe:
		if s.Color == "" {
			return compiledStep{}, fmt.Errorf("mode %q requires a color", s.Mode)
		}
	}

	return compiledStep{apply: apply, ticks: s.Ticks}, nil
}
