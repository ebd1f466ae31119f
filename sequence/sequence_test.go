package sequence

import (
	"testing"

	"github.com/disquisitioner/LEDControl"
	"github.com/disquisitioner/LEDControl/model"
)

func newStrip(t *testing.T, n int) *ledcontrol.Animator {
	t.Helper()
	a, err := ledcontrol.New(n)
	if err != nil {
		t.Fatalf("new animator: %v", err)
	}
	return a
}

func TestRunnerWalksSteps(t *testing.T) {
	a := newStrip(t, 4)
	r := NewRunner()
	prog := Program{
		Steps: []Step{
			{Name: "A", Mode: "solid", Color: "#FF0000", Ticks: 3},
			{Name: "B", Mode: "run-forward", Color: "#0000FF", Ticks: 4},
		},
	}
	if err := r.Load(prog); err != nil {
		t.Fatalf("load: %v", err)
	}

	r.Start(a)
	if a.Mode() != ledcontrol.ModeSolid {
		t.Fatalf("expected solid after start, got %v", a.Mode())
	}

	for i := 0; i < 3; i++ {
		if done := r.Tick(a); done {
			t.Fatalf("done too early at tick %d", i)
		}
	}
	if a.Mode() != ledcontrol.ModeRunForward {
		t.Fatalf("expected run-forward after step A, got %v", a.Mode())
	}

	// Step B's first animator tick lights pixel 0.
	r.Tick(a)
	if a.Pixels()[0] != model.New(0x0000FF) {
		t.Fatalf("expected blue at pixel 0, got %v", a.Pixels()[0])
	}

	// Remaining three ticks of B finish the program.
	for i := 0; i < 2; i++ {
		if done := r.Tick(a); done {
			t.Fatalf("done too early in step B at tick %d", i)
		}
	}
	if done := r.Tick(a); !done {
		t.Fatal("expected program to finish")
	}
	if r.State() != Idle {
		t.Fatalf("expected idle runner, got %v", r.State())
	}
}

func TestRunnerLoops(t *testing.T) {
	a := newStrip(t, 4)
	r := NewRunner()
	prog := Program{
		Loop: true,
		Steps: []Step{
			{Mode: "solid", Color: "#FF0000", Ticks: 2},
			{Mode: "off", Ticks: 2},
		},
	}
	if err := r.Load(prog); err != nil {
		t.Fatalf("load: %v", err)
	}
	r.Start(a)
	for i := 0; i < 20; i++ {
		if done := r.Tick(a); done {
			t.Fatalf("looping program reported done at tick %d", i)
		}
	}
	if r.State() != Running {
		t.Fatalf("expected running, got %v", r.State())
	}
}

func TestRunnerProgressStep(t *testing.T) {
	a := newStrip(t, 10)
	r := NewRunner()
	prog := Program{Steps: []Step{
		{Mode: "pattern", Color: "#00FF00", Percent: 50, Ticks: 2},
	}}
	if err := r.Load(prog); err != nil {
		t.Fatalf("load: %v", err)
	}
	r.Start(a)
	r.Tick(a)
	green := model.New(0x00FF00)
	for i := 0; i < 5; i++ {
		if a.Pixels()[i] != green {
			t.Fatalf("expected pixel %d lit", i)
		}
	}
	for i := 5; i < 10; i++ {
		if a.Pixels()[i] != model.Black {
			t.Fatalf("expected pixel %d dark", i)
		}
	}
}

func TestLoadRejectsBadPrograms(t *testing.T) {
	cases := map[string]Program{
		"empty":         {},
		"unknown mode":  {Steps: []Step{{Mode: "sparkle", Ticks: 1}}},
		"zero ticks":    {Steps: []Step{{Mode: "off", Ticks: 0}}},
		"missing color": {Steps: []Step{{Mode: "cylon", Ticks: 5}}},
		"bad color":     {Steps: []Step{{Mode: "solid", Color: "red", Ticks: 5}}},
	}
	for name, prog := range cases {
		if err := NewRunner().Load(prog); err == nil {
			t.Errorf("%s: expected load error", name)
		}
	}
}
