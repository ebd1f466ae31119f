package spi

import (
	"context"
	"time"

	"github.com/disquisitioner/LEDControl"
)

// DefaultFPS is the tick cadence used when a Looper is given no rate.
const DefaultFPS = 30

// Looper owns the clock for one strip: at a fixed cadence it advances the
// animator one tick and renders the finished buffer.
type Looper struct {
	// Update advances the strip by one step each frame. It defaults to the
	// animator's Tick; callers sequencing modes over time can point it at a
	// program runner instead.
	Update func()

	anim     *ledcontrol.Animator
	renderer *Renderer
	fps      int
}

// NewLooper ties an animator to a renderer at the given frames per second
// (DefaultFPS when fps <= 0).
func NewLooper(a *ledcontrol.Animator, r *Renderer, fps int) *Looper {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Looper{
		Update:   a.Tick,
		anim:     a,
		renderer: r,
		fps:      fps,
	}
}

// Run ticks and renders until the context is canceled or a render fails.
func (l *Looper) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Update()
			if err := l.renderer.Render(l.anim.Pixels()); err != nil {
				return err
			}
		}
	}
}
