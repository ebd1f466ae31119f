package spi

import (
	"bytes"
	"context"
	"testing"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"
	"periph.io/x/devices/v3/nrzled"

	"github.com/disquisitioner/LEDControl"
	"github.com/disquisitioner/LEDControl/model"
)

func recordingRenderer(t *testing.T, pixels int, buf *bytes.Buffer) *Renderer {
	t.Helper()
	o := nrzled.Opts{
		NumPixels: pixels,
		Channels:  3,
		Freq:      ((RefreshRate * 3) + 100) * physic.KiloHertz,
	}
	d, err := nrzled.NewSPI(spitest.NewRecordRaw(buf), &o)
	if err != nil {
		t.Fatal(err)
	}
	return newRenderer(d, pixels)
}

func TestRendererWritesFrame(t *testing.T) {
	buf := bytes.Buffer{}
	r := recordingRenderer(t, 4, &buf)

	frame := []model.Color{
		model.New(0xFF0000),
		model.New(0x00FF00),
		model.New(0x0000FF),
		model.Black,
	}
	if err := r.Render(frame); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected encoded frame bytes on the wire")
	}
}

func TestRendererRejectsWrongLength(t *testing.T) {
	buf := bytes.Buffer{}
	r := recordingRenderer(t, 4, &buf)
	if err := r.Render(make([]model.Color, 3)); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestLooperTicksUntilCanceled(t *testing.T) {
	buf := bytes.Buffer{}
	r := recordingRenderer(t, 3, &buf)
	a, err := ledcontrol.New(3)
	if err != nil {
		t.Fatal(err)
	}
	a.SetSolid(model.New(0x00FF00))

	ticks := 0
	l := NewLooper(a, r, 200)
	l.Update = func() {
		ticks++
		a.Tick()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := l.Run(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if ticks == 0 {
		t.Fatal("expected at least one tick before cancellation")
	}
	if buf.Len() == 0 {
		t.Fatal("expected rendered frames")
	}
}
