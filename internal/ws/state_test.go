package ws

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/disquisitioner/LEDControl"
	"github.com/disquisitioner/LEDControl/model"
)

func newState(t *testing.T, n int) *State {
	t.Helper()
	a, err := ledcontrol.New(n)
	if err != nil {
		t.Fatal(err)
	}
	return NewState(a, 30, nil)
}

func TestApplyControlChangesMode(t *testing.T) {
	s := newState(t, 8)
	s.applyControl(map[string]any{"mode": "cylon", "color": "#FF0000"})
	if got := s.anim.Mode(); got != ledcontrol.ModeCylon {
		t.Fatalf("expected cylon, got %v", got)
	}
	s.anim.Tick()
	if s.anim.Pixels()[0] != model.New(0xFF0000) {
		t.Fatal("expected pixel 0 lit after first tick")
	}
}

func TestApplyControlRejectsBadMessage(t *testing.T) {
	s := newState(t, 8)
	before := s.anim.Mode()
	s.applyControl(map[string]any{"mode": "sparkle"})
	if s.anim.Mode() != before {
		t.Fatal("bad control message must not change mode")
	}
}

func TestApplyControlProgress(t *testing.T) {
	s := newState(t, 10)
	s.applyControl(map[string]any{"mode": "pattern", "color": "#00FF00", "percent": float64(150)})
	s.anim.Tick()
	lit := 0
	for _, p := range s.anim.Pixels() {
		if p != model.Black {
			lit++
		}
	}
	if lit != 10 {
		t.Fatalf("percent over 100 should clamp to a full bar, got %d lit", lit)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newState(t, 8)
	rec := httptest.NewRecorder()
	s.HandleHealth(rec, httptest.NewRequest("GET", "/healthz", nil))

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("health response not JSON: %v", err)
	}
	if resp["pixels"].(float64) != 8 {
		t.Fatalf("unexpected pixels: %v", resp["pixels"])
	}
	if resp["mode"].(string) != "off" {
		t.Fatalf("unexpected mode: %v", resp["mode"])
	}
}
