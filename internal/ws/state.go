// Package ws exposes a strip over HTTP: a frames websocket broadcasting each
// rendered buffer, a control websocket accepting mode changes, and a health
// endpoint.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/disquisitioner/LEDControl"
	"github.com/disquisitioner/LEDControl/model"
	"github.com/disquisitioner/LEDControl/sequence"
)

// Driver receives each finished frame, typically an spi.Renderer. A nil
// driver means simulation only.
type Driver interface {
	Render(frame []model.Color) error
}

// State owns one strip's render loop and its websocket clients.
type State struct {
	mu      sync.Mutex
	anim    *ledcontrol.Animator
	driver  Driver
	fps     int
	frameID uint64

	startTime time.Time
	clients   map[*websocket.Conn]bool
}

// NewState wires an animator and an optional hardware driver.
func NewState(a *ledcontrol.Animator, fps int, drv Driver) *State {
	if fps <= 0 {
		fps = 30
	}
	return &State{
		anim:      a,
		driver:    drv,
		fps:       fps,
		startTime: time.Now(),
		clients:   map[*websocket.Conn]bool{},
	}
}

// RunRenderLoop ticks the animator at the configured rate, pushing each
// finished frame to the driver and to connected frame clients. It returns
// when the context is canceled.
func (s *State) RunRenderLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.mu.Lock()
			s.anim.Tick()
			frame := make([]model.Color, s.anim.Len())
			copy(frame, s.anim.Pixels())
			s.frameID++
			id := s.frameID
			s.mu.Unlock()

			if s.driver != nil {
				if err := s.driver.Render(frame); err != nil {
					log.Warn().Err(err).Msg("driver write")
				}
			}
			s.broadcastFrame(id, frame)
		}
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleFramesWS subscribes a client to rendered frames.
func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	s.sendStatus(conn)

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleControlWS accepts JSON mode-change messages, e.g.
// {"mode":"cylon","color":"#FF0000"} or {"mode":"pattern","percent":40}.
func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg map[string]any
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.applyControl(msg)
		s.sendStatus(conn)
	}
}

// HandleHealth reports loop liveness and the active mode.
func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"pixels":   s.anim.Len(),
		"fps":      s.fps,
		"mode":     s.anim.Mode().String(),
	}
	s.mu.Unlock()
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *State) applyControl(msg map[string]any) {
	step := sequence.Step{}
	if v, ok := msg["mode"].(string); ok {
		step.Mode = v
	}
	if v, ok := msg["color"].(string); ok {
		step.Color = v
	}
	if v, ok := msg["bitmap"].(float64); ok {
		step.Bitmap = uint32(v)
	}
	if v, ok := msg["percent"].(float64); ok {
		step.Percent = int(v)
	}

	s.mu.Lock()
	err := step.Apply(s.anim)
	s.mu.Unlock()
	if err != nil {
		log.Warn().Err(err).Interface("msg", msg).Msg("rejected control message")
		return
	}
	log.Info().Str("mode", step.Mode).Msg("mode changed")
}

func (s *State) sendStatus(conn *websocket.Conn) {
	s.mu.Lock()
	status := map[string]any{
		"pixels": s.anim.Len(),
		"fps":    s.fps,
		"mode":   s.anim.Mode().String(),
	}
	s.mu.Unlock()
	b, _ := json.Marshal(status)
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

func (s *State) broadcastFrame(id uint64, frame []model.Color) {
	type wireFrame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	rgb := make([]byte, 0, len(frame)*3)
	for _, c := range frame {
		rgb = append(rgb, c.Bytes()...)
	}
	b, _ := json.Marshal(wireFrame{T: time.Now().UnixNano(), FrameID: id, RGB: rgb})

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}
