// Package web serves the browser feed: each websocket session runs its own
// game, takes commands as JSON text messages and streams state frames back.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/ufoflap/internal/level"
	"github.com/tomz197/ufoflap/internal/loop"
	"github.com/tomz197/ufoflap/internal/loop/server"
)

const (
	defaultFrameInterval = time.Second / 30
	writeWait            = 5 * time.Second
	maxCommandSize       = 1024
)

// HandlerConfig configures the websocket handler.
type HandlerConfig struct {
	Logger        *log.Logger
	Hub           server.GameServer // Optional; receives final scores
	Levels        *level.Catalog    // Nil uses the built-in catalog
	Seed          int64             // Zero seeds each session from the clock
	FrameInterval time.Duration     // Zero uses 30 frames per second
}

// Handler upgrades requests to websocket game sessions.
type Handler struct {
	cfg      HandlerConfig
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = defaultFrameInterval
	}

	return &Handler{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP runs one session until the browser disconnects.
// The codec query parameter selects json (default) or msgpack frames.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	enc, err := newCodec(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	s := &session{
		conn:   conn,
		codec:  enc,
		game:   loop.NewGame(loop.Options{Levels: h.cfg.Levels, Seed: h.cfg.Seed}),
		logger: h.logger.With("remote", r.RemoteAddr),
	}
	if h.cfg.Hub != nil {
		s.hub = h.cfg.Hub
		s.handle = s.hub.RegisterClient(r.URL.Query().Get("name"))
		defer s.hub.UnregisterClient(s.handle.ID)
	}

	s.logger.Debug("session started")
	if err := s.run(h.cfg.FrameInterval); err != nil {
		s.logger.Debug("session ended", "err", err)
	}
}

// session is one browser connection and its game.
type session struct {
	conn     *websocket.Conn
	codec    codec
	game     *loop.Game
	hub      server.GameServer
	handle   *server.ClientHandle
	logger   *log.Logger
	tick     uint64
	reported [2]bool
}

// run owns the connection's writer. A goroutine owns the reader and hands
// decoded commands over a channel so the game has a single writer.
func (s *session) run(interval time.Duration) error {
	commands := make(chan inbound, 16)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go s.readLoop(commands, readErr, done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.sendState(nil); err != nil {
		return err
	}
	last := time.Now()

	var hubEvents <-chan server.ClientEvent
	if s.handle != nil {
		hubEvents = s.handle.EventsCh
	}

	for {
		select {
		case err := <-readErr:
			return err
		case ev, ok := <-hubEvents:
			if !ok || ev.Type == server.EventServerShutdown {
				return s.write(&Frame{Type: FrameError, Tick: s.tick, Error: "server shutting down"})
			}
		case in := <-commands:
			if in.err != nil {
				if err := s.write(&Frame{Type: FrameError, Tick: s.tick, Error: in.err.Error()}); err != nil {
					return err
				}
				continue
			}
			cmd := in.cmd
			if cmd.Type == CommandStart {
				s.reported = [2]bool{}
			}
			if err := apply(s.game, cmd); err != nil {
				s.logger.Debug("command rejected", "type", cmd.Type, "err", err)
				if err := s.write(&Frame{Type: FrameError, Tick: s.tick, Error: err.Error()}); err != nil {
					return err
				}
			}
		case now := <-ticker.C:
			events := s.game.Simulate(now.Sub(last))
			last = now
			s.tick++
			s.reportScores(events)
			if err := s.sendState(events); err != nil {
				return err
			}
		}
	}
}

// inbound is one decoded client message, or the reason it could not be decoded.
type inbound struct {
	cmd Command
	err error
}

func (s *session) readLoop(commands chan<- inbound, readErr chan<- error, done <-chan struct{}) {
	s.conn.SetReadLimit(maxCommandSize)
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			readErr <- err
			return
		}
		var in inbound
		if err := json.Unmarshal(payload, &in.cmd); err != nil {
			s.logger.Warn("discarding malformed command", "err", err)
			in.err = fmt.Errorf("malformed command: %w", err)
		}
		select {
		case commands <- in:
		case <-done:
			return
		}
	}
}

func (s *session) sendState(events []loop.Event) error {
	snap := s.game.Snapshot()
	f := &Frame{Type: FrameState, Tick: s.tick, Snapshot: &snap, Events: events}
	if s.hub != nil {
		f.Hub = s.hub.GetSnapshot()
	}
	return s.write(f)
}

func (s *session) write(f *Frame) error {
	data, err := s.codec.Encode(f)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(s.codec.MessageType(), data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// reportScores sends each finished player's score to the hub once per match.
func (s *session) reportScores(events []loop.Event) {
	if s.hub == nil {
		return
	}
	for _, e := range events {
		if e.Kind != loop.EventGameOver && e.Kind != loop.EventVictory {
			continue
		}
		for i := 0; i < s.game.Mode().Players(); i++ {
			p := s.game.Player(i)
			if s.reported[i] || !p.State.Terminal() {
				continue
			}
			s.reported[i] = true
			s.hub.ReportScore(s.handle.ID, server.ScoreReport{Score: p.Score, Level: s.game.Level()})
		}
	}
}
