package server

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/tomz197/ufoflap/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the hub.
// Each client runs its own simulation; the hub only tracks presence and the
// shared leaderboard.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportScore(clientID int, report ScoreReport)
	GetSnapshot() *HubSnapshot
}

// Server is the hub shared by every connected client.
type Server struct {
	snapshot     atomic.Pointer[HubSnapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	scoreCh      chan ScoreReport
	registerCh   chan *ClientHandle
	unregisterCh chan int
	topScores    []TopScoreEntry
	mu           sync.RWMutex
	logger       *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the hub.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to client (shutdown, etc.)
}

// ScoreReport is a finished run submitted for the leaderboard.
type ScoreReport struct {
	ClientID int
	Label    string // Shown instead of the username when set
	Score    int
	Level    int
}

// ClientEvent represents an event sent from the hub to a client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventNewHighScore                   // The client's report entered the leaderboard
)

// NewServer creates a new hub. A nil logger discards hub logs.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		scoreCh:      make(chan ScoreReport, 64),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		logger:       logger,
	}

	// Create initial empty snapshot
	s.snapshot.Store(&HubSnapshot{TopScores: []TopScoreEntry{}})

	return s
}

// Run starts the hub loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.ServerTickTime)
	defer ticker.Stop()

	for {
		s.processRegistrations()
		s.collectScores()
		s.createSnapshot()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Shutdown gracefully shuts down the hub by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the hub context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	username = truncateName(username, config.MaxUsernameLength)

	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// truncateName keeps at most n runes of name.
func truncateName(name string, n int) string {
	if utf8.RuneCountInString(name) <= n {
		return name
	}
	return string([]rune(name)[:n])
}

// UnregisterClient removes a client from the hub.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// ReportScore submits a finished run. Reports are dropped when the queue is full.
func (s *Server) ReportScore(clientID int, report ScoreReport) {
	report.ClientID = clientID
	select {
	case s.scoreCh <- report:
	default:
	}
}

// GetSnapshot returns the current hub snapshot.
func (s *Server) GetSnapshot() *HubSnapshot {
	return s.snapshot.Load()
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Debug("client registered", "id", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
			}
			s.mu.Unlock()
			s.logger.Debug("client unregistered", "id", clientID)
		default:
			return
		}
	}
}

// collectScores merges pending reports into the leaderboard.
func (s *Server) collectScores() {
	for {
		select {
		case r := <-s.scoreCh:
			s.mu.Lock()
			name := r.Label
			handle, ok := s.clients[r.ClientID]
			if name == "" && ok {
				name = handle.Username
			}
			if name == "" {
				name = "anonymous"
			}
			entry := TopScoreEntry{Username: name, Score: r.Score, Level: r.Level, clientID: r.ClientID}
			s.topScores = insertTopScore(s.topScores, entry, config.LeaderboardSize)
			entered := false
			for _, e := range s.topScores {
				if e == entry {
					entered = true
					break
				}
			}
			if entered && ok {
				select {
				case handle.EventsCh <- ClientEvent{Type: EventNewHighScore}:
				default:
				}
			}
			s.mu.Unlock()
			if entered {
				s.logger.Debug("new high score", "user", name, "score", r.Score, "level", r.Level)
			}
		default:
			return
		}
	}
}

// createSnapshot publishes an immutable snapshot of the hub state.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	top := make([]TopScoreEntry, len(s.topScores))
	copy(top, s.topScores)
	s.snapshot.Store(&HubSnapshot{
		Players:   len(s.clients),
		TopScores: top,
	})
}
