package server

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/tomz197/ufoflap/internal/loop/config"
)

func TestInsertTopScoreOrdersAndTrims(t *testing.T) {
	var board []TopScoreEntry
	for i, score := range []int{10, 50, 30, 50, 0, 20, 40} {
		board = insertTopScore(board, TopScoreEntry{Username: "u", Score: score, clientID: i + 1}, 5)
	}
	want := []int{50, 50, 40, 30, 20}
	if len(board) != len(want) {
		t.Fatalf("board has %d entries, want %d", len(board), len(want))
	}
	for i, e := range board {
		if e.Score != want[i] {
			t.Fatalf("entry %d score %d, want %d", i, e.Score, want[i])
		}
	}
	if board[0].clientID != 2 || board[1].clientID != 4 {
		t.Fatal("equal scores not ordered by client")
	}
}

func TestInsertTopScoreDoesNotMutateInput(t *testing.T) {
	board := []TopScoreEntry{{Score: 5, clientID: 1}}
	_ = insertTopScore(board, TopScoreEntry{Score: 9, clientID: 2}, 5)
	if board[0].Score != 5 {
		t.Fatal("input slice modified")
	}
}

// waitFor polls the hub snapshot until cond holds.
func waitFor(t *testing.T, s *Server, cond func(*HubSnapshot) bool) *HubSnapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap := s.GetSnapshot(); cond(snap) {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached")
	return nil
}

func TestServerTracksClientsAndScores(t *testing.T) {
	s := NewServer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	a := s.RegisterClient("alice")
	b := s.RegisterClient("a-very-long-username-indeed")
	if len(b.Username) != 16 {
		t.Fatalf("username not truncated: %q", b.Username)
	}
	waitFor(t, s, func(h *HubSnapshot) bool { return h.Players == 2 })

	s.ReportScore(a.ID, ScoreReport{Score: 42, Level: 2})
	s.ReportScore(b.ID, ScoreReport{Label: "P2", Score: 7, Level: 1})
	snap := waitFor(t, s, func(h *HubSnapshot) bool { return len(h.TopScores) == 2 })
	if snap.TopScores[0].Username != "alice" || snap.TopScores[0].Score != 42 || snap.TopScores[1].Username != "P2" {
		t.Fatalf("top scores = %+v", snap.TopScores)
	}

	select {
	case ev := <-a.EventsCh:
		if ev.Type != EventNewHighScore {
			t.Fatalf("event = %v", ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no high score event")
	}

	s.UnregisterClient(a.ID)
	waitFor(t, s, func(h *HubSnapshot) bool { return h.Players == 1 })
	if _, ok := <-a.EventsCh; ok {
		t.Fatal("events channel not closed on unregister")
	}
}

func TestShutdownNotifiesClients(t *testing.T) {
	s := NewServer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	h := s.RegisterClient("bob")
	waitFor(t, s, func(snap *HubSnapshot) bool { return snap.Players == 1 })

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	start := time.Now()
	s.Shutdown(5 * time.Second)
	if time.Since(start) > 3*time.Second {
		t.Fatal("shutdown waited for the full timeout")
	}
}

func TestRegisterClientTruncatesByRune(t *testing.T) {
	s := NewServer(nil)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "zed", "zed"},
		{"ascii", strings.Repeat("a", 20), strings.Repeat("a", config.MaxUsernameLength)},
		{"multibyte", strings.Repeat("ø", 20), strings.Repeat("ø", config.MaxUsernameLength)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := s.RegisterClient(tt.in)
			if h.Username != tt.want {
				t.Errorf("username = %q, want %q", h.Username, tt.want)
			}
			if !utf8.ValidString(h.Username) {
				t.Errorf("username %q is not valid UTF-8", h.Username)
			}
		})
	}
}
