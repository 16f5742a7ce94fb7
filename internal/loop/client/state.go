package client

import (
	"time"

	"github.com/tomz197/ufoflap/internal/input"
)

// ClientState holds per-connection presentation state. Game state lives in
// the client's loop.Game.
type ClientState struct {
	Input         input.Input
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time (client-side)
	shutdown      bool          // Hub is shutting down
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	highScore     bool          // Last report entered the leaderboard
	reported      [2]bool       // Final score already sent for this match, by player
	prevScreen    screenKey     // Screen shown last frame, for full clears
}

// screenKey identifies which overlay a frame shows.
type screenKey struct {
	inMatch  bool
	split    bool
	paused   bool
	inactive bool
	shutdown bool
	states   [2]int
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running: true,
	}
}
