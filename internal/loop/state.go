package loop

import "github.com/tomz197/ufoflap/internal/loop/config"

// State is a player's phase.
type State int

const (
	StateStart         State = iota // Title screen, no run
	StateReady                      // Waiting for the first flap
	StatePlaying                    // Active run
	StatePaused                     // Run frozen by a pause action
	StateLevelComplete              // Waiting for the next level
	StateGameOver                   // Out of lives
	StateVictory                    // Final level completed
)

var stateNames = [...]string{
	StateStart:         "start",
	StateReady:         "ready",
	StatePlaying:       "playing",
	StatePaused:        "paused",
	StateLevelComplete: "levelComplete",
	StateGameOver:      "gameOver",
	StateVictory:       "victory",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether the run is over for good.
func (s State) Terminal() bool {
	return s == StateGameOver || s == StateVictory
}

// Mode selects single-player or two-player play.
type Mode int

const (
	ModeSingle    Mode = iota
	ModeChallenge      // Split screen, two crafts on one track
)

func (m Mode) String() string {
	if m == ModeChallenge {
		return "challenge"
	}
	return "single"
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Players returns how many player slots the mode uses.
func (m Mode) Players() int {
	if m == ModeChallenge {
		return 2
	}
	return 1
}

// Player holds one player's session counters.
type Player struct {
	State    State `json:"state"`
	Score    int   `json:"score"`
	Lives    int   `json:"lives"`
	Currency int   `json:"currency"` // Rewards toward the next extra life
	Pipes    int   `json:"pipes"`    // Pipes passed this level
}

// newPlayer returns the counters for a fresh run.
func newPlayer() Player {
	return Player{State: StateReady, Lives: config.InitialLives}
}

// addScore changes the score, never below zero.
func (p *Player) addScore(delta int) {
	p.Score += delta
	if p.Score < 0 {
		p.Score = 0
	}
}

// addCurrency counts one reward and reports whether it completed a life.
func (p *Player) addCurrency() bool {
	p.Currency = (p.Currency + 1) % config.CurrencyPerLife
	if p.Currency == 0 {
		p.Lives++
		return true
	}
	return false
}
