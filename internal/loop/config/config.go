// Package config centralizes all tunable game parameters.
package config

import "time"

// View resolution - the visible viewport in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 120 // Logical viewport width
	ViewHeight = 80  // Logical viewport height (in sub-pixels, so 40 terminal rows)
	WorldScale = 4.0 // Logical units per world unit
	CameraLead = 0.3 // Fraction of the view width kept between the craft and the left edge
)

// Max render resolution in terminal cells. Larger terminals are centered.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Scoring
const (
	ScorePipe       = 1
	ScoreReward     = 5
	PenaltyTrap     = 3
	CurrencyPerLife = 25 // Rewards needed for an extra life
)

// Player
const (
	InitialLives      = 3
	Players           = 2  // Player slots; the second is only used in challenge mode
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Effects
const (
	BurstReward = 12
	BurstTrap   = 12
	BurstCrash  = 24
)

// Simulation
const (
	MaxTickTime = 100 * time.Millisecond // Longer frames are clamped to keep physics stable
)

// Leaderboard
const (
	LeaderboardSize = 5
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate
const (
	ServerTickRate = 10
	ServerTickTime = time.Second / ServerTickRate
)
