package loop

import "github.com/tomz197/ufoflap/internal/object"

// EventKind identifies what happened during a command or tick.
type EventKind int

const (
	EventFlap EventKind = iota
	EventPipePassed
	EventRewardCollected
	EventTrapHit
	EventLifeUp
	EventCrash
	EventLevelComplete
	EventGameOver
	EventVictory
	EventPause
	EventResume
	EventMusicStart
	EventMusicStop
	EventBurst
	EventRecordingPublished
	eventKindCount
)

var eventNames = [...]string{
	EventFlap:               "flap",
	EventPipePassed:         "pipePassed",
	EventRewardCollected:    "rewardCollected",
	EventTrapHit:            "trapHit",
	EventLifeUp:             "lifeUp",
	EventCrash:              "crash",
	EventLevelComplete:      "levelComplete",
	EventGameOver:           "gameOver",
	EventVictory:            "victory",
	EventPause:              "pause",
	EventResume:             "resume",
	EventMusicStart:         "musicStart",
	EventMusicStop:          "musicStop",
	EventBurst:              "burst",
	EventRecordingPublished: "recordingPublished",
}

func (k EventKind) String() string {
	if k < 0 || k >= eventKindCount {
		return "unknown"
	}
	return eventNames[k]
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Tint is the color class of a burst. The zero value means no tint.
type Tint int

const (
	TintReward Tint = iota + 1
	TintTrap
	TintCrash
	TintLife
)

var tintNames = [...]string{
	TintReward: "gold",
	TintTrap:   "magenta",
	TintCrash:  "red",
	TintLife:   "cyan",
}

func (t Tint) String() string {
	if t <= 0 || int(t) >= len(tintNames) {
		return "none"
	}
	return tintNames[t]
}

// MarshalText encodes the tint by name.
func (t Tint) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// MatchWide is the Player value of events that concern every player.
const MatchWide = -1

// Event is a single outcome of a command or simulation tick.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind   EventKind  `json:"kind"`
	Player int        `json:"player"`
	Pos    object.Vec `json:"pos"`
	Level  int        `json:"level,omitempty"`
	Tint   Tint       `json:"tint,omitempty"`
	Count  int        `json:"count,omitempty"`
}
