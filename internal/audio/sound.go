// Package audio turns game sound events into synthesized beep streamers.
package audio

// Sound identifies a one-shot sound effect.
type Sound int

const (
	SoundFlap Sound = iota
	SoundScore
	SoundCoin
	SoundTrap
	SoundCrash
	SoundLevelComplete
	SoundLifeUp
	SoundPause
	soundCount
)

var soundNames = [...]string{
	SoundFlap:          "flap",
	SoundScore:         "score",
	SoundCoin:          "coin",
	SoundTrap:          "trap",
	SoundCrash:         "crash",
	SoundLevelComplete: "levelComplete",
	SoundLifeUp:        "lifeUp",
	SoundPause:         "pause",
}

func (s Sound) String() string {
	if s < 0 || s >= soundCount {
		return "unknown"
	}
	return soundNames[s]
}

// Silent is a sink that discards every request. It stands in when no audio
// device is available.
type Silent struct{}

func (Silent) Play(Sound)     {}
func (Silent) PlayMusic(int) {}
func (Silent) StopMusic()     {}
