package loop

import (
	"github.com/tomz197/ufoflap/internal/audio"
	"github.com/tomz197/ufoflap/internal/object"
)

// AudioSink receives fire-and-forget sound requests.
type AudioSink interface {
	Play(s audio.Sound)
	PlayMusic(n int)
	StopMusic()
}

// EffectsSink receives burst requests.
type EffectsSink interface {
	Burst(pos object.Vec, tint Tint, count int)
}

// Collaborators are the side-effecting consumers of simulation events.
// Either may be nil.
type Collaborators struct {
	Audio   AudioSink
	Effects EffectsSink
}

var eventSounds = map[EventKind]audio.Sound{
	EventFlap:            audio.SoundFlap,
	EventPipePassed:      audio.SoundScore,
	EventRewardCollected: audio.SoundCoin,
	EventTrapHit:         audio.SoundTrap,
	EventCrash:           audio.SoundCrash,
	EventLevelComplete:   audio.SoundLevelComplete,
	EventVictory:         audio.SoundLevelComplete,
	EventLifeUp:          audio.SoundLifeUp,
	EventPause:           audio.SoundPause,
	EventResume:          audio.SoundPause,
}

// Dispatch forwards events to the collaborators in order.
func (c Collaborators) Dispatch(events []Event) {
	for _, e := range events {
		switch e.Kind {
		case EventMusicStart:
			if c.Audio != nil {
				c.Audio.PlayMusic(e.Level)
			}
		case EventMusicStop:
			if c.Audio != nil {
				c.Audio.StopMusic()
			}
		case EventBurst:
			if c.Effects != nil {
				c.Effects.Burst(e.Pos, e.Tint, e.Count)
			}
		default:
			if s, ok := eventSounds[e.Kind]; ok && c.Audio != nil {
				c.Audio.Play(s)
			}
		}
	}
}
