package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the output rate used for every streamer.
const SampleRate = beep.SampleRate(44100)

// Speaker plays sounds on the local audio device through a single mixer.
// Every method is a no-op until Init succeeds.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	musicLevel  int
	initialized bool
}

// NewSpeaker creates an uninitialized speaker.
func NewSpeaker() *Speaker {
	return &Speaker{mixer: &beep.Mixer{}, musicLevel: -1}
}

// Init opens the audio device and starts the mixer.
func (s *Speaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Play starts a one-shot effect.
func (s *Speaker) Play(snd Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	st := Effect(snd, SampleRate)
	if st == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// PlayMusic starts the melody for a level. The same melody resumes where it
// was stopped; a different one replaces it.
func (s *Speaker) PlayMusic(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()

	if s.music != nil && s.musicLevel == n {
		s.music.Paused = false
		return
	}
	if s.music != nil {
		s.music.Streamer = nil
	}
	s.music = &beep.Ctrl{Streamer: Melody(n, SampleRate)}
	s.musicLevel = n
	s.mixer.Add(s.music)
}

// StopMusic pauses the current melody.
func (s *Speaker) StopMusic() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.music == nil {
		return
	}
	speaker.Lock()
	s.music.Paused = true
	speaker.Unlock()
}

// Close silences everything and releases the device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.music = nil
	s.initialized = false
}
