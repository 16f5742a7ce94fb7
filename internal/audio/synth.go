package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveTriangle
	WaveNoise
)

// oscillator generates a fixed-length raw wave.
type oscillator struct {
	freq     float64
	sweep    float64 // Frequency change per second
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates an oscillator that plays freq for duration.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator gliding linearly from one frequency to another.
func NewSweep(from, to float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	sweep := 0.0
	if duration > 0 {
		sweep = (to - from) / duration.Seconds()
	}
	return &oscillator{
		freq:     from,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveTriangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq + o.sweep*float64(o.position)/float64(o.rate)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s with an attack and release over duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if remaining := e.totalSamples - e.position; remaining < e.releaseSamples {
			vol = math.Min(vol, float64(remaining)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly. math.Log2(0) is -Inf, so zero means silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// tone is one shaped note.
func tone(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	release := d / 2
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, 5*time.Millisecond, release, rate)
}

// Effect builds the streamer for a one-shot sound.
func Effect(s Sound, rate beep.SampleRate) beep.Streamer {
	ms := time.Millisecond
	switch s {
	case SoundFlap:
		return newVolume(NewEnvelope(NewSweep(300, 600, 80*ms, WaveTriangle, rate), 80*ms, 5*ms, 40*ms, rate), 0.4)
	case SoundScore:
		return newVolume(tone(1046.5, 70*ms, WaveSquare, rate), 0.25)
	case SoundCoin:
		return newVolume(beep.Seq(
			tone(987.77, 60*ms, WaveSquare, rate),
			tone(1318.51, 140*ms, WaveSquare, rate),
		), 0.3)
	case SoundTrap:
		return newVolume(NewEnvelope(NewSweep(400, 120, 250*ms, WaveSquare, rate), 250*ms, 5*ms, 120*ms, rate), 0.3)
	case SoundCrash:
		return newVolume(NewEnvelope(NewOscillator(0, 400*ms, WaveNoise, rate), 400*ms, 2*ms, 350*ms, rate), 0.5)
	case SoundLevelComplete:
		return newVolume(beep.Seq(
			tone(523.25, 120*ms, WaveSquare, rate),
			tone(659.25, 120*ms, WaveSquare, rate),
			tone(783.99, 120*ms, WaveSquare, rate),
			tone(1046.5, 300*ms, WaveSquare, rate),
		), 0.3)
	case SoundLifeUp:
		return newVolume(beep.Seq(
			tone(783.99, 80*ms, WaveSine, rate),
			tone(1046.5, 80*ms, WaveSine, rate),
			tone(1567.98, 200*ms, WaveSine, rate),
		), 0.4)
	case SoundPause:
		return newVolume(tone(440, 100*ms, WaveSine, rate), 0.3)
	default:
		return nil
	}
}

// note is a melody step. A zero frequency is a rest.
type note struct {
	freq  float64
	beats int
}

// Melodies indexed by a level's music number. Frequencies in Hz.
var melodies = [][]note{
	{{261.63, 1}, {329.63, 1}, {392.00, 1}, {329.63, 1}, {293.66, 1}, {349.23, 1}, {440.00, 2}},
	{{220.00, 1}, {0, 1}, {261.63, 1}, {293.66, 1}, {329.63, 2}, {293.66, 1}, {261.63, 1}},
	{{196.00, 1}, {246.94, 1}, {293.66, 1}, {392.00, 1}, {369.99, 2}, {293.66, 2}},
	{{329.63, 1}, {329.63, 1}, {392.00, 1}, {440.00, 1}, {392.00, 1}, {329.63, 1}, {293.66, 2}},
	{{164.81, 2}, {196.00, 1}, {207.65, 1}, {164.81, 2}, {155.56, 2}},
}

const beat = 180 * time.Millisecond

// melody plays a note sequence forever.
type melody struct {
	notes   []note
	index   int
	current beep.Streamer
	rate    beep.SampleRate
}

// Melody returns an endless streamer for the music number n.
// Out-of-range numbers wrap around the available melodies.
func Melody(n int, rate beep.SampleRate) beep.Streamer {
	if n < 0 {
		n = -n
	}
	return &melody{notes: melodies[n%len(melodies)], rate: rate}
}

func (m *melody) next() beep.Streamer {
	nt := m.notes[m.index]
	m.index = (m.index + 1) % len(m.notes)
	d := time.Duration(nt.beats) * beat
	if nt.freq == 0 {
		return beep.Silence(m.rate.N(d))
	}
	return newVolume(tone(nt.freq, d, WaveTriangle, m.rate), 0.15)
}

func (m *melody) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		if m.current == nil {
			m.current = m.next()
		}
		k, ok := m.current.Stream(samples[n:])
		n += k
		if !ok {
			m.current = nil
		}
	}
	return n, true
}

func (m *melody) Err() error { return nil }
