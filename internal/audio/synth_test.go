package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(t *testing.T, s beep.Streamer, limit int) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for total < limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			if buf[i][0] < -1.0001 || buf[i][0] > 1.0001 {
				t.Fatalf("sample %d out of range: %f", total+i, buf[i][0])
			}
		}
		total += n
		if !ok {
			break
		}
	}
	return total
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 100*time.Millisecond, WaveSine, rate)
	if got, want := drain(t, osc, 1<<20), rate.N(100*time.Millisecond); got != want {
		t.Fatalf("streamed %d samples, want %d", got, want)
	}
}

func TestEnvelopeStartsSilent(t *testing.T) {
	rate := beep.SampleRate(44100)
	env := NewEnvelope(NewOscillator(440, 50*time.Millisecond, WaveSquare, rate), 50*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)
	buf := make([][2]float64, 1)
	if _, ok := env.Stream(buf); !ok {
		t.Fatal("envelope ended early")
	}
	if buf[0][0] != 0 {
		t.Fatalf("first sample = %f, want 0 during attack", buf[0][0])
	}
}

func TestEverySoundHasAnEffect(t *testing.T) {
	for s := SoundFlap; s < soundCount; s++ {
		st := Effect(s, SampleRate)
		if st == nil {
			t.Fatalf("%v has no effect", s)
		}
		if n := drain(t, st, int(SampleRate)*2); n == 0 {
			t.Fatalf("%v produced no samples", s)
		}
	}
	if Effect(soundCount, SampleRate) != nil {
		t.Fatal("unknown sound produced an effect")
	}
}

func TestMelodyNeverEnds(t *testing.T) {
	m := Melody(7, SampleRate)
	buf := make([][2]float64, 4096)
	for i := 0; i < 100; i++ {
		n, ok := m.Stream(buf)
		if !ok || n != len(buf) {
			t.Fatalf("melody stopped after %d buffers", i)
		}
	}
}

func TestSoundString(t *testing.T) {
	if SoundCoin.String() != "coin" || Sound(-1).String() != "unknown" {
		t.Fatalf("unexpected names %q %q", SoundCoin, Sound(-1))
	}
}

func TestUninitializedSpeakerIsSilent(t *testing.T) {
	s := NewSpeaker()
	s.Play(SoundCrash)
	s.PlayMusic(1)
	s.StopMusic()
	s.Close()
	if s.music != nil {
		t.Fatal("music started without a device")
	}
}
