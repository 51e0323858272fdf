package playback

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// DefaultSampleRate is the output rate used by the CLI.
const DefaultSampleRate beep.SampleRate = 44100

const (
	attackTime  = 10 * time.Millisecond
	releaseTime = 60 * time.Millisecond
	noteGain    = 0.25

	clickLength = 40 * time.Millisecond
	accentHz    = 1500.0
	clickHz     = 1000.0
	clickGain   = 0.4
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// InitSpeaker opens the audio device once per process.
func InitSpeaker(rate beep.SampleRate) error {
	speakerOnce.Do(func() {
		if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
			speakerErr = fmt.Errorf("error while initializing speaker: %w", err)
		}
	})
	return speakerErr
}

// SpeakerScheduler synthesises tones as sine waves and mixes them into the
// system speaker.
type SpeakerScheduler struct {
	rate beep.SampleRate
}

// NewSpeakerScheduler initialises the speaker at rate.
func NewSpeakerScheduler(rate beep.SampleRate) (*SpeakerScheduler, error) {
	if err := InitSpeaker(rate); err != nil {
		return nil, err
	}
	return &SpeakerScheduler{rate: rate}, nil
}

func (s *SpeakerScheduler) ScheduleTone(freq, start, dur float64) {
	lead := s.rate.N(seconds(start))
	speaker.Play(beep.Seq(
		beep.Silence(lead),
		Sine(s.rate, freq, s.rate.N(seconds(dur)), noteGain),
	))
}

// Sine returns a sine oscillator of n samples shaped by a linear attack and
// release envelope.
func Sine(rate beep.SampleRate, freq float64, n int, gain float64) beep.Streamer {
	attack := rate.N(attackTime)
	release := rate.N(releaseTime)
	step := 2 * math.Pi * freq / float64(rate)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		filled := 0
		for i := range samples {
			if pos >= n {
				break
			}
			v := gain * envelope(pos, n, attack, release) * math.Sin(step*float64(pos))
			samples[i][0] = v
			samples[i][1] = v
			pos++
			filled++
		}
		return filled, true
	})
}

// envelope returns the gain at sample pos of an n-sample tone. Short tones
// shrink both ramps so they never overlap.
func envelope(pos, n, attack, release int) float64 {
	if attack+release > n {
		attack = n / 4
		release = n / 2
	}
	switch {
	case pos < 0 || pos >= n:
		return 0
	case attack > 0 && pos < attack:
		return float64(pos) / float64(attack)
	case release > 0 && pos >= n-release:
		return float64(n-pos) / float64(release)
	default:
		return 1
	}
}

// Clicker sounds one metronome click. Accented clicks mark the first beat of
// a bar.
type Clicker interface {
	Click(accent bool)
}

// SpeakerClicker plays short sine blips on the system speaker.
type SpeakerClicker struct {
	rate beep.SampleRate
}

// NewSpeakerClicker initialises the speaker at rate.
func NewSpeakerClicker(rate beep.SampleRate) (*SpeakerClicker, error) {
	if err := InitSpeaker(rate); err != nil {
		return nil, err
	}
	return &SpeakerClicker{rate: rate}, nil
}

func (c *SpeakerClicker) Click(accent bool) {
	freq := clickHz
	if accent {
		freq = accentHz
	}
	speaker.Play(Sine(c.rate, freq, c.rate.N(clickLength), clickGain))
}
