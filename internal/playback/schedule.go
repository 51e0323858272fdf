// Package playback turns scores into timed tones and drives the metronome.
package playback

import (
	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/music"
)

// LeadIn is the silence before the first event, in seconds.
const LeadIn = 0.1

// Tone is one scheduled note. Times are seconds from the start of playback.
type Tone struct {
	Pitch     string  `json:"pitch"`
	Frequency float64 `json:"frequency"`
	Start     float64 `json:"start"`
	Duration  float64 `json:"duration"`
}

// Plan is the full tone schedule of a score at one tempo.
type Plan struct {
	Tempo int     `json:"tempo"`
	Tones []Tone  `json:"tones"`
	Total float64 `json:"total"`
}

// Schedule lays out the events of score on a time axis at tempo beats per
// minute. A non-positive tempo falls back to the score's own tempo. Rests
// produce no tone but still advance time. Unparseable pitches sound as
// middle C.
func Schedule(score *models.Score, tempo int) Plan {
	if tempo <= 0 {
		tempo = score.Tempo
	}
	if tempo <= 0 {
		tempo = models.DefaultTempo
	}
	secondsPerBeat := 60 / float64(tempo)

	plan := Plan{Tempo: tempo, Tones: []Tone{}}
	beats := 0.0
	for _, measure := range score.Measures {
		for _, event := range measure {
			length := event.Duration.Beats() * secondsPerBeat
			if !event.Rest {
				plan.Tones = append(plan.Tones, Tone{
					Pitch:     event.Pitch,
					Frequency: music.Frequency(music.HeightOf(event.Pitch, music.MiddleC)),
					Start:     LeadIn + beats*secondsPerBeat,
					Duration:  length,
				})
			}
			beats += event.Duration.Beats()
		}
	}
	plan.Total = LeadIn + beats*secondsPerBeat
	return plan
}
