// Package generator builds randomized sight-reading measures.
//
// Every measure is filled from the fixed duration set until its length in
// eighth-note units exactly matches the time signature. Density biases the
// rhythm (short notes and fewer rests when high); the pitch range and key
// constrain which notes are drawn.
package generator

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/music"
)

const (
	maxPitchAttempts = 50

	maxRestChance  = 0.4
	restDensityCut = 0.35

	shortBoost = 2.0
	longBoost  = 2.0
	midBoost   = 0.5
)

// Generator draws measures from its own random source. It is safe for
// concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator seeded from the runtime's random source.
func New() *Generator {
	return NewWithSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewScore creates a Score from params. An unknown key name is the only
// error; every other malformed value falls back to its default.
func (g *Generator) NewScore(params models.ScoreParams) (*models.Score, error) {
	p := params.Normalize()
	if p.LowestPitch == "" {
		p.LowestPitch = models.DefaultLowestPitch
	}
	if p.HighestPitch == "" {
		p.HighestPitch = models.DefaultHighestPitch
	}

	key, err := music.ParseKey(p.Key)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	ts := music.ParseTimeSignature(p.TimeSig)

	return &models.Score{
		ID:           models.NewScoreID(),
		Key:          key.Name(),
		Bars:         p.Bars,
		Tempo:        p.Tempo,
		TimeSig:      ts.String(),
		Measures:     g.Generate(key, p.Bars, ts, p.NoteDensity, p.LowestPitch, p.HighestPitch),
		NoteDensity:  p.NoteDensity,
		LowestPitch:  p.LowestPitch,
		HighestPitch: p.HighestPitch,
		CreatedAt:    models.NowMillis(),
	}, nil
}

// Generate returns bars measures, each summing exactly to ts.Units.
func (g *Generator) Generate(key music.KeyManager, bars int, ts music.TimeSignature, density int, lowest, highest string) []models.Measure {
	g.mu.Lock()
	defer g.mu.Unlock()

	ratio := densityRatio(density)
	bounds := ResolveRange(lowest, highest)
	octaves := bounds.Octaves()

	measures := make([]models.Measure, 0, bars)
	for i := 0; i < bars; i++ {
		measures = append(measures, g.fillMeasure(key, ts.Units, ratio, bounds, octaves))
	}
	return measures
}

func (g *Generator) fillMeasure(key music.KeyManager, units int, ratio float64, r Range, octaves []int) models.Measure {
	var measure models.Measure
	remaining := units
	for remaining > 0 {
		candidates := fittingDurations(remaining)
		if len(candidates) == 0 {
			// Unreachable with the {1,2,4} unit set; close the bar with a rest.
			measure = append(measure, models.NoteEvent{
				Pitch:    restPlaceholder,
				Duration: music.Durations()[0],
				Rest:     true,
			})
			break
		}

		d := candidates[weightedIndex(durationWeights(candidates, ratio), g.rng.Float64())]
		pitch := g.pickPitch(key, r, octaves)
		rest := g.rng.Float64() < restChance(ratio)

		measure = append(measure, models.NoteEvent{
			Pitch:    pitch.String(),
			Duration: d,
			Rest:     rest,
		})
		remaining -= d.Units()
	}
	return measure
}

// restPlaceholder is the middle staff line used to lay out rests.
const restPlaceholder = "B4"

// pickPitch draws a random letter and octave until the note lands in range,
// then scans every candidate exhaustively, then gives up on the range.
func (g *Generator) pickPitch(key music.KeyManager, r Range, octaves []int) music.Pitch {
	for attempt := 0; attempt < maxPitchAttempts; attempt++ {
		letter := music.Letters[g.rng.IntN(len(music.Letters))]
		octave := octaves[g.rng.IntN(len(octaves))]
		p := spell(key, letter, octave)
		if r.Contains(p.Height()) {
			return p
		}
	}
	return scanPitch(key, r, octaves)
}

// scanPitch returns the first in-range note in octave-major order, or the
// first letter of the middle candidate octave when none fits.
func scanPitch(key music.KeyManager, r Range, octaves []int) music.Pitch {
	for _, octave := range octaves {
		for _, letter := range music.Letters {
			p := spell(key, letter, octave)
			if r.Contains(p.Height()) {
				return p
			}
		}
	}
	return spell(key, music.Letters[0], octaves[len(octaves)/2])
}

func spell(key music.KeyManager, letter music.Letter, octave int) music.Pitch {
	return music.Pitch{Letter: letter, Accidental: key.AccidentalFor(letter), Octave: octave}
}

func densityRatio(density int) float64 {
	return clamp(float64(density)/100, 0, 1)
}

func restChance(ratio float64) float64 {
	return clamp(maxRestChance-ratio*restDensityCut, 0, maxRestChance)
}

// fittingDurations returns the durations no longer than remaining units,
// shortest first.
func fittingDurations(remaining int) []music.Duration {
	var out []music.Duration
	for _, d := range music.Durations() {
		if d.Units() <= remaining {
			out = append(out, d)
		}
	}
	return out
}

// durationWeights boosts the shortest candidate with density, the longest
// against it, and anything in between mildly with density.
func durationWeights(candidates []music.Duration, ratio float64) []float64 {
	weights := make([]float64, len(candidates))
	last := len(candidates) - 1
	for i := range candidates {
		w := 1.0
		switch {
		case i == 0 && i == last:
		case i == 0:
			w *= 1 + shortBoost*ratio
		case i == last:
			w *= 1 + longBoost*(1-ratio)
		default:
			w *= 1 + midBoost*ratio
		}
		weights[i] = w
	}
	return weights
}

// weightedIndex maps u in [0,1) onto the weights: it returns the first index
// whose cumulative weight reaches u scaled to the total.
func weightedIndex(weights []float64, u float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	target := u * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if cumulative >= target {
			return i
		}
	}
	return len(weights) - 1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
