package models

import (
	"time"

	"github.com/Conceptual-Machines/sightread-api/internal/music"
	"github.com/google/uuid"
)

// NoteEvent is a single note or rest. Pitch is ignored for playback when
// Rest is set.
type NoteEvent struct {
	Pitch    string         `json:"pitch"`
	Duration music.Duration `json:"duration"`
	Rest     bool           `json:"rest"`
}

// Units returns the event length in eighth-note units.
func (e NoteEvent) Units() int {
	return e.Duration.Units()
}

// Measure is an ordered sequence of events filling exactly one bar.
type Measure []NoteEvent

// Units returns the summed length of the measure in eighth-note units.
func (m Measure) Units() int {
	total := 0
	for _, e := range m {
		total += e.Units()
	}
	return total
}

// Score is a generated sight-reading sheet. Scores are never mutated after
// creation; edits produce a new Score with a new ID.
type Score struct {
	ID           string    `json:"id"`
	Key          string    `json:"key"`
	Bars         int       `json:"bars"`
	Tempo        int       `json:"tempo"`
	TimeSig      string    `json:"timeSig"`
	Measures     []Measure `json:"measures"`
	NoteDensity  int       `json:"noteDensity"`
	LowestPitch  string    `json:"lowestPitch"`
	HighestPitch string    `json:"highestPitch"`
	CreatedAt    int64     `json:"createdAt"` // unix milliseconds
}

// NewScoreID returns a fresh score identifier.
func NewScoreID() string {
	return uuid.New().String()
}

// NowMillis returns the current time as unix milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Created returns the creation timestamp as a time.Time.
func (s *Score) Created() time.Time {
	return time.UnixMilli(s.CreatedAt)
}

// Params returns the editable parameters the score was generated from.
func (s *Score) Params() ScoreParams {
	return ScoreParams{
		Key:          s.Key,
		Bars:         s.Bars,
		Tempo:        s.Tempo,
		TimeSig:      s.TimeSig,
		NoteDensity:  s.NoteDensity,
		LowestPitch:  s.LowestPitch,
		HighestPitch: s.HighestPitch,
	}
}

// Clone returns a deep copy of the score.
func (s *Score) Clone() *Score {
	out := *s
	out.Measures = make([]Measure, len(s.Measures))
	for i, m := range s.Measures {
		out.Measures[i] = append(Measure(nil), m...)
	}
	return &out
}
