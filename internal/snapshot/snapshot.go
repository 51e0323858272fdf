// Package snapshot converts scores to and from their JSON file and storage
// formats.
package snapshot

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/Conceptual-Machines/sightread-api/internal/models"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// Export serializes a score as a pretty-printed snapshot.
func Export(score *models.Score) ([]byte, error) {
	data, err := json.MarshalIndent(score, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("snapshot: export: %w", err)
	}
	return data, nil
}

// Filename returns the download name for an exported score.
func Filename(score *models.Score) string {
	return fmt.Sprintf("score-%s-%s.json", sanitize(score.Key), score.ID)
}

func sanitize(s string) string {
	return unsafeFilenameChars.ReplaceAllString(s, "_")
}

// storedScore shadows NoteDensity so a missing value can be told apart from
// an explicit zero.
type storedScore struct {
	models.Score
	NoteDensity *int `json:"noteDensity"`
}

// DecodeLibrary parses a persisted library blob, most recent first.
// Entries written before time signatures, density and pitch ranges existed
// get the defaults.
func DecodeLibrary(data []byte) ([]models.Score, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var stored []storedScore
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("snapshot: decode library: %w", err)
	}

	scores := make([]models.Score, 0, len(stored))
	for _, s := range stored {
		score := s.Score
		score.NoteDensity = models.DefaultNoteDensity
		if s.NoteDensity != nil {
			score.NoteDensity = *s.NoteDensity
		}
		backfill(&score)
		scores = append(scores, score)
	}
	return scores, nil
}

// EncodeLibrary serializes the library for persistence.
func EncodeLibrary(scores []models.Score) ([]byte, error) {
	if scores == nil {
		scores = []models.Score{}
	}
	data, err := json.Marshal(scores)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode library: %w", err)
	}
	return data, nil
}

// DecodeScore parses a single persisted score (the active slot).
func DecodeScore(data []byte) (*models.Score, error) {
	var s storedScore
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: decode score: %w", err)
	}
	score := s.Score
	score.NoteDensity = models.DefaultNoteDensity
	if s.NoteDensity != nil {
		score.NoteDensity = *s.NoteDensity
	}
	backfill(&score)
	return &score, nil
}

func backfill(score *models.Score) {
	if score.TimeSig == "" {
		score.TimeSig = models.DefaultTimeSig
	}
	if score.LowestPitch == "" {
		score.LowestPitch = models.DefaultLowestPitch
	}
	if score.HighestPitch == "" {
		score.HighestPitch = models.DefaultHighestPitch
	}
	if score.Bars == 0 {
		score.Bars = len(score.Measures)
	}
}
