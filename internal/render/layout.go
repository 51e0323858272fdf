// Package render lays scores out as staff lines for notation clients and
// terminals.
package render

import (
	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/music"
)

const (
	// MeasureWidth is the horizontal space reserved per measure.
	MeasureWidth = 250
	// MaxMeasuresPerLine caps the number of measures on one staff line.
	MaxMeasuresPerLine = 8
	// RestPosition is the staff position rests are drawn at (middle line).
	RestPosition = "B4"

	sideMargin = 40
	clefTreble = "treble"
)

// Glyph is one drawable note or rest.
type Glyph struct {
	Keys       []string `json:"keys"`
	Duration   string   `json:"duration"`
	Accidental string   `json:"accidental,omitempty"`
	Rest       bool     `json:"rest"`
}

// Stave is one measure on the staff. Only the first stave of a sheet
// carries the clef, key, time signature and tempo.
type Stave struct {
	Index   int     `json:"index"`
	Clef    string  `json:"clef,omitempty"`
	Key     string  `json:"key,omitempty"`
	TimeSig string  `json:"timeSig,omitempty"`
	Tempo   int     `json:"tempo,omitempty"`
	Glyphs  []Glyph `json:"glyphs"`
}

// Line is a row of staves.
type Line struct {
	Staves []Stave `json:"staves"`
}

// Sheet is a laid-out score.
type Sheet struct {
	ScoreID         string `json:"scoreId"`
	Width           int    `json:"width"`
	MeasuresPerLine int    `json:"measuresPerLine"`
	Lines           []Line `json:"lines"`
}

// MeasuresPerLine returns how many measures fit in width.
func MeasuresPerLine(width int) int {
	n := (width - sideMargin) / MeasureWidth
	if n < 1 {
		return 1
	}
	if n > MaxMeasuresPerLine {
		return MaxMeasuresPerLine
	}
	return n
}

// Layout splits score into lines for the given width.
func Layout(score *models.Score, width int) Sheet {
	key, err := music.ParseKey(score.Key)
	if err != nil {
		key = music.MustKey(models.DefaultKey)
	}
	perLine := MeasuresPerLine(width)

	sheet := Sheet{
		ScoreID:         score.ID,
		Width:           width,
		MeasuresPerLine: perLine,
		Lines:           []Line{},
	}
	for i, measure := range score.Measures {
		stave := Stave{Index: i, Glyphs: make([]Glyph, 0, len(measure))}
		if i == 0 {
			stave.Clef = clefTreble
			stave.Key = key.Name()
			stave.TimeSig = music.ParseTimeSignature(score.TimeSig).String()
			stave.Tempo = score.Tempo
		}
		for _, event := range measure {
			stave.Glyphs = append(stave.Glyphs, glyphFor(event, key))
		}

		if i%perLine == 0 {
			sheet.Lines = append(sheet.Lines, Line{})
		}
		last := &sheet.Lines[len(sheet.Lines)-1]
		last.Staves = append(last.Staves, stave)
	}
	return sheet
}

func glyphFor(event models.NoteEvent, key music.KeyManager) Glyph {
	if event.Rest {
		return Glyph{Keys: []string{RestPosition}, Duration: string(event.Duration), Rest: true}
	}
	return Glyph{
		Keys:       []string{event.Pitch},
		Duration:   string(event.Duration),
		Accidental: accidentalMark(event.Pitch, key),
	}
}

// accidentalMark returns the accidental to print before pitch, or "" when the
// key signature already implies it.
func accidentalMark(pitch string, key music.KeyManager) string {
	p, err := music.ParsePitch(pitch)
	if err != nil {
		return ""
	}
	if p.Accidental == key.AccidentalFor(p.Letter) {
		return ""
	}
	if p.Accidental == music.Natural {
		return "n"
	}
	return p.Accidental.String()
}
