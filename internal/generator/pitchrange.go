package generator

import (
	"github.com/Conceptual-Machines/sightread-api/internal/music"
)

const (
	// DefaultLowHeight and DefaultHighHeight bound generation when a range
	// endpoint is missing or malformed.
	DefaultLowHeight  = 48
	DefaultHighHeight = 84

	minOctave     = 2
	maxOctave     = 7
	defaultOctave = 4
)

// Range is an inclusive window of pitch heights.
type Range struct {
	Low  int
	High int
}

// ResolveRange parses the two pitch names, substituting the default heights
// for anything that does not parse.
func ResolveRange(lowest, highest string) Range {
	return Range{
		Low:  music.HeightOf(lowest, DefaultLowHeight),
		High: music.HeightOf(highest, DefaultHighHeight),
	}
}

// Contains reports whether height lies inside the range.
func (r Range) Contains(height int) bool {
	return height >= r.Low && height <= r.High
}

// Octaves returns the candidate octaves 2..7 whose C..B span overlaps the
// range. It never returns an empty slice: when nothing overlaps the result
// is the single default octave.
func (r Range) Octaves() []int {
	var out []int
	for o := minOctave; o <= maxOctave; o++ {
		lo := music.Pitch{Letter: music.C, Octave: o}.Height()
		hi := music.Pitch{Letter: music.B, Octave: o}.Height()
		if lo <= r.High && hi >= r.Low {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []int{defaultOctave}
	}
	return out
}
