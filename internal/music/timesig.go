package music

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// TimeSignature is a parsed meter. Units is the measure length in eighth-note
// units.
type TimeSignature struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
	Units       int `json:"units"`
}

// CommonTime is the fallback meter for anything that does not parse.
var CommonTime = TimeSignature{Numerator: 4, Denominator: 4, Units: 8}

// SupportedTimeSignatures are the meters offered to users.
var SupportedTimeSignatures = []string{"4/4", "3/4", "2/4", "6/8", "12/8", "5/4", "7/8"}

// Bounds on accepted meters. Anything larger is treated as malformed.
const (
	maxNumerator   = 32
	maxDenominator = 64
	maxUnits       = 64
)

var timeSigPattern = regexp.MustCompile(`^\s*(\d+)\s*/\s*(\d+)\s*$`)

// ParseTimeSignature parses "<numerator>/<denominator>". Input that does not
// match, has a zero part, or exceeds the meter bounds yields 4/4.
func ParseTimeSignature(s string) TimeSignature {
	m := timeSigPattern.FindStringSubmatch(s)
	if m == nil {
		return CommonTime
	}
	num, err1 := strconv.Atoi(m[1])
	den, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || num <= 0 || den <= 0 ||
		num > maxNumerator || den > maxDenominator {
		return CommonTime
	}

	units := int(math.Round(float64(num) * 4 / float64(den) * 2))
	if units <= 0 || units > maxUnits {
		return CommonTime
	}
	return TimeSignature{Numerator: num, Denominator: den, Units: units}
}

// Beats returns the number of metronome clicks per bar.
func (ts TimeSignature) Beats() int {
	return ts.Numerator
}

// Compound reports whether the meter groups eighths in threes (6/8, 9/8, 12/8).
func (ts TimeSignature) Compound() bool {
	return ts.Denominator == 8 && ts.Numerator%3 == 0 && ts.Numerator > 3
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}
