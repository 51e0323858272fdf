package music

import (
	"encoding/json"
	"fmt"
)

// Duration is a note length. The string values are the codes the notation
// renderer understands.
type Duration string

const (
	Eighth  Duration = "8"
	Quarter Duration = "q"
	Half    Duration = "h"
)

// durationUnits is the length of each duration in eighth-note units
var durationUnits = map[Duration]int{
	Eighth:  1,
	Quarter: 2,
	Half:    4,
}

// Durations returns the supported durations ordered shortest to longest.
func Durations() []Duration {
	return []Duration{Eighth, Quarter, Half}
}

// Units returns the length of d in eighth-note units, or 0 for an unknown
// duration.
func (d Duration) Units() int {
	return durationUnits[d]
}

// Beats returns the length of d in quarter-note beats.
func (d Duration) Beats() float64 {
	return float64(d.Units()) / 2
}

// Valid reports whether d belongs to the supported set.
func (d Duration) Valid() bool {
	_, ok := durationUnits[d]
	return ok
}

// Name returns the English name of the duration.
func (d Duration) Name() string {
	switch d {
	case Eighth:
		return "eighth"
	case Quarter:
		return "quarter"
	case Half:
		return "half"
	default:
		return string(d)
	}
}

// ParseDuration accepts either a renderer code ("8", "q", "h") or an English
// name ("eighth", "quarter", "half").
func ParseDuration(s string) (Duration, error) {
	switch s {
	case "8", "eighth":
		return Eighth, nil
	case "q", "quarter":
		return Quarter, nil
	case "h", "half":
		return Half, nil
	}
	return "", fmt.Errorf("unsupported duration %q", s)
}

// UnmarshalJSON rejects durations outside the supported set.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
