package models

// Defaults used when generation parameters or stored snapshots omit a field.
const (
	DefaultKey          = "C"
	DefaultBars         = 8
	DefaultTempo        = 80
	DefaultTimeSig      = "4/4"
	DefaultNoteDensity  = 70
	DefaultLowestPitch  = "C4"
	DefaultHighestPitch = "G5"

	MinBars  = 1
	MaxBars  = 64
	MinTempo = 30
	MaxTempo = 240
)

// ScoreParams wraps the user's generation parameters
type ScoreParams struct {
	Key          string `json:"key"`
	Bars         int    `json:"bars"`
	Tempo        int    `json:"tempo"`
	TimeSig      string `json:"timeSig"`
	NoteDensity  int    `json:"noteDensity"`
	LowestPitch  string `json:"lowestPitch"`
	HighestPitch string `json:"highestPitch"`
}

// DefaultParams returns the parameters a fresh workspace starts with.
func DefaultParams() ScoreParams {
	return ScoreParams{
		Key:          DefaultKey,
		Bars:         DefaultBars,
		Tempo:        DefaultTempo,
		TimeSig:      DefaultTimeSig,
		NoteDensity:  DefaultNoteDensity,
		LowestPitch:  DefaultLowestPitch,
		HighestPitch: DefaultHighestPitch,
	}
}

// Normalize fills missing fields with defaults and clamps numeric ranges.
// Pitch names are left as given; malformed ones are resolved by the
// generator's range fallback.
func (p ScoreParams) Normalize() ScoreParams {
	if p.Key == "" {
		p.Key = DefaultKey
	}
	if p.Bars == 0 {
		p.Bars = DefaultBars
	}
	p.Bars = clamp(p.Bars, MinBars, MaxBars)
	if p.Tempo == 0 {
		p.Tempo = DefaultTempo
	}
	p.Tempo = clamp(p.Tempo, MinTempo, MaxTempo)
	if p.TimeSig == "" {
		p.TimeSig = DefaultTimeSig
	}
	p.NoteDensity = clamp(p.NoteDensity, 0, 100)
	return p
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
