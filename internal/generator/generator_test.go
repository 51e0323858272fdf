package generator

import (
	"math/rand/v2"
	"testing"

	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator() *Generator {
	return NewWithSource(rand.NewPCG(42, 1024))
}

func TestGenerateFillsEveryMeasure(t *testing.T) {
	g := newTestGenerator()
	key := music.MustKey("D")

	for _, sig := range music.SupportedTimeSignatures {
		ts := music.ParseTimeSignature(sig)
		for _, density := range []int{0, 35, 70, 100} {
			measures := g.Generate(key, 50, ts, density, "C4", "G5")
			require.Len(t, measures, 50)
			for i, m := range measures {
				assert.Equal(t, ts.Units, m.Units(), "time %s density %d measure %d", sig, density, i)
				assert.NotEmpty(t, m)
			}
		}
	}
}

func TestGenerateRespectsPitchRange(t *testing.T) {
	g := newTestGenerator()

	tests := []struct {
		name    string
		key     string
		lowest  string
		highest string
	}{
		{name: "narrow range in G", key: "G", lowest: "D4", highest: "A4"},
		{name: "wide range in Bb minor", key: "Bbm", lowest: "E2", highest: "C6"},
		{name: "single octave in F#", key: "F#", lowest: "C#5", highest: "C#6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			low := music.HeightOf(tt.lowest, 0)
			high := music.HeightOf(tt.highest, 0)
			measures := g.Generate(music.MustKey(tt.key), 40, music.CommonTime, 80, tt.lowest, tt.highest)
			for _, m := range measures {
				for _, e := range m {
					if e.Rest {
						continue
					}
					p, err := music.ParsePitch(e.Pitch)
					require.NoError(t, err)
					assert.GreaterOrEqual(t, p.Height(), low, e.Pitch)
					assert.LessOrEqual(t, p.Height(), high, e.Pitch)
				}
			}
		})
	}
}

func TestGenerateSpellsWithKeySignature(t *testing.T) {
	g := newTestGenerator()
	key := music.MustKey("Eb")
	for _, m := range g.Generate(key, 20, music.CommonTime, 100, "C4", "C6") {
		for _, e := range m {
			p, err := music.ParsePitch(e.Pitch)
			require.NoError(t, err)
			assert.Equal(t, key.AccidentalFor(p.Letter), p.Accidental, e.Pitch)
		}
	}
}

func TestDensityShiftsRhythmAndRests(t *testing.T) {
	g := newTestGenerator()
	key := music.MustKey("C")

	stats := func(density int) (eighths, rests float64) {
		total := 0
		var e, r int
		for _, m := range g.Generate(key, 2000, music.CommonTime, density, "C4", "G5") {
			for _, ev := range m {
				total++
				if ev.Duration == music.Eighth {
					e++
				}
				if ev.Rest {
					r++
				}
			}
		}
		return float64(e) / float64(total), float64(r) / float64(total)
	}

	sparseEighths, sparseRests := stats(0)
	busyEighths, busyRests := stats(100)

	assert.Greater(t, busyEighths, sparseEighths)
	assert.Less(t, busyRests, sparseRests)
	assert.InDelta(t, 0.40, sparseRests, 0.03)
	assert.InDelta(t, 0.05, busyRests, 0.02)
}

func TestResolveRange(t *testing.T) {
	r := ResolveRange("C4", "G5")
	assert.Equal(t, Range{Low: 60, High: 79}, r)

	r = ResolveRange("", "garbage")
	assert.Equal(t, Range{Low: DefaultLowHeight, High: DefaultHighHeight}, r)
}

func TestRangeOctaves(t *testing.T) {
	tests := []struct {
		name     string
		r        Range
		expected []int
	}{
		{name: "defaults", r: Range{Low: 48, High: 84}, expected: []int{3, 4, 5, 6}},
		{name: "C4 to G5", r: Range{Low: 60, High: 79}, expected: []int{4, 5}},
		{name: "single note", r: Range{Low: 67, High: 67}, expected: []int{4}},
		{name: "clipped to octave 7", r: Range{Low: 100, High: 127}, expected: []int{7}},
		{name: "inverted", r: Range{Low: 84, High: 48}, expected: []int{4}},
		{name: "below every octave", r: Range{Low: 0, High: 10}, expected: []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.r.Octaves())
		})
	}
}

func TestScanPitch(t *testing.T) {
	key := music.MustKey("C")

	p := scanPitch(key, Range{Low: 61, High: 62}, []int{4})
	assert.Equal(t, "D4", p.String())

	// No natural note of C major is a C#: fall back to the middle octave.
	p = scanPitch(key, Range{Low: 61, High: 61}, []int{3, 4, 5})
	assert.Equal(t, "C4", p.String())
}

func TestPickPitchFallsBackOutOfRange(t *testing.T) {
	g := newTestGenerator()
	key := music.MustKey("C")
	r := Range{Low: 61, High: 61}

	p := g.pickPitch(key, r, r.Octaves())
	assert.Equal(t, "C4", p.String())
}

func TestDurationWeights(t *testing.T) {
	all := music.Durations()

	w := durationWeights(all, 1)
	assert.InDeltaSlice(t, []float64{3, 1.5, 1}, w, 1e-9)

	w = durationWeights(all, 0)
	assert.InDeltaSlice(t, []float64{1, 1, 3}, w, 1e-9)

	w = durationWeights(all[:2], 0.5)
	assert.InDeltaSlice(t, []float64{2, 2}, w, 1e-9)

	w = durationWeights(all[:1], 0.5)
	assert.InDeltaSlice(t, []float64{1}, w, 1e-9)
}

func TestWeightedIndex(t *testing.T) {
	weights := []float64{1, 2, 1}
	assert.Equal(t, 0, weightedIndex(weights, 0))
	assert.Equal(t, 0, weightedIndex(weights, 0.25))
	assert.Equal(t, 1, weightedIndex(weights, 0.26))
	assert.Equal(t, 1, weightedIndex(weights, 0.75))
	assert.Equal(t, 2, weightedIndex(weights, 0.99))
}

func TestRestChance(t *testing.T) {
	assert.InDelta(t, 0.4, restChance(densityRatio(0)), 1e-9)
	assert.InDelta(t, 0.05, restChance(densityRatio(100)), 1e-9)
	assert.InDelta(t, 0.05, restChance(densityRatio(250)), 1e-9)
	assert.InDelta(t, 0.4, restChance(densityRatio(-20)), 1e-9)
}

func TestFittingDurations(t *testing.T) {
	assert.Equal(t, []music.Duration{music.Eighth}, fittingDurations(1))
	assert.Equal(t, []music.Duration{music.Eighth, music.Quarter}, fittingDurations(3))
	assert.Equal(t, music.Durations(), fittingDurations(7))
	assert.Empty(t, fittingDurations(0))
}

func TestNewScore(t *testing.T) {
	g := newTestGenerator()

	score, err := g.NewScore(models.ScoreParams{Key: "bb", Bars: 4, Tempo: 100, TimeSig: "6/8", NoteDensity: 50})
	require.NoError(t, err)

	assert.NotEmpty(t, score.ID)
	assert.Equal(t, "Bb", score.Key)
	assert.Equal(t, 4, score.Bars)
	assert.Len(t, score.Measures, 4)
	assert.Equal(t, "6/8", score.TimeSig)
	assert.Equal(t, models.DefaultLowestPitch, score.LowestPitch)
	assert.Equal(t, models.DefaultHighestPitch, score.HighestPitch)
	assert.NotZero(t, score.CreatedAt)
	for _, m := range score.Measures {
		assert.Equal(t, 12, m.Units())
	}
}

func TestNewScoreNormalizesParams(t *testing.T) {
	g := newTestGenerator()

	score, err := g.NewScore(models.ScoreParams{TimeSig: "abc", Tempo: 1000, NoteDensity: 500})
	require.NoError(t, err)
	assert.Equal(t, "C", score.Key)
	assert.Equal(t, models.DefaultBars, score.Bars)
	assert.Equal(t, "4/4", score.TimeSig)
	assert.Equal(t, models.MaxTempo, score.Tempo)
	assert.Equal(t, 100, score.NoteDensity)
}

func TestNewScoreOversizedMeterFallsBackToCommonTime(t *testing.T) {
	g := newTestGenerator()

	score, err := g.NewScore(models.ScoreParams{TimeSig: "2000000/1", Bars: 2})
	require.NoError(t, err)
	assert.Equal(t, "4/4", score.TimeSig)
	require.Len(t, score.Measures, 2)
	for _, m := range score.Measures {
		assert.Equal(t, 8, m.Units())
	}
}

func TestNewScoreUnknownKey(t *testing.T) {
	g := newTestGenerator()
	_, err := g.NewScore(models.ScoreParams{Key: "H#"})
	assert.Error(t, err)
}

func TestNewScoreIDsAreUnique(t *testing.T) {
	g := newTestGenerator()
	a, err := g.NewScore(models.DefaultParams())
	require.NoError(t, err)
	b, err := g.NewScore(models.DefaultParams())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
