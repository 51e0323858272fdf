package playback

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/music"
)

type recordedTone struct {
	freq, start, dur float64
}

type fakeScheduler struct {
	mu    sync.Mutex
	tones []recordedTone
}

func (f *fakeScheduler) ScheduleTone(freq, start, dur float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tones = append(f.tones, recordedTone{freq, start, dur})
}

func (f *fakeScheduler) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tones)
}

type fakeClicker struct {
	clicks chan bool
}

func newFakeClicker() *fakeClicker {
	return &fakeClicker{clicks: make(chan bool, 64)}
}

func (f *fakeClicker) Click(accent bool) {
	f.clicks <- accent
}

func (f *fakeClicker) next(t *testing.T) bool {
	t.Helper()
	select {
	case accent := <-f.clicks:
		return accent
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for click")
		return false
	}
}

func practiceScore() *models.Score {
	return &models.Score{
		ID:    "s1",
		Key:   "C",
		Tempo: 120,
		Measures: []models.Measure{{
			{Pitch: "C4", Duration: music.Quarter},
			{Pitch: "G4", Duration: music.Eighth, Rest: true},
			{Pitch: "A4", Duration: music.Eighth},
			{Pitch: "E5", Duration: music.Half},
		}},
	}
}

func TestSchedule(t *testing.T) {
	plan := Schedule(practiceScore(), 120)

	assert.Equal(t, 120, plan.Tempo)
	assert.InDelta(t, 2.1, plan.Total, 1e-9)
	require.Len(t, plan.Tones, 3)

	expected := []Tone{
		{Pitch: "C4", Frequency: 261.6256, Start: 0.1, Duration: 0.5},
		{Pitch: "A4", Frequency: 440, Start: 0.85, Duration: 0.25},
		{Pitch: "E5", Frequency: 659.2551, Start: 1.1, Duration: 1.0},
	}
	for i, want := range expected {
		got := plan.Tones[i]
		assert.Equal(t, want.Pitch, got.Pitch)
		assert.InDelta(t, want.Frequency, got.Frequency, 1e-3)
		assert.InDelta(t, want.Start, got.Start, 1e-9)
		assert.InDelta(t, want.Duration, got.Duration, 1e-9)
	}
}

func TestScheduleTempoFallback(t *testing.T) {
	tests := []struct {
		name       string
		scoreTempo int
		tempo      int
		want       int
	}{
		{"explicit tempo wins", 120, 60, 60},
		{"score tempo", 90, 0, 90},
		{"default tempo", 0, 0, models.DefaultTempo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := practiceScore()
			score.Tempo = tt.scoreTempo
			assert.Equal(t, tt.want, Schedule(score, tt.tempo).Tempo)
		})
	}
}

func TestScheduleMalformedPitchSoundsMiddleC(t *testing.T) {
	score := &models.Score{Measures: []models.Measure{{{Pitch: "??", Duration: music.Half}}}}
	plan := Schedule(score, 60)
	require.Len(t, plan.Tones, 1)
	assert.InDelta(t, music.Frequency(music.MiddleC), plan.Tones[0].Frequency, 1e-9)
}

func TestPlayerBlocksWhilePlaying(t *testing.T) {
	tones := &fakeScheduler{}
	player := NewPlayer(tones)

	select {
	case <-player.Done():
	default:
		t.Fatal("idle player should report done")
	}

	score := &models.Score{Measures: []models.Measure{{{Pitch: "C4", Duration: music.Eighth}}}}
	plan, err := player.Play(score, 240)
	require.NoError(t, err)
	assert.InDelta(t, 0.225, plan.Total, 1e-9)
	assert.True(t, player.Playing())
	assert.Equal(t, 1, tones.count())

	_, err = player.Play(score, 240)
	assert.ErrorIs(t, err, ErrAlreadyPlaying)
	assert.Equal(t, 1, tones.count())

	select {
	case <-player.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not finish")
	}
	assert.False(t, player.Playing())

	_, err = player.Play(score, 240)
	assert.NoError(t, err)
}

func TestPlayerStop(t *testing.T) {
	tones := &fakeScheduler{}
	player := NewPlayer(tones)

	_, err := player.Play(practiceScore(), 30)
	require.NoError(t, err)
	done := player.Done()

	player.Stop()
	assert.False(t, player.Playing())
	select {
	case <-done:
	default:
		t.Fatal("stop should close the done channel")
	}
	// Already scheduled tones are left alone.
	assert.Equal(t, 3, tones.count())

	player.Stop()

	_, err = player.Play(practiceScore(), 30)
	assert.NoError(t, err)
	player.Stop()
}

func TestMetronomeAccentsDownbeat(t *testing.T) {
	clicker := newFakeClicker()
	m := NewMetronome(clicker, 240, music.ParseTimeSignature("3/4"))

	m.Start()
	defer m.Stop()
	assert.True(t, m.Running())

	got := []bool{clicker.next(t), clicker.next(t), clicker.next(t), clicker.next(t)}
	assert.Equal(t, []bool{true, false, false, true}, got)
}

func TestMetronomeSetTempoResetsPhase(t *testing.T) {
	clicker := newFakeClicker()
	m := NewMetronome(clicker, 240, music.CommonTime)

	m.Start()
	defer m.Stop()
	require.True(t, clicker.next(t))
	require.False(t, clicker.next(t))

	m.SetTempo(200)
	assert.Equal(t, 200, m.Tempo())
	assert.True(t, clicker.next(t))
}

func TestMetronomeStop(t *testing.T) {
	clicker := newFakeClicker()
	m := NewMetronome(clicker, 240, music.CommonTime)

	m.Start()
	clicker.next(t)
	m.Stop()
	assert.False(t, m.Running())

	// Drain a click that may have raced with Stop.
	time.Sleep(50 * time.Millisecond)
	for len(clicker.clicks) > 0 {
		<-clicker.clicks
	}
	time.Sleep(2 * Interval(240))
	assert.Empty(t, clicker.clicks)

	m.Stop()
}

func TestMetronomeClampsTempo(t *testing.T) {
	m := NewMetronome(newFakeClicker(), 10, music.CommonTime)
	assert.Equal(t, models.MinTempo, m.Tempo())
	m.SetTempo(1000)
	assert.Equal(t, models.MaxTempo, m.Tempo())
}

func TestInterval(t *testing.T) {
	assert.Equal(t, time.Second, Interval(60))
	assert.Equal(t, 500*time.Millisecond, Interval(120))
}

func TestEnvelope(t *testing.T) {
	tests := []struct {
		pos  int
		want float64
	}{
		{-1, 0},
		{0, 0},
		{5, 0.5},
		{50, 1},
		{90, 0.5},
		{100, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, envelope(tt.pos, 100, 10, 20), 1e-9, "pos %d", tt.pos)
	}
}

func TestEnvelopeShortTone(t *testing.T) {
	// Ramps longer than the tone shrink to fit.
	assert.InDelta(t, 0.5, envelope(1, 8, 10, 20), 1e-9)
	assert.InDelta(t, 1, envelope(3, 8, 10, 20), 1e-9)
}

func TestSineStreamsExactLength(t *testing.T) {
	s := Sine(DefaultSampleRate, 440, 100, 1)
	buf := make([][2]float64, 64)

	n, ok := s.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 64, n)
	assert.Equal(t, 0.0, buf[0][0])
	for _, sample := range buf[:n] {
		assert.LessOrEqual(t, sample[0], 1.0)
		assert.GreaterOrEqual(t, sample[0], -1.0)
		assert.Equal(t, sample[0], sample[1])
	}

	n, ok = s.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 36, n)

	n, ok = s.Stream(buf)
	assert.False(t, ok)
	assert.Equal(t, 0, n)
}
