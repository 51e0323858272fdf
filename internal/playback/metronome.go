package playback

import (
	"sync"
	"time"

	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/music"
)

// Interval returns the time between clicks at tempo beats per minute.
func Interval(tempo int) time.Duration {
	return time.Duration(60.0 / float64(tempo) * float64(time.Second))
}

// Metronome clicks at a fixed tempo, accenting the first beat of each bar.
type Metronome struct {
	mu      sync.Mutex
	clicker Clicker
	beats   int
	tempo   int
	beat    int
	running bool
	stop    chan struct{}
}

// NewMetronome creates a stopped metronome. The tempo is clamped to the
// supported range.
func NewMetronome(clicker Clicker, tempo int, ts music.TimeSignature) *Metronome {
	beats := ts.Beats()
	if beats <= 0 {
		beats = music.CommonTime.Beats()
	}
	return &Metronome{
		clicker: clicker,
		beats:   beats,
		tempo:   clampTempo(tempo),
	}
}

// Start clicks the downbeat immediately and keeps clicking until Stop.
// Starting a running metronome does nothing.
func (m *Metronome) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.beat = 0
	accent := m.advance()
	m.schedule()
	m.mu.Unlock()

	m.clicker.Click(accent)
}

// Stop halts the clicks.
func (m *Metronome) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stop)
}

// SetTempo changes the tempo. A running metronome restarts its timer at the
// new interval and the next click is a downbeat.
func (m *Metronome) SetTempo(tempo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tempo = clampTempo(tempo)
	if !m.running {
		return
	}
	close(m.stop)
	m.beat = 0
	m.schedule()
}

// Tempo returns the current tempo.
func (m *Metronome) Tempo() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tempo
}

// Running reports whether the metronome is clicking.
func (m *Metronome) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// schedule starts a ticker loop for the current tempo. Callers hold mu.
func (m *Metronome) schedule() {
	stop := make(chan struct{})
	m.stop = stop
	ticker := time.NewTicker(Interval(m.tempo))

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.mu.Lock()
				// A tick can race with Stop or SetTempo closing this loop.
				select {
				case <-stop:
					m.mu.Unlock()
					return
				default:
				}
				accent := m.advance()
				m.mu.Unlock()
				m.clicker.Click(accent)
			case <-stop:
				return
			}
		}
	}()
}

// advance reports whether the next click is accented and moves to the
// following beat. Callers hold mu.
func (m *Metronome) advance() bool {
	accent := m.beat%m.beats == 0
	m.beat++
	return accent
}

func clampTempo(tempo int) int {
	if tempo < models.MinTempo {
		return models.MinTempo
	}
	if tempo > models.MaxTempo {
		return models.MaxTempo
	}
	return tempo
}
