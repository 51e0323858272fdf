package playback

import (
	"errors"
	"sync"
	"time"

	"github.com/Conceptual-Machines/sightread-api/internal/models"
)

// ErrAlreadyPlaying is returned by Play while an earlier playback is running.
var ErrAlreadyPlaying = errors.New("playback: already playing")

// ToneScheduler plays a tone of freq Hz starting start seconds from now and
// lasting dur seconds. Implementations must not block until the tone sounds.
type ToneScheduler interface {
	ScheduleTone(freq, start, dur float64)
}

// Player schedules whole scores on a ToneScheduler. Only one playback runs
// at a time.
type Player struct {
	mu      sync.Mutex
	tones   ToneScheduler
	playing bool
	run     uint64
	done    chan struct{}
}

// NewPlayer creates a Player that sends tones to tones.
func NewPlayer(tones ToneScheduler) *Player {
	done := make(chan struct{})
	close(done)
	return &Player{tones: tones, done: done}
}

// Play schedules every tone of score at tempo and returns immediately. The
// player stays busy until the plan's total length has elapsed or Stop is
// called.
func (p *Player) Play(score *models.Score, tempo int) (Plan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return Plan{}, ErrAlreadyPlaying
	}

	plan := Schedule(score, tempo)
	for _, t := range plan.Tones {
		p.tones.ScheduleTone(t.Frequency, t.Start, t.Duration)
	}

	p.playing = true
	p.run++
	p.done = make(chan struct{})
	run := p.run
	time.AfterFunc(seconds(plan.Total), func() {
		p.finish(run)
	})
	return plan, nil
}

// Stop marks the player idle. Tones that were already scheduled still sound.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.release()
}

// Playing reports whether a playback is in progress.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Done returns a channel that is closed when the current playback ends. When
// nothing is playing the channel is already closed.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Player) finish(run uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// A timer from a stopped playback must not end a newer one.
	if run != p.run {
		return
	}
	p.release()
}

func (p *Player) release() {
	if !p.playing {
		return
	}
	p.playing = false
	close(p.done)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
