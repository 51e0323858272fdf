package library

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Conceptual-Machines/sightread-api/internal/generator"
	"github.com/Conceptual-Machines/sightread-api/internal/logger"
	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/snapshot"
)

// Workspace holds one owner's practice state: the active score, the
// editable parameters and the saved library. All methods are serialized.
type Workspace struct {
	mu      sync.Mutex
	owner   string
	store   Store
	gen     *generator.Generator
	library *Library

	loaded  bool
	current *models.Score
	params  models.ScoreParams
}

// NewWorkspace creates the workspace of owner. State is loaded from store
// on first use.
func NewWorkspace(store Store, gen *generator.Generator, owner string) *Workspace {
	return &Workspace{
		owner:   owner,
		store:   store,
		gen:     gen,
		library: New(store, owner),
		params:  models.DefaultParams(),
	}
}

// Owner returns the workspace owner.
func (w *Workspace) Owner() string {
	return w.owner
}

func (w *Workspace) load(ctx context.Context) error {
	if w.loaded {
		return nil
	}
	data, err := w.store.Get(ctx, w.owner, CurrentKey)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return fmt.Errorf("library: load current: %w", err)
	default:
		score, derr := snapshot.DecodeScore(data)
		if derr != nil {
			logger.Warn("Discarding unreadable active score", logger.Fields{
				"owner": w.owner,
				"error": derr.Error(),
			})
			break
		}
		w.current = score
		w.params = score.Params()
	}
	w.loaded = true
	return nil
}

// Current returns a copy of the active score, or ErrNoCurrent.
func (w *Workspace) Current(ctx context.Context) (*models.Score, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.load(ctx); err != nil {
		return nil, err
	}
	if w.current == nil {
		return nil, ErrNoCurrent
	}
	return w.current.Clone(), nil
}

// Params returns the editable parameters.
func (w *Workspace) Params(ctx context.Context) (models.ScoreParams, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.load(ctx); err != nil {
		return models.ScoreParams{}, err
	}
	return w.params, nil
}

// Regenerate creates a new score from params and makes it active,
// replacing whatever was active before.
func (w *Workspace) Regenerate(ctx context.Context, params models.ScoreParams) (*models.Score, error) {
	score, err := w.gen.NewScore(params)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.load(ctx); err != nil {
		return nil, err
	}
	if err := w.setCurrent(ctx, score); err != nil {
		return nil, err
	}
	return score.Clone(), nil
}

// SaveCurrent adds the active score to the library.
func (w *Workspace) SaveCurrent(ctx context.Context) (*models.Score, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.load(ctx); err != nil {
		return nil, err
	}
	if w.current == nil {
		return nil, ErrNoCurrent
	}
	if err := w.library.Save(ctx, w.current); err != nil {
		return nil, err
	}
	return w.current.Clone(), nil
}

// Library returns the saved scores, most recent first.
func (w *Workspace) Library(ctx context.Context) ([]models.Score, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.library.List(ctx)
}

// Get returns a saved score.
func (w *Workspace) Get(ctx context.Context, id string) (*models.Score, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.library.Get(ctx, id)
}

// Apply makes a saved score active and replaces the editable parameters
// with its values.
func (w *Workspace) Apply(ctx context.Context, id string) (*models.Score, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.load(ctx); err != nil {
		return nil, err
	}
	score, err := w.library.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.setCurrent(ctx, score); err != nil {
		return nil, err
	}
	return score.Clone(), nil
}

// Delete removes id from the library and clears the active slot when it
// holds the same score, saved or not. ErrNotFound means neither matched.
func (w *Workspace) Delete(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.load(ctx); err != nil {
		return err
	}

	active := w.current != nil && w.current.ID == id
	if active {
		if err := w.store.Delete(ctx, w.owner, CurrentKey); err != nil {
			return fmt.Errorf("library: clear current: %w", err)
		}
		w.current = nil
	}

	err := w.library.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) && active {
		return nil
	}
	return err
}

// Import validates a score file, adds it to the library and makes it
// active. Invalid files and duplicates leave all state untouched.
func (w *Workspace) Import(ctx context.Context, data []byte) (*models.Score, error) {
	score, err := snapshot.Import(data)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.load(ctx); err != nil {
		return nil, err
	}
	if err := w.library.Save(ctx, score); err != nil {
		return nil, err
	}
	if err := w.setCurrent(ctx, score); err != nil {
		if rerr := w.library.Delete(ctx, score.ID); rerr != nil {
			logger.Error("Failed to roll back imported score", rerr, logger.Fields{
				"owner":    w.owner,
				"score_id": score.ID,
			})
		}
		return nil, err
	}
	return score.Clone(), nil
}

// Export returns the snapshot file of a saved score, or of the active score
// when id is empty.
func (w *Workspace) Export(ctx context.Context, id string) (data []byte, filename string, err error) {
	var score *models.Score
	if id == "" {
		score, err = w.Current(ctx)
	} else {
		score, err = w.Get(ctx, id)
	}
	if err != nil {
		return nil, "", err
	}
	data, err = snapshot.Export(score)
	if err != nil {
		return nil, "", err
	}
	return data, snapshot.Filename(score), nil
}

func (w *Workspace) setCurrent(ctx context.Context, score *models.Score) error {
	data, err := snapshot.Export(score)
	if err != nil {
		return err
	}
	if err := w.store.Put(ctx, w.owner, CurrentKey, data); err != nil {
		return fmt.Errorf("library: save current: %w", err)
	}
	w.current = score.Clone()
	w.params = score.Params()
	return nil
}

// Manager hands out one Workspace per owner.
type Manager struct {
	mu         sync.Mutex
	store      Store
	gen        *generator.Generator
	workspaces map[string]*Workspace
}

// NewManager creates a Manager over store.
func NewManager(store Store, gen *generator.Generator) *Manager {
	return &Manager{
		store:      store,
		gen:        gen,
		workspaces: make(map[string]*Workspace),
	}
}

// For returns the workspace of owner, creating it on first use.
func (m *Manager) For(owner string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.workspaces[owner]
	if !ok {
		ws = NewWorkspace(m.store, m.gen, owner)
		m.workspaces[owner] = ws
	}
	return ws
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
