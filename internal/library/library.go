package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"

	"github.com/Conceptual-Machines/sightread-api/internal/logger"
	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/snapshot"
)

// MaxEntries is the number of saved scores kept per owner.
const MaxEntries = 30

// Library is one owner's list of saved scores, most recent first. It is not
// safe for concurrent use; Workspace serializes access.
type Library struct {
	store Store
	owner string
}

// New returns the library of owner in store.
func New(store Store, owner string) *Library {
	return &Library{store: store, owner: owner}
}

// List returns the saved scores, most recent first. A missing blob is an
// empty library; a corrupt one is logged and treated as empty.
func (l *Library) List(ctx context.Context) ([]models.Score, error) {
	data, err := l.store.Get(ctx, l.owner, LibraryKey)
	if errors.Is(err, ErrNotFound) {
		return []models.Score{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("library: load: %w", err)
	}

	scores, err := snapshot.DecodeLibrary(data)
	if err != nil {
		fields := logger.Fields{
			"owner": l.owner,
			"error": err.Error(),
		}
		logger.Warn("Discarding unreadable library", fields)
		logger.LogToSentry(sentry.LevelWarning, "Discarding unreadable library", fields)
		return []models.Score{}, nil
	}
	return scores, nil
}

// Get returns the saved score with the given id.
func (l *Library) Get(ctx context.Context, id string) (*models.Score, error) {
	scores, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range scores {
		if scores[i].ID == id {
			return scores[i].Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// Contains reports whether a score with the given id is saved.
func (l *Library) Contains(ctx context.Context, id string) (bool, error) {
	_, err := l.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Save prepends score, evicting the oldest entries beyond MaxEntries. A
// score whose ID is already saved is rejected with ErrDuplicate and the
// library is left unchanged.
func (l *Library) Save(ctx context.Context, score *models.Score) error {
	scores, err := l.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range scores {
		if s.ID == score.ID {
			return ErrDuplicate
		}
	}

	scores = append([]models.Score{*score.Clone()}, scores...)
	if len(scores) > MaxEntries {
		scores = scores[:MaxEntries]
	}
	return l.write(ctx, scores)
}

// Delete removes the score with the given id.
func (l *Library) Delete(ctx context.Context, id string) error {
	scores, err := l.List(ctx)
	if err != nil {
		return err
	}
	kept := scores[:0]
	found := false
	for _, s := range scores {
		if s.ID == id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return ErrNotFound
	}
	return l.write(ctx, kept)
}

func (l *Library) write(ctx context.Context, scores []models.Score) error {
	data, err := snapshot.EncodeLibrary(scores)
	if err != nil {
		return err
	}
	if err := l.store.Put(ctx, l.owner, LibraryKey, data); err != nil {
		return fmt.Errorf("library: save: %w", err)
	}
	return nil
}
