// Package library persists per-owner score libraries and the active score.
//
// Storage is a plain blob store: each owner has one JSON blob holding the
// saved library (most recent first) and one holding the active score.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Blob names. These match the keys the browser client used for local
// storage, so exported blobs can be moved between the two.
const (
	LibraryKey = "sightread.library"
	CurrentKey = "sightread.current"
)

var (
	// ErrNotFound is returned when a blob or a saved score does not exist.
	ErrNotFound = errors.New("library: not found")
	// ErrDuplicate is returned when saving a score whose ID is already saved.
	ErrDuplicate = errors.New("library: score already saved")
	// ErrNoCurrent is returned when an operation needs an active score and
	// there is none.
	ErrNoCurrent = errors.New("library: no active score")
)

// Store is a named-blob store partitioned by owner.
type Store interface {
	Get(ctx context.Context, owner, name string) ([]byte, error)
	Put(ctx context.Context, owner, name string, data []byte) error
	Delete(ctx context.Context, owner, name string) error
	Close() error
}

// Pinger is implemented by stores backed by an external service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// Options selects and configures a Store backend.
type Options struct {
	Backend     string
	BadgerDir   string
	DatabaseURL string
}

// Open creates the Store named by opts.Backend.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendBadger:
		return NewBadgerStore(BadgerOptions{Dir: opts.BadgerDir})
	case BackendPostgres:
		return OpenPostgresStore(opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("library: unknown storage backend %q", opts.Backend)
	}
}

func blobKey(owner, name string) string {
	return owner + ":" + name
}
