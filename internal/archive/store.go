// Package archive persists evicted message batches and serves archive lookup
// and search. The primary store is a semantic vector index; a local SQLite
// store is the durable fallback so persistence failures never lose content.
package archive

import (
	"context"
	"errors"

	"github.com/murmurhouse/murmur/internal/domain"
)

// ErrNotSupported marks an operation a store cannot serve; the fallback chain
// moves on to the next store.
var ErrNotSupported = errors.New("archive: operation not supported by this store")

// SearchHit is one ranked match from archive search.
type SearchHit struct {
	Meta  domain.ArchiveMeta `json:"archive"`
	Score float32            `json:"score"`
}

// Store is the persistence collaborator the orchestrator hands archives to.
// Implementations must be safe for concurrent use.
type Store interface {
	// Persist durably stores one archive.
	Persist(ctx context.Context, a domain.Archive) error

	// ListRecent returns up to limit archives for a room, newest first,
	// including full message content.
	ListRecent(ctx context.Context, roomID domain.RoomID, limit int) ([]domain.Archive, error)

	// Search returns ranked archive matches for the query within a room.
	Search(ctx context.Context, roomID domain.RoomID, query string, limit int) ([]SearchHit, error)
}
