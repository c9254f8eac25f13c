package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/murmurhouse/murmur/internal/domain"
)

// Chain composes a primary store and a local fallback. Writes go to both so
// the fallback always holds full content; reads and searches prefer the
// primary and fall through on failure. A partial write failure is a logged
// warning, never a lost archive.
type Chain struct {
	primary  Store
	fallback Store
}

func NewChain(primary, fallback Store) *Chain {
	return &Chain{primary: primary, fallback: fallback}
}

func (c *Chain) Persist(ctx context.Context, a domain.Archive) error {
	primaryErr := c.primary.Persist(ctx, a)
	if primaryErr != nil {
		log.Warn().Err(primaryErr).Str("module", "archive").Str("room", string(a.RoomID)).Str("archive", string(a.ID)).Msg("primary archive store failed, relying on fallback")
	}
	fallbackErr := c.fallback.Persist(ctx, a)
	if fallbackErr != nil {
		log.Warn().Err(fallbackErr).Str("module", "archive").Str("room", string(a.RoomID)).Str("archive", string(a.ID)).Msg("fallback archive store failed")
	}
	if primaryErr != nil && fallbackErr != nil {
		return fmt.Errorf("archive persist failed on both stores: %w", errors.Join(primaryErr, fallbackErr))
	}
	return nil
}

func (c *Chain) ListRecent(ctx context.Context, roomID domain.RoomID, limit int) ([]domain.Archive, error) {
	out, err := c.primary.ListRecent(ctx, roomID, limit)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, ErrNotSupported) {
		log.Warn().Err(err).Str("module", "archive").Str("room", string(roomID)).Msg("primary archive list failed, using fallback")
	}
	return c.fallback.ListRecent(ctx, roomID, limit)
}

func (c *Chain) Search(ctx context.Context, roomID domain.RoomID, query string, limit int) ([]SearchHit, error) {
	hits, err := c.primary.Search(ctx, roomID, query, limit)
	if err == nil {
		return hits, nil
	}
	log.Warn().Err(err).Str("module", "archive").Str("room", string(roomID)).Msg("vector search failed, using fallback")
	return c.fallback.Search(ctx, roomID, query, limit)
}
