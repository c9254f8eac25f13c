package room

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/murmurhouse/murmur/internal/archive"
	"github.com/murmurhouse/murmur/internal/domain"
	"github.com/murmurhouse/murmur/internal/generate"
)

// Generator produces one message for a room turn. Satisfied by
// *generate.Pipeline.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (domain.Message, error)
}

// TimerHandle is an armed single-shot timer that can be cancelled before it
// fires.
type TimerHandle interface {
	Stop() bool
}

// TimerFactory arms a single-shot timer. The default wraps time.AfterFunc;
// tests substitute a manual scheduler.
type TimerFactory func(d time.Duration, fn func()) TimerHandle

func afterFunc(d time.Duration, fn func()) TimerHandle {
	return time.AfterFunc(d, fn)
}

// Limits are the process-wide timeline bounds shared by every room.
type Limits struct {
	MaxMessagesInMemory int
	ArchiveThreshold    int
	ArchiveBatch        int
	ContextMessages     int
	SnapshotMessages    int
}

func DefaultLimits() Limits {
	return Limits{
		MaxMessagesInMemory: 100,
		ArchiveThreshold:    100,
		ArchiveBatch:        50,
		ContextMessages:     6,
		SnapshotMessages:    10,
	}
}

// Deps are a room's collaborators and seams. Zero-value fields are filled
// with production defaults by NewRoom.
type Deps struct {
	Generator Generator
	Archives  archive.Store
	Limits    Limits
	Now       func() time.Time
	Rand      *rand.Rand
	After     TimerFactory
}

func (d *Deps) fillDefaults() {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if d.After == nil {
		d.After = afterFunc
	}
	if d.Limits == (Limits{}) {
		d.Limits = DefaultLimits()
	}
}
