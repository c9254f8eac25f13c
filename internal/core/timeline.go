// Package core holds the conversation bookkeeping a room orchestrator drives:
// the bounded timeline, speaker selection, the daily quota and rolling stats.
// Nothing here is goroutine-safe on its own; the room actor is the single
// writer.
package core

import "github.com/murmurhouse/murmur/internal/domain"

// Timeline is the bounded in-memory message window of one room.
// Append-only, oldest-first; it never reorders.
type Timeline struct {
	msgs []domain.Message
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (t *Timeline) Len() int { return len(t.msgs) }

func (t *Timeline) Append(m domain.Message) {
	t.msgs = append(t.msgs, m)
}

// Recent returns the last k messages in creation order. The returned slice is
// a copy; callers may hold it across mutations.
func (t *Timeline) Recent(k int) []domain.Message {
	if k > len(t.msgs) {
		k = len(t.msgs)
	}
	out := make([]domain.Message, k)
	copy(out, t.msgs[len(t.msgs)-k:])
	return out
}

// LastSpeaker reports the speaker of the newest message, if any.
func (t *Timeline) LastSpeaker() (string, bool) {
	if len(t.msgs) == 0 {
		return "", false
	}
	return t.msgs[len(t.msgs)-1].Speaker, true
}

// EvictBatch removes the oldest n messages and returns them for archive
// hand-off. Ownership of the returned slice transfers to the caller.
func (t *Timeline) EvictBatch(n int) []domain.Message {
	if n > len(t.msgs) {
		n = len(t.msgs)
	}
	batch := make([]domain.Message, n)
	copy(batch, t.msgs[:n])
	t.msgs = append(t.msgs[:0], t.msgs[n:]...)
	return batch
}

// TrimTo drops oldest messages until at most max remain. This is the hard
// in-memory ceiling and runs independently of archiving.
func (t *Timeline) TrimTo(max int) int {
	over := len(t.msgs) - max
	if over <= 0 {
		return 0
	}
	t.msgs = append(t.msgs[:0], t.msgs[over:]...)
	return over
}
