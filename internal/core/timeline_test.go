package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murmurhouse/murmur/internal/domain"
)

func makeMessages(n int) []domain.Message {
	out := make([]domain.Message, n)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = domain.NewMessage("nyx", fmt.Sprintf("msg %d", i), 5, base.Add(time.Duration(i)*time.Second))
	}
	return out
}

func TestTimelineAppendAndRecent(t *testing.T) {
	tl := NewTimeline()
	for _, m := range makeMessages(5) {
		tl.Append(m)
	}
	require.Equal(t, 5, tl.Len())

	recent := tl.Recent(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "msg 2", recent[0].Text)
	assert.Equal(t, "msg 4", recent[2].Text)

	// asking for more than stored returns everything
	assert.Len(t, tl.Recent(10), 5)
	// Recent has no side effects
	assert.Equal(t, 5, tl.Len())
}

func TestTimelineLastSpeaker(t *testing.T) {
	tl := NewTimeline()
	_, ok := tl.LastSpeaker()
	assert.False(t, ok)

	tl.Append(domain.NewMessage("nyx", "a", 1, time.Now()))
	tl.Append(domain.NewMessage("zero", "b", 1, time.Now()))
	sp, ok := tl.LastSpeaker()
	require.True(t, ok)
	assert.Equal(t, "zero", sp)
}

func TestTimelineEvictBatch(t *testing.T) {
	tl := NewTimeline()
	for _, m := range makeMessages(10) {
		tl.Append(m)
	}
	batch := tl.EvictBatch(4)
	require.Len(t, batch, 4)
	assert.Equal(t, "msg 0", batch[0].Text)
	assert.Equal(t, "msg 3", batch[3].Text)
	assert.Equal(t, 6, tl.Len())
	assert.Equal(t, "msg 4", tl.Recent(6)[0].Text)

	// eviction past the end drains without panicking
	rest := tl.EvictBatch(100)
	assert.Len(t, rest, 6)
	assert.Equal(t, 0, tl.Len())
}

func TestTimelineTrimTo(t *testing.T) {
	tl := NewTimeline()
	for _, m := range makeMessages(7) {
		tl.Append(m)
	}
	dropped := tl.TrimTo(5)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 5, tl.Len())
	assert.Equal(t, "msg 2", tl.Recent(5)[0].Text)

	assert.Zero(t, tl.TrimTo(5))
	assert.Equal(t, 5, tl.Len())
}
