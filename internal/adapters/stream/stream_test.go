package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnectRateLimiterSlidingWindow(t *testing.T) {
	rl := NewConnectRateLimiter(3, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("tok"), "attempt %d inside the limit", i)
	}
	assert.False(t, rl.Allow("tok"))

	// an unrelated token is unaffected
	assert.True(t, rl.Allow("other"))

	// once the window slides past the old attempts, the token recovers
	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("tok"))
}

func TestViewerConnBackpressure(t *testing.T) {
	c := &WsViewerConn{id: "v1", send: make(chan []byte, 1)}

	assert.NoError(t, c.TrySend([]byte("one")))
	assert.ErrorIs(t, c.TrySend([]byte("two")), ErrBackpressure)

	<-c.send
	assert.NoError(t, c.TrySend([]byte("three")))
}

func TestViewerConnSendAfterClose(t *testing.T) {
	c := &WsViewerConn{id: "v1", send: make(chan []byte, 1)}
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	assert.Error(t, c.TrySend([]byte("late")))
}
