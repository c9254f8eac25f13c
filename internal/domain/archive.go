package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ArchiveID string

const summaryMaxLen = 500

// Archive is a durable, immutable batch of messages evicted from a timeline.
type Archive struct {
	ID            ArchiveID `json:"id"`
	RoomID        RoomID    `json:"roomId"`
	ArchivedAt    time.Time `json:"archivedAt"`
	Messages      []Message `json:"messages"`
	TotalMessages int       `json:"totalMessages"`
	TotalTokens   int       `json:"totalTokens"`
	Summary       string    `json:"summary"`
}

// ArchiveMeta is the index entry an orchestrator keeps once the full archive
// has been handed off to persistence.
type ArchiveMeta struct {
	ID            ArchiveID `json:"id"`
	RoomID        RoomID    `json:"roomId"`
	ArchivedAt    time.Time `json:"archivedAt"`
	TotalMessages int       `json:"totalMessages"`
	TotalTokens   int       `json:"totalTokens"`
	Summary       string    `json:"summary"`
}

// NewArchive takes ownership of the evicted batch and derives totals and a
// short summary from it.
func NewArchive(roomID RoomID, batch []Message, at time.Time) Archive {
	tokens := 0
	for _, m := range batch {
		tokens += m.TokenCount
	}
	return Archive{
		ID:            ArchiveID(uuid.NewString()),
		RoomID:        roomID,
		ArchivedAt:    at,
		Messages:      batch,
		TotalMessages: len(batch),
		TotalTokens:   tokens,
		Summary:       summarize(batch),
	}
}

func (a Archive) Meta() ArchiveMeta {
	return ArchiveMeta{
		ID:            a.ID,
		RoomID:        a.RoomID,
		ArchivedAt:    a.ArchivedAt,
		TotalMessages: a.TotalMessages,
		TotalTokens:   a.TotalTokens,
		Summary:       a.Summary,
	}
}

// summarize joins the first few message texts and truncates the result.
func summarize(batch []Message) string {
	n := len(batch)
	if n > 10 {
		n = 10
	}
	parts := make([]string, 0, n)
	for _, m := range batch[:n] {
		parts = append(parts, m.Text)
	}
	s := strings.Join(parts, " ")
	if len(s) > summaryMaxLen {
		s = s[:summaryMaxLen] + "..."
	}
	return s
}
