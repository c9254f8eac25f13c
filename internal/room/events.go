package room

import (
	"time"

	"github.com/murmurhouse/murmur/internal/domain"
)

// Event types broadcast to viewer sessions.
const (
	EventConnected = "connected"
	EventMessage   = "message"
	EventStats     = "stats"
	EventArchive   = "archive"
)

// Event is the wire envelope pushed over a viewer's live-update channel.
type Event struct {
	Type  string     `json:"type"`
	Data  any        `json:"data,omitempty"`
	Stats *StatsView `json:"stats,omitempty"`
}

// DailyUsage reports quota consumption for the current UTC day.
type DailyUsage struct {
	Count     int `json:"count"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// StatsView is a point-in-time read of one room's counters.
type StatsView struct {
	RoomID           domain.RoomID `json:"roomId"`
	TotalMessages    int           `json:"totalMessages"`
	StartTime        time.Time     `json:"startTime"`
	Viewers          int           `json:"viewers"`
	IsRunning        bool          `json:"isRunning"`
	LastActivity     time.Time     `json:"lastActivity"`
	AverageLatencyMs int64         `json:"averageLatency"`
	MessageRate      float64       `json:"messageRate"`
	TotalTokens      int           `json:"totalTokens"`
	EstimatedCost    float64       `json:"estimatedCost"`
	DailyUsage       DailyUsage    `json:"dailyUsage"`
	ArchivedMessages int           `json:"archivedMessageCount"`
}

// Snapshot is what a viewer receives on connect: the recent window, current
// stats and the archive index.
type Snapshot struct {
	Recent   []domain.Message     `json:"data"`
	Stats    StatsView            `json:"stats"`
	Archives []domain.ArchiveMeta `json:"archives"`
}

// Session is a connected viewer's send side. TrySend must not block; a
// backpressure failure is isolated to that session.
type Session interface {
	ID() string
	TrySend(data []byte) error
}
