package domain

import (
	"errors"
	"time"
)

type RoomID string

var (
	ErrRoomUnknown  = errors.New("room unknown")
	ErrRoomDisabled = errors.New("room disabled")
	ErrEmptyRoster  = errors.New("room roster empty")
	ErrBadTiming    = errors.New("room timing invalid")
)

// Timing bounds the randomized generation cadence of a room.
type Timing struct {
	MinDelay     time.Duration `json:"minDelay"`
	MaxDelay     time.Duration `json:"maxDelay"`
	InitialDelay time.Duration `json:"initialDelay"`
}

// RoomConfig is the declarative description of one room. Resolved once at
// startup and never mutated afterwards.
type RoomConfig struct {
	ID               RoomID   `json:"id"`
	Name             string   `json:"name"`
	Roster           []string `json:"roster"`
	Topics           []string `json:"topics"`
	Timing           Timing   `json:"timing"`
	DailyMessageCap  int      `json:"dailyMessageCap"`
	AudioProbability float64  `json:"audioProbability"`
	MaxTokens        int      `json:"maxTokens"`
	Temperature      float64  `json:"temperature"`
	Enabled          bool     `json:"enabled"`
	// AutoStart runs the conversation from process start, even with zero
	// viewers. KeepAlive keeps a started conversation running after the last
	// viewer disconnects.
	AutoStart bool `json:"autoStart"`
	KeepAlive bool `json:"keepAlive"`
}

func (c RoomConfig) Validate() error {
	if len(c.Roster) == 0 {
		return ErrEmptyRoster
	}
	if c.Timing.MinDelay <= 0 || c.Timing.MaxDelay < c.Timing.MinDelay {
		return ErrBadTiming
	}
	return nil
}
