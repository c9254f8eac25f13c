package room

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/murmurhouse/murmur/internal/domain"
)

// Supervisor owns the room set: one orchestrator per configured room id,
// created at startup and living for the whole process.
type Supervisor struct {
	mu      sync.RWMutex
	rooms   map[domain.RoomID]*Room
	configs map[domain.RoomID]domain.RoomConfig
}

// NewSupervisor builds an orchestrator for every enabled room. Disabled rooms
// stay listed so lookups can tell "disabled" from "unknown".
func NewSupervisor(ctx context.Context, configs []domain.RoomConfig, deps Deps) *Supervisor {
	s := &Supervisor{
		rooms:   make(map[domain.RoomID]*Room),
		configs: make(map[domain.RoomID]domain.RoomConfig),
	}
	for _, cfg := range configs {
		s.configs[cfg.ID] = cfg
		if !cfg.Enabled {
			log.Info().Str("module", "room").Str("room", string(cfg.ID)).Msg("room disabled")
			continue
		}
		if err := cfg.Validate(); err != nil {
			log.Error().Err(err).Str("module", "room").Str("room", string(cfg.ID)).Msg("invalid room config, skipping")
			continue
		}
		s.rooms[cfg.ID] = NewRoom(ctx, cfg, deps)
	}
	return s
}

// Room resolves a room id, distinguishing a permanently disabled room from an
// unknown one.
func (s *Supervisor) Room(id domain.RoomID) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.rooms[id]; ok {
		return r, nil
	}
	if _, ok := s.configs[id]; ok {
		return nil, domain.ErrRoomDisabled
	}
	return nil, domain.ErrRoomUnknown
}

// List returns stats for every live room.
func (s *Supervisor) List() []StatsView {
	s.mu.RLock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.RUnlock()

	out := make([]StatsView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Stats())
	}
	return out
}

// Shutdown stops every room actor. Called once at process exit.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.rooms {
		r.Stop()
		delete(s.rooms, id)
	}
}
