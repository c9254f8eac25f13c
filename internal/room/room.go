// Package room implements the per-room conversation orchestrator: a single
// actor goroutine that owns the timeline, paces generation on a randomized
// self-rescheduling timer, enforces the daily quota, rotates speakers and
// fans out updates to connected viewers. All state mutation happens on the
// actor goroutine; public methods post work to its inbox.
package room

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/murmurhouse/murmur/internal/archive"
	"github.com/murmurhouse/murmur/internal/core"
	"github.com/murmurhouse/murmur/internal/domain"
	"github.com/murmurhouse/murmur/internal/generate"
)

// ErrStopped is returned for operations against a room shut down for good.
var ErrStopped = errors.New("room stopped")

type state int

const (
	stateIdle state = iota
	stateRunning
	statePaused
	stateStopped
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateRunning:
		return "running"
	case statePaused:
		return "paused"
	default:
		return "stopped"
	}
}

const (
	// quickStartTicks and quickStartSpacing shape the initial burst on an
	// empty timeline, so first-time viewers are not met with a long silence.
	quickStartTicks   = 2
	quickStartSpacing = 2 * time.Second
)

// Room is one conversation orchestrator. Exactly one instance exists per
// room id.
type Room struct {
	cfg  domain.RoomConfig
	deps Deps

	ctx   context.Context
	inbox chan func()
	done  chan struct{}

	// Everything below is owned by the actor goroutine.
	state         state
	timeline      *core.Timeline
	quota         core.DailyQuota
	stats         *core.Stats
	sessions      map[string]Session
	archiveIndex  []domain.ArchiveMeta
	archivedTotal int
	lastActivity  time.Time
	timer         TimerHandle
	burstLeft     int
	epoch         uint64
}

// NewRoom constructs the orchestrator and starts its actor goroutine. The
// room begins Idle; it transitions to Running on the first viewer connect, or
// immediately when cfg.AutoStart is set.
func NewRoom(ctx context.Context, cfg domain.RoomConfig, deps Deps) *Room {
	deps.fillDefaults()
	r := &Room{
		cfg:      cfg,
		deps:     deps,
		ctx:      ctx,
		inbox:    make(chan func(), 64),
		done:     make(chan struct{}),
		timeline: core.NewTimeline(),
		stats:    core.NewStats(deps.Now()),
		sessions: make(map[string]Session),
	}
	r.quota.Roll(deps.Now())
	go r.run()
	if cfg.AutoStart {
		r.post(func() { r.start() })
	}
	return r
}

func (r *Room) Config() domain.RoomConfig { return r.cfg }

func (r *Room) run() {
	for {
		select {
		case fn := <-r.inbox:
			fn()
		case <-r.done:
			return
		}
	}
}

func (r *Room) post(fn func()) {
	select {
	case r.inbox <- fn:
	case <-r.done:
	}
}

// Connect registers a viewer session and returns the snapshot it should see
// first. May transition the room Idle -> Running.
func (r *Room) Connect(s Session) (Snapshot, error) {
	type reply struct {
		snap Snapshot
		err  error
	}
	ch := make(chan reply, 1)
	r.post(func() { ch <- reply{snap: r.handleConnect(s)} })
	select {
	case v := <-ch:
		return v.snap, v.err
	case <-r.done:
		return Snapshot{}, ErrStopped
	}
}

// Disconnect removes a viewer session. Generation stops only when the last
// viewer leaves and the room is not configured to keep running.
func (r *Room) Disconnect(sessionID string) {
	r.post(func() { r.handleDisconnect(sessionID) })
}

// Stats is a pure read of the room's counters.
func (r *Room) Stats() StatsView {
	ch := make(chan StatsView, 1)
	r.post(func() { ch <- r.statsView() })
	select {
	case v := <-ch:
		return v
	case <-r.done:
		return StatsView{RoomID: r.cfg.ID}
	}
}

// Archives delegates to the persistence collaborator.
func (r *Room) Archives(ctx context.Context, limit int) ([]domain.Archive, error) {
	return r.deps.Archives.ListRecent(ctx, r.cfg.ID, limit)
}

// SearchArchives delegates ranked search to the persistence collaborator.
func (r *Room) SearchArchives(ctx context.Context, query string, limit int) ([]archive.SearchHit, error) {
	return r.deps.Archives.Search(ctx, r.cfg.ID, query, limit)
}

// Stop shuts the actor down for process exit. In-flight generation results
// are discarded when they resolve.
func (r *Room) Stop() {
	r.post(func() {
		r.toStopped()
		close(r.done)
	})
}

func (r *Room) toStopped() {
	r.state = stateStopped
	r.epoch++
	r.cancelTimer()
	log.Info().Str("module", "room").Str("room", string(r.cfg.ID)).Msg("room stopped")
}

// ---- actor handlers ----

func (r *Room) handleConnect(s Session) Snapshot {
	r.sessions[s.ID()] = s
	snap := Snapshot{
		Recent:   r.timeline.Recent(r.deps.Limits.SnapshotMessages),
		Stats:    r.statsView(),
		Archives: append([]domain.ArchiveMeta(nil), r.archiveIndex...),
	}
	if r.state == stateIdle {
		r.start()
	}
	r.broadcastStats()
	return snap
}

func (r *Room) handleDisconnect(sessionID string) {
	if _, ok := r.sessions[sessionID]; !ok {
		return
	}
	delete(r.sessions, sessionID)
	if len(r.sessions) == 0 && !r.cfg.KeepAlive && (r.state == stateRunning || r.state == statePaused) {
		r.toIdle()
	}
	r.broadcastStats()
}

func (r *Room) start() {
	if r.state != stateIdle {
		return
	}
	r.state = stateRunning
	r.epoch++
	if r.timeline.Len() == 0 {
		r.burstLeft = quickStartTicks
	}
	r.arm(r.cfg.Timing.InitialDelay)
	log.Info().Str("module", "room").Str("room", string(r.cfg.ID)).Dur("initial_delay", r.cfg.Timing.InitialDelay).Msg("conversation started")
}

func (r *Room) toIdle() {
	r.state = stateIdle
	r.epoch++
	r.cancelTimer()
	log.Info().Str("module", "room").Str("room", string(r.cfg.ID)).Msg("conversation stopped, no viewers")
}

// handleTick runs one wake-up of the generation loop.
func (r *Room) handleTick() {
	r.timer = nil
	if r.state != stateRunning && r.state != statePaused {
		return
	}
	now := r.deps.Now()
	if r.quota.Roll(now) {
		log.Info().Str("module", "room").Str("room", string(r.cfg.ID)).Str("date", r.quota.DateKey).Msg("daily quota reset")
	}
	if r.quota.Exhausted(r.cfg.DailyMessageCap) {
		r.state = statePaused
		wake := core.NextUTCMidnight(now)
		r.arm(wake.Sub(now))
		log.Info().Str("module", "room").Str("room", string(r.cfg.ID)).Int("count", r.quota.Count).Time("resume_at", wake).Msg("daily cap reached, pausing")
		return
	}
	r.state = stateRunning

	prev, _ := r.timeline.LastSpeaker()
	speaker := core.NextSpeaker(r.deps.Rand, r.cfg.Roster, prev)
	req := generate.Request{
		Room:    r.cfg,
		Speaker: speaker,
		Recent:  r.timeline.Recent(r.deps.Limits.ContextMessages),
	}

	epoch := r.epoch
	started := now
	go func() {
		msg, err := r.deps.Generator.Generate(r.ctx, req)
		r.post(func() { r.handleResult(epoch, msg, err, started) })
	}()
}

// handleResult finishes a tick once the external call resolves. The running
// check happens again here: a result that arrives after the room stopped is
// discarded, and no further tick is scheduled.
func (r *Room) handleResult(epoch uint64, msg domain.Message, err error, started time.Time) {
	if epoch != r.epoch || r.state != stateRunning {
		return
	}

	if err != nil {
		log.Warn().Err(err).Str("module", "room").Str("room", string(r.cfg.ID)).Msg("generation failed, skipping this cycle")
	} else {
		r.append(msg, r.deps.Now().Sub(started))
	}

	r.arm(r.nextDelay())
}

func (r *Room) append(msg domain.Message, latency time.Duration) {
	r.timeline.Append(msg)
	r.lastActivity = r.deps.Now()
	r.stats.Record(msg.TokenCount, latency)
	r.quota.Inc()
	r.broadcast(Event{Type: EventMessage, Data: msg})

	if r.timeline.Len() > r.deps.Limits.ArchiveThreshold {
		r.archiveOldest()
	}
	if dropped := r.timeline.TrimTo(r.deps.Limits.MaxMessagesInMemory); dropped > 0 {
		log.Warn().Str("module", "room").Str("room", string(r.cfg.ID)).Int("dropped", dropped).Msg("timeline over hard cap, evicted oldest")
	}
}

// archiveOldest moves the oldest batch out of the live window. Persistence is
// handed off so a slow or failing store never stalls the conversation.
func (r *Room) archiveOldest() {
	batch := r.timeline.EvictBatch(r.deps.Limits.ArchiveBatch)
	arch := domain.NewArchive(r.cfg.ID, batch, r.deps.Now())
	r.archiveIndex = append(r.archiveIndex, arch.Meta())
	r.archivedTotal += arch.TotalMessages

	go func() {
		if err := r.deps.Archives.Persist(r.ctx, arch); err != nil {
			log.Warn().Err(err).Str("module", "room").Str("room", string(r.cfg.ID)).Str("archive", string(arch.ID)).Msg("archive persistence failed")
		}
	}()

	r.broadcast(Event{Type: EventArchive, Data: arch.Meta()})
	log.Info().Str("module", "room").Str("room", string(r.cfg.ID)).Int("messages", arch.TotalMessages).Int("live", r.timeline.Len()).Msg("archived oldest batch")
}

// ---- scheduling ----

func (r *Room) arm(d time.Duration) {
	r.cancelTimer()
	r.timer = r.deps.After(d, func() {
		r.post(r.handleTick)
	})
}

func (r *Room) cancelTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Room) nextDelay() time.Duration {
	if r.burstLeft > 0 {
		r.burstLeft--
		return quickStartSpacing
	}
	min, max := r.cfg.Timing.MinDelay, r.cfg.Timing.MaxDelay
	if max <= min {
		return min
	}
	return min + time.Duration(r.deps.Rand.Int64N(int64(max-min)))
}

// ---- fan-out ----

func (r *Room) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "room").Msg("broadcast marshal")
		return
	}
	for id, s := range r.sessions {
		if err := s.TrySend(data); err != nil {
			// Isolated: the transport layer reaps dead sessions.
			log.Debug().Err(err).Str("module", "room").Str("room", string(r.cfg.ID)).Str("sid", id).Msg("broadcast send failed")
		}
	}
}

func (r *Room) broadcastStats() {
	v := r.statsView()
	r.broadcast(Event{Type: EventStats, Stats: &v})
}

func (r *Room) statsView() StatsView {
	now := r.deps.Now()
	remaining := r.cfg.DailyMessageCap - r.quota.Count
	if remaining < 0 {
		remaining = 0
	}
	return StatsView{
		RoomID:           r.cfg.ID,
		TotalMessages:    r.stats.TotalMessages,
		StartTime:        r.stats.StartTime,
		Viewers:          len(r.sessions),
		IsRunning:        r.state == stateRunning || r.state == statePaused,
		LastActivity:     r.lastActivity,
		AverageLatencyMs: r.stats.AverageLatency().Milliseconds(),
		MessageRate:      r.stats.MessageRate(now),
		TotalTokens:      r.stats.TotalTokens,
		EstimatedCost:    r.stats.EstimatedCost(),
		DailyUsage: DailyUsage{
			Count:     r.quota.Count,
			Limit:     r.cfg.DailyMessageCap,
			Remaining: remaining,
		},
		ArchivedMessages: r.archivedTotal,
	}
}
