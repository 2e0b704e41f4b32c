package system

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tdsim/tdsim/internal/core/event"
	coresys "github.com/tdsim/tdsim/internal/core/system"
	"github.com/tdsim/tdsim/internal/game"
	"github.com/tdsim/tdsim/internal/persist"
	"go.uber.org/zap"
)

// Journal is the sink the JournalSystem writes to; persist.JournalRepo in
// production.
type Journal interface {
	Append(ctx context.Context, matchID uuid.UUID, entries []persist.JournalEntry) error
}

const (
	journalWriteTimeout = 5 * time.Second
	journalMaxBuffered  = 4096
)

// JournalSystem copies the tick's notable events into a buffer and writes it
// to the journal every flushEvery ticks. Phase 5 (Persist).
type JournalSystem struct {
	state      *game.State
	journal    Journal
	matchID    uuid.UUID
	flushEvery int
	tick       uint64
	buf        []persist.JournalEntry
}

func NewJournalSystem(state *game.State, journal Journal, matchID uuid.UUID, flushEvery int) *JournalSystem {
	if flushEvery <= 0 {
		flushEvery = 1
	}
	return &JournalSystem{
		state:      state,
		journal:    journal,
		matchID:    matchID,
		flushEvery: flushEvery,
		buf:        make([]persist.JournalEntry, 0, 64),
	}
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

// Ticks is the number of ticks observed.
func (s *JournalSystem) Ticks() uint64 { return s.tick }

// Pending is the number of buffered, unwritten entries.
func (s *JournalSystem) Pending() int { return len(s.buf) }

func (s *JournalSystem) Update(_ time.Duration) {
	s.tick++
	s.collect()
	if s.tick%uint64(s.flushEvery) != 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.state.Log.Error("journal flush failed", zap.Int("pending", len(s.buf)), zap.Error(err))
	}
}

func (s *JournalSystem) collect() {
	bus := s.state.Bus
	for _, ev := range event.Events[event.MonsterSpawned](bus) {
		s.add(persist.JournalEntry{Kind: persist.EntryMonsterSpawned, Subject: ev.Kind, X: -1, Y: -1})
	}
	for _, ev := range event.Events[event.TowerBuilt](bus) {
		s.add(persist.JournalEntry{Kind: persist.EntryTowerBuilt, Subject: ev.Kind, Amount: ev.Cost, X: ev.X, Y: ev.Y})
	}
	for _, ev := range event.Events[event.PurchaseRejected](bus) {
		s.add(persist.JournalEntry{Kind: persist.EntryPurchaseRejected, Subject: ev.Kind, Amount: ev.Cost, X: -1, Y: -1})
	}
	for _, ev := range event.Events[event.MonsterKilled](bus) {
		s.add(persist.JournalEntry{Kind: persist.EntryMonsterKilled, Subject: ev.Kind, Amount: ev.Bounty, X: -1, Y: -1})
	}
	for _, ev := range event.Events[event.MonsterEscaped](bus) {
		s.add(persist.JournalEntry{Kind: persist.EntryMonsterEscaped, Subject: ev.Kind, Amount: ev.Damage, X: -1, Y: -1})
	}
}

func (s *JournalSystem) add(e persist.JournalEntry) {
	if len(s.buf) >= journalMaxBuffered {
		s.state.Log.Warn("journal buffer full, dropping entry", zap.String("kind", e.Kind))
		return
	}
	e.Tick = s.tick
	s.buf = append(s.buf, e)
}

// Flush writes every buffered entry. On failure the buffer is kept for the
// next attempt.
func (s *JournalSystem) Flush(ctx context.Context) error {
	if len(s.buf) == 0 {
		return nil
	}
	if err := s.journal.Append(ctx, s.matchID, s.buf); err != nil {
		return err
	}
	s.buf = s.buf[:0]
	return nil
}
