package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdsim/tdsim/internal/component"
	"github.com/tdsim/tdsim/internal/core/event"
	"github.com/tdsim/tdsim/internal/game"
	"github.com/tdsim/tdsim/internal/persist"
)

func TestInputDrainsHoversAndRequests(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	arrow, _ := s.FactoryByKind("arrow")
	requests := make(chan event.TowerCreated, 4)
	hovers := make(chan event.FactoryHover, 4)
	sys := NewInputSystem(s, requests, hovers, 0)

	hovers <- event.FactoryHover{Factory: arrow, X: 3, Y: 4}
	hovers <- event.FactoryHover{Factory: s.Player, X: 1, Y: 1}
	requests <- event.TowerCreated{Factory: arrow, X: 3, Y: 4}
	sys.Update(0)

	pos, _ := s.Positions.Get(arrow)
	assert.Equal(t, component.Position{X: 3, Y: 4}, *pos)
	old, ok := s.OldPositions.Get(arrow)
	require.True(t, ok)
	assert.Equal(t, component.OldPosition{X: -1, Y: -1}, *old)
	assert.False(t, s.Positions.Has(s.Player))

	reqs := event.Events[event.TowerCreated](s.Bus)
	require.Len(t, reqs, 1)
	assert.Equal(t, arrow, reqs[0].Factory)

	// an empty queue leaves the tick untouched
	NewCleanupSystem(s).Update(0)
	sys.Update(0)
	assert.Equal(t, 0, event.Count[event.TowerCreated](s.Bus))
	assert.False(t, s.OldPositions.Has(arrow))
}

func TestInputCapsPerTick(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	arrow, _ := s.FactoryByKind("arrow")
	requests := make(chan event.TowerCreated, 8)
	sys := NewInputSystem(s, requests, nil, 2)
	for i := 0; i < 5; i++ {
		requests <- event.TowerCreated{Factory: arrow, X: i, Y: i}
	}

	sys.Update(0)
	assert.Equal(t, 2, event.Count[event.TowerCreated](s.Bus))
	assert.Len(t, requests, 3)
}

type recordingPresenter struct {
	calls   int
	changed int
}

func (p *recordingPresenter) Present(s *game.State) {
	p.calls++
	p.changed = s.InfoChanged.Len()
}

func TestOutputPresentsThenDispatches(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	p := &recordingPresenter{}
	out := NewOutputSystem(s)
	out.Add(p)

	var order []string
	event.Subscribe(s.Bus, func(e event.TowerBuilt) {
		order = append(order, "built:"+e.Kind)
		assert.Equal(t, 1, p.calls, "presenters run before subscribers")
	})

	s.MarkInfoChanged(s.Player)
	event.Emit(s.Bus, event.TowerBuilt{Kind: "arrow"})
	out.Update(0)

	assert.Equal(t, 1, p.changed)
	assert.Equal(t, []string{"built:arrow"}, order)
}

type fakeJournal struct {
	appended [][]persist.JournalEntry
	err      error
}

func (f *fakeJournal) Append(_ context.Context, _ uuid.UUID, entries []persist.JournalEntry) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, append([]persist.JournalEntry(nil), entries...))
	return nil
}

func TestJournalBatchesEvents(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	j := &fakeJournal{}
	sys := NewJournalSystem(s, j, uuid.New(), 2)

	event.Emit(s.Bus, event.TowerBuilt{Kind: "arrow", X: 4, Y: 5, Cost: 3})
	sys.Update(10 * time.Millisecond)
	assert.Equal(t, 1, sys.Pending())
	assert.Empty(t, j.appended)
	s.Bus.Reset()

	event.Emit(s.Bus, event.MonsterSpawned{Kind: "rat"})
	event.Emit(s.Bus, event.MonsterEscaped{Kind: "ghost", Damage: 10})
	sys.Update(10 * time.Millisecond)

	require.Len(t, j.appended, 1)
	batch := j.appended[0]
	require.Len(t, batch, 3)
	assert.Equal(t, persist.JournalEntry{Tick: 1, Kind: persist.EntryTowerBuilt, Subject: "arrow", Amount: 3, X: 4, Y: 5}, batch[0])
	assert.Equal(t, persist.EntryMonsterSpawned, batch[1].Kind)
	assert.Equal(t, uint64(2), batch[1].Tick)
	assert.Equal(t, 10, batch[2].Amount)
	assert.Equal(t, 0, sys.Pending())
	assert.Equal(t, uint64(2), sys.Ticks())
}

func TestJournalKeepsEntriesOnFailure(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	j := &fakeJournal{err: errors.New("connection refused")}
	sys := NewJournalSystem(s, j, uuid.New(), 1)

	event.Emit(s.Bus, event.PurchaseRejected{Kind: "magic", Cost: 5, Money: 2})
	sys.Update(0)
	assert.Equal(t, 1, sys.Pending())

	j.err = nil
	require.NoError(t, sys.Flush(context.Background()))
	require.Len(t, j.appended, 1)
	assert.Equal(t, persist.EntryPurchaseRejected, j.appended[0][0].Kind)
	assert.Equal(t, 0, sys.Pending())
}
