package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdsim/tdsim/internal/core/event"
)

func TestTowerCreationNeedsMoney(t *testing.T) {
	s := newTestState(t, 2, [2]int{0, 0})
	arrow, ok := s.FactoryByKind("arrow")
	require.True(t, ok)

	event.Emit(s.Bus, event.TowerCreated{Factory: arrow, X: 5, Y: 5})
	NewTowerCreationSystem(s).Update(0)

	assert.Equal(t, 2, s.PlayerInfo().Money)
	assert.Equal(t, 0, s.TowerStore.Len())
	assert.False(t, s.InfoChanged.Has(s.Player))
	rejected := event.Events[event.PurchaseRejected](s.Bus)
	require.Len(t, rejected, 1)
	assert.Equal(t, 3, rejected[0].Cost)
}

func TestTowerCreationDeductsCost(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	arrow, _ := s.FactoryByKind("arrow")

	event.Emit(s.Bus, event.TowerCreated{Factory: arrow, X: 5, Y: 6})
	NewTowerCreationSystem(s).Update(0)

	assert.Equal(t, 2, s.PlayerInfo().Money)
	require.Equal(t, 1, s.TowerStore.Len())
	assert.Equal(t, 1, s.InfoChanged.Len())
	assert.True(t, s.InfoChanged.Has(s.Player))

	built := event.Events[event.TowerBuilt](s.Bus)
	require.Len(t, built, 1)
	assert.Equal(t, "arrow", built[0].Kind)
	pos, _ := s.Positions.Get(built[0].Entity)
	assert.Equal(t, 5, pos.X)
	assert.Equal(t, 6, pos.Y)

	NewCleanupSystem(s).Update(0)
	assert.False(t, s.InfoChanged.Has(s.Player))
	assert.Equal(t, 0, event.Count[event.TowerCreated](s.Bus))
}

func TestTowerCreationSpendsInRequestOrder(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	arrow, _ := s.FactoryByKind("arrow")
	magic, _ := s.FactoryByKind("magic")

	event.Emit(s.Bus, event.TowerCreated{Factory: arrow, X: 1, Y: 1})
	event.Emit(s.Bus, event.TowerCreated{Factory: magic, X: 2, Y: 2})
	NewTowerCreationSystem(s).Update(0)

	assert.Equal(t, 2, s.PlayerInfo().Money)
	assert.Equal(t, 1, s.TowerStore.Len())
	assert.Equal(t, 1, event.Count[event.PurchaseRejected](s.Bus))
}

func TestTowerCreationIgnoresNonFactory(t *testing.T) {
	s := newTestState(t, 50, [2]int{0, 0})
	event.Emit(s.Bus, event.TowerCreated{Factory: s.Player, X: 1, Y: 1})
	NewTowerCreationSystem(s).Update(0)

	assert.Equal(t, 50, s.PlayerInfo().Money)
	assert.Equal(t, 0, s.TowerStore.Len())
}

func TestTowerCreationOffMapKeepsMoney(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	arrow, _ := s.FactoryByKind("arrow")
	event.Emit(s.Bus, event.TowerCreated{Factory: arrow, X: 40, Y: 1})
	NewTowerCreationSystem(s).Update(0)

	assert.Equal(t, 5, s.PlayerInfo().Money)
	assert.Equal(t, 0, s.TowerStore.Len())
}
