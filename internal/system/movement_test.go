package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdsim/tdsim/internal/component"
	"github.com/tdsim/tdsim/internal/core/event"
)

func TestMovingOneSquarePerSpeed(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0}, [2]int{0, 1}, [2]int{1, 1})
	require.Equal(t, 1000, monster(s, "skeleton").Speed)
	id, err := s.SpawnMonster(monster(s, "skeleton"), s.World.Path)
	require.NoError(t, err)

	moving := NewMovingSystem(s)
	cleanup := NewCleanupSystem(s)
	cleanup.Update(0) // drop the spawn OldPosition

	moving.Update(600 * time.Millisecond)
	pos, _ := s.Positions.Get(id)
	assert.Equal(t, component.Position{X: 0, Y: 0}, *pos)
	assert.False(t, s.OldPositions.Has(id))

	moving.Update(400 * time.Millisecond)
	assert.Equal(t, component.Position{X: 0, Y: 1}, *pos)
	old, ok := s.OldPositions.Get(id)
	require.True(t, ok)
	assert.Equal(t, component.OldPosition{X: 0, Y: 0}, *old)
	info, _ := s.MonsterInfos.Get(id)
	assert.Equal(t, 1, info.Distance)

	cleanup.Update(0)
	assert.False(t, s.OldPositions.Has(id))

	moving.Update(time.Second)
	assert.Equal(t, component.Position{X: 1, Y: 1}, *pos)
	assert.Equal(t, 2, info.Distance)
}

func TestMovingPastTheEndHurtsPlayer(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0}, [2]int{0, 1})
	id, err := s.SpawnMonster(monster(s, "skeleton"), s.World.Path)
	require.NoError(t, err)

	moving := NewMovingSystem(s)
	damage := NewDamageSystem(s)
	cleanup := NewCleanupSystem(s)

	moving.Update(time.Second)
	cleanup.Update(0)
	moving.Update(time.Second)

	pos, _ := s.Positions.Get(id)
	assert.True(t, pos.OffMap())
	assert.True(t, s.Destroyed.Has(id))

	hits := event.Events[event.Damage](s.Bus)
	require.Len(t, hits, 1)
	assert.Equal(t, s.Player, hits[0].Target)
	assert.Equal(t, 6, hits[0].Amount)
	escaped := event.Events[event.MonsterEscaped](s.Bus)
	require.Len(t, escaped, 1)
	assert.Equal(t, "skeleton", escaped[0].Kind)

	damage.Update(0)
	assert.Equal(t, 14, s.PlayerHealth().HP)
	assert.Equal(t, 0, event.Count[event.MonsterKilled](s.Bus), "escapes pay no bounty")
	assert.Equal(t, 5, s.PlayerInfo().Money)

	cleanup.Update(0)
	assert.False(t, s.ECS.Alive(id))
	assert.Equal(t, 0, s.MonsterInfos.Len())

	// nothing left to move
	moving.Update(time.Second)
	assert.Equal(t, 0, event.Count[event.Damage](s.Bus))
}

func TestMovingFromSubMillisecondTicks(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0}, [2]int{0, 1})
	id, err := s.SpawnMonster(monster(s, "skeleton"), s.World.Path)
	require.NoError(t, err)
	moving := NewMovingSystem(s)

	// 1001 ticks of 999µs are 999.999ms, one short of a 1000ms hop
	for i := 0; i < 1001; i++ {
		moving.Update(999 * time.Microsecond)
	}
	pos, _ := s.Positions.Get(id)
	assert.Equal(t, component.Position{X: 0, Y: 0}, *pos)

	moving.Update(999 * time.Microsecond)
	assert.Equal(t, component.Position{X: 0, Y: 1}, *pos)
}

func TestLethalHitBeatsEscape(t *testing.T) {
	s := newTestState(t, 0, [2]int{10, 10})
	tower := towerAt(t, s, "arrow", 10, 13)
	rat := spawnAt(t, s, "rat", 10, 10)
	hp, _ := s.Healths.Get(rat)
	hp.HP = 2
	st, _ := s.Paths.Get(rat)
	st.Elapsed = st.HopTime()

	NewTowerUpdateSystem(s).Update(800 * time.Millisecond)
	NewMovingSystem(s).Update(0)
	NewDamageSystem(s).Update(0)

	assert.Equal(t, 0, event.Count[event.MonsterEscaped](s.Bus))
	assert.Equal(t, 20, s.PlayerHealth().HP)
	killed := event.Events[event.MonsterKilled](s.Bus)
	require.Len(t, killed, 1)
	assert.Equal(t, tower, killed[0].Tower)
	assert.Equal(t, 3, s.PlayerInfo().Money)
	pos, _ := s.Positions.Get(rat)
	assert.Equal(t, component.Position{X: 10, Y: 10}, *pos)
}

func TestNonLethalHitStillEscapes(t *testing.T) {
	s := newTestState(t, 0, [2]int{10, 10})
	towerAt(t, s, "arrow", 10, 13)
	rat := spawnAt(t, s, "rat", 10, 10)
	st, _ := s.Paths.Get(rat)
	st.Elapsed = st.HopTime()

	NewTowerUpdateSystem(s).Update(800 * time.Millisecond)
	NewMovingSystem(s).Update(0)
	NewDamageSystem(s).Update(0)

	escaped := event.Events[event.MonsterEscaped](s.Bus)
	require.Len(t, escaped, 1)
	assert.Equal(t, 25, escaped[0].Damage, "health at the moment it left")
	assert.Equal(t, 0, event.Count[event.MonsterKilled](s.Bus))
}
