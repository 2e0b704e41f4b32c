package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdsim/tdsim/internal/core/event"
)

func TestDamageFloorsAtZeroAndDestroysOnce(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	tower := towerAt(t, s, "arrow", 3, 3)
	ghost := spawnAt(t, s, "ghost", 3, 6)

	event.Emit(s.Bus, event.Damage{Source: tower, Target: ghost, Amount: 7})
	event.Emit(s.Bus, event.Damage{Source: tower, Target: ghost, Amount: 7})
	event.Emit(s.Bus, event.Damage{Source: tower, Target: ghost, Amount: 7})
	NewDamageSystem(s).Update(0)

	hp, _ := s.Healths.Get(ghost)
	assert.Equal(t, 0, hp.HP)
	assert.True(t, s.Destroyed.Has(ghost))
	assert.True(t, s.InfoChanged.Has(ghost))

	killed := event.Events[event.MonsterKilled](s.Bus)
	require.Len(t, killed, 1)
	assert.Equal(t, tower, killed[0].Tower)
	assert.Equal(t, 1, killed[0].Bounty)
	assert.Equal(t, 6, s.PlayerInfo().Money)
	assert.True(t, s.InfoChanged.Has(s.Player))

	info, _ := s.MonsterInfos.Get(ghost)
	assert.True(t, info.Killed)
	assert.True(t, info.Destroyed)
}

func TestDamageWithoutTowerPaysNothing(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	rat := spawnAt(t, s, "rat", 3, 6)

	event.Emit(s.Bus, event.Damage{Source: s.Player, Target: rat, Amount: 100})
	NewDamageSystem(s).Update(0)

	assert.True(t, s.Destroyed.Has(rat))
	assert.Equal(t, 5, s.PlayerInfo().Money)
	assert.Equal(t, 0, event.Count[event.MonsterKilled](s.Bus))
}

func TestDamageIgnoresEvictedTargets(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	rat := spawnAt(t, s, "rat", 3, 6)
	s.Destroy(rat)
	NewCleanupSystem(s).Update(0)

	event.Emit(s.Bus, event.Damage{Source: s.Player, Target: rat, Amount: 1})
	assert.NotPanics(t, func() { NewDamageSystem(s).Update(0) })
	assert.Equal(t, 0, s.InfoChanged.Len())
}

func TestPlayerDefeat(t *testing.T) {
	s := newTestState(t, 5, [2]int{0, 0})
	rat := spawnAt(t, s, "rat", 0, 0)

	event.Emit(s.Bus, event.Damage{Source: rat, Target: s.Player, Amount: 25})
	NewDamageSystem(s).Update(0)

	assert.Equal(t, 0, s.PlayerHealth().HP)
	assert.True(t, s.Over())
	NewCleanupSystem(s).Update(0)
	assert.True(t, s.ECS.Alive(s.Player))
}

func TestBountyFormula(t *testing.T) {
	s := newTestState(t, 0, [2]int{0, 0})
	require.NoError(t, s.Formulas.LoadString(`
function calc_kill_bounty(ctx)
  if ctx.tower_kind == "magic" then return ctx.base_bounty * 4 end
  return ctx.base_bounty
end
`))
	tower := towerAt(t, s, "magic", 3, 3)
	rat := spawnAt(t, s, "rat", 3, 4)

	event.Emit(s.Bus, event.Damage{Source: tower, Target: rat, Amount: 25})
	NewDamageSystem(s).Update(0)
	assert.Equal(t, 12, s.PlayerInfo().Money)
}
