package system

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tdsim/tdsim/internal/core/ecs"
	"github.com/tdsim/tdsim/internal/data"
	"github.com/tdsim/tdsim/internal/game"
	"github.com/tdsim/tdsim/internal/scripting"
	"github.com/tdsim/tdsim/internal/world"
)

// newTestState builds a 20x20 grass map whose path follows coords.
func newTestState(t *testing.T, money int, coords ...[2]int) *game.State {
	t.Helper()
	m := make([][]world.Cell, 20)
	for x := range m {
		m[x] = make([]world.Cell, 20)
	}
	for _, c := range coords {
		m[c[0]][c[1]] = world.Dirt
	}
	formulas, err := scripting.NewEngine("", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(formulas.Close)

	s, err := game.NewState(game.Options{
		World:        &world.World{Map: m, Path: world.NewPath(coords...)},
		Formulas:     formulas,
		Log:          zap.NewNop(),
		StartMoney:   money,
		PlayerHealth: 20,
	})
	require.NoError(t, err)
	return s
}

func spawnAt(t *testing.T, s *game.State, kind string, x, y int) ecs.EntityID {
	t.Helper()
	id, err := s.SpawnMonster(s.Monsters.Get(kind), world.NewPath([2]int{x, y}))
	require.NoError(t, err)
	return id
}

func towerAt(t *testing.T, s *game.State, kind string, x, y int) ecs.EntityID {
	t.Helper()
	tpl := s.Towers.Get(kind)
	require.NotNil(t, tpl, "tower %s", kind)
	id, err := s.SpawnTower(tpl, x, y)
	require.NoError(t, err)
	return id
}

func monster(s *game.State, kind string) *data.MonsterTemplate {
	return s.Monsters.Get(kind)
}
