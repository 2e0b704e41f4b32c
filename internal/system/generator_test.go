package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdsim/tdsim/internal/component"
	"github.com/tdsim/tdsim/internal/core/event"
)

func TestGeneratorSpawnsEveryInterval(t *testing.T) {
	s := newTestState(t, 0, [2]int{2, 3}, [2]int{2, 4})
	gen := NewGeneratorSystem(s, 3*time.Second, 2)
	cleanup := NewCleanupSystem(s)

	gen.Update(time.Second)
	gen.Update(time.Second)
	assert.Equal(t, 0, gen.Spawned())

	gen.Update(time.Second)
	require.Equal(t, 1, gen.Spawned())
	spawned := event.Events[event.MonsterSpawned](s.Bus)
	require.Len(t, spawned, 1)
	pos, _ := s.Positions.Get(spawned[0].Entity)
	assert.Equal(t, component.Position{X: 2, Y: 3}, *pos)
	assert.True(t, s.OldPositions.Has(spawned[0].Entity))
	assert.NotNil(t, s.Monsters.Get(spawned[0].Kind))
	cleanup.Update(0)

	gen.Update(3 * time.Second)
	assert.Equal(t, 2, gen.Spawned())
	assert.True(t, gen.Done())

	cleanup.Update(0)
	for i := 0; i < 10; i++ {
		gen.Update(3 * time.Second)
	}
	assert.Equal(t, 2, gen.Spawned())
	assert.Equal(t, 2, s.MonsterInfos.Len())
	assert.Equal(t, 0, event.Count[event.MonsterSpawned](s.Bus))
}

func TestGeneratorZeroLimit(t *testing.T) {
	s := newTestState(t, 0, [2]int{0, 0})
	gen := NewGeneratorSystem(s, time.Millisecond, 0)
	gen.Update(time.Second)
	assert.True(t, gen.Done())
	assert.Equal(t, 0, s.MonsterInfos.Len())
}
