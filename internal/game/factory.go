package game

import (
	"fmt"

	"github.com/tdsim/tdsim/internal/component"
	"github.com/tdsim/tdsim/internal/core/ecs"
	"github.com/tdsim/tdsim/internal/data"
	"github.com/tdsim/tdsim/internal/world"
)

func glyph(s string, fallback rune) rune {
	for _, r := range s {
		return r
	}
	return fallback
}

// SpawnMonster creates a monster from tpl standing on the first square of
// path. It carries an OldPosition so presenters draw it on its first tick.
func (s *State) SpawnMonster(tpl *data.MonsterTemplate, path *world.Path) (ecs.EntityID, error) {
	if path == nil || path.Start == nil {
		return 0, fmt.Errorf("spawn %s: empty path", tpl.Kind)
	}
	start := path.Start
	id := s.ECS.CreateEntity()
	s.Paths.Set(id, &component.PathState{Speed: tpl.Speed, Node: start})
	s.Drawables.Set(id, &component.Drawable{Image: tpl.Image, Glyph: glyph(tpl.Glyph, 'm')})
	s.Positions.Set(id, &component.Position{X: start.X, Y: start.Y})
	s.OldPositions.Set(id, &component.OldPosition{X: start.X, Y: start.Y})
	s.Healths.Set(id, &component.Health{HP: tpl.HP, MaxHP: tpl.HP})
	s.MonsterInfos.Set(id, &component.MonsterInfo{Kind: tpl.Kind, Bounty: tpl.Bounty})
	return id, nil
}

// SpawnTower creates an active tower from tpl at (x, y).
func (s *State) SpawnTower(tpl *data.TowerTemplate, x, y int) (ecs.EntityID, error) {
	if !s.World.Contains(x, y) {
		return 0, fmt.Errorf("spawn %s tower at %d,%d: off map", tpl.Kind, x, y)
	}
	id := s.ECS.CreateEntity()
	s.Drawables.Set(id, &component.Drawable{Image: tpl.Image, Glyph: glyph(tpl.Glyph, 'T')})
	s.Positions.Set(id, &component.Position{X: x, Y: y})
	s.OldPositions.Set(id, &component.OldPosition{X: x, Y: y})
	s.TowerStore.Set(id, &component.Tower{
		Kind:           tpl.Kind,
		MinRange:       tpl.MinRange,
		MaxRange:       tpl.MaxRange,
		AttackInterval: tpl.AttackInterval,
		Damage:         tpl.Damage,
	})
	return id, nil
}

// NewTowerFactory creates the placeable blueprint entity for tpl. It sits
// off the map until a presenter moves it under the cursor.
func (s *State) NewTowerFactory(tpl *data.TowerTemplate) ecs.EntityID {
	id := s.ECS.CreateEntity()
	s.Drawables.Set(id, &component.Drawable{Image: tpl.Image, Glyph: glyph(tpl.Glyph, 'T')})
	s.Positions.Set(id, &component.Position{X: component.Offscreen, Y: component.Offscreen})
	s.Factories.Set(id, &component.TowerFactory{
		Create: func(x, y int) (ecs.EntityID, error) {
			return s.SpawnTower(tpl, x, y)
		},
		Kind:     tpl.Kind,
		MinRange: tpl.MinRange,
		MaxRange: tpl.MaxRange,
		Cost:     tpl.Cost,
	})
	return id
}

// FactoryByKind finds the factory entity building kind.
func (s *State) FactoryByKind(kind string) (ecs.EntityID, bool) {
	var found ecs.EntityID
	s.Factories.Each(func(id ecs.EntityID, f *component.TowerFactory) {
		if found.IsZero() && f.Kind == kind {
			found = id
		}
	})
	return found, !found.IsZero()
}
