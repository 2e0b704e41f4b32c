package component

import (
	"time"

	"github.com/tdsim/tdsim/internal/core/ecs"
)

// Health holds current hit points, never below zero.
type Health struct {
	HP    int
	MaxHP int
}

func (Health) Name() string { return NameHealth }

// MonsterInfo is presentation bookkeeping for a monster. Destroyed is set when
// the monster leaves play for any reason, Killed only when a tower finished it.
type MonsterInfo struct {
	Kind      string
	Distance  int // squares walked
	Bounty    int
	Destroyed bool
	Killed    bool
}

func (MonsterInfo) Name() string { return NameMonsterInfo }

// PlayerInfo lives on the player singleton.
type PlayerInfo struct {
	Money int
}

func (PlayerInfo) Name() string { return NamePlayerInfo }

// CreateTowerFunc builds a tower entity at (x, y) and returns it.
type CreateTowerFunc func(x, y int) (ecs.EntityID, error)

// TowerFactory is a placeable tower blueprint carried by a factory entity.
type TowerFactory struct {
	Create   CreateTowerFunc
	Kind     string
	MinRange int
	MaxRange int
	Cost     int
}

func (TowerFactory) Name() string { return NameTowerFactory }

// Tower is active combat behavior. AttackInterval is milliseconds; Timer is
// the charge accumulated since the last shot.
type Tower struct {
	Kind           string
	MinRange       int
	MaxRange       int
	AttackInterval int
	Timer          time.Duration
	Damage         int
}

// Interval is AttackInterval as a duration.
func (t *Tower) Interval() time.Duration {
	return time.Duration(t.AttackInterval) * time.Millisecond
}

func (Tower) Name() string { return NameTower }

// InfoChanged marks an entity whose displayed info must be refreshed. Transient.
type InfoChanged struct{}

func (InfoChanged) Name() string { return NameInfoChanged }

// Destroy marks an entity leaving play this tick. Transient.
type Destroy struct{}

func (Destroy) Name() string { return NameDestroy }
