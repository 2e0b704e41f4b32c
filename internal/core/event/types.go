package event

import "github.com/tdsim/tdsim/internal/core/ecs"

// Damage instructs DamageSystem to subtract Amount from Target's health.
// Source is the tower or monster responsible.
type Damage struct {
	Source ecs.EntityID
	Target ecs.EntityID
	Amount int
}

// TowerCreated asks TowerCreationSystem to build a tower from Factory's
// blueprint at (X, Y).
type TowerCreated struct {
	Factory ecs.EntityID
	X, Y    int
}

// Notifications below are emitted for observers (journal, presenters);
// no system depends on them.

type MonsterSpawned struct {
	Entity ecs.EntityID
	Kind   string
}

type MonsterKilled struct {
	Entity ecs.EntityID
	Kind   string
	Tower  ecs.EntityID
	Bounty int
}

type MonsterEscaped struct {
	Entity ecs.EntityID
	Kind   string
	Damage int
}

type TowerBuilt struct {
	Entity ecs.EntityID
	Kind   string
	X, Y   int
	Cost   int
}

type PurchaseRejected struct {
	Kind  string
	Cost  int
	Money int
}

// FactoryHover moves a factory entity's preview to (X, Y); (-1, -1) hides it.
// Queued by presenters like TowerCreated.
type FactoryHover struct {
	Factory ecs.EntityID
	X, Y    int
}
