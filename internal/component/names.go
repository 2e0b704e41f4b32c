package component

// Slot names. Each component's Name() returns one of these, and the ECS
// registers one store per name.
const (
	NamePosition     = "position"
	NameOldPosition  = "oldPosition"
	NamePathState    = "path"
	NameDrawable     = "drawable"
	NameHealth       = "health"
	NameMonsterInfo  = "monsterInfo"
	NamePlayerInfo   = "playerInfo"
	NameTowerFactory = "towerFactory"
	NameTower        = "tower"
	NameInfoChanged  = "infoChanged"
	NameDestroy      = "destroy"
)

// Transient lists the slots stripped from every entity at the end of each tick.
var Transient = []string{NameOldPosition, NameInfoChanged, NameDestroy}
