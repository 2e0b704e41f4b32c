package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TowerTemplate holds static data for one tower blueprint.
type TowerTemplate struct {
	Kind           string `yaml:"kind"`
	Image          string `yaml:"image"`
	Glyph          string `yaml:"glyph"`
	MinRange       int    `yaml:"min_range"`
	MaxRange       int    `yaml:"max_range"`
	Cost           int    `yaml:"cost"`
	Damage         int    `yaml:"damage"`
	AttackInterval int    `yaml:"attack_interval"` // ms
}

type towerListFile struct {
	Towers []TowerTemplate `yaml:"towers"`
}

// TowerTable holds tower templates in file order.
type TowerTable struct {
	templates []*TowerTemplate
	byKind    map[string]*TowerTemplate
}

// DefaultTowers is the built-in arrow / magic pair.
func DefaultTowers() *TowerTable {
	return newTowerTable([]TowerTemplate{
		{Kind: "arrow", Image: "images/arrowTower1.png", Glyph: "A", MinRange: 2, MaxRange: 5, Cost: 3, Damage: 2, AttackInterval: 800},
		{Kind: "magic", Image: "images/magicTower1.png", Glyph: "M", MinRange: 0, MaxRange: 2, Cost: 5, Damage: 5, AttackInterval: 1500},
	})
}

// LoadTowerTable loads tower templates from a YAML file.
func LoadTowerTable(path string) (*TowerTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tower list %s: %w", path, err)
	}
	var f towerListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse tower list: %w", err)
	}
	if len(f.Towers) == 0 {
		return nil, fmt.Errorf("tower list %s: %w", path, ErrEmptyTable)
	}
	for i, tw := range f.Towers {
		if tw.Kind == "" || tw.MaxRange <= tw.MinRange || tw.AttackInterval <= 0 {
			return nil, fmt.Errorf("tower list entry %d: kind, attack_interval and max_range > min_range are required", i)
		}
	}
	return newTowerTable(f.Towers), nil
}

func newTowerTable(list []TowerTemplate) *TowerTable {
	t := &TowerTable{
		templates: make([]*TowerTemplate, 0, len(list)),
		byKind:    make(map[string]*TowerTemplate, len(list)),
	}
	for i := range list {
		tw := &list[i]
		t.templates = append(t.templates, tw)
		t.byKind[tw.Kind] = tw
	}
	return t
}

func (t *TowerTable) Get(kind string) *TowerTemplate {
	return t.byKind[kind]
}

func (t *TowerTable) All() []*TowerTemplate {
	return t.templates
}

func (t *TowerTable) Count() int {
	return len(t.templates)
}
