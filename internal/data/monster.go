package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrEmptyTable = errors.New("table has no entries")

// MonsterTemplate holds static data for one monster archetype.
type MonsterTemplate struct {
	Kind   string `yaml:"kind"`
	Image  string `yaml:"image"`
	Glyph  string `yaml:"glyph"`
	Speed  int    `yaml:"speed"` // ms per path square
	HP     int    `yaml:"hp"`
	Bounty int    `yaml:"bounty"`
}

type monsterListFile struct {
	Monsters []MonsterTemplate `yaml:"monsters"`
}

// MonsterTable holds monster templates in file order.
type MonsterTable struct {
	templates []*MonsterTemplate
	byKind    map[string]*MonsterTemplate
}

// DefaultMonsters is the built-in ghost / skeleton / rat roster.
func DefaultMonsters() *MonsterTable {
	return newMonsterTable([]MonsterTemplate{
		{Kind: "ghost", Image: "images/ghost.png", Glyph: "G", Speed: 1300, HP: 10, Bounty: 1},
		{Kind: "skeleton", Image: "images/skeleton.png", Glyph: "S", Speed: 1000, HP: 6, Bounty: 1},
		{Kind: "rat", Image: "images/rat.png", Glyph: "r", Speed: 9200, HP: 25, Bounty: 3},
	})
}

// LoadMonsterTable loads monster templates from a YAML file.
func LoadMonsterTable(path string) (*MonsterTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read monster list %s: %w", path, err)
	}
	var f monsterListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse monster list: %w", err)
	}
	if len(f.Monsters) == 0 {
		return nil, fmt.Errorf("monster list %s: %w", path, ErrEmptyTable)
	}
	for i, m := range f.Monsters {
		if m.Kind == "" || m.Speed <= 0 || m.HP <= 0 {
			return nil, fmt.Errorf("monster list entry %d: kind, speed and hp are required", i)
		}
	}
	return newMonsterTable(f.Monsters), nil
}

func newMonsterTable(list []MonsterTemplate) *MonsterTable {
	t := &MonsterTable{
		templates: make([]*MonsterTemplate, 0, len(list)),
		byKind:    make(map[string]*MonsterTemplate, len(list)),
	}
	for i := range list {
		m := &list[i]
		t.templates = append(t.templates, m)
		t.byKind[m.Kind] = m
	}
	return t
}

func (t *MonsterTable) Get(kind string) *MonsterTemplate {
	return t.byKind[kind]
}

// All returns the templates in file order.
func (t *MonsterTable) All() []*MonsterTemplate {
	return t.templates
}

func (t *MonsterTable) Count() int {
	return len(t.templates)
}
