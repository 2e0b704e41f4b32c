package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaults(t *testing.T) {
	m := DefaultMonsters()
	assert.Equal(t, 3, m.Count())
	assert.Equal(t, 1300, m.Get("ghost").Speed)
	assert.Equal(t, 1000, m.Get("skeleton").Speed)
	assert.Equal(t, 9200, m.Get("rat").Speed)

	tw := DefaultTowers()
	arrow := tw.Get("arrow")
	require.NotNil(t, arrow)
	assert.Equal(t, 2, arrow.MinRange)
	assert.Equal(t, 5, arrow.MaxRange)
	magic := tw.Get("magic")
	require.NotNil(t, magic)
	assert.Equal(t, 0, magic.MinRange)
	assert.Equal(t, 2, magic.MaxRange)
}

func TestLoadMonsterTable(t *testing.T) {
	p := writeFile(t, "monsters.yaml", `
monsters:
  - kind: bat
    image: images/bat.png
    glyph: b
    speed: 500
    hp: 3
    bounty: 2
  - kind: ogre
    speed: 4000
    hp: 40
`)
	tbl, err := LoadMonsterTable(p)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Count())
	assert.Equal(t, "bat", tbl.All()[0].Kind)
	assert.Equal(t, 40, tbl.Get("ogre").HP)
	assert.Nil(t, tbl.Get("ghost"))
}

func TestLoadMonsterTableErrors(t *testing.T) {
	_, err := LoadMonsterTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadMonsterTable(writeFile(t, "empty.yaml", "monsters: []\n"))
	assert.ErrorIs(t, err, ErrEmptyTable)

	_, err = LoadMonsterTable(writeFile(t, "bad.yaml", "monsters:\n  - kind: x\n    speed: 0\n    hp: 1\n"))
	assert.Error(t, err)

	_, err = LoadMonsterTable(writeFile(t, "junk.yaml", "monsters: [\n"))
	assert.Error(t, err)
}

func TestLoadTowerTable(t *testing.T) {
	p := writeFile(t, "towers.yaml", `
towers:
  - kind: cannon
    min_range: 1
    max_range: 4
    cost: 7
    damage: 9
    attack_interval: 2000
`)
	tbl, err := LoadTowerTable(p)
	require.NoError(t, err)
	c := tbl.Get("cannon")
	require.NotNil(t, c)
	assert.Equal(t, 7, c.Cost)
	assert.Equal(t, 2000, c.AttackInterval)

	_, err = LoadTowerTable(writeFile(t, "bad.yaml", "towers:\n  - kind: x\n    min_range: 3\n    max_range: 3\n    attack_interval: 1\n"))
	assert.Error(t, err)
}

func TestShippedTablesMatchDefaults(t *testing.T) {
	m, err := LoadMonsterTable("../../data/yaml/monster_list.yaml")
	require.NoError(t, err)
	for _, want := range DefaultMonsters().All() {
		assert.Equal(t, *want, *m.Get(want.Kind))
	}

	tw, err := LoadTowerTable("../../data/yaml/tower_list.yaml")
	require.NoError(t, err)
	for _, want := range DefaultTowers().All() {
		assert.Equal(t, *want, *tw.Get(want.Kind))
	}
}
