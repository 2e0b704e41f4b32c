package view

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/tdsim/tdsim/internal/component"
	"github.com/tdsim/tdsim/internal/core/ecs"
	"github.com/tdsim/tdsim/internal/game"
	"github.com/tdsim/tdsim/internal/world"
	"go.uber.org/zap"
)

// Present redraws the board from the tick's state. Called in the output
// phase, before cleanup strips the tick's markers.
func (t *Terminal) Present(state *game.State) {
	if t.Err() != nil {
		return
	}
	t.mu.Lock()
	cx, cy, sel := t.cursorX, t.cursorY, t.selected
	t.mu.Unlock()

	if state.InfoChanged.Has(state.Player) || t.status == "" {
		t.refreshStatus(state)
	}

	t.drawTerrain()
	if sel >= 0 {
		if err := t.drawRange(state, t.factories[sel], cx, cy); err != nil {
			t.log.Error("presenter stopped", zap.Error(err))
			t.fail(err)
			return
		}
	}
	t.drawEntities(state)
	if p, err := t.resolve(cx, cy); err == nil {
		r, _, _, _ := t.screen.GetContent(p.col, p.row)
		t.screen.SetContent(p.col, p.row, r, nil, styleCursor)
	}
	t.drawHeader()
	t.screen.Show()
}

func (t *Terminal) refreshStatus(state *game.State) {
	player := state.PlayerInfo()
	hp := state.PlayerHealth()
	status := fmt.Sprintf("money %d  health %d/%d", player.Money, hp.HP, hp.MaxHP)
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

func (t *Terminal) drawTerrain() {
	for x := range t.world.Map {
		for y, c := range t.world.Map[x] {
			p, err := t.resolve(x, y)
			if err != nil {
				continue
			}
			v := t.variants[x][y]
			if c == world.Dirt {
				t.put(p, dirtRunes[v], styleDirt)
			} else {
				t.put(p, grassRunes[v], styleGrass)
			}
		}
	}
}

// drawRange highlights the squares the selected factory's tower would reach
// from (x, y).
func (t *Terminal) drawRange(state *game.State, factory ecs.EntityID, x, y int) error {
	f, ok := state.Factories.Get(factory)
	if !ok {
		return nil
	}
	for _, sq := range t.world.CellsInRange(x, y, float64(f.MinRange), float64(f.MaxRange)) {
		p, err := t.resolve(sq[0], sq[1])
		if err != nil {
			return err
		}
		r, _, _, _ := t.screen.GetContent(p.col, p.row)
		t.put(p, r, styleHighlight)
	}
	return nil
}

func (t *Terminal) drawEntities(state *game.State) {
	for _, id := range state.ECS.Query(component.NamePosition, component.NameDrawable) {
		pos, _ := state.Positions.Get(id)
		if pos.OffMap() || !t.world.Contains(pos.X, pos.Y) {
			continue
		}
		d, _ := state.Drawables.Get(id)
		style := styleTower
		if state.MonsterInfos.Has(id) {
			style = styleMonster
		}
		if state.Destroyed.Has(id) {
			style = style.Dim(true)
		}
		if p, err := t.resolve(pos.X, pos.Y); err == nil {
			t.put(p, d.Glyph, style)
		}
	}
}

func (t *Terminal) drawHeader() {
	t.mu.Lock()
	line := t.status
	if t.selected >= 0 {
		line += fmt.Sprintf("  [build %d]", t.selected+1)
	}
	if t.message != "" {
		line += "  " + t.message
	}
	t.mu.Unlock()

	w, _ := t.screen.Size()
	col := 0
	for _, r := range line {
		if col >= w {
			break
		}
		t.screen.SetContent(col, 0, r, nil, styleStatus)
		col++
	}
	for ; col < w; col++ {
		t.screen.SetContent(col, 0, ' ', nil, tcell.StyleDefault)
	}
}
