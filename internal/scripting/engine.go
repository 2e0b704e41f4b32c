package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for game formulas.
// Single-goroutine access only (game loop).
type Engine struct {
	vm      *lua.LState
	log     *zap.Logger
	missing map[string]bool
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. An empty dir or a missing directory yields an engine whose
// formulas all fall back to their Go defaults.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, missing: make(map[string]bool)}
	if scriptsDir == "" {
		return e, nil
	}

	// Load core scripts first, then feature scripts
	for _, sub := range []string{"core", "combat", "economy"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source in the engine's VM.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load lua chunk: %w", err)
	}
	return nil
}

// TowerDamageContext holds pre-packed data for one tower hit.
type TowerDamageContext struct {
	TowerKind  string
	BaseDamage int
	TargetKind string
	TargetHP   int
	Distance   float64
}

// CalcTowerDamage calls the Lua calc_tower_damage function. Falls back to
// BaseDamage when the function is absent or fails. Never negative.
func (e *Engine) CalcTowerDamage(ctx TowerDamageContext) int {
	t := e.vm.NewTable()
	t.RawSetString("tower_kind", lua.LString(ctx.TowerKind))
	t.RawSetString("base_damage", lua.LNumber(ctx.BaseDamage))
	t.RawSetString("target_kind", lua.LString(ctx.TargetKind))
	t.RawSetString("target_hp", lua.LNumber(ctx.TargetHP))
	t.RawSetString("distance", lua.LNumber(ctx.Distance))

	dmg, ok := e.callTableFunc("calc_tower_damage", t)
	if !ok {
		return ctx.BaseDamage
	}
	if dmg < 0 {
		return 0
	}
	return dmg
}

// BountyContext holds pre-packed data for a kill reward.
type BountyContext struct {
	MonsterKind string
	BaseBounty  int
	Distance    int // squares the monster walked before dying
	TowerKind   string
}

// CalcKillBounty calls the Lua calc_kill_bounty function. Falls back to
// BaseBounty when the function is absent or fails. Never negative.
func (e *Engine) CalcKillBounty(ctx BountyContext) int {
	t := e.vm.NewTable()
	t.RawSetString("monster_kind", lua.LString(ctx.MonsterKind))
	t.RawSetString("base_bounty", lua.LNumber(ctx.BaseBounty))
	t.RawSetString("distance", lua.LNumber(ctx.Distance))
	t.RawSetString("tower_kind", lua.LString(ctx.TowerKind))

	bounty, ok := e.callTableFunc("calc_kill_bounty", t)
	if !ok {
		return ctx.BaseBounty
	}
	if bounty < 0 {
		return 0
	}
	return bounty
}

// --- Lua helpers ---

// callTableFunc calls a global Lua function with one table argument and
// reads back a single number. ok is false when the function is not defined
// or raised an error.
func (e *Engine) callTableFunc(name string, arg *lua.LTable) (int, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		if !e.missing[name] {
			e.missing[name] = true
			e.log.Debug("lua function not defined, using default", zap.String("name", name))
		}
		return 0, false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, isNum := result.(lua.LNumber)
	if !isNum {
		e.log.Error("lua function returned non-number", zap.String("func", name))
		return 0, false
	}
	return int(n), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
