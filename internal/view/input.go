package view

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/tdsim/tdsim/internal/component"
	"go.uber.org/zap"
)

// Run polls terminal events until ctx is done, the user quits (q, Esc,
// Ctrl-C) or the presenter fails. stop is called on quit so the game loop
// ends too. Returns the presenter error, if any.
func (t *Terminal) Run(ctx context.Context, stop context.CancelFunc) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return t.Err()
		case <-t.failed:
			stop()
			return t.Err()
		case ev, ok := <-events:
			if !ok {
				return t.Err()
			}
			if t.handle(ev) {
				stop()
				return t.Err()
			}
		}
	}
}

// handle applies one event and reports whether the user asked to quit.
func (t *Terminal) handle(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		if _, resize := ev.(*tcell.EventResize); resize {
			t.screen.Sync()
		}
		return false
	}

	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		t.moveCursor(-1, 0)
	case tcell.KeyDown:
		t.moveCursor(1, 0)
	case tcell.KeyLeft:
		t.moveCursor(0, -1)
	case tcell.KeyRight:
		t.moveCursor(0, 1)
	case tcell.KeyEnter:
		t.place()
	case tcell.KeyRune:
		switch r := key.Rune(); {
		case r == 'q':
			return true
		case r == ' ':
			t.place()
		case r >= '1' && r <= '9':
			t.selectFactory(int(r - '1'))
		}
	}
	return false
}

// moveCursor moves the cursor by (dx rows, dy columns), clamped to the map,
// and drags the selected factory's preview along.
func (t *Terminal) moveCursor(dx, dy int) {
	t.mu.Lock()
	nx, ny := t.cursorX+dx, t.cursorY+dy
	if !t.world.Contains(nx, ny) {
		t.mu.Unlock()
		return
	}
	t.cursorX, t.cursorY = nx, ny
	sel := t.selected
	t.mu.Unlock()

	if sel >= 0 {
		if err := t.ctrl.Hover(t.factories[sel], nx, ny); err != nil {
			t.log.Warn("hover request dropped", zap.Error(err))
		}
	}
}

// selectFactory toggles factory i like the build menu: selecting the current
// one deselects it, selecting another swaps.
func (t *Terminal) selectFactory(i int) {
	if i < 0 || i >= len(t.factories) {
		return
	}
	t.mu.Lock()
	prev := t.selected
	if prev == i {
		t.selected = -1
	} else {
		t.selected = i
	}
	sel, cx, cy := t.selected, t.cursorX, t.cursorY
	t.mu.Unlock()

	if prev >= 0 {
		_ = t.ctrl.Hover(t.factories[prev], component.Offscreen, component.Offscreen)
	}
	if sel >= 0 {
		_ = t.ctrl.Hover(t.factories[sel], cx, cy)
	}
}

func (t *Terminal) place() {
	t.mu.Lock()
	sel, cx, cy := t.selected, t.cursorX, t.cursorY
	t.mu.Unlock()
	if sel < 0 {
		return
	}
	if err := t.ctrl.PlaceTower(t.factories[sel], cx, cy); err != nil {
		t.log.Warn("tower request dropped", zap.Error(err))
	}
}
