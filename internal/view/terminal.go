package view

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/tdsim/tdsim/internal/core/ecs"
	"github.com/tdsim/tdsim/internal/core/event"
	"github.com/tdsim/tdsim/internal/game"
	"github.com/tdsim/tdsim/internal/world"
	"go.uber.org/zap"
)

// ErrAmbiguousCell means a map square resolved to zero or several screen
// cells. The map-to-screen table is built 1:1, so this is a construction bug.
var ErrAmbiguousCell = errors.New("map square does not map to exactly one screen cell")

// Controller is the simulation's input surface.
type Controller interface {
	PlaceTower(factory ecs.EntityID, x, y int) error
	Hover(factory ecs.EntityID, x, y int) error
}

type screenPos struct {
	col, row int
}

const (
	headerRows = 1
	cellWidth  = 2
)

var (
	styleGrass     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDirt      = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleHighlight = tcell.StyleDefault.Background(tcell.ColorDarkGreen)
	styleMonster   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleTower     = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleCursor    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

var grassRunes = map[int]rune{1: '.', 2: ',', 3: ' '}
var dirtRunes = map[int]rune{1: ':', 2: '░', 3: '▒'}

// Terminal draws the board with tcell and turns key presses into tower
// placement and hover requests. Present runs on the game loop goroutine,
// input handling on Run's goroutine; they share only the cursor.
type Terminal struct {
	screen    tcell.Screen
	world     *world.World
	ctrl      Controller
	factories []ecs.EntityID
	variants  [][]int
	cells     map[[2]int][]screenPos
	log       *zap.Logger

	mu       sync.Mutex
	cursorX  int
	cursorY  int
	selected int // index into factories, -1 = none
	status   string
	message  string
	err      error
	failed   chan struct{}
	failOnce sync.Once
}

// New initialises screen and prepares the static board. The caller owns
// screen and must call Close.
func New(screen tcell.Screen, w *world.World, factories []ecs.EntityID, ctrl Controller, r *rand.Rand, log *zap.Logger) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	t := &Terminal{
		screen:    screen,
		world:     w,
		ctrl:      ctrl,
		factories: factories,
		variants:  world.Decorate(w, r),
		cells:     make(map[[2]int][]screenPos, w.Size()*w.Size()),
		log:       log,
		selected:  -1,
		failed:    make(chan struct{}),
	}
	for x := range w.Map {
		for y := range w.Map[x] {
			t.cells[[2]int{x, y}] = append(t.cells[[2]int{x, y}], screenPos{col: y * cellWidth, row: x + headerRows})
		}
	}
	return t, nil
}

// Subscribe hooks the terminal's message line to the state's notifications.
func (t *Terminal) Subscribe(state *game.State) {
	event.Subscribe(state.Bus, func(ev event.MonsterKilled) {
		t.setMessage(fmt.Sprintf("%s slain (+%d)", ev.Kind, ev.Bounty))
	})
	event.Subscribe(state.Bus, func(ev event.MonsterEscaped) {
		t.setMessage(fmt.Sprintf("%s got through (-%d)", ev.Kind, ev.Damage))
	})
	event.Subscribe(state.Bus, func(ev event.PurchaseRejected) {
		t.setMessage(fmt.Sprintf("not enough money for %s (%d/%d)", ev.Kind, ev.Money, ev.Cost))
	})
}

func (t *Terminal) setMessage(msg string) {
	t.mu.Lock()
	t.message = msg
	t.mu.Unlock()
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// Err returns the error that stopped the presenter, if any.
func (t *Terminal) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Terminal) fail(err error) {
	t.failOnce.Do(func() {
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
		close(t.failed)
	})
}

// resolve maps a map square to its single screen cell.
func (t *Terminal) resolve(x, y int) (screenPos, error) {
	handles := t.cells[[2]int{x, y}]
	if len(handles) != 1 {
		return screenPos{}, fmt.Errorf("square %d,%d has %d handles: %w", x, y, len(handles), ErrAmbiguousCell)
	}
	return handles[0], nil
}

func (t *Terminal) put(p screenPos, r rune, style tcell.Style) {
	t.screen.SetContent(p.col, p.row, r, nil, style)
	t.screen.SetContent(p.col+1, p.row, ' ', nil, style)
}
