package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/tdsim/tdsim/internal/config"
	"github.com/tdsim/tdsim/internal/data"
	"github.com/tdsim/tdsim/internal/persist"
	"github.com/tdsim/tdsim/internal/scripting"
	"github.com/tdsim/tdsim/internal/sim"
	"github.com/tdsim/tdsim/internal/view"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	headless := flag.Bool("headless", false, "run without the terminal view")
	flag.Parse()

	if err := run(*headless); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              tdsim  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       tower defense simulation core       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main logic ─────────────────────────────────────────────────────

func run(headless bool) error {
	// 1. Load config
	cfgPath := "config/tdsim.toml"
	if p := os.Getenv("TDSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger. The terminal view owns stdout, so logs go to a file.
	logFile := ""
	if !headless {
		logFile = cfg.Logging.File
	}
	log, err := newLogger(cfg.Logging, logFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch cfg.Debug.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Debug.ProfileDir), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(cfg.Debug.ProfileDir), profile.Quiet).Stop()
	}

	printBanner()

	// 3. Load data tables and formulas
	printSection("data")
	monsters := data.DefaultMonsters()
	if cfg.Data.Monsters != "" {
		if monsters, err = data.LoadMonsterTable(cfg.Data.Monsters); err != nil {
			return fmt.Errorf("load monster table: %w", err)
		}
	}
	printStat("monster kinds", monsters.Count())

	towers := data.DefaultTowers()
	if cfg.Data.Towers != "" {
		if towers, err = data.LoadTowerTable(cfg.Data.Towers); err != nil {
			return fmt.Errorf("load tower table: %w", err)
		}
	}
	printStat("tower kinds", towers.Count())

	lua, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer lua.Close()
	printOK("formulas loaded")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Optional match journal
	matchID := uuid.New()
	var journal *persist.JournalRepo
	if cfg.Journal.Enabled {
		printSection("journal")
		connCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		db, err := persist.Open(connCtx, cfg.Journal, log)
		cancel()
		if err != nil {
			return fmt.Errorf("journal database: %w", err)
		}
		defer db.Close()
		journal = persist.NewJournalRepo(db)
		printOK("PostgreSQL journal ready")
		fmt.Println()
	}

	// 5. Build the simulation
	opts := sim.Options{
		Config:   cfg,
		Monsters: monsters,
		Towers:   towers,
		Formulas: lua,
		Log:      log,
		MatchID:  matchID,
	}
	if journal != nil {
		opts.Journal = journal
	}
	s, err := sim.New(opts)
	if err != nil {
		return err
	}
	printStat("path squares", s.WorldMap().Path.Len())

	if journal != nil {
		if err := journal.BeginMatch(ctx, matchID, s.Seed(), time.Now()); err != nil {
			return err
		}
	}

	printSection("ready")
	printOK(fmt.Sprintf("match %s (seed %d, tick %s)", matchID, s.Seed(), cfg.Simulation.TickRate))
	fmt.Println()

	// 6. Attach the terminal view
	loopCtx, cancelLoop := context.WithCancel(ctx)
	defer cancelLoop()
	viewErr := make(chan error, 1)
	if !headless {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		term, err := view.New(screen, s.WorldMap(), s.Factories(), s, rand.New(rand.NewSource(s.Seed())), log)
		if err != nil {
			return err
		}
		defer term.Close()
		term.Subscribe(s.State())
		s.AddPresenter(term)
		go func() { viewErr <- term.Run(loopCtx, cancelLoop) }()
	}

	// 7. Game loop
	outcome := sim.NewLoop(s, cfg.Simulation.TickRate, cfg.Simulation.FixedStep, log).Run(loopCtx)
	cancelLoop()

	if journal != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.FlushJournal(flushCtx); err != nil {
			log.Error("final journal flush failed", zap.Error(err))
		}
		result := string(outcome)
		if outcome == sim.Running {
			result = "aborted"
		}
		if err := journal.EndMatch(flushCtx, matchID, result, s.Ticks()); err != nil {
			log.Error("journal end match failed", zap.Error(err))
		}
	}

	if !headless {
		if err := <-viewErr; err != nil {
			return fmt.Errorf("terminal view: %w", err)
		}
	}
	log.Info("tdsim stopped", zap.String("outcome", string(outcome)), zap.Uint64("ticks", s.Ticks()))
	return nil
}

func newLogger(cfg config.LoggingConfig, file string) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if file != "" {
		zapCfg.OutputPaths = []string{file}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return zapCfg.Build()
}
