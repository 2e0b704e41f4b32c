package sim

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Loop drives a Simulation from a ticker. Each tick runs to completion before
// the next is taken; ticks the loop falls behind on are dropped by the
// ticker, never overlapped.
type Loop struct {
	sim       *Simulation
	tickRate  time.Duration
	fixedStep time.Duration
	log       *zap.Logger
}

// NewLoop creates a loop ticking every tickRate. With fixedStep > 0 the
// elapsed wall-clock time is accumulated and fed to the simulation in
// fixedStep slices; otherwise each tick advances by the measured elapsed time.
func NewLoop(sim *Simulation, tickRate, fixedStep time.Duration, log *zap.Logger) *Loop {
	return &Loop{sim: sim, tickRate: tickRate, fixedStep: fixedStep, log: log}
}

// Run ticks until ctx is done or the match has an outcome, which it returns.
func (l *Loop) Run(ctx context.Context) Outcome {
	ticker := time.NewTicker(l.tickRate)
	defer ticker.Stop()

	prev := time.Now()
	var acc time.Duration
	for {
		select {
		case <-ctx.Done():
			l.log.Info("game loop stopped", zap.Uint64("ticks", l.sim.Ticks()))
			return l.sim.Outcome()
		case now := <-ticker.C:
			dt := now.Sub(prev)
			prev = now
			l.step(dt, &acc)
			if out := l.sim.Outcome(); out != Running {
				l.log.Info("match over",
					zap.String("outcome", string(out)),
					zap.Uint64("ticks", l.sim.Ticks()))
				return out
			}
		}
	}
}

func (l *Loop) step(dt time.Duration, acc *time.Duration) {
	if l.fixedStep <= 0 {
		l.sim.Advance(dt)
		return
	}
	*acc += dt
	for *acc >= l.fixedStep {
		l.sim.Advance(l.fixedStep)
		*acc -= l.fixedStep
		if l.sim.Outcome() != Running {
			return
		}
	}
}
