package race

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pobstone/racesim/log"
	"github.com/pobstone/racesim/pkg/model"
)

const (
	tickRate = 60 // engine ticks per wall-clock second

	minSpeedMultiplier = 0.1
	maxSpeedMultiplier = 10.0
)

// Runner drives one Engine on a fixed wall-clock ticker. All engine
// access is confined to the run loop goroutine; control methods hand
// closures to that loop and readers consume the published snapshot,
// so the engine itself never needs a lock.
type Runner struct {
	engine *Engine
	l      *log.Logger

	speed  float64
	paused bool

	snapshot atomic.Pointer[model.RaceSnapshot]
	commands chan func()
	events   chan model.Event
	feed     chan *model.RaceSnapshot
	done     chan struct{}
}

type RunnerOption func(*Runner)

// WithSpeedMultiplier sets the initial time-scale factor. Values are
// clamped to [0.1, 10] like any later SetSpeed call.
func WithSpeedMultiplier(m float64) RunnerOption {
	return func(r *Runner) { r.speed = clampSpeed(m) }
}

func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) { r.l = l }
}

// NewRunner builds the engine for def and wraps it in a run loop. The
// engine's event sink feeds the runner's Events channel; slow or
// absent consumers lose events rather than stalling the simulation.
func NewRunner(def *model.RaceDefinition, opts []RunnerOption, engineOpts ...Option) (
	*Runner, error,
) {
	r := &Runner{
		l:        log.Default(),
		speed:    1.0,
		commands: make(chan func()),
		events:   make(chan model.Event, 256),
		feed:     make(chan *model.RaceSnapshot, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	engineOpts = append(engineOpts, WithEventSink(func(ev model.Event) {
		select {
		case r.events <- ev:
		default:
			r.l.Warn("event dropped, consumer too slow",
				log.String("kind", ev.EventKind()))
		}
	}))
	engine, err := NewEngine(def, engineOpts...)
	if err != nil {
		return nil, err
	}
	r.engine = engine
	r.snapshot.Store(engine.Snapshot(false))
	return r, nil
}

// Run blocks until ctx is canceled. It owns the engine exclusively.
func (r *Runner) Run(ctx context.Context) {
	defer close(r.done)
	defer close(r.events)

	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	last := time.Now()
	r.l.Info("race started",
		log.String("name", r.engine.def.Name),
		log.Int("laps", r.engine.def.TotalLaps),
		log.Int("cars", len(r.engine.cars)),
	)
	for {
		select {
		case <-ctx.Done():
			r.l.Info("race runner stopped", log.Float64("raceClock", r.engine.clock))
			return
		case cmd := <-r.commands:
			cmd()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if r.paused {
				// keep `last` current so paused wall time never
				// enters the race clock on resume
				continue
			}
			r.engine.Tick(dt * r.speed)
			r.publish()
		}
	}
}

// publish runs on the loop goroutine only.
func (r *Runner) publish() {
	snap := r.engine.Snapshot(r.paused)
	r.snapshot.Store(snap)
	select {
	case r.feed <- snap:
	default:
		// feed holds the latest snapshot only; drop the stale one
		select {
		case <-r.feed:
		default:
		}
		select {
		case r.feed <- snap:
		default:
		}
	}
}

func (r *Runner) do(cmd func()) {
	select {
	case r.commands <- cmd:
	case <-r.done:
	}
}

func (r *Runner) Pause() {
	r.do(func() {
		r.paused = true
		r.publish()
		r.l.Info("race paused", log.Float64("raceClock", r.engine.clock))
	})
}

func (r *Runner) Resume() {
	r.do(func() {
		r.paused = false
		r.publish()
		r.l.Info("race resumed", log.Float64("raceClock", r.engine.clock))
	})
}

// Restart rebuilds the grid and zeroes the race clock; the pause flag
// and speed multiplier survive.
func (r *Runner) Restart() {
	r.do(func() {
		r.engine.Restart()
		r.publish()
		r.l.Info("race restarted")
	})
}

func (r *Runner) SetSpeed(m float64) {
	r.do(func() {
		r.speed = clampSpeed(m)
		r.l.Info("speed multiplier changed", log.Float64("speed", r.speed))
	})
}

// Snapshot returns the most recently published state. Safe from any
// goroutine.
func (r *Runner) Snapshot() *model.RaceSnapshot {
	return r.snapshot.Load()
}

// Events delivers engine events. The channel closes when Run returns.
func (r *Runner) Events() <-chan model.Event { return r.events }

// Feed holds at most the latest snapshot; intermediate frames are
// dropped for slow consumers.
func (r *Runner) Feed() <-chan *model.RaceSnapshot { return r.feed }

func clampSpeed(m float64) float64 {
	return clamp(m, minSpeedMultiplier, maxSpeedMultiplier)
}
