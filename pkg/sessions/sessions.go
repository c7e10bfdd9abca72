// Package sessions manages running race simulations. Each session
// owns one runner goroutine plus the pumps that fan its output out to
// subscribers and the event broker.
package sessions

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pobstone/racesim/log"
	"github.com/pobstone/racesim/pkg/events"
	"github.com/pobstone/racesim/pkg/model"
	"github.com/pobstone/racesim/pkg/race"
	"github.com/pobstone/racesim/pkg/utils/broadcast"
)

var ErrSessionNotFound = errors.New("session not found")

// snapshotPublishInterval throttles broker snapshots; the HTTP live
// feed gets every frame via the broadcast server instead.
const snapshotPublishInterval = 500 * time.Millisecond

type Session struct {
	Key        string
	Definition *model.RaceDefinition
	Runner     *race.Runner
	Snapshots  broadcast.BroadcastServer[*model.RaceSnapshot]
	Created    time.Time

	cancel context.CancelFunc
}

type Registry struct {
	mu        sync.RWMutex
	lookup    map[string]*Session
	publisher events.Publisher
	l         *log.Logger
}

type Option func(*Registry)

func WithPublisher(p events.Publisher) Option {
	return func(r *Registry) { r.publisher = p }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		lookup:    make(map[string]*Session),
		publisher: events.NopPublisher{},
		l:         log.Default().Named("sessions"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create builds a runner for def, starts it and registers the session
// under a fresh key.
func (r *Registry) Create(def *model.RaceDefinition, opts ...race.RunnerOption) (
	*Session, error,
) {
	runner, err := race.NewRunner(def, opts)
	if err != nil {
		return nil, err
	}
	key := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		Key:        key,
		Definition: def,
		Runner:     runner,
		Snapshots:  broadcast.NewBroadcastServer(key, "snapshots", runner.Feed()),
		Created:    time.Now(),
		cancel:     cancel,
	}

	go runner.Run(ctx)
	go r.pumpEvents(s)
	go r.pumpSnapshots(ctx, s)

	r.mu.Lock()
	r.lookup[key] = s
	r.mu.Unlock()
	r.l.Info("session created",
		log.String("key", key),
		log.String("race", def.Name))
	return s, nil
}

// pumpEvents forwards engine events to the broker until the runner's
// event channel closes.
func (r *Registry) pumpEvents(s *Session) {
	for ev := range s.Runner.Events() {
		r.l.Debug("race event",
			log.String("session", s.Key),
			log.String("kind", ev.EventKind()),
			log.Any("event", ev))
		r.publisher.PublishEvent(s.Key, ev)
	}
}

// pumpSnapshots publishes the latest snapshot to the broker on a
// fixed cadence.
func (r *Registry) pumpSnapshots(ctx context.Context, s *Session) {
	ticker := time.NewTicker(snapshotPublishInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.publisher.PublishSnapshot(s.Key, s.Runner.Snapshot())
		}
	}
}

func (r *Registry) Get(key string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.lookup[key]; ok {
		return s, nil
	}
	return nil, ErrSessionNotFound
}

// List returns the registered sessions, oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := lo.Values(r.lookup)
	slices.SortFunc(ret, func(a, b *Session) int { return a.Created.Compare(b.Created) })
	return ret
}

// Remove stops the session's runner and pumps and drops it from the
// registry.
func (r *Registry) Remove(key string) error {
	r.mu.Lock()
	s, ok := r.lookup[key]
	if ok {
		delete(r.lookup, key)
	}
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.cancel()
	s.Snapshots.Close()
	r.l.Info("session removed", log.String("key", key))
	return nil
}

// Clear removes every session; used on shutdown.
func (r *Registry) Clear() {
	for _, s := range r.List() {
		//nolint:errcheck // session is known to exist
		r.Remove(s.Key)
	}
}
