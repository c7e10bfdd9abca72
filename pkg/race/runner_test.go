package race

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pobstone/racesim/pkg/model"
)

func TestClampSpeed(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below minimum", 0.01, 0.1},
		{"at minimum", 0.1, 0.1},
		{"normal", 2.5, 2.5},
		{"above maximum", 50, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, clampSpeed(tc.in), 1e-12)
		})
	}
}

func TestRunnerLifecycle(t *testing.T) {
	r, err := NewRunner(model.DefaultDefinition(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	// the race clock advances while running
	require.Eventually(t, func() bool {
		return r.Snapshot().RaceClock > 0
	}, 2*time.Second, 10*time.Millisecond)

	r.Pause()
	require.Eventually(t, func() bool {
		return r.Snapshot().Paused
	}, 2*time.Second, 10*time.Millisecond)

	// the race clock stands still while paused
	pausedClock := r.Snapshot().RaceClock
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, pausedClock, r.Snapshot().RaceClock)

	r.Resume()
	require.Eventually(t, func() bool {
		return r.Snapshot().RaceClock > pausedClock
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	clockBeforeRestart := r.Snapshot().RaceClock
	r.Restart()
	require.Eventually(t, func() bool {
		snap := r.Snapshot()
		return snap.RaceClock < clockBeforeRestart && !snap.Paused
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	// the events channel closes once the loop exits
	require.Eventually(t, func() bool {
		select {
		case _, open := <-r.Events():
			return !open
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
