package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastFanOut(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("test-session", "numbers", source)
	defer b.Close()

	first := b.Subscribe()
	second := b.Subscribe()

	go func() { source <- 42 }()

	recv := func(ch <-chan int) int {
		select {
		case v := <-ch:
			return v
		case <-time.After(time.Second):
			t.Error("timed out waiting for broadcast")
			return 0
		}
	}
	assert.Equal(t, 42, recv(first))
	assert.Equal(t, 42, recv(second))
}

func TestCancelSubscriptionClosesChannel(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("test-session", "numbers", source)
	defer b.Close()

	ch := b.Subscribe()
	b.CancelSubscription(ch)

	select {
	case _, open := <-ch:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestSlowSubscriberIsSkipped(t *testing.T) {
	source := make(chan int)
	b := NewBroadcastServer("test-session", "numbers", source,
		WithSendTimeout[int](5*time.Millisecond))
	defer b.Close()

	stuck := b.Subscribe() // never read
	_ = stuck
	live := b.Subscribe()

	go func() { source <- 1 }()

	select {
	case v := <-live:
		assert.Equal(t, 1, v)
	case <-time.After(time.Second):
		t.Fatal("live subscriber starved by stuck one")
	}
}
