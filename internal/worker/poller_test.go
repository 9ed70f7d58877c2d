package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"rentdash/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second}, // clamped
		{0, time.Second},      // treated as first attempt
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, policy.NextDelay(tc.attempt), "attempt %d", tc.attempt)
	}
}

func TestRetryPolicyDefaults(t *testing.T) {
	var policy RetryPolicy
	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
}

func TestPollerRunsTasksOnInterval(t *testing.T) {
	var runs int32
	p := NewPoller(20*time.Millisecond, DefaultRetryPolicy(), nil, nil)
	p.AddTask("lists", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestPollerRetriesThenPublishesFailure(t *testing.T) {
	var attempts int32
	bus := events.NewBus()
	center := events.NewCenter(bus, 10)

	retry := RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond, BackoffFactor: 1}
	p := NewPoller(time.Hour, retry, bus, nil)
	p.AddTask("bookings", func(ctx context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("upstream down")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(center.List()) > 0
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	feed := center.List()
	require.NotEmpty(t, feed)
	assert.Equal(t, events.LevelError, feed[0].Level)
	assert.Contains(t, feed[0].Message, "upstream down")
}

func TestPollerStopsMidRetryOnCancel(t *testing.T) {
	retry := RetryPolicy{MaxRetries: 10, InitialDelay: time.Hour, BackoffFactor: 1}
	p := NewPoller(time.Hour, retry, nil, nil)
	p.AddTask("slow", func(ctx context.Context) error {
		return errors.New("always fails")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}
