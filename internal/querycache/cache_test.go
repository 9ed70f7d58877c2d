package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCachesValue(t *testing.T) {
	c := New(time.Minute)
	var calls int32

	fn := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), c, "bookings?page=1", []string{TagList("bookings")}, fn)
		require.NoError(t, err)
		assert.Equal(t, "value", got)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchErrorNotCached(t *testing.T) {
	c := New(time.Minute)
	var calls int32
	boom := errors.New("upstream down")

	fn := func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", boom
		}
		return "recovered", nil
	}

	_, err := Fetch(context.Background(), c, "k", nil, fn)
	require.ErrorIs(t, err, boom)

	got, err := Fetch(context.Background(), c, "k", nil, fn)
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchDeduplicatesConcurrentCalls(t *testing.T) {
	c := New(time.Minute)
	var calls int32
	release := make(chan struct{})

	fn := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]int, workers)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(context.Background(), c, "shared", nil, fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give every worker a chance to either start the fetch or join it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestInvalidateByTag(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()

	listCalls := 0
	detailCalls := 0
	otherCalls := 0

	fetchList := func(ctx context.Context) (string, error) { listCalls++; return "list", nil }
	fetchDetail := func(ctx context.Context) (string, error) { detailCalls++; return "detail", nil }
	fetchOther := func(ctx context.Context) (string, error) { otherCalls++; return "other", nil }

	listTags := []string{TagAll("bookings"), TagList("bookings")}
	detailTags := []string{TagAll("bookings"), TagID("bookings", 7)}
	otherTags := []string{TagAll("bookings"), TagID("bookings", 8)}

	_, _ = Fetch(ctx, c, "bookings?page=1", listTags, fetchList)
	_, _ = Fetch(ctx, c, "bookings/7", detailTags, fetchDetail)
	_, _ = Fetch(ctx, c, "bookings/8", otherTags, fetchOther)

	// A mutation on booking 7 expires all lists and only that detail.
	c.Invalidate(TagList("bookings"), TagID("bookings", 7))

	_, _ = Fetch(ctx, c, "bookings?page=1", listTags, fetchList)
	_, _ = Fetch(ctx, c, "bookings/7", detailTags, fetchDetail)
	_, _ = Fetch(ctx, c, "bookings/8", otherTags, fetchOther)

	assert.Equal(t, 2, listCalls)
	assert.Equal(t, 2, detailCalls)
	assert.Equal(t, 1, otherCalls)

	// The collection-wide marker expires everything.
	c.Invalidate(TagAll("bookings"))
	_, _ = Fetch(ctx, c, "bookings/8", otherTags, fetchOther)
	assert.Equal(t, 2, otherCalls)
}

func TestInvalidateDuringFlightPreventsStaleStore(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})

	slow := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return "stale", nil
	}

	done := make(chan string)
	go func() {
		v, _ := Fetch(ctx, c, "k", []string{"bookings"}, slow)
		done <- v
	}()

	<-started
	c.Invalidate("bookings")
	close(release)

	// The in-flight caller still receives its value...
	assert.Equal(t, "stale", <-done)

	// ...but the cache was not repopulated with it.
	fresh, err := Fetch(ctx, c, "k", []string{"bookings"}, func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh)
}

func TestFetchExpiry(t *testing.T) {
	c := New(20 * time.Millisecond)
	var calls int32
	fn := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "v", nil
	}

	_, _ = Fetch(context.Background(), c, "k", nil, fn)
	time.Sleep(40 * time.Millisecond)
	_, _ = Fetch(context.Background(), c, "k", nil, fn)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestKeyIsCanonical(t *testing.T) {
	a := Key("bookings", map[string]string{"page": "1", "status": "Pending"})
	b := Key("bookings", map[string]string{"status": "Pending", "page": "1"})
	assert.Equal(t, a, b)

	// Empty values do not contribute to the key.
	c := Key("bookings", map[string]string{"page": "1", "status": "Pending", "search": ""})
	assert.Equal(t, a, c)

	assert.Equal(t, "bookings", Key("bookings", nil))
}
