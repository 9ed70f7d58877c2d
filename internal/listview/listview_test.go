package listview

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"rentdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int
	Name string
	At   time.Time
}

func testSource(all []record) Source[record] {
	return Source[record]{
		FetchPage: func(ctx context.Context, p Params) ([]record, models.Pagination, error) {
			pg := models.Paginate(len(all), p.Page, p.PageSize)
			start, end := pg.Slice(len(all))
			return all[start:end], pg, nil
		},
		FetchAll: func(ctx context.Context, p Params) ([]record, error) {
			return all, nil
		},
		Matches: func(r record, term string) bool {
			return ContainsFold(r.Name, term)
		},
		SortKey: func(r record) time.Time { return r.At },
	}
}

func makeRecords(n int) []record {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, record{
			ID:   i + 1,
			Name: fmt.Sprintf("Customer %03d", i+1),
			At:   base.Add(time.Duration(i) * time.Hour),
		})
	}
	return out
}

func TestResolveIdleUsesServerPagination(t *testing.T) {
	all := makeRecords(25)
	snap, err := Resolve(context.Background(), testSource(all), Params{Page: 2, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, ModeIdle, snap.Mode)
	require.Len(t, snap.Rows, 10)
	assert.Equal(t, 11, snap.Rows[0].ID)
	assert.Equal(t, models.Pagination{Page: 2, PerPage: 10, TotalItems: 25, TotalPages: 3}, snap.Pagination)
}

func TestResolveSearchingFiltersCaseInsensitive(t *testing.T) {
	all := makeRecords(50)
	all[4].Name = "Budi Santoso"
	all[17].Name = "BUDIMAN"
	all[33].Name = "Ayu Budiarti"

	snap, err := Resolve(context.Background(), testSource(all), Params{
		Page: 1, PageSize: 10, Search: "budi",
	})
	require.NoError(t, err)

	assert.Equal(t, ModeSearching, snap.Mode)
	assert.Len(t, snap.Rows, 3)
	assert.Equal(t, 3, snap.Pagination.TotalItems)
	assert.Equal(t, 1, snap.Pagination.TotalPages)
}

func TestResolveSearchingPagesPartitionFilteredSet(t *testing.T) {
	all := makeRecords(50)
	src := testSource(all)

	// "Customer" matches every record; walk all pages and check the
	// concatenation reproduces the filtered set exactly once.
	const pageSize = 7
	seen := make(map[int]int)
	page := 1
	for {
		snap, err := Resolve(context.Background(), src, Params{
			Page: page, PageSize: pageSize, Search: "customer", Sort: models.SortAsc,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(snap.Rows), pageSize)
		for _, r := range snap.Rows {
			seen[r.ID]++
		}
		if page >= snap.Pagination.TotalPages {
			break
		}
		page++
	}

	assert.Len(t, seen, 50)
	for id, count := range seen {
		assert.Equalf(t, 1, count, "record %d appeared %d times", id, count)
	}
}

func TestResolveSearchingSortStable(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	all := []record{
		{ID: 1, Name: "alpha", At: at},
		{ID: 2, Name: "alpha", At: at.Add(time.Hour)},
		{ID: 3, Name: "alpha", At: at},
		{ID: 4, Name: "alpha", At: at},
	}

	snap, err := Resolve(context.Background(), testSource(all), Params{
		Page: 1, PageSize: 10, Search: "alpha", Sort: models.SortAsc,
	})
	require.NoError(t, err)

	// Equal keys keep original collection order; the later timestamp sorts
	// last under asc.
	ids := []int{snap.Rows[0].ID, snap.Rows[1].ID, snap.Rows[2].ID, snap.Rows[3].ID}
	assert.Equal(t, []int{1, 3, 4, 2}, ids)
}

func TestResolveSearchingDescSort(t *testing.T) {
	all := makeRecords(3)
	snap, err := Resolve(context.Background(), testSource(all), Params{
		Page: 1, PageSize: 10, Search: "customer", Sort: models.SortDesc,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Rows[0].ID)
	assert.Equal(t, 1, snap.Rows[2].ID)
}

func TestControllerFilterChangesResetPage(t *testing.T) {
	src := testSource(makeRecords(50))

	cases := []struct {
		name   string
		change func(c *Controller[record])
	}{
		{"page size", func(c *Controller[record]) { c.SetPageSize(5) }},
		{"status", func(c *Controller[record]) { c.SetStatus("Pending") }},
		{"month", func(c *Controller[record]) { c.SetMonth(3, 2024) }},
		{"sort", func(c *Controller[record]) { c.SetSort(models.SortAsc) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController(src, Params{Page: 1, PageSize: 10}, time.Millisecond, nil)
			c.SetPage(4)
			require.Equal(t, 4, c.State().Params.Page)

			tc.change(c)
			assert.Equal(t, 1, c.State().Params.Page)
		})
	}
}

func TestControllerSearchDebounce(t *testing.T) {
	src := testSource(makeRecords(10))
	c := NewController(src, Params{PageSize: 10}, 30*time.Millisecond, nil)

	var commits atomic.Int32
	c.OnChange(func() { commits.Add(1) })

	c.SetPage(3)
	commits.Store(0)

	// Rapid keystrokes: only the final term is committed, once.
	c.SetSearch("b")
	c.SetSearch("bu")
	c.SetSearch("budi")

	assert.Equal(t, int32(0), commits.Load())
	assert.Empty(t, c.State().Params.Search)

	assert.Eventually(t, func() bool {
		return commits.Load() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "budi", c.State().Params.Search)
	assert.Equal(t, 1, c.State().Params.Page)
}

func TestControllerLatestRefreshWins(t *testing.T) {
	all := makeRecords(30)
	block := make(chan struct{})
	firstStarted := make(chan struct{})

	var calls atomic.Int32
	src := Source[record]{
		FetchPage: func(ctx context.Context, p Params) ([]record, models.Pagination, error) {
			if calls.Add(1) == 1 {
				close(firstStarted)
				<-block // first request resolves late
			}
			pg := models.Paginate(len(all), p.Page, p.PageSize)
			start, end := pg.Slice(len(all))
			return all[start:end], pg, nil
		},
	}

	c := NewController(src, Params{Page: 1, PageSize: 10}, time.Millisecond, nil)

	done := make(chan struct{})
	go func() {
		_ = c.Refresh(context.Background())
		close(done)
	}()

	<-firstStarted
	c.SetPage(2)
	require.NoError(t, c.Refresh(context.Background()))
	close(block)
	<-done

	state := c.State()
	assert.Equal(t, 2, state.Snapshot.Pagination.Page)
	assert.Equal(t, 11, state.Snapshot.Rows[0].ID)
	assert.False(t, state.Loading)
}

func TestControllerErrorKeepsPreviousRows(t *testing.T) {
	all := makeRecords(10)
	fail := false
	src := Source[record]{
		FetchPage: func(ctx context.Context, p Params) ([]record, models.Pagination, error) {
			if fail {
				return nil, models.Pagination{}, fmt.Errorf("upstream down")
			}
			pg := models.Paginate(len(all), p.Page, p.PageSize)
			start, end := pg.Slice(len(all))
			return all[start:end], pg, nil
		},
	}

	c := NewController(src, Params{PageSize: 10}, time.Millisecond, nil)
	require.NoError(t, c.Refresh(context.Background()))
	require.Len(t, c.State().Snapshot.Rows, 10)

	fail = true
	require.Error(t, c.Refresh(context.Background()))

	state := c.State()
	assert.Error(t, state.Err)
	assert.Len(t, state.Snapshot.Rows, 10)

	fail = false
	require.NoError(t, c.Refresh(context.Background()))
	assert.NoError(t, c.State().Err)
}
