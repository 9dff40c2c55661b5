package pagination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "knewkarma/pkg/errors"
	"knewkarma/pkg/logger"
	"knewkarma/pkg/reddit"
)

type call struct {
	after string
	size  int
}

// fakePages serves pages[i] for the i-th request and records the calls
type fakePages struct {
	pages []*reddit.Listing
	calls []call
}

func (f *fakePages) fetch(_ context.Context, after string, size int) (*reddit.Listing, error) {
	f.calls = append(f.calls, call{after: after, size: size})
	if len(f.calls) > len(f.pages) {
		return nil, fmt.Errorf("unexpected request %d", len(f.calls))
	}
	return f.pages[len(f.calls)-1], nil
}

func page(ids []string, after string) *reddit.Listing {
	l := &reddit.Listing{Kind: "Listing"}
	for _, id := range ids {
		l.Data.Children = append(l.Data.Children, reddit.Envelope{
			Kind: "t3",
			Data: json.RawMessage(fmt.Sprintf(`{"id":%q}`, id)),
		})
	}
	if after != "" {
		l.Data.After = &after
	}
	return l
}

func ids(items []reddit.Envelope) []string {
	out := make([]string, len(items))
	for i, item := range items {
		var v struct{ ID string }
		_ = json.Unmarshal(item.Data, &v)
		out[i] = v.ID
	}
	return out
}

// newTestPaginator records waits instead of sleeping
func newTestPaginator(delay time.Duration) (*Paginator, *[]time.Duration) {
	p := New(delay, logger.NewNopLogger())
	waits := &[]time.Duration{}
	p.wait = func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return ctx.Err()
	}
	return p, waits
}

func TestCollectNonPositiveLimit(t *testing.T) {
	for _, limit := range []int{0, -5} {
		p, waits := newTestPaginator(time.Second)
		f := &fakePages{}

		items, err := p.Collect(context.Background(), f.fetch, limit)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		assert.Empty(t, f.calls, "no request expected")
		assert.Empty(t, *waits)
	}
}

func TestCollectStopsAtLimit(t *testing.T) {
	p, waits := newTestPaginator(20 * time.Second)
	f := &fakePages{pages: []*reddit.Listing{
		page([]string{"a", "b", "c"}, "t3_c"),
		page([]string{"d", "e", "f"}, "t3_f"),
	}}

	items, err := p.Collect(context.Background(), f.fetch, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(items))
	assert.Equal(t, []call{{"", 5}, {"t3_c", 2}}, f.calls)
	assert.Equal(t, []time.Duration{20 * time.Second}, *waits, "one wait between two pages")
}

func TestCollectStopsWhenCursorIsNull(t *testing.T) {
	p, waits := newTestPaginator(time.Second)
	f := &fakePages{pages: []*reddit.Listing{
		page([]string{"a", "b"}, "t3_b"),
		page([]string{"c"}, ""),
	}}

	items, err := p.Collect(context.Background(), f.fetch, 100)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, ids(items))
	assert.Len(t, f.calls, 2)
	assert.Len(t, *waits, 1)
}

func TestCollectStopsOnEmptyPage(t *testing.T) {
	p, waits := newTestPaginator(time.Second)
	f := &fakePages{pages: []*reddit.Listing{
		page([]string{"a"}, "t3_a"),
		page(nil, "t3_a"),
	}}

	items, err := p.Collect(context.Background(), f.fetch, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, ids(items))
	assert.Len(t, f.calls, 2)
	assert.Len(t, *waits, 1)
}

func TestCollectSinglePageNoWait(t *testing.T) {
	p, waits := newTestPaginator(time.Minute)
	f := &fakePages{pages: []*reddit.Listing{page([]string{"a", "b"}, "")}}

	items, err := p.Collect(context.Background(), f.fetch, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Empty(t, *waits, "no wait before the first or after the last page")
}

func TestCollectLargeLimitClampsPageSize(t *testing.T) {
	p, _ := newTestPaginator(0)
	f := &fakePages{pages: []*reddit.Listing{page([]string{"a"}, "")}}

	_, err := p.Collect(context.Background(), f.fetch, 250)
	require.NoError(t, err)
	assert.Equal(t, reddit.MaxPageSize, f.calls[0].size)
}

func TestCollectKeepsDuplicates(t *testing.T) {
	p, _ := newTestPaginator(0)
	f := &fakePages{pages: []*reddit.Listing{
		page([]string{"a", "b"}, "t3_b"),
		page([]string{"b", "c"}, ""),
	}}

	items, err := p.Collect(context.Background(), f.fetch, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "b", "c"}, ids(items))
}

func TestCollectPropagatesErrors(t *testing.T) {
	p, _ := newTestPaginator(0)
	rateLimited := errs.FromStatus(429, "rate limit exceeded")

	calls := 0
	fetch := func(_ context.Context, after string, size int) (*reddit.Listing, error) {
		calls++
		if calls == 2 {
			return nil, rateLimited
		}
		return page([]string{"a"}, "t3_a"), nil
	}

	items, err := p.Collect(context.Background(), fetch, 10)
	require.Error(t, err)
	assert.Same(t, rateLimited, err, "errors pass through unchanged")
	assert.Equal(t, []string{"a"}, ids(items))
}

func TestCollectCancelledDuringDelay(t *testing.T) {
	p := New(time.Hour, logger.NewNopLogger())
	f := &fakePages{pages: []*reddit.Listing{page([]string{"a"}, "t3_a")}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	items, err := p.Collect(ctx, f.fetch, 10)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Minute)
	assert.Len(t, items, 1)
	assert.Len(t, f.calls, 1)
}

func TestCollectLogsCompletion(t *testing.T) {
	log := logger.NewTestLogger()
	log.Clear()
	p := New(0, log)
	f := &fakePages{pages: []*reddit.Listing{page([]string{"a"}, "")}}

	_, err := p.Collect(context.Background(), f.fetch, 5)
	require.NoError(t, err)
	assert.True(t, log.HasMessage("pagination finished"))
	assert.NotEmpty(t, log.GetMessagesByLevel("INFO"))
}

func TestWithDelay(t *testing.T) {
	p := New(time.Second, nil)
	q := p.WithDelay(-time.Second)

	assert.Equal(t, time.Second, p.Delay())
	assert.Zero(t, q.Delay())
}
