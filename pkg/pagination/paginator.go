package pagination

import (
	"context"
	"time"

	"knewkarma/pkg/logger"
	"knewkarma/pkg/reddit"
	"knewkarma/pkg/retry"
)

// PageFunc fetches one page starting at cursor after ("" for the first page)
// and asking for at most size children.
type PageFunc func(ctx context.Context, after string, size int) (*reddit.Listing, error)

// StopReason records why a collection ended
type StopReason string

const (
	StopLimit     StopReason = "limit_reached"
	StopNoCursor  StopReason = "no_cursor"
	StopEmptyPage StopReason = "empty_page"
	StopError     StopReason = "error"
)

// Paginator walks cursor-linked pages until a limit is reached or the
// upstream runs out of data.
type Paginator struct {
	delay  time.Duration
	logger logger.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

// New creates a Paginator that pauses delay between consecutive pages
func New(delay time.Duration, log logger.Logger) *Paginator {
	if delay < 0 {
		delay = 0
	}
	return &Paginator{
		delay:  delay,
		logger: logger.OrNop(log),
		wait:   retry.Wait,
	}
}

// Delay returns the pause between pages
func (p *Paginator) Delay() time.Duration {
	return p.delay
}

// WithDelay returns a copy of p using a different inter-page delay
func (p *Paginator) WithDelay(delay time.Duration) *Paginator {
	cp := *p
	if delay < 0 {
		delay = 0
	}
	cp.delay = delay
	return &cp
}

// Collect gathers up to limit children. It stops when limit items have been
// collected, when a page has no next cursor, or when a page is empty,
// whichever comes first. A limit of zero or less returns an empty slice
// without calling fetch.
//
// If fetch or the inter-page wait fails, the children collected so far are
// returned together with the error.
func (p *Paginator) Collect(ctx context.Context, fetch PageFunc, limit int) ([]reddit.Envelope, error) {
	items := make([]reddit.Envelope, 0)
	if limit <= 0 {
		return items, nil
	}

	var (
		after  string
		pages  int
		reason StopReason
	)
	for {
		listing, err := fetch(ctx, after, reddit.PageSize(limit-len(items)))
		if err != nil {
			p.logger.WarnWithFields("page fetch failed", map[string]interface{}{
				"page":      pages + 1,
				"collected": len(items),
				"error":     err.Error(),
			})
			p.done(pages, len(items), StopError)
			return items, err
		}
		pages++
		pagesFetched.Inc()

		children := listing.Data.Children
		pageItems.Add(float64(len(children)))
		items = append(items, children...)
		if len(items) > limit {
			items = items[:limit]
		}
		after = listing.NextCursor()

		p.logger.DebugWithFields("page fetched", map[string]interface{}{
			"page":      pages,
			"children":  len(children),
			"collected": len(items),
			"after":     after,
		})

		switch {
		case len(items) >= limit:
			reason = StopLimit
		case after == "":
			reason = StopNoCursor
		case len(children) == 0:
			reason = StopEmptyPage
		}
		if reason != "" {
			break
		}

		if err := p.wait(ctx, p.delay); err != nil {
			p.done(pages, len(items), StopError)
			return items, err
		}
	}

	p.done(pages, len(items), reason)
	return items, nil
}

func (p *Paginator) done(pages, items int, reason StopReason) {
	p.logger.InfoWithFields("pagination finished", map[string]interface{}{
		"pages":  pages,
		"items":  items,
		"reason": string(reason),
	})
}
