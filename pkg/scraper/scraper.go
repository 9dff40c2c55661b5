package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"knewkarma/pkg/config"
	errs "knewkarma/pkg/errors"
	"knewkarma/pkg/logger"
	"knewkarma/pkg/normalize"
	"knewkarma/pkg/pagination"
	"knewkarma/pkg/reddit"
)

// Settings are the retrieval defaults applied when a call leaves an option
// unset
type Settings struct {
	Sort      string
	Timeframe string
	Limit     int
	PageDelay time.Duration
}

// DefaultSettings returns the retrieval defaults of the default config
func DefaultSettings() Settings {
	return SettingsFromConfig(config.DefaultConfig())
}

// SettingsFromConfig extracts the retrieval defaults from cfg
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Sort:      cfg.Retrieval.Sort,
		Timeframe: cfg.Retrieval.Timeframe,
		Limit:     cfg.Retrieval.Limit,
		PageDelay: cfg.Retrieval.PageDelay,
	}
}

// Scraper retrieves and normalizes public Reddit data. It holds no per-call
// state and is safe for concurrent use when its client is.
type Scraper struct {
	client   RedditClient
	settings Settings
	logger   logger.Logger
}

// New creates a Scraper on top of client
func New(client RedditClient, settings Settings, log logger.Logger) *Scraper {
	return &Scraper{
		client:   client,
		settings: settings,
		logger:   logger.OrNop(log),
	}
}

// NewFromConfig creates a Scraper with a transport built from cfg
func NewFromConfig(cfg *config.Config, log logger.Logger) *Scraper {
	return New(reddit.NewClientFromConfig(cfg, log), SettingsFromConfig(cfg), log)
}

// Settings returns the defaults used for unset options
func (s *Scraper) Settings() Settings {
	return s.settings
}

// call identifies one scraper operation for logging and error reporting
type call struct {
	op     string
	source string
}

func (c call) fields() map[string]interface{} {
	return map[string]interface{}{"op": c.op, "source": c.source}
}

func (c call) wrap(err error) error {
	return errs.WithOp(err, c.op, c.source)
}

func (c call) invalid(format string, args ...interface{}) error {
	return &errs.Error{
		Type:    errs.ErrorTypeInvalidRequest,
		Op:      c.op,
		Source:  c.source,
		Message: fmt.Sprintf(format, args...),
	}
}

func (c call) notFound(what string) error {
	return &errs.Error{
		Type:    errs.ErrorTypeNotFound,
		Op:      c.op,
		Source:  c.source,
		Message: what + " not found",
	}
}

// requireSource rejects calls without an identifier
func (c call) requireSource(what string) error {
	if c.source == "" {
		return c.invalid("%s must not be empty", what)
	}
	return nil
}

// fetchProfile performs a single request and requires a single entity in the
// response. A response without the entity's structural marker is reported as
// not found.
func fetchProfile[T any](ctx context.Context, s *Scraper, c call, path, what string, parse func(json.RawMessage) normalize.Result[T]) (*T, error) {
	s.logger.DebugWithFields("fetching "+what, c.fields())

	raw, err := s.client.GetRaw(ctx, path, nil)
	if err != nil {
		return nil, c.wrap(err)
	}
	res := parse(raw)
	if res.Single == nil {
		s.logger.DebugWithFields(what+" missing from response", c.fields())
		return nil, c.notFound(what)
	}
	return res.Single, nil
}

// paginate walks a listing endpoint with query built by params
func (s *Scraper) paginate(ctx context.Context, c call, path string, req request, params func(after string, size int) url.Values) ([]reddit.Envelope, error) {
	p := pagination.New(req.delay, s.logger.WithFields(c.fields()))
	items, err := p.Collect(ctx, func(ctx context.Context, after string, size int) (*reddit.Listing, error) {
		var listing reddit.Listing
		if err := s.client.GetJSON(ctx, path, params(after, size), &listing); err != nil {
			return nil, err
		}
		return &listing, nil
	}, req.limit)
	if err != nil {
		return nil, c.wrap(err)
	}
	return items, nil
}

// listing collects a sorted listing endpoint
func (s *Scraper) listing(ctx context.Context, c call, path string, req request) ([]reddit.Envelope, error) {
	return s.paginate(ctx, c, path, req, func(after string, size int) url.Values {
		return reddit.ListingParams(req.sort, req.timeframe, size, after)
	})
}

// search collects /search.json results of one kind
func (s *Scraper) search(ctx context.Context, c call, kind string, req request) ([]reddit.Envelope, error) {
	return s.paginate(ctx, c, reddit.SearchPath, req, func(after string, size int) url.Values {
		return reddit.SearchParams(c.source, kind, req.sort, req.timeframe, size, after)
	})
}

// thread fetches a post page in one request. The comment tree is returned as
// served; it is not paginated further.
func (s *Scraper) thread(ctx context.Context, c call, path string, query url.Values) (normalize.Thread, error) {
	raw, err := s.client.GetRaw(ctx, path, query)
	if err != nil {
		return normalize.Thread{}, c.wrap(err)
	}
	thread, ok := normalize.ParseThread(raw)
	if !ok {
		return normalize.Thread{}, &errs.Error{
			Type:    errs.ErrorTypeMalformed,
			Op:      c.op,
			Source:  c.source,
			Message: "post page is not a [post, comments] pair",
		}
	}
	return thread, nil
}

func (s *Scraper) done(c call, count int) {
	fields := c.fields()
	fields["count"] = count
	s.logger.InfoWithFields("retrieval completed", fields)
}
