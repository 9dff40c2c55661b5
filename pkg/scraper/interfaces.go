package scraper

import (
	"context"
	"encoding/json"
	"net/url"
)

// RedditClient defines the transport operations the scraper relies on
type RedditClient interface {
	GetRaw(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
	GetJSON(ctx context.Context, path string, query url.Values, target interface{}) error
}
