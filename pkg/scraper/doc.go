// Package scraper retrieves public Reddit data and returns normalized records.
//
// A Scraper exposes a group of operations per entity family:
//
//	s := scraper.NewFromConfig(cfg, log)
//
//	profile, err := s.User("spez").Profile(ctx)
//	posts, err := s.Community("golang").Posts(ctx, scraper.Options{Sort: "top", Timeframe: "week", Limit: 50})
//	comments, err := s.Post("1abcde", "golang").Comments(ctx, scraper.Options{})
//	results, err := s.Search("gophers").Communities(ctx, scraper.Options{Limit: 10})
//
// Every call takes its own Options; unset fields fall back to the Settings
// the Scraper was built with. Options are validated before any request is
// made and invalid values fail with an invalid_request error.
//
// Listing calls follow the "after" cursor through as many pages as the limit
// requires, pausing between pages. Errors carry the operation name (for
// example "user.posts") and the identifier it was called with, and keep
// their transport classification (not_found, rate_limit, transport,
// malformed).
package scraper
