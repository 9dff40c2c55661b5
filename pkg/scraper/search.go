package scraper

import (
	"context"

	"knewkarma/pkg/normalize"
	"knewkarma/pkg/reddit"
)

// Search runs site-wide queries
type Search struct {
	s     *Scraper
	query string
}

// Search returns the search operations for query
func (s *Scraper) Search(query string) *Search {
	return &Search{s: s, query: query}
}

func (sr *Search) prepare(op string, opts Options) (call, request, error) {
	c := call{op: "search." + op, source: sr.query}
	if err := c.requireSource("search query"); err != nil {
		return c, request{}, err
	}
	req, err := sr.s.resolve(c, opts)
	return c, req, err
}

func (sr *Search) Users(ctx context.Context, opts Options) ([]normalize.User, error) {
	c, req, err := sr.prepare("users", opts)
	if err != nil {
		return nil, err
	}
	items, err := sr.s.search(ctx, c, reddit.SearchUsers, req)
	if err != nil {
		return nil, err
	}
	users := normalize.Users(items)
	sr.s.done(c, len(users))
	return users, nil
}

func (sr *Search) Communities(ctx context.Context, opts Options) ([]normalize.CommunityPreview, error) {
	c, req, err := sr.prepare("communities", opts)
	if err != nil {
		return nil, err
	}
	items, err := sr.s.search(ctx, c, reddit.SearchCommunities, req)
	if err != nil {
		return nil, err
	}
	communities := normalize.CommunityPreviews(items)
	sr.s.done(c, len(communities))
	return communities, nil
}

func (sr *Search) Posts(ctx context.Context, opts Options) ([]normalize.Post, error) {
	c, req, err := sr.prepare("posts", opts)
	if err != nil {
		return nil, err
	}
	items, err := sr.s.search(ctx, c, reddit.SearchPosts, req)
	if err != nil {
		return nil, err
	}
	posts := normalize.Posts(items)
	sr.s.done(c, len(posts))
	return posts, nil
}
