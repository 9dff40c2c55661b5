package scraper

import (
	"context"
	"strings"

	"knewkarma/pkg/normalize"
	"knewkarma/pkg/reddit"
)

// PostListings are the named listings accepted by Posts.Listing
var PostListings = []string{"all", "best", "controversial", "popular", "rising"}

// Posts lists posts across communities
type Posts struct {
	s *Scraper
}

func (s *Scraper) Posts() *Posts {
	return &Posts{s: s}
}

// New returns the newest posts site-wide
func (ps *Posts) New(ctx context.Context, opts Options) ([]normalize.Post, error) {
	return ps.collect(ctx, call{op: "posts.new", source: "new"}, reddit.NewPostsPath, opts)
}

// FrontPage returns the posts of the front page
func (ps *Posts) FrontPage(ctx context.Context, opts Options) ([]normalize.Post, error) {
	return ps.collect(ctx, call{op: "posts.front_page", source: "front_page"}, reddit.FrontPagePath, opts)
}

// Listing returns the posts of a named listing
func (ps *Posts) Listing(ctx context.Context, name string, opts Options) ([]normalize.Post, error) {
	c := call{op: "posts.listing", source: name}
	if !isPostListing(name) {
		return nil, c.invalid("unknown listing %q (expected one of %s)", name, strings.Join(PostListings, ", "))
	}
	return ps.collect(ctx, c, reddit.CommunityPostsPath(name), opts)
}

func (ps *Posts) collect(ctx context.Context, c call, path string, opts Options) ([]normalize.Post, error) {
	req, err := ps.s.resolve(c, opts)
	if err != nil {
		return nil, err
	}
	items, err := ps.s.listing(ctx, c, path, req)
	if err != nil {
		return nil, err
	}
	posts := normalize.Posts(items)
	ps.s.done(c, len(posts))
	return posts, nil
}

func isPostListing(name string) bool {
	for _, l := range PostListings {
		if l == name {
			return true
		}
	}
	return false
}
