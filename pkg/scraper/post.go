package scraper

import (
	"context"
	"net/url"

	"knewkarma/pkg/normalize"
	"knewkarma/pkg/reddit"
)

// Post groups the operations on one post
type Post struct {
	s         *Scraper
	id        string
	community string
}

// Post returns the operations on post id in community
func (s *Scraper) Post(id, community string) *Post {
	return &Post{s: s, id: id, community: community}
}

func (p *Post) call(op string) call {
	return call{op: "post." + op, source: p.community + "/" + p.id}
}

func (p *Post) check(c call) error {
	if p.id == "" {
		return c.invalid("post id must not be empty")
	}
	if p.community == "" {
		return c.invalid("post community must not be empty")
	}
	return nil
}

// Profile returns the post itself
func (p *Post) Profile(ctx context.Context) (*normalize.Post, error) {
	c := p.call("profile")
	if err := p.check(c); err != nil {
		return nil, err
	}
	thread, err := p.s.thread(ctx, c, reddit.PostThreadPath(p.community, p.id), nil)
	if err != nil {
		return nil, err
	}
	if thread.Post == nil {
		return nil, c.notFound("post")
	}
	p.s.done(c, 1)
	return thread.Post, nil
}

// Comments returns the post's top-level comments in a single request. The
// limit and sort are passed upstream; "load more" stubs are dropped.
func (p *Post) Comments(ctx context.Context, opts Options) ([]normalize.Comment, error) {
	c := p.call("comments")
	if err := p.check(c); err != nil {
		return nil, err
	}
	req, err := p.s.resolve(c, opts)
	if err != nil {
		return nil, err
	}

	var query url.Values
	if req.limit > 0 {
		query = reddit.ThreadParams(req.sort, req.timeframe, req.limit)
	}
	thread, err := p.s.thread(ctx, c, reddit.PostThreadPath(p.community, p.id), query)
	if err != nil {
		return nil, err
	}
	p.s.done(c, len(thread.Comments))
	return thread.Comments, nil
}
