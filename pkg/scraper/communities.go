package scraper

import (
	"context"

	"knewkarma/pkg/normalize"
	"knewkarma/pkg/reddit"
)

// Communities lists communities in bulk
type Communities struct {
	s *Scraper
}

func (s *Scraper) Communities() *Communities {
	return &Communities{s: s}
}

func (cs *Communities) All(ctx context.Context, opts Options) ([]normalize.CommunityPreview, error) {
	return cs.group(ctx, reddit.CommunitiesAll, opts)
}

func (cs *Communities) Default(ctx context.Context, opts Options) ([]normalize.CommunityPreview, error) {
	return cs.group(ctx, reddit.CommunitiesDefault, opts)
}

func (cs *Communities) New(ctx context.Context, opts Options) ([]normalize.CommunityPreview, error) {
	return cs.group(ctx, reddit.CommunitiesNew, opts)
}

func (cs *Communities) Popular(ctx context.Context, opts Options) ([]normalize.CommunityPreview, error) {
	return cs.group(ctx, reddit.CommunitiesPopular, opts)
}

func (cs *Communities) group(ctx context.Context, group string, opts Options) ([]normalize.CommunityPreview, error) {
	c := call{op: "communities." + group, source: group}
	req, err := cs.s.resolve(c, opts)
	if err != nil {
		return nil, err
	}
	items, err := cs.s.listing(ctx, c, reddit.CommunitiesPath(group), req)
	if err != nil {
		return nil, err
	}
	communities := normalize.CommunityPreviews(items)
	cs.s.done(c, len(communities))
	return communities, nil
}
