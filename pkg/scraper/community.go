package scraper

import (
	"context"

	"knewkarma/pkg/normalize"
	"knewkarma/pkg/reddit"
)

// Community groups the operations on one community
type Community struct {
	s    *Scraper
	name string
}

// Community returns the operations on the named community
func (s *Scraper) Community(name string) *Community {
	return &Community{s: s, name: name}
}

func (cm *Community) Name() string {
	return cm.name
}

func (cm *Community) call(op string) call {
	return call{op: "community." + op, source: cm.name}
}

// Profile returns the community profile
func (cm *Community) Profile(ctx context.Context) (*normalize.Community, error) {
	c := cm.call("profile")
	if err := c.requireSource("community name"); err != nil {
		return nil, err
	}
	community, err := fetchProfile(ctx, cm.s, c, reddit.CommunityProfilePath(cm.name), "community profile", normalize.ParseCommunities)
	if err != nil {
		return nil, err
	}
	cm.s.done(c, 1)
	return community, nil
}

// Posts returns the community's posts
func (cm *Community) Posts(ctx context.Context, opts Options) ([]normalize.Post, error) {
	return cm.posts(ctx, cm.call("posts"), opts)
}

func (cm *Community) posts(ctx context.Context, c call, opts Options) ([]normalize.Post, error) {
	if err := c.requireSource("community name"); err != nil {
		return nil, err
	}
	req, err := cm.s.resolve(c, opts)
	if err != nil {
		return nil, err
	}
	items, err := cm.s.listing(ctx, c, reddit.CommunityPostsPath(cm.name), req)
	if err != nil {
		return nil, err
	}
	posts := normalize.Posts(items)
	cm.s.done(c, len(posts))
	return posts, nil
}

// Search returns the community's posts whose title or body contains keyword,
// ignoring case
func (cm *Community) Search(ctx context.Context, keyword string, opts Options) ([]normalize.Post, error) {
	c := cm.call("search")
	if keyword == "" {
		return nil, c.invalid("keyword must not be empty")
	}
	posts, err := cm.posts(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	return filterPosts(posts, keyword), nil
}

// WikiPages returns the names of the community's wiki pages
func (cm *Community) WikiPages(ctx context.Context) ([]string, error) {
	c := cm.call("wiki_pages")
	if err := c.requireSource("community name"); err != nil {
		return nil, err
	}
	raw, err := cm.s.client.GetRaw(ctx, reddit.WikiPagesPath(cm.name), nil)
	if err != nil {
		return nil, c.wrap(err)
	}
	names := normalize.ParseWikiPageNames(raw)
	cm.s.done(c, len(names))
	return names, nil
}

// WikiPage returns the latest revision of one wiki page
func (cm *Community) WikiPage(ctx context.Context, page string) (*normalize.WikiRevision, error) {
	c := cm.call("wiki_page")
	if err := c.requireSource("community name"); err != nil {
		return nil, err
	}
	if page == "" {
		return nil, c.invalid("wiki page name must not be empty")
	}
	rev, err := fetchProfile(ctx, cm.s, c, reddit.WikiPagePath(cm.name, page), "wiki page", normalize.ParseWikiPage)
	if err != nil {
		return nil, err
	}
	cm.s.done(c, 1)
	return rev, nil
}
