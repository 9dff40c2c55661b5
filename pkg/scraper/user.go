package scraper

import (
	"context"
	"sort"

	"knewkarma/pkg/normalize"
	"knewkarma/pkg/reddit"
)

// User groups the operations on one account
type User struct {
	s        *Scraper
	username string
}

// User returns the operations on username
func (s *Scraper) User(username string) *User {
	return &User{s: s, username: username}
}

// Username returns the account name these operations target
func (u *User) Username() string {
	return u.username
}

func (u *User) call(op string) call {
	return call{op: "user." + op, source: u.username}
}

// Profile returns the account profile
func (u *User) Profile(ctx context.Context) (*normalize.User, error) {
	c := u.call("profile")
	if err := c.requireSource("username"); err != nil {
		return nil, err
	}
	user, err := fetchProfile(ctx, u.s, c, reddit.UserProfilePath(u.username), "user profile", normalize.ParseUsers)
	if err != nil {
		return nil, err
	}
	u.s.done(c, 1)
	return user, nil
}

// Posts returns the account's submissions
func (u *User) Posts(ctx context.Context, opts Options) ([]normalize.Post, error) {
	return u.posts(ctx, u.call("posts"), opts)
}

func (u *User) posts(ctx context.Context, c call, opts Options) ([]normalize.Post, error) {
	if err := c.requireSource("username"); err != nil {
		return nil, err
	}
	req, err := u.s.resolve(c, opts)
	if err != nil {
		return nil, err
	}
	items, err := u.s.listing(ctx, c, reddit.UserPostsPath(u.username), req)
	if err != nil {
		return nil, err
	}
	posts := normalize.Posts(items)
	u.s.done(c, len(posts))
	return posts, nil
}

// Comments returns the account's comments
func (u *User) Comments(ctx context.Context, opts Options) ([]normalize.Comment, error) {
	return u.comments(ctx, u.call("comments"), reddit.UserCommentsPath(u.username), opts)
}

// Overview returns the comment part of the account's recent activity.
// Posts in the activity feed count against the limit but are not returned.
func (u *User) Overview(ctx context.Context, opts Options) ([]normalize.Comment, error) {
	return u.comments(ctx, u.call("overview"), reddit.UserOverviewPath(u.username), opts)
}

func (u *User) comments(ctx context.Context, c call, path string, opts Options) ([]normalize.Comment, error) {
	if err := c.requireSource("username"); err != nil {
		return nil, err
	}
	req, err := u.s.resolve(c, opts)
	if err != nil {
		return nil, err
	}
	items, err := u.s.listing(ctx, c, path, req)
	if err != nil {
		return nil, err
	}
	comments := normalize.Comments(items)
	u.s.done(c, len(comments))
	return comments, nil
}

// ModeratedCommunities returns the communities the account moderates
func (u *User) ModeratedCommunities(ctx context.Context) ([]normalize.CommunityPreview, error) {
	c := u.call("moderated_communities")
	if err := c.requireSource("username"); err != nil {
		return nil, err
	}
	raw, err := u.s.client.GetRaw(ctx, reddit.UserModeratedPath(u.username), nil)
	if err != nil {
		return nil, c.wrap(err)
	}
	communities := normalize.ParseModeratedCommunities(raw)
	u.s.done(c, len(communities))
	return communities, nil
}

// SearchPosts returns the account's posts whose title or body contains
// keyword, ignoring case
func (u *User) SearchPosts(ctx context.Context, keyword string, opts Options) ([]normalize.Post, error) {
	c := u.call("search_posts")
	if keyword == "" {
		return nil, c.invalid("keyword must not be empty")
	}
	posts, err := u.posts(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	return filterPosts(posts, keyword), nil
}

// SearchComments returns the account's comments whose body contains keyword,
// ignoring case
func (u *User) SearchComments(ctx context.Context, keyword string, opts Options) ([]normalize.Comment, error) {
	c := u.call("search_comments")
	if keyword == "" {
		return nil, c.invalid("keyword must not be empty")
	}
	comments, err := u.comments(ctx, c, reddit.UserCommentsPath(u.username), opts)
	if err != nil {
		return nil, err
	}
	return filterComments(comments, keyword), nil
}

// TopCommunities tallies the communities of the account's posts and returns
// the topN most frequent, most frequent first. Ties keep first-seen order.
func (u *User) TopCommunities(ctx context.Context, topN int, opts Options) ([]normalize.CommunityCount, error) {
	c := u.call("top_communities")
	if topN <= 0 {
		return nil, c.invalid("top communities count must be positive, got %d", topN)
	}
	posts, err := u.posts(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	return tallyCommunities(posts, topN), nil
}

func tallyCommunities(posts []normalize.Post, topN int) []normalize.CommunityCount {
	index := make(map[string]int)
	counts := make([]normalize.CommunityCount, 0)
	for _, p := range posts {
		if p.Community == nil {
			continue
		}
		name := *p.Community
		if i, ok := index[name]; ok {
			counts[i].Count++
			continue
		}
		index[name] = len(counts)
		counts = append(counts, normalize.CommunityCount{Community: name, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > topN {
		counts = counts[:topN]
	}
	return counts
}
