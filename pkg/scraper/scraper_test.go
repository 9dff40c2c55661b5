package scraper

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knewkarma/internal/testutil"
	errs "knewkarma/pkg/errors"
	"knewkarma/pkg/logger"
	"knewkarma/pkg/normalize"
	"knewkarma/pkg/reddit"
	"knewkarma/pkg/retry"
)

func newTestScraper(t *testing.T, retryCfg *retry.Config) (*Scraper, *testutil.MockRedditServer) {
	t.Helper()
	srv := testutil.NewMockRedditServer()
	t.Cleanup(srv.Close)

	client := reddit.NewClient(reddit.Options{
		BaseURL: srv.URL(),
		Timeout: 5 * time.Second,
		Retry:   retryCfg,
	})
	settings := Settings{Sort: "all", Timeframe: "all", Limit: 100}
	return New(client, settings, logger.NewNopLogger()), srv
}

func requireErrorType(t *testing.T, err error, want errs.ErrorType, op, source string) {
	t.Helper()
	require.Error(t, err)
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, want, e.Type)
	assert.Equal(t, op, e.Op)
	assert.Equal(t, source, e.Source)
}

func postIDs(posts []normalize.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = *p.ID
	}
	return out
}

func TestUserProfile(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetJSON(reddit.UserProfilePath("spez"), testutil.UserProfile("spez"))

	user, err := s.User("spez").Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "spez", *user.Name)
	assert.Equal(t, int64(150), *user.TotalKarma)
	assert.Equal(t, normalize.FormatTimestamp(1600000000), user.Created)
}

func TestUserProfileNotFound(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetErrorResponse(reddit.UserProfilePath("ghost"), http.StatusNotFound)

	_, err := s.User("ghost").Profile(context.Background())
	requireErrorType(t, err, errs.ErrorTypeNotFound, "user.profile", "ghost")
	assert.True(t, errs.IsNotFound(err))
}

func TestUserProfileWithoutMarkerIsNotFound(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetJSON(reddit.UserProfilePath("suspended"), testutil.Envelope("t2", `{"name":"suspended","is_suspended":true}`))

	_, err := s.User("suspended").Profile(context.Background())
	requireErrorType(t, err, errs.ErrorTypeNotFound, "user.profile", "suspended")
}

func TestEmptyIdentifiersAreRejected(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	ctx := context.Background()

	_, err := s.User("").Profile(ctx)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	_, err = s.Community("").Posts(ctx, Options{})
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	_, err = s.Search("").Posts(ctx, Options{})
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	_, err = s.Post("", "golang").Profile(ctx)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	_, err = s.Community("golang").WikiPage(ctx, "")
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	assert.Zero(t, srv.GetRequestCount())
}

func TestUserPostsPaginates(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	path := reddit.UserPostsPath("spez")
	srv.SetPages(path,
		testutil.Posts("a", "golang", 3),
		testutil.Posts("b", "golang", 3),
	)

	posts, err := s.User("spez").Posts(context.Background(), Options{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"a0", "a1", "a2", "b0", "b1"}, postIDs(posts))

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "5", reqs[0].Query().Get("limit"))
	assert.Empty(t, reqs[0].Query().Get("after"))
	assert.Equal(t, "2", reqs[1].Query().Get("limit"))
	assert.Equal(t, "page_1", reqs[1].Query().Get("after"))
}

func TestUserPostsStopsAtLastPage(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetPages(reddit.UserPostsPath("spez"), testutil.Posts("a", "golang", 2))

	posts, err := s.User("spez").Posts(context.Background(), Options{})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, 1, srv.GetRequestCount())
	assert.Equal(t, "100", srv.LastQuery(reddit.UserPostsPath("spez")).Get("limit"))
}

func TestSortAndTimeframePassthrough(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	path := reddit.CommunityPostsPath("golang")
	srv.SetPages(path, testutil.Posts("p", "golang", 1))
	ctx := context.Background()

	_, err := s.Community("golang").Posts(ctx, Options{Sort: "top", Timeframe: "week"})
	require.NoError(t, err)
	q := srv.LastQuery(path)
	assert.Equal(t, "top", q.Get("sort"))
	assert.Equal(t, "week", q.Get("t"))

	_, err = s.Community("golang").Posts(ctx, Options{Sort: "new", Timeframe: "week"})
	require.NoError(t, err)
	q = srv.LastQuery(path)
	assert.Equal(t, "new", q.Get("sort"))
	assert.False(t, q.Has("t"), "timeframe only applies to top and controversial")

	_, err = s.Community("golang").Posts(ctx, Options{})
	require.NoError(t, err)
	q = srv.LastQuery(path)
	assert.False(t, q.Has("sort"), "sort all is the upstream default")
}

func TestInvalidOptionsMakeNoRequest(t *testing.T) {
	s, srv := newTestScraper(t, nil)

	_, err := s.User("spez").Posts(context.Background(), Options{Sort: "sideways"})
	requireErrorType(t, err, errs.ErrorTypeInvalidRequest, "user.posts", "spez")
	assert.Contains(t, err.Error(), "sort must be one of")

	_, err = s.Posts().New(context.Background(), Options{Limit: -1})
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	assert.Zero(t, srv.GetRequestCount())
}

func TestUserCommentsAndOverview(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetPages(reddit.UserCommentsPath("spez"), []string{
		testutil.Comment("c1", "golang", "first"),
		testutil.Comment("c2", "rust", "second"),
	})
	srv.SetPages(reddit.UserOverviewPath("spez"), []string{
		testutil.Comment("c1", "golang", "first"),
		testutil.Post("p1", "golang", "a post", ""),
		testutil.Comment("c3", "golang", "third"),
	})
	ctx := context.Background()

	comments, err := s.User("spez").Comments(ctx, Options{})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "r/rust", *comments[1].Community)

	overview, err := s.User("spez").Overview(ctx, Options{})
	require.NoError(t, err)
	require.Len(t, overview, 2)
	assert.Equal(t, "c3", *overview[1].ID)
}

func TestUserModeratedCommunities(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetJSON(reddit.UserModeratedPath("spez"), `{"kind":"ModeratedList","data":[
		{"sr":"announcements","subreddit_type":"public","subscribers":300,"community_icon":"https://x/a.png?s=1"},
		{"sr":"modnews","subreddit_type":"restricted"}
	]}`)

	communities, err := s.User("spez").ModeratedCommunities(context.Background())
	require.NoError(t, err)
	require.Len(t, communities, 2)
	assert.Equal(t, "announcements", *communities[0].Name)
	assert.Equal(t, "https://x/a.png", *communities[0].Icon)
	assert.Equal(t, "restricted", *communities[1].Type)
}

func TestUserSearchPostsAndComments(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetPages(reddit.UserPostsPath("spez"), []string{
		testutil.Post("p1", "golang", "Generics in GO", ""),
		testutil.Post("p2", "rust", "borrow checker", "nothing about go here? well, Go."),
		testutil.Post("p3", "rust", "lifetimes", "none"),
	})
	srv.SetPages(reddit.UserCommentsPath("spez"), []string{
		testutil.Comment("c1", "golang", "I love gophers"),
		testutil.Comment("c2", "golang", "cats"),
	})
	ctx := context.Background()

	posts, err := s.User("spez").SearchPosts(ctx, "go", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, postIDs(posts))

	posts, err = s.User("spez").SearchPosts(ctx, "lifetimes", Options{Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, posts, "the limit bounds the fetched posts, not the matches")

	comments, err := s.User("spez").SearchComments(ctx, "GOPHER", Options{})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", *comments[0].ID)

	_, err = s.User("spez").SearchPosts(ctx, "", Options{})
	requireErrorType(t, err, errs.ErrorTypeInvalidRequest, "user.search_posts", "spez")
}

func TestUserTopCommunities(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetPages(reddit.UserPostsPath("spez"), []string{
		testutil.Post("1", "rust", "", ""),
		testutil.Post("2", "golang", "", ""),
		testutil.Post("3", "golang", "", ""),
		testutil.Post("4", "python", "", ""),
		testutil.Post("5", "rust", "", ""),
		testutil.Post("6", "golang", "", ""),
	})

	top, err := s.User("spez").TopCommunities(context.Background(), 2, Options{})
	require.NoError(t, err)
	assert.Equal(t, []normalize.CommunityCount{
		{Community: "golang", Count: 3},
		{Community: "rust", Count: 2},
	}, top)

	_, err = s.User("spez").TopCommunities(context.Background(), 0, Options{})
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
}

func TestCommunityProfileAndSearch(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetJSON(reddit.CommunityProfilePath("golang"), testutil.CommunityProfile("golang"))
	srv.SetPages(reddit.CommunityPostsPath("golang"), []string{
		testutil.Post("p1", "golang", "Range over func", ""),
		testutil.Post("p2", "golang", "Modules", "how do I use RANGE?"),
		testutil.Post("p3", "golang", "Channels", ""),
	})
	ctx := context.Background()

	community, err := s.Community("golang").Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "golang", *community.Name)
	assert.Equal(t, "https://styles.redditmedia.com/golang.png", *community.Icon)

	posts, err := s.Community("golang").Search(ctx, "range", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, postIDs(posts))
}

func TestCommunityWiki(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetJSON(reddit.WikiPagesPath("golang"), `{"kind":"wikipagelisting","data":["index","faq"]}`)
	srv.SetJSON(reddit.WikiPagePath("golang", "faq"), testutil.WikiPage("# FAQ", "mod_one"))
	srv.SetJSON(reddit.WikiPagePath("golang", "empty"), `{"kind":"wikipage","data":{"content_md":""}}`)
	ctx := context.Background()

	pages, err := s.Community("golang").WikiPages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"index", "faq"}, pages)

	rev, err := s.Community("golang").WikiPage(ctx, "faq")
	require.NoError(t, err)
	assert.Equal(t, "# FAQ", *rev.ContentMarkdown)
	require.NotNil(t, rev.RevisedBy)
	assert.Equal(t, "mod_one", *rev.RevisedBy.Name)

	_, err = s.Community("golang").WikiPage(ctx, "empty")
	requireErrorType(t, err, errs.ErrorTypeNotFound, "community.wiki_page", "golang")
}

func TestCommunitiesGroups(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetPages(reddit.CommunitiesPath(reddit.CommunitiesPopular), []string{
		testutil.CommunityProfile("AskReddit"),
		testutil.CommunityProfile("funny"),
	})
	srv.SetPages(reddit.CommunitiesPath(reddit.CommunitiesAll), []string{
		testutil.CommunityProfile("golang"),
	})
	ctx := context.Background()

	popular, err := s.Communities().Popular(ctx, Options{})
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "AskReddit", *popular[0].Name)

	all, err := s.Communities().All(ctx, Options{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 1, srv.PathCount("/subreddits.json"))

	_, err = s.Communities().New(ctx, Options{})
	requireErrorType(t, err, errs.ErrorTypeNotFound, "communities.new", "new")
}

func TestPostProfileAndComments(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	path := reddit.PostThreadPath("golang", "abc")
	srv.SetJSON(path, testutil.Thread(
		testutil.Post("abc", "golang", "Go 1.23", "released"),
		testutil.Comment("c1", "golang", "nice"),
		testutil.Comment("c2", "golang", "finally"),
		testutil.More(12),
	))
	ctx := context.Background()

	post, err := s.Post("abc", "golang").Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Go 1.23", *post.Title)

	comments, err := s.Post("abc", "golang").Comments(ctx, Options{Limit: 5, Sort: "top", Timeframe: "day"})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "finally", *comments[1].Body)

	q := srv.LastQuery(path)
	assert.Equal(t, "5", q.Get("limit"))
	assert.Equal(t, "top", q.Get("sort"))
	assert.Equal(t, 2, srv.PathCount(path), "thread is fetched in one request per call")

	_, err = s.Post("abc", "golang").Comments(ctx, Options{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, "500", srv.LastQuery(path).Get("limit"))
	assert.Equal(t, 3, srv.PathCount(path))
}

func TestPostThreadErrors(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetJSON(reddit.PostThreadPath("golang", "gone"), "["+testutil.Listing(nil, "")+","+testutil.Listing(nil, "")+"]")
	srv.SetJSON(reddit.PostThreadPath("golang", "odd"), testutil.Listing(nil, ""))
	ctx := context.Background()

	_, err := s.Post("gone", "golang").Profile(ctx)
	requireErrorType(t, err, errs.ErrorTypeNotFound, "post.profile", "golang/gone")

	_, err = s.Post("odd", "golang").Comments(ctx, Options{})
	requireErrorType(t, err, errs.ErrorTypeMalformed, "post.comments", "golang/odd")
}

func TestPostsListings(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetPages(reddit.NewPostsPath, testutil.Posts("n", "golang", 2))
	srv.SetPages(reddit.FrontPagePath, testutil.Posts("f", "pics", 1))
	srv.SetPages(reddit.CommunityPostsPath("rising"), testutil.Posts("r", "news", 3))
	ctx := context.Background()

	newPosts, err := s.Posts().New(ctx, Options{})
	require.NoError(t, err)
	assert.Len(t, newPosts, 2)

	front, err := s.Posts().FrontPage(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"f0"}, postIDs(front))

	rising, err := s.Posts().Listing(ctx, "rising", Options{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"r0", "r1"}, postIDs(rising))

	_, err = s.Posts().Listing(ctx, "sideways", Options{})
	requireErrorType(t, err, errs.ErrorTypeInvalidRequest, "posts.listing", "sideways")
}

func TestSearch(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetPages(reddit.SearchPath, []string{
		testutil.UserProfile("gopher_one"),
		testutil.CommunityProfile("golang"),
		testutil.Post("p1", "golang", "gophers", ""),
	})
	ctx := context.Background()

	users, err := s.Search("gopher").Users(ctx, Options{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "gopher_one", *users[0].Name)
	q := srv.LastQuery(reddit.SearchPath)
	assert.Equal(t, "gopher", q.Get("q"))
	assert.Equal(t, reddit.SearchUsers, q.Get("type"))

	communities, err := s.Search("gopher").Communities(ctx, Options{Timeframe: "month"})
	require.NoError(t, err)
	require.Len(t, communities, 1)
	q = srv.LastQuery(reddit.SearchPath)
	assert.Equal(t, reddit.SearchCommunities, q.Get("type"))
	assert.Equal(t, "month", q.Get("t"))

	posts, err := s.Search("gopher").Posts(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, postIDs(posts))
}

func TestRateLimitedWithoutRetry(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	path := reddit.CommunityProfilePath("golang")
	srv.SetJSON(path, testutil.CommunityProfile("golang"))
	srv.RateLimitNext(path, 1)

	_, err := s.Community("golang").Profile(context.Background())
	requireErrorType(t, err, errs.ErrorTypeRateLimit, "community.profile", "golang")
	assert.True(t, errs.IsRateLimited(err))
}

func TestRateLimitedWithRetry(t *testing.T) {
	cfg := &retry.Config{
		MaxAttempts: 3,
		Backoff:     &retry.ConstantBackoff{Delay: time.Millisecond},
		MaxDelay:    10 * time.Millisecond,
	}
	s, srv := newTestScraper(t, cfg)
	path := reddit.CommunityProfilePath("golang")
	srv.SetJSON(path, testutil.CommunityProfile("golang"))
	srv.RateLimitNext(path, 2)

	community, err := s.Community("golang").Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "golang", *community.Name)
	assert.Equal(t, 2, srv.GetRateLimitHits())
	assert.Equal(t, 3, srv.PathCount(path))
}

func TestPaginationErrorCarriesOp(t *testing.T) {
	s, srv := newTestScraper(t, nil)
	srv.SetErrorResponse(reddit.UserCommentsPath("spez"), http.StatusBadGateway)

	_, err := s.User("spez").Comments(context.Background(), Options{})
	requireErrorType(t, err, errs.ErrorTypeTransport, "user.comments", "spez")
	assert.Contains(t, err.Error(), "code 502")
}

func TestSettingsFallback(t *testing.T) {
	srv := testutil.NewMockRedditServer()
	defer srv.Close()
	srv.SetPages(reddit.CommunityPostsPath("golang"), testutil.Posts("p", "golang", 10))

	client := reddit.NewClient(reddit.Options{BaseURL: srv.URL()})
	s := New(client, Settings{Sort: "controversial", Timeframe: "year", Limit: 3}, nil)

	posts, err := s.Community("golang").Posts(context.Background(), Options{})
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	q := srv.LastQuery(reddit.CommunityPostsPath("golang"))
	assert.Equal(t, "controversial", q.Get("sort"))
	assert.Equal(t, "year", q.Get("t"))
	assert.Equal(t, "3", q.Get("limit"))
}

func TestDefaultSettings(t *testing.T) {
	d := DefaultSettings()
	assert.Equal(t, "all", d.Sort)
	assert.Equal(t, "all", d.Timeframe)
	assert.Equal(t, 100, d.Limit)
	assert.Equal(t, 20*time.Second, d.PageDelay)
}
