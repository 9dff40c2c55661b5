package reddit

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// BaseURL is the public JSON API root
	BaseURL = "https://www.reddit.com"

	// MaxPageSize is the largest page the upstream will serve per request
	MaxPageSize = 100

	// SortAll leaves the order to the upstream default and is never sent
	SortAll = "all"
)

// Search result kinds accepted by the "type" parameter of /search.json
const (
	SearchUsers       = "user"
	SearchCommunities = "sr"
	SearchPosts       = "link"
)

// Community listing groups served under /subreddits
const (
	CommunitiesAll     = "all"
	CommunitiesDefault = "default"
	CommunitiesNew     = "new"
	CommunitiesPopular = "popular"
)

func UserProfilePath(username string) string {
	return fmt.Sprintf("/user/%s/about.json", url.PathEscape(username))
}

func UserPostsPath(username string) string {
	return fmt.Sprintf("/user/%s/submitted.json", url.PathEscape(username))
}

func UserCommentsPath(username string) string {
	return fmt.Sprintf("/user/%s/comments.json", url.PathEscape(username))
}

func UserOverviewPath(username string) string {
	return fmt.Sprintf("/user/%s/overview.json", url.PathEscape(username))
}

func UserModeratedPath(username string) string {
	return fmt.Sprintf("/user/%s/moderated_subreddits.json", url.PathEscape(username))
}

func CommunityProfilePath(community string) string {
	return fmt.Sprintf("/r/%s/about.json", url.PathEscape(community))
}

// CommunityPostsPath is also used for named post listings such as "popular"
func CommunityPostsPath(community string) string {
	return fmt.Sprintf("/r/%s.json", url.PathEscape(community))
}

func WikiPagesPath(community string) string {
	return fmt.Sprintf("/r/%s/wiki/pages.json", url.PathEscape(community))
}

func WikiPagePath(community, page string) string {
	return fmt.Sprintf("/r/%s/wiki/%s.json", url.PathEscape(community), url.PathEscape(page))
}

func PostThreadPath(community, postID string) string {
	return fmt.Sprintf("/r/%s/comments/%s.json", url.PathEscape(community), url.PathEscape(postID))
}

// CommunitiesPath returns the listing path for a community group
func CommunitiesPath(group string) string {
	if group == CommunitiesAll || group == "" {
		return "/subreddits.json"
	}
	return fmt.Sprintf("/subreddits/%s.json", url.PathEscape(group))
}

const (
	NewPostsPath  = "/new.json"
	FrontPagePath = "/.json"
	SearchPath    = "/search.json"
)

// ListingParams builds the query for a paginated listing request.
// The timeframe is only meaningful for top and controversial orderings and is
// dropped for every other sort.
func ListingParams(sort, timeframe string, limit int, after string) url.Values {
	params := url.Values{}
	if sort != "" && sort != SortAll {
		params.Set("sort", sort)
	}
	if timeframe != "" && usesTimeframe(sort) {
		params.Set("t", timeframe)
	}
	setPaging(params, limit, after)
	return params
}

// ThreadParams builds the query for a post's comment thread. The thread is
// served in one response, so the limit is sent as given.
func ThreadParams(sort, timeframe string, limit int) url.Values {
	params := ListingParams(sort, timeframe, 0, "")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

// SearchParams builds the query for a /search.json request
func SearchParams(query, kind, sort, timeframe string, limit int, after string) url.Values {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", kind)
	if sort != "" && sort != SortAll {
		params.Set("sort", sort)
	}
	if timeframe != "" {
		params.Set("t", timeframe)
	}
	setPaging(params, limit, after)
	return params
}

// PageSize clamps the number of items requested for one page
func PageSize(remaining int) int {
	if remaining > MaxPageSize {
		return MaxPageSize
	}
	return remaining
}

func usesTimeframe(sort string) bool {
	return sort == "top" || sort == "controversial"
}

func setPaging(params url.Values, limit int, after string) {
	if limit > 0 {
		params.Set("limit", strconv.Itoa(PageSize(limit)))
	}
	if after != "" {
		params.Set("after", after)
	}
}
