package testutil

import (
	"fmt"
	"strings"
)

// UserProfile returns a t2 envelope for a user account
func UserProfile(name string) string {
	return Envelope("t2", Object(map[string]interface{}{
		"name":             name,
		"id":               "id_" + name,
		"icon_img":         "https://styles.redditmedia.com/" + name + ".png",
		"verified":         true,
		"is_employee":      false,
		"is_mod":           false,
		"is_gold":          false,
		"hide_from_robots": false,
		"comment_karma":    100,
		"link_karma":       50,
		"total_karma":      150,
		"created":          1600000000,
	}))
}

// CommunityProfile returns a t5 envelope for a community
func CommunityProfile(name string) string {
	return Envelope("t5", Object(map[string]interface{}{
		"display_name":       name,
		"id":                 "id_" + name,
		"public_description": "All about " + name,
		"subreddit_type":     "public",
		"subscribers":        1000,
		"community_icon":     "https://styles.redditmedia.com/" + name + ".png?width=256",
		"url":                "/r/" + name + "/",
		"created":            1500000000,
	}))
}

// Post returns a t3 envelope
func Post(id, community, title, body string) string {
	return Envelope("t3", Object(map[string]interface{}{
		"id":             id,
		"title":          title,
		"selftext":       body,
		"author":         "author_" + id,
		"subreddit":      community,
		"subreddit_type": "public",
		"ups":            10,
		"score":          10,
		"edited":         false,
		"num_comments":   2,
		"permalink":      fmt.Sprintf("/r/%s/comments/%s/", community, id),
		"created":        1700000000,
	}))
}

// Comment returns a t1 envelope
func Comment(id, community, body string) string {
	return Envelope("t1", Object(map[string]interface{}{
		"id":                      id,
		"body":                    body,
		"author":                  "author_" + id,
		"subreddit_name_prefixed": "r/" + community,
		"subreddit_type":          "public",
		"link_id":                 "t3_parent",
		"ups":                     3,
		"score":                   3,
		"edited":                  false,
		"created":                 1700000100,
	}))
}

// More returns a "load more comments" stub
func More(count int) string {
	return Envelope("more", fmt.Sprintf(`{"count":%d,"children":[]}`, count))
}

// Posts builds n posts with ids prefix0..prefixN-1 in community
func Posts(prefix, community string, n int) []string {
	out := make([]string, n)
	for i := range out {
		id := fmt.Sprintf("%s%d", prefix, i)
		out[i] = Post(id, community, "title "+id, "body "+id)
	}
	return out
}

// Thread renders the [post listing, comment listing] response of a post page
func Thread(post string, comments ...string) string {
	return "[" + Listing([]string{post}, "") + "," + Listing(comments, "") + "]"
}

// WikiPage returns a wikipage envelope revised by name
func WikiPage(content, revisedBy string) string {
	return Envelope("wikipage", Object(map[string]interface{}{
		"content_md":    content,
		"revision_id":   "rev-" + strings.ToLower(revisedBy),
		"revision_date": 1700000200,
		"revision_by": map[string]interface{}{
			"kind": "t2",
			"data": map[string]interface{}{"name": revisedBy, "is_employee": false},
		},
	}))
}
