package normalize

import (
	"bytes"
	"encoding/json"

	"knewkarma/pkg/reddit"
)

// Shape is the structural form of a raw response
type Shape int

const (
	ShapeUnknown  Shape = iota
	ShapeProfile        // bare entity object
	ShapeEnvelope       // {kind, data} around a single entity
	ShapeListing        // {kind, data:{children:[...]}}
	ShapeList           // JSON array of envelopes or listings
)

func (s Shape) String() string {
	switch s {
	case ShapeProfile:
		return "profile"
	case ShapeEnvelope:
		return "envelope"
	case ShapeListing:
		return "listing"
	case ShapeList:
		return "list"
	default:
		return "unknown"
	}
}

// Single reports whether the shape describes one entity
func (s Shape) Single() bool {
	return s == ShapeProfile || s == ShapeEnvelope
}

// Result is the outcome of normalizing a raw response: either one record
// or a list, tagged with the detected shape. An unrecognized input yields
// ShapeUnknown with neither set.
type Result[T any] struct {
	Shape  Shape
	Single *T
	List   []T
}

// DetectShape classifies raw without decoding the entities
func DetectShape(raw json.RawMessage) Shape {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ShapeUnknown
	}
	if raw[0] == '[' {
		return ShapeList
	}
	o, ok := decodeObject(raw)
	if !ok {
		return ShapeUnknown
	}
	if o.has("kind") && o.has("data") {
		if data := o.child("data"); data != nil && data.has("children") {
			return ShapeListing
		}
		return ShapeEnvelope
	}
	return ShapeProfile
}

// entity describes how to recognize and normalize one entity type
type entity[T any] struct {
	// marker is the key whose presence identifies a single profile
	marker string
	// kind is the listing kind tag; children with another tag are skipped
	kind  string
	build func(object) T
}

func (e entity[T]) parse(raw json.RawMessage) Result[T] {
	shape := DetectShape(raw)
	switch shape {
	case ShapeProfile:
		o, _ := decodeObject(raw)
		if e.marker != "" && !o.has(e.marker) {
			return Result[T]{}
		}
		v := e.build(o)
		return Result[T]{Shape: shape, Single: &v}

	case ShapeEnvelope:
		var env reddit.Envelope
		if json.Unmarshal(raw, &env) != nil {
			return Result[T]{}
		}
		o, ok := decodeObject(env.Data)
		if !ok || (e.marker != "" && !o.has(e.marker)) {
			return Result[T]{}
		}
		v := e.build(o)
		return Result[T]{Shape: shape, Single: &v}

	case ShapeListing:
		var listing reddit.Listing
		if json.Unmarshal(raw, &listing) != nil {
			return Result[T]{}
		}
		return Result[T]{Shape: shape, List: e.fromEnvelopes(listing.Data.Children)}

	case ShapeList:
		var envs []reddit.Envelope
		if json.Unmarshal(raw, &envs) != nil {
			return Result[T]{}
		}
		return Result[T]{Shape: shape, List: e.fromEnvelopes(envs)}
	}
	return Result[T]{}
}

func (e entity[T]) fromEnvelopes(envs []reddit.Envelope) []T {
	out := make([]T, 0, len(envs))
	for _, env := range envs {
		if e.kind != "" && env.Kind != "" && env.Kind != e.kind {
			continue
		}
		if !env.HasData() {
			continue
		}
		o, ok := decodeObject(env.Data)
		if !ok {
			continue
		}
		out = append(out, e.build(o))
	}
	return out
}

var (
	users       = entity[User]{marker: "is_employee", kind: "t2", build: buildUser}
	communities = entity[Community]{marker: "subreddit_type", kind: "t5", build: buildCommunity}
	previews    = entity[CommunityPreview]{marker: "subreddit_type", kind: "t5", build: buildCommunityPreview}
	posts       = entity[Post]{kind: "t3", build: buildPost}
	comments    = entity[Comment]{kind: "t1", build: buildComment}
	wikiPages   = entity[WikiRevision]{marker: "revision_id", build: buildWikiRevision}
)

// ParseUsers normalizes a user profile or a listing of users
func ParseUsers(raw json.RawMessage) Result[User] { return users.parse(raw) }

// ParseCommunities normalizes a community profile or a listing of communities
func ParseCommunities(raw json.RawMessage) Result[Community] { return communities.parse(raw) }

// ParseCommunityPreviews is ParseCommunities with the reduced record
func ParseCommunityPreviews(raw json.RawMessage) Result[CommunityPreview] {
	return previews.parse(raw)
}

// ParsePosts normalizes a single post or a listing of posts
func ParsePosts(raw json.RawMessage) Result[Post] { return posts.parse(raw) }

// ParseComments normalizes a single comment or a listing of comments
func ParseComments(raw json.RawMessage) Result[Comment] { return comments.parse(raw) }

// ParseWikiPage normalizes a wiki page response
func ParseWikiPage(raw json.RawMessage) Result[WikiRevision] { return wikiPages.parse(raw) }

// Users normalizes already-paginated children
func Users(envs []reddit.Envelope) []User { return users.fromEnvelopes(envs) }

func Communities(envs []reddit.Envelope) []Community { return communities.fromEnvelopes(envs) }

func CommunityPreviews(envs []reddit.Envelope) []CommunityPreview {
	return previews.fromEnvelopes(envs)
}

func Posts(envs []reddit.Envelope) []Post { return posts.fromEnvelopes(envs) }

// Comments skips non-comment children such as "more" stubs and, in mixed
// activity listings, posts
func Comments(envs []reddit.Envelope) []Comment { return comments.fromEnvelopes(envs) }

// ParseModeratedCommunities normalizes the moderated-communities response,
// whose data is a bare array of community objects
func ParseModeratedCommunities(raw json.RawMessage) []CommunityPreview {
	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	if json.Unmarshal(raw, &resp) != nil {
		return nil
	}
	out := make([]CommunityPreview, 0, len(resp.Data))
	for _, item := range resp.Data {
		if o, ok := decodeObject(item); ok {
			out = append(out, buildCommunityPreview(o))
		}
	}
	return out
}

// ParseWikiPageNames extracts the page names of a wiki page listing
func ParseWikiPageNames(raw json.RawMessage) []string {
	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	if json.Unmarshal(raw, &resp) != nil {
		return nil
	}
	names := make([]string, 0, len(resp.Data))
	for _, item := range resp.Data {
		var name string
		if json.Unmarshal(item, &name) == nil {
			names = append(names, name)
		}
	}
	return names
}

// Thread is a post together with its top-level comment tree
type Thread struct {
	Post     *Post
	Comments []Comment
}

// ParseThread normalizes the [post listing, comment listing] response of a
// post page. ok is false when raw does not have that shape; Post is nil when
// the post listing is empty.
func ParseThread(raw json.RawMessage) (thread Thread, ok bool) {
	if DetectShape(raw) != ShapeList {
		return Thread{}, false
	}
	var parts reddit.Thread
	if json.Unmarshal(raw, &parts) != nil || len(parts) == 0 {
		return Thread{}, false
	}

	if found := posts.fromEnvelopes(parts[0].Data.Children); len(found) > 0 {
		thread.Post = &found[0]
	}
	if len(parts) > 1 {
		thread.Comments = comments.fromEnvelopes(parts[1].Data.Children)
	} else {
		thread.Comments = []Comment{}
	}
	return thread, true
}
