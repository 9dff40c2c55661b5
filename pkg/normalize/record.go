package normalize

// Kind names the entity a record describes
type Kind string

const (
	KindUser             Kind = "user"
	KindCommunity        Kind = "community"
	KindCommunityPreview Kind = "community_preview"
	KindPost             Kind = "post"
	KindComment          Kind = "comment"
	KindWikiRevision     Kind = "wiki_revision"
	KindCommunityCount   Kind = "community_count"
)

// Field is one named value of a record. Value is nil for absent data.
type Field struct {
	Name  string
	Value interface{}
}

// Record is a flat normalized entity with a fixed, ordered key set
type Record interface {
	Kind() Kind
	Fields() []Field
}

// Records converts a typed slice for rendering and export
func Records[T Record](items []T) []Record {
	out := make([]Record, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Names returns the field names of r in order
func Names(r Record) []string {
	fields := r.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func val[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// User is a normalized account profile
type User struct {
	Name             *string           `json:"name"`
	ID               *string           `json:"id"`
	AvatarURL        *string           `json:"avatar_url"`
	IsVerified       *bool             `json:"is_verified"`
	HasVerifiedEmail *bool             `json:"has_verified_email"`
	IsGold           *bool             `json:"is_gold"`
	IsMod            *bool             `json:"is_mod"`
	IsBlocked        *bool             `json:"is_blocked"`
	IsEmployee       *bool             `json:"is_employee"`
	HiddenFromBots   *bool             `json:"hidden_from_bots"`
	AcceptsFollowers *bool             `json:"accepts_followers"`
	CommentKarma     *int64            `json:"comment_karma"`
	LinkKarma        *int64            `json:"link_karma"`
	AwardeeKarma     *int64            `json:"awardee_karma"`
	TotalKarma       *int64            `json:"total_karma"`
	Community        *CommunityPreview `json:"community"`
	Created          string            `json:"created"`
}

func (User) Kind() Kind { return KindUser }

func (u User) Fields() []Field {
	var community interface{}
	if u.Community != nil {
		community = *u.Community
	}
	return []Field{
		{"name", val(u.Name)},
		{"id", val(u.ID)},
		{"avatar_url", val(u.AvatarURL)},
		{"is_verified", val(u.IsVerified)},
		{"has_verified_email", val(u.HasVerifiedEmail)},
		{"is_gold", val(u.IsGold)},
		{"is_mod", val(u.IsMod)},
		{"is_blocked", val(u.IsBlocked)},
		{"is_employee", val(u.IsEmployee)},
		{"hidden_from_bots", val(u.HiddenFromBots)},
		{"accepts_followers", val(u.AcceptsFollowers)},
		{"comment_karma", val(u.CommentKarma)},
		{"link_karma", val(u.LinkKarma)},
		{"awardee_karma", val(u.AwardeeKarma)},
		{"total_karma", val(u.TotalKarma)},
		{"community", community},
		{"created", u.Created},
	}
}

// Community is a normalized community profile
type Community struct {
	Name               *string `json:"name"`
	ID                 *string `json:"id"`
	Description        *string `json:"description"`
	SubmitText         *string `json:"submit_text"`
	Icon               *string `json:"icon"`
	Type               *string `json:"type"`
	Subscribers        *int64  `json:"subscribers"`
	CurrentActiveUsers *int64  `json:"current_active_users"`
	IsNSFW             *bool   `json:"is_nsfw"`
	Language           *string `json:"language"`
	WhitelistStatus    *string `json:"whitelist_status"`
	URL                *string `json:"url"`
	Created            string  `json:"created"`
}

func (Community) Kind() Kind { return KindCommunity }

func (c Community) Fields() []Field {
	return []Field{
		{"name", val(c.Name)},
		{"id", val(c.ID)},
		{"description", val(c.Description)},
		{"submit_text", val(c.SubmitText)},
		{"icon", val(c.Icon)},
		{"type", val(c.Type)},
		{"subscribers", val(c.Subscribers)},
		{"current_active_users", val(c.CurrentActiveUsers)},
		{"is_nsfw", val(c.IsNSFW)},
		{"language", val(c.Language)},
		{"whitelist_status", val(c.WhitelistStatus)},
		{"url", val(c.URL)},
		{"created", c.Created},
	}
}

// CommunityPreview is the reduced community record used by bulk listings
type CommunityPreview struct {
	Name            *string `json:"name"`
	ID              *string `json:"id"`
	Type            *string `json:"type"`
	Icon            *string `json:"icon"`
	Subscribers     *int64  `json:"subscribers"`
	WhitelistStatus *string `json:"whitelist_status"`
	URL             *string `json:"url"`
	Created         string  `json:"created"`
}

func (CommunityPreview) Kind() Kind { return KindCommunityPreview }

func (c CommunityPreview) Fields() []Field {
	return []Field{
		{"name", val(c.Name)},
		{"id", val(c.ID)},
		{"type", val(c.Type)},
		{"icon", val(c.Icon)},
		{"subscribers", val(c.Subscribers)},
		{"whitelist_status", val(c.WhitelistStatus)},
		{"url", val(c.URL)},
		{"created", c.Created},
	}
}

// Post is a normalized submission
type Post struct {
	Author        *string  `json:"author"`
	Title         *string  `json:"title"`
	Body          *string  `json:"body"`
	ID            *string  `json:"id"`
	Community     *string  `json:"community"`
	CommunityID   *string  `json:"community_id"`
	CommunityType *string  `json:"community_type"`
	Upvotes       *int64   `json:"upvotes"`
	UpvoteRatio   *float64 `json:"upvote_ratio"`
	Downvotes     *int64   `json:"downvotes"`
	Thumbnail     *string  `json:"thumbnail"`
	Gilded        *int64   `json:"gilded"`
	IsNSFW        *bool    `json:"is_nsfw"`
	IsShareable   *bool    `json:"is_shareable"`
	HideFromBots  *bool    `json:"hide_from_bots"`
	Permalink     *string  `json:"permalink"`
	IsLocked      *bool    `json:"is_locked"`
	IsArchived    *bool    `json:"is_archived"`
	Domain        *string  `json:"domain"`
	Score         *int64   `json:"score"`
	Edited        Edited   `json:"edited"`
	Comments      *int64   `json:"comments"`
	Created       string   `json:"created"`
}

func (Post) Kind() Kind { return KindPost }

func (p Post) Fields() []Field {
	return []Field{
		{"author", val(p.Author)},
		{"title", val(p.Title)},
		{"body", val(p.Body)},
		{"id", val(p.ID)},
		{"community", val(p.Community)},
		{"community_id", val(p.CommunityID)},
		{"community_type", val(p.CommunityType)},
		{"upvotes", val(p.Upvotes)},
		{"upvote_ratio", val(p.UpvoteRatio)},
		{"downvotes", val(p.Downvotes)},
		{"thumbnail", val(p.Thumbnail)},
		{"gilded", val(p.Gilded)},
		{"is_nsfw", val(p.IsNSFW)},
		{"is_shareable", val(p.IsShareable)},
		{"hide_from_bots", val(p.HideFromBots)},
		{"permalink", val(p.Permalink)},
		{"is_locked", val(p.IsLocked)},
		{"is_archived", val(p.IsArchived)},
		{"domain", val(p.Domain)},
		{"score", val(p.Score)},
		{"edited", p.Edited.Value()},
		{"comments", val(p.Comments)},
		{"created", p.Created},
	}
}

// Comment is a normalized comment
type Comment struct {
	Body            *string `json:"body"`
	ID              *string `json:"id"`
	Author          *string `json:"author"`
	AuthorIsPremium *bool   `json:"author_is_premium"`
	Upvotes         *int64  `json:"upvotes"`
	Downvotes       *int64  `json:"downvotes"`
	Community       *string `json:"community"`
	CommunityType   *string `json:"community_type"`
	PostID          *string `json:"post_id"`
	PostTitle       *string `json:"post_title"`
	IsNSFW          *bool   `json:"is_nsfw"`
	IsEdited        Edited  `json:"is_edited"`
	Score           *int64  `json:"score"`
	HiddenScore     *bool   `json:"hidden_score"`
	Gilded          *int64  `json:"gilded"`
	IsStickied      *bool   `json:"is_stickied"`
	IsLocked        *bool   `json:"is_locked"`
	IsArchived      *bool   `json:"is_archived"`
	Created         string  `json:"created"`
}

func (Comment) Kind() Kind { return KindComment }

func (c Comment) Fields() []Field {
	return []Field{
		{"body", val(c.Body)},
		{"id", val(c.ID)},
		{"author", val(c.Author)},
		{"author_is_premium", val(c.AuthorIsPremium)},
		{"upvotes", val(c.Upvotes)},
		{"downvotes", val(c.Downvotes)},
		{"community", val(c.Community)},
		{"community_type", val(c.CommunityType)},
		{"post_id", val(c.PostID)},
		{"post_title", val(c.PostTitle)},
		{"is_nsfw", val(c.IsNSFW)},
		{"is_edited", c.IsEdited.Value()},
		{"score", val(c.Score)},
		{"hidden_score", val(c.HiddenScore)},
		{"gilded", val(c.Gilded)},
		{"is_stickied", val(c.IsStickied)},
		{"is_locked", val(c.IsLocked)},
		{"is_archived", val(c.IsArchived)},
		{"created", c.Created},
	}
}

// WikiRevision is the latest revision of a community wiki page
type WikiRevision struct {
	RevisionID      *string `json:"revision_id"`
	RevisionDate    string  `json:"revision_date"`
	ContentMarkdown *string `json:"content_markdown"`
	RevisedBy       *User   `json:"revised_by"`
}

func (WikiRevision) Kind() Kind { return KindWikiRevision }

func (w WikiRevision) Fields() []Field {
	var by interface{}
	if w.RevisedBy != nil {
		by = *w.RevisedBy
	}
	return []Field{
		{"revision_id", val(w.RevisionID)},
		{"revision_date", w.RevisionDate},
		{"content_markdown", val(w.ContentMarkdown)},
		{"revised_by", by},
	}
}

// CommunityCount is one row of a user's most active communities
type CommunityCount struct {
	Community string `json:"community"`
	Count     int    `json:"count"`
}

func (CommunityCount) Kind() Kind { return KindCommunityCount }

func (c CommunityCount) Fields() []Field {
	return []Field{
		{"community", c.Community},
		{"count", c.Count},
	}
}
