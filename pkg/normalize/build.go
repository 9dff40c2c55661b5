package normalize

func buildUser(o object) User {
	u := User{
		Name:             o.str("name"),
		ID:               o.str("id"),
		AvatarURL:        o.str("icon_img"),
		IsVerified:       o.boolean("verified"),
		HasVerifiedEmail: o.boolean("has_verified_email"),
		IsGold:           o.boolean("is_gold"),
		IsMod:            o.boolean("is_mod"),
		IsBlocked:        o.boolean("is_blocked"),
		IsEmployee:       o.boolean("is_employee"),
		HiddenFromBots:   o.boolean("hide_from_robots"),
		AcceptsFollowers: o.boolean("accept_followers"),
		CommentKarma:     o.integer("comment_karma"),
		LinkKarma:        o.integer("link_karma"),
		AwardeeKarma:     o.integer("awardee_karma"),
		TotalKarma:       o.integer("total_karma"),
		Created:          o.created("created"),
	}
	if sub := o.child("subreddit"); sub != nil {
		c := buildCommunityPreview(sub)
		u.Community = &c
	}
	return u
}

func buildCommunity(o object) Community {
	return Community{
		Name:               o.str("display_name"),
		ID:                 o.str("id"),
		Description:        o.str("public_description"),
		SubmitText:         o.str("submit_text"),
		Icon:               o.icon("community_icon", "icon_img"),
		Type:               o.str("subreddit_type"),
		Subscribers:        o.integer("subscribers"),
		CurrentActiveUsers: o.firstInt("accounts_active", "active_user_count"),
		IsNSFW:             o.boolean("over18"),
		Language:           o.str("lang"),
		WhitelistStatus:    o.str("whitelist_status"),
		URL:                o.str("url"),
		Created:            o.created("created"),
	}
}

func buildCommunityPreview(o object) CommunityPreview {
	return CommunityPreview{
		Name:            o.firstStr("display_name", "sr"),
		ID:              o.str("id"),
		Type:            o.str("subreddit_type"),
		Icon:            o.icon("community_icon", "icon_img"),
		Subscribers:     o.integer("subscribers"),
		WhitelistStatus: o.str("whitelist_status"),
		URL:             o.str("url"),
		Created:         o.created("created"),
	}
}

func buildPost(o object) Post {
	return Post{
		Author:        o.str("author"),
		Title:         o.str("title"),
		Body:          o.str("selftext"),
		ID:            o.str("id"),
		Community:     o.str("subreddit"),
		CommunityID:   o.str("subreddit_id"),
		CommunityType: o.str("subreddit_type"),
		Upvotes:       o.integer("ups"),
		UpvoteRatio:   o.number("upvote_ratio"),
		Downvotes:     o.integer("downs"),
		Thumbnail:     o.str("thumbnail"),
		Gilded:        o.integer("gilded"),
		IsNSFW:        o.boolean("over_18"),
		IsShareable:   o.boolean("is_reddit_media_domain"),
		HideFromBots:  o.boolean("is_robot_indexable"),
		Permalink:     o.str("permalink"),
		IsLocked:      o.boolean("locked"),
		IsArchived:    o.boolean("archived"),
		Domain:        o.str("domain"),
		Score:         o.integer("score"),
		Edited:        o.edited("edited"),
		Comments:      o.integer("num_comments"),
		Created:       o.created("created"),
	}
}

func buildComment(o object) Comment {
	return Comment{
		Body:            o.str("body"),
		ID:              o.str("id"),
		Author:          o.str("author"),
		AuthorIsPremium: o.boolean("author_premium"),
		Upvotes:         o.integer("ups"),
		Downvotes:       o.integer("downs"),
		Community:       o.str("subreddit_name_prefixed"),
		CommunityType:   o.str("subreddit_type"),
		PostID:          o.str("link_id"),
		PostTitle:       o.str("link_title"),
		IsNSFW:          o.boolean("over_18"),
		IsEdited:        o.edited("edited"),
		Score:           o.integer("score"),
		HiddenScore:     o.boolean("score_hidden"),
		Gilded:          o.integer("gilded"),
		IsStickied:      o.boolean("stickied"),
		IsLocked:        o.boolean("locked"),
		IsArchived:      o.boolean("archived"),
		Created:         o.created("created"),
	}
}

func buildWikiRevision(o object) WikiRevision {
	w := WikiRevision{
		RevisionID:      o.str("revision_id"),
		RevisionDate:    o.created("revision_date"),
		ContentMarkdown: o.str("content_md"),
	}
	if by := o.child("revision_by"); by != nil {
		if data := by.child("data"); data != nil {
			u := buildUser(data)
			w.RevisedBy = &u
		}
	}
	return w
}
