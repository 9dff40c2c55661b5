package main

import (
	"context"

	"github.com/spf13/cobra"

	"knewkarma/pkg/scraper"
)

var (
	communitySearch   string
	communityWikiPage string
)

// communityCmd represents the community command
var communityCmd = &cobra.Command{
	Use:     "community <name> [name...]",
	Aliases: []string{"subreddit"},
	Short:   "Retrieve data about one or more communities",
	Long: `Retrieve a community's profile, posts, wiki page names or a single wiki
page, or search its posts by keyword.`,
	Example: `  # Show a community profile
  knewkarma community golang --profile

  # Top posts of the week
  knewkarma community golang --posts --sort top --timeframe week

  # Read a wiki page
  knewkarma community golang --wiki-page index`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: setup,
	RunE:    runCommunity,
}

func init() {
	rootCmd.AddCommand(communityCmd)

	f := communityCmd.Flags()
	f.Bool("profile", false, "show the community's profile")
	f.Bool("posts", false, "list the community's posts")
	f.StringVar(&communitySearch, "search", "", "list the community's posts containing `keyword`")
	f.Bool("wiki-pages", false, "list the community's wiki page names")
	f.StringVar(&communityWikiPage, "wiki-page", "", "show the latest revision of wiki `page`")
}

func runCommunity(cmd *cobra.Command, args []string) error {
	action, err := pickAction(cmd, "profile", "posts", "search", "wiki-pages", "wiki-page")
	if err != nil {
		return err
	}

	s := current.scraper
	var opts scraper.Options

	return current.runTargets(cmd.Context(), "community", action, args, func(ctx context.Context, name string) (result, error) {
		c := s.Community(name)
		switch action {
		case "profile":
			return single(c.Profile(ctx))
		case "posts":
			return list(c.Posts(ctx, opts))
		case "search":
			return list(c.Search(ctx, communitySearch, opts))
		case "wiki-pages":
			names, err := c.WikiPages(ctx)
			if err != nil {
				return result{}, err
			}
			return wikiPages(names), nil
		default:
			return single(c.WikiPage(ctx, communityWikiPage))
		}
	})
}
