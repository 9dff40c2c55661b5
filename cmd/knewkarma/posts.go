package main

import (
	"strings"

	"github.com/spf13/cobra"

	"knewkarma/pkg/scraper"
)

var postsListing string

// postsCmd represents the posts command
var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List site-wide posts",
	Long: `List the newest posts, the front page, or one of the named listings
(` + strings.Join(scraper.PostListings, ", ") + `).`,
	Example: `  knewkarma posts --front-page --limit 10
  knewkarma posts --listing best -e json`,
	Args:    cobra.NoArgs,
	PreRunE: setup,
	RunE:    runPosts,
}

func init() {
	rootCmd.AddCommand(postsCmd)

	f := postsCmd.Flags()
	f.Bool("new", false, "list the newest posts")
	f.Bool("front-page", false, "list the front page posts")
	f.StringVar(&postsListing, "listing", "", "list the posts of a named `listing`")
}

func runPosts(cmd *cobra.Command, _ []string) error {
	action, err := pickAction(cmd, "new", "front-page", "listing")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ps := current.scraper.Posts()
	var opts scraper.Options

	var res result
	switch action {
	case "new":
		res, err = list(ps.New(ctx, opts))
	case "front-page":
		res, err = list(ps.FrontPage(ctx, opts))
	default:
		action = postsListing
		res, err = list(ps.Listing(ctx, postsListing, opts))
	}
	if err != nil {
		return err
	}
	return current.emit("posts", action, "", res)
}
