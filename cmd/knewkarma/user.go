package main

import (
	"context"

	"github.com/spf13/cobra"

	"knewkarma/pkg/scraper"
)

var (
	userSearchPosts    string
	userSearchComments string
	userTopCommunities int
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user <username> [username...]",
	Short: "Retrieve data about one or more users",
	Long: `Retrieve a user's profile, posts, comments, overview or moderated
communities, search their posts and comments by keyword, or rank the
communities they post in most.

Several usernames can be given; each is fetched independently and a failure
for one does not stop the others.`,
	Example: `  # Show a profile
  knewkarma user spez --profile

  # Latest 50 posts of two users, exported as JSON and CSV
  knewkarma user spez kn0thing --posts --sort new --limit 50 -e json,csv

  # Comments mentioning a keyword
  knewkarma user spez --search-comments "api"

  # The 5 communities a user posts in most
  knewkarma user spez --top-communities 5`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: setup,
	RunE:    runUser,
}

func init() {
	rootCmd.AddCommand(userCmd)

	f := userCmd.Flags()
	f.Bool("profile", false, "show the user's profile")
	f.Bool("posts", false, "list the user's posts")
	f.Bool("comments", false, "list the user's comments")
	f.Bool("overview", false, "list the comments of the user's recent activity")
	f.Bool("moderated-communities", false, "list the communities the user moderates")
	f.StringVar(&userSearchPosts, "search-posts", "", "list the user's posts containing `keyword`")
	f.StringVar(&userSearchComments, "search-comments", "", "list the user's comments containing `keyword`")
	f.IntVar(&userTopCommunities, "top-communities", 0, "rank the `N` communities the user posts in most")
}

func runUser(cmd *cobra.Command, args []string) error {
	action, err := pickAction(cmd, "profile", "posts", "comments", "overview",
		"moderated-communities", "search-posts", "search-comments", "top-communities")
	if err != nil {
		return err
	}

	s := current.scraper
	var opts scraper.Options

	return current.runTargets(cmd.Context(), "user", action, args, func(ctx context.Context, name string) (result, error) {
		u := s.User(name)
		switch action {
		case "profile":
			return single(u.Profile(ctx))
		case "posts":
			return list(u.Posts(ctx, opts))
		case "comments":
			return list(u.Comments(ctx, opts))
		case "overview":
			return list(u.Overview(ctx, opts))
		case "moderated-communities":
			return list(u.ModeratedCommunities(ctx))
		case "search-posts":
			return list(u.SearchPosts(ctx, userSearchPosts, opts))
		case "search-comments":
			return list(u.SearchComments(ctx, userSearchComments, opts))
		default:
			return list(u.TopCommunities(ctx, userTopCommunities, opts))
		}
	})
}
