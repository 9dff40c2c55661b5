package main

import (
	"github.com/spf13/cobra"

	"knewkarma/pkg/scraper"
	"knewkarma/pkg/ui"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search users, posts or communities",
	Example: `  knewkarma search "golang generics" --posts --sort top --timeframe year
  knewkarma search golang --communities`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setup,
	RunE:    runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	f := searchCmd.Flags()
	f.Bool("users", false, "search users")
	f.Bool("posts", false, "search posts")
	f.Bool("communities", false, "search communities")
}

func runSearch(cmd *cobra.Command, args []string) error {
	action, err := pickAction(cmd, "users", "posts", "communities")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sr := current.scraper.Search(args[0])
	var opts scraper.Options

	ui.PrintInfo("search", args[0])
	var res result
	switch action {
	case "users":
		res, err = list(sr.Users(ctx, opts))
	case "posts":
		res, err = list(sr.Posts(ctx, opts))
	default:
		res, err = list(sr.Communities(ctx, opts))
	}
	if err != nil {
		return err
	}
	return current.emit("search", action, "", res)
}
