package main

import (
	"github.com/spf13/cobra"

	"knewkarma/pkg/scraper"
)

// communitiesCmd represents the communities command
var communitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "List communities by group",
	Example: `  knewkarma communities --popular --limit 25
  knewkarma communities --new -e md`,
	Args:    cobra.NoArgs,
	PreRunE: setup,
	RunE:    runCommunities,
}

func init() {
	rootCmd.AddCommand(communitiesCmd)

	f := communitiesCmd.Flags()
	f.Bool("all", false, "list all communities")
	f.Bool("default", false, "list the default communities")
	f.Bool("new", false, "list the newest communities")
	f.Bool("popular", false, "list the most popular communities")
}

func runCommunities(cmd *cobra.Command, _ []string) error {
	action, err := pickAction(cmd, "all", "default", "new", "popular")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cs := current.scraper.Communities()
	var opts scraper.Options

	var res result
	switch action {
	case "all":
		res, err = list(cs.All(ctx, opts))
	case "default":
		res, err = list(cs.Default(ctx, opts))
	case "new":
		res, err = list(cs.New(ctx, opts))
	default:
		res, err = list(cs.Popular(ctx, opts))
	}
	if err != nil {
		return err
	}
	return current.emit("communities", action, "", res)
}
