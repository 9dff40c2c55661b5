package main

import (
	"github.com/spf13/cobra"

	"knewkarma/pkg/scraper"
)

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post <id> <community>",
	Short: "Retrieve a post or its comments",
	Example: `  knewkarma post 1a2b3c golang --profile
  knewkarma post 1a2b3c golang --comments --sort top --limit 20`,
	Args:    cobra.ExactArgs(2),
	PreRunE: setup,
	RunE:    runPost,
}

func init() {
	rootCmd.AddCommand(postCmd)

	f := postCmd.Flags()
	f.Bool("profile", false, "show the post")
	f.Bool("comments", false, "list the post's comments")
}

func runPost(cmd *cobra.Command, args []string) error {
	action, err := pickAction(cmd, "profile", "comments")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p := current.scraper.Post(args[0], args[1])

	var res result
	if action == "profile" {
		res, err = single(p.Profile(ctx))
	} else {
		res, err = list(p.Comments(ctx, scraper.Options{}))
	}
	if err != nil {
		return err
	}
	return current.emit("post", action, args[0], res)
}
