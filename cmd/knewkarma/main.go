package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	errs "knewkarma/pkg/errors"
	"knewkarma/pkg/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code. Ctrl+C
// cancels in-flight requests and pagination delays.
func run(args []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	start := time.Now()
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	elapsed(start)

	return exitCode(err)
}

// exitCode reports err and maps it to an exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		ui.PrintWarning("Interrupted")
		return 130
	case errors.Is(err, errMissingAction):
		ui.PrintError(err.Error())
		return 2
	case errs.IsRateLimited(err):
		ui.PrintError("Rate limited by Reddit, try again later or lower --limit", err)
		return 1
	default:
		ui.PrintError("Error", err)
		return 1
	}
}
