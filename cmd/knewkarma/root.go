package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"knewkarma/pkg/config"
	"knewkarma/pkg/export"
	"knewkarma/pkg/logger"
	"knewkarma/pkg/scraper"
	"knewkarma/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	noColor     bool
	sortOrder   string
	timeframe   string
	limit       int
	sleepSecs   int
	exportSpec  string
	exportDir   string
	workers     int
	rateLimit   int
	maxRetries  int
	metricsAddr string
)

// errMissingAction is returned when a command is run without choosing what to
// retrieve
var errMissingAction = errors.New("missing one or more expected argument(s)")

// app is the state shared by the retrieval commands of one run
type app struct {
	cfg      *config.Config
	log      logger.Logger
	scraper  *scraper.Scraper
	exporter *export.Manager
}

var current *app

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "knewkarma",
	Short: "Retrieve public Reddit data from the command line",
	Long: `knewkarma retrieves public data about Reddit users, communities, posts
and search results, renders it as tables and optionally exports it.

Listings are fetched page by page with a pause between pages (--sleep) so that
large limits stay within the upstream rate limits.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "config file (default is ./.knewkarma.yaml or ~/.config/knewkarma/config.yaml)")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.StringVarP(&sortOrder, "sort", "s", "", "sort order (controversial, new, top, best, hot, rising, all)")
	pf.StringVarP(&timeframe, "timeframe", "t", "", "timeframe (hour, day, week, month, year, all)")
	pf.IntVarP(&limit, "limit", "l", 0, "maximum number of items to retrieve")
	pf.IntVar(&sleepSecs, "sleep", 0, "seconds to wait between listing pages")
	pf.StringVarP(&exportSpec, "export", "e", "", "comma separated export formats (csv, html, json, xml, md)")
	pf.StringVar(&exportDir, "export-dir", "", "directory exported files are written to")
	pf.IntVar(&workers, "workers", 0, "number of targets fetched concurrently")
	pf.IntVar(&rateLimit, "rate-limit", 0, "requests per minute")
	pf.IntVar(&maxRetries, "max-retries", 0, "maximum number of attempts per request")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	rootCmd.SetVersionTemplate(`knewkarma {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// commandFlags collects the explicitly set global flags for
// config.MergeCommandLineFlags
func commandFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := cmd.Flags().Changed

	if set("sort") {
		flags["sort"] = sortOrder
	}
	if set("timeframe") {
		flags["timeframe"] = timeframe
	}
	if set("limit") {
		flags["limit"] = limit
	}
	if set("sleep") {
		flags["sleep"] = sleepSecs
	}
	if set("export") {
		flags["export"] = config.SplitFormats(exportSpec)
	}
	if set("export-dir") {
		flags["export-dir"] = exportDir
	}
	if set("no-color") {
		flags["no-color"] = noColor
	}
	if set("log-level") {
		flags["log-level"] = logLevel
	}
	if set("workers") {
		flags["workers"] = workers
	}
	if set("rate-limit") {
		flags["requests-per-minute"] = rateLimit
	}
	if set("max-retries") {
		flags["max-retries"] = maxRetries
	}
	return flags
}

// setup loads the configuration and builds the shared app state. It runs
// before every retrieval command.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	ui.SetColor(ui.IsTerminal(os.Stdout) && !cfg.Output.NoColor)
	if ui.IsTerminal(os.Stdout) {
		ui.PrintLogo()
	}

	if metricsAddr != "" {
		serveMetrics(cmd.Context(), metricsAddr, log)
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		scraper: scraper.NewFromConfig(cfg, log),
	}
	if len(cfg.Output.ExportFormats) > 0 {
		a.exporter, err = export.NewManager(cfg.Output.ExportDirectory, log)
		if err != nil {
			return err
		}
	}
	current = a

	log.WithFields(map[string]interface{}{
		"version": version,
		"command": cmd.CommandPath(),
	}).Debug("knewkarma starting")
	return nil
}

// pickAction returns the first of the named flags that was set on cmd
func pickAction(cmd *cobra.Command, names ...string) (string, error) {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return name, nil
		}
	}
	return "", errMissingAction
}

// elapsed reports how long the run took
func elapsed(start time.Time) {
	if current != nil {
		ui.PrintElapsed(time.Since(start))
	}
}
