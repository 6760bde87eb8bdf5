// Package cli provides the command-line interface for hubeau.
package cli

import (
	"context"
	"fmt"

	"github.com/Sternrassler/hubeau-client/internal/config"
	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/logging"
	"github.com/Sternrassler/hubeau-client/pkg/metrics"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

// rootOptions holds the persistent flags and the state built from them.
type rootOptions struct {
	configPath  string
	baseURL     string
	sessionFile string
	logLevel    string
	logPretty   bool
	metricsAddr string
	pageSize    int

	app *app
}

// app is the wiring shared by every command.
type app struct {
	cfg    *config.Config
	base   *client.Client
	paging pagination.Config
	logger zerolog.Logger
}

// NewRootCmd builds the hubeau command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "hubeau",
		Short: "Explore and export Hub'Eau water open data",
		Long: "hubeau queries the Hub'Eau APIs (fish population surveys, river water quality, ...), " +
			"summarizes a river's monitoring stations and exports the collected datasets as CSV files in a zip archive.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipSetup(cmd) {
				return nil
			}
			return opts.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&opts.baseURL, "base-url", "", "API root (default "+client.DefaultBaseURL+")")
	flags.StringVar(&opts.sessionFile, "session", "", "session state file (default "+config.DefaultSessionFile+")")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.logPretty, "log-pretty", false, "human-readable logs")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	flags.IntVar(&opts.pageSize, "page-size", 0, "records per page (default 5000)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSearchCmd(opts),
		newSelectCmd(opts),
		newExportCmd(opts),
		newFetchCmd(opts),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hubeau %s (%s)\n", Version, Commit)
		},
	}
}

// setup loads the configuration, applies flag overrides and builds the
// shared client.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if changed(cmd, "base-url") {
		cfg.API.BaseURL = o.baseURL
	}
	if changed(cmd, "session") {
		cfg.Session.File = o.sessionFile
	}
	if changed(cmd, "log-level") {
		cfg.Log.Level = o.logLevel
	}
	if changed(cmd, "log-pretty") {
		cfg.Log.Pretty = o.logPretty
	}
	if changed(cmd, "metrics-addr") {
		cfg.Metrics.Addr = o.metricsAddr
	}
	if changed(cmd, "page-size") {
		cfg.Fetch.PageSize = o.pageSize
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logging.Setup(cfg.LoggingConfig())
	pterm.SetDefaultOutput(cmd.OutOrStdout())
	logger := logging.NewLogger("hubeau-cli")

	base, err := client.New(cfg.ClientConfig(client.DefaultVersion))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	hook := metrics.Chain(metrics.Hook(), logging.TimingHook(logging.NewLogger("hubeau-fetch")))
	paging, err := cfg.PaginationConfig(hook)
	if err != nil {
		return fmt.Errorf("pagination config: %w", err)
	}

	if cfg.Metrics.Addr != "" {
		startMetrics(cmd.Context(), cfg.Metrics.Addr, logger)
	}

	o.app = &app{cfg: cfg, base: base, paging: paging, logger: logger}
	return nil
}

func startMetrics(ctx context.Context, addr string, logger zerolog.Logger) {
	go func() {
		if err := metrics.Serve(ctx, addr); err != nil {
			logger.Error().Err(err).Str("addr", addr).Msg("Metrics server stopped")
		}
	}()
}

// skipSetup reports whether cmd runs without configuration: version, help
// and the shell completion commands.
func skipSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
