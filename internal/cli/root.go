// Package cli implements the termfolio command-line interface.
//
// Running termfolio with no subcommand opens the interactive portfolio. The
// subcommands expose the pieces on their own:
//   - serve: host a local blog directory over HTTP
//   - post: print one blog post as HTML or styled terminal text
//   - rain: render the background animation to a PNG
//   - secrets: list the hidden features
//
// Configuration is layered: built-in defaults, then TERMFOLIO_* environment
// variables (a .env file is loaded by the main package), then flags.
package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/csheth/termfolio/internal/config"
	"github.com/csheth/termfolio/internal/logging"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOptions is shared by every subcommand. cfg is final once
// PersistentPreRunE has run.
type rootOptions struct {
	cfg     *config.Config
	verbose bool

	profile     string
	blogIndex   string
	logFile     string
	cacheDir    string
	noAltScreen bool
}

// Execute runs the termfolio CLI.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&rootOptions{cfg: config.NewDefaultConfig()})
}

func buildRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:          "termfolio",
		Short:        "termfolio is a portfolio and blog that lives in your terminal",
		Long:         `termfolio renders a developer portfolio as a full-screen terminal app: digital rain, a typed intro, collapsible skills and projects, and a markdown blog.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(cmd); err != nil {
				return err
			}
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			} else if parsed, err := logging.ParseLevel(opts.cfg.LogLevel); err == nil {
				level = parsed
			}
			ctx := logging.WithLogger(cmd.Context(), logging.New(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("termfolio %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	flags := root.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&opts.profile, "profile", "", "portfolio profile (.toml or .yaml); empty uses the built-in one")
	flags.StringVar(&opts.blogIndex, "blog-index", "", "blog index path or URL (default "+opts.cfg.BlogIndex+")")
	flags.StringVar(&opts.logFile, "log-file", "", "log file used while the full-screen UI runs")
	flags.StringVar(&opts.cacheDir, "cache-dir", "", "cache directory for remote post files")
	root.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newPostCmd(opts))
	root.AddCommand(newRainCmd())
	root.AddCommand(newSecretsCmd())

	return root
}

// resolve layers environment variables and then explicitly set flags over
// the defaults.
func (o *rootOptions) resolve(cmd *cobra.Command) error {
	if err := o.cfg.ApplyEnv(); err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("profile") {
		o.cfg.ProfilePath = o.profile
	}
	if flags.Changed("blog-index") {
		o.cfg.BlogIndex = o.blogIndex
	}
	if flags.Changed("log-file") {
		o.cfg.LogFile = o.logFile
	}
	if flags.Changed("cache-dir") {
		o.cfg.CacheDir = o.cacheDir
	}
	if o.noAltScreen {
		o.cfg.NoAltScreen = true
	}
	if o.verbose {
		o.cfg.LogLevel = "debug"
	}
	if err := o.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
