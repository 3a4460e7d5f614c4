// Package cli defines marquee's cobra commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/app"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/logging"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	prefsPath  string
	output     string
}

// Swapped out in tests.
var (
	newSearcher = app.NewSearcher
	runTUI      = app.Run
	isTerminal  = func() bool { return logging.IsTerminal(os.Stdin) && logging.IsTerminal(os.Stdout) }
)

var errNoTerminal = errors.New("marquee needs an interactive terminal; use `marquee search` for scripted lookups")

// NewRootCommand creates the root command. Without a subcommand it starts the
// interactive search UI.
func NewRootCommand(version, commit, date string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "marquee",
		Short: "Search movies from the terminal",
		Long: `marquee is a terminal movie browser. Type a title, browse the results
grid and open any movie for its full details.

Searches go to TMDB by default, or to a Radarr instance's lookup endpoint
when provider = "radarr" is set in the config file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return errNoTerminal
			}
			return runTUI(cmd.Context(), app.Options{
				ConfigPath: opts.configPath,
				PrefsPath:  opts.prefsPath,
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&opts.prefsPath, "prefs", "", "preferences file path")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", formatText, "output format (text, json, yaml)")

	rootCmd.AddCommand(newSearchCommand(opts))
	rootCmd.AddCommand(newHistoryCommand(opts))
	rootCmd.AddCommand(newLogsCommand(opts))
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "marquee %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// loadConfig reads the config named by --config.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
