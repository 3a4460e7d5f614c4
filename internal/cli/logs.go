package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/logtail"
)

func newLogsCommand(root *rootOptions) *cobra.Command {
	var (
		lines int
		level string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the tail of the interactive session log",
		Long: `The interactive UI writes its log to a file because it owns the terminal.
logs prints the most recent entries from that file in a readable form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := logging.LookupLevel(level)
			if err != nil {
				return err
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			entries, err := logtail.Tail(cfg.Logging.File, lines)
			if err != nil {
				return err
			}
			entries = logtail.AtLeast(entries, threshold)

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No log entries in %s\n", cfg.Logging.File)
				return nil
			}
			return logtail.Render(out, entries, logging.IsTerminal(out))
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to read from the end (0 for all)")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level to show ("+logging.LevelNames+")")
	return cmd
}
