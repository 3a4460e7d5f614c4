package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/history"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	var (
		limit    int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(root.output)
			if err != nil {
				return err
			}
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Search history is disabled (history.enabled = false).")
				return nil
			}

			store, err := history.Open(cfg.History.Path, cfg.History.Limit)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if clearAll {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Search history cleared.")
				return nil
			}

			entries, err := store.Recent(limit)
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), format, entries)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all recorded searches")
	return cmd
}
