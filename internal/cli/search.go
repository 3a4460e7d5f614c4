package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/five82/marquee/internal/app"
	"github.com/five82/marquee/internal/filter"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/movie"
	"github.com/five82/marquee/internal/state"
)

// searchConcurrency bounds parallel queries for a multi-query search.
const searchConcurrency = 4

// QueryResult is the outcome of one query in a scripted search.
type QueryResult struct {
	Query  string        `json:"query" yaml:"query"`
	Movies []movie.Movie `json:"movies" yaml:"movies"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty"`
}

func newSearchCommand(root *rootOptions) *cobra.Command {
	var (
		filterExpr string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search movies without the interactive UI",
		Long: `Search runs each QUERY against the configured provider and prints the
results. Multiple queries run concurrently and are reported in argument order.

Results can be narrowed with an expression over movie fields, e.g.

  marquee search batman --filter 'Year >= 2000 && Rating > 7'
  marquee search alien heat -o json --filter '"Thriller" in Genres'
  marquee search knight --filter 'icontains(Title, "dark")'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(root.output)
			if err != nil {
				return err
			}

			var f *filter.Filter
			if strings.TrimSpace(filterExpr) != "" {
				f, err = filter.Compile(filterExpr)
				if err != nil {
					return err
				}
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			logger := logging.Console(cmd.ErrOrStderr(), cfg.Logging.Level)

			searcher, err := newSearcher(cfg, logger)
			if err != nil {
				return err
			}

			queries := make([]string, 0, len(args))
			for _, arg := range args {
				if q := strings.TrimSpace(arg); q != "" {
					queries = append(queries, q)
				}
			}
			if len(queries) == 0 {
				return errors.New("no non-empty query given")
			}

			results, err := runSearches(cmd.Context(), searcher, queries, f, limit, logger)
			if err != nil {
				return err
			}

			if hist := app.OpenHistory(cfg, logger); hist != nil {
				for _, q := range queries {
					if err := hist.Add(q); err != nil {
						logger.Warn().Err(err).Str("query", q).Msg("record search history")
					}
				}
				_ = hist.Close()
			}

			if err := writeResults(cmd.OutOrStdout(), format, results); err != nil {
				return err
			}
			return searchFailures(results)
		},
	}

	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression over movie fields (e.g. 'Year >= 2000')")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum results per query (0 for all)")
	return cmd
}

// runSearches runs every query with bounded concurrency. A failed query is
// recorded in its result and does not cancel the others.
func runSearches(ctx context.Context, searcher movie.Searcher, queries []string, f *filter.Filter, limit int, logger zerolog.Logger) ([]QueryResult, error) {
	results := make([]QueryResult, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(searchConcurrency)

	for i, query := range queries {
		g.Go(func() error {
			results[i].Query = query

			movies, err := searcher.Search(ctx, query)
			if err != nil {
				logger.Error().Err(err).Str("query", query).Msg("movie search failed")
				results[i].Error = state.ErrorNotice
				return nil
			}

			movies, err = f.Apply(movies)
			if err != nil {
				return fmt.Errorf("filter results for %q: %w", query, err)
			}
			if limit > 0 && len(movies) > limit {
				movies = movies[:limit]
			}
			results[i].Movies = movies
			logger.Debug().Str("query", query).Int("count", len(movies)).Msg("movie search complete")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// searchFailures reports queries that failed to fetch.
func searchFailures(results []QueryResult) error {
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d searches failed: %w", failed, len(results), movie.ErrFetch)
}
