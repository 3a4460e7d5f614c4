package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/five82/marquee/internal/history"
	"github.com/five82/marquee/internal/state"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

const historyTimeLayout = "2006-01-02 15:04"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func parseFormat(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", formatText:
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", value)
	}
}

// writeResults renders search results in format.
func writeResults(w io.Writer, format string, results []QueryResult) error {
	switch format {
	case formatJSON:
		return writeJSON(w, results)
	case formatYAML:
		return writeYAML(w, results)
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if len(results) > 1 {
			fmt.Fprintf(w, "%s\n", headerStyle.UnsetPadding().Render(fmt.Sprintf("%q", r.Query)))
		}
		switch {
		case r.Error != "":
			fmt.Fprintln(w, state.ErrorNotice)
		case len(r.Movies) == 0:
			fmt.Fprintln(w, state.NoResultsNotice)
		default:
			fmt.Fprintln(w, movieTable(r).String())
		}
	}
	return nil
}

func movieTable(r QueryResult) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "YEAR", "RATING", "VOTES").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, m := range r.Movies {
		year := "-"
		if y := m.Year(); y > 0 {
			year = strconv.Itoa(y)
		}
		t.Row(strconv.FormatInt(m.ID, 10), m.Title, year, m.Rating(), strconv.Itoa(m.VoteCount))
	}
	return t
}

// writeHistory renders history entries in format.
func writeHistory(w io.Writer, format string, entries []history.Entry) error {
	switch format {
	case formatJSON:
		return writeJSON(w, entries)
	case formatYAML:
		return writeYAML(w, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No searches recorded yet.")
		return nil
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SEARCHED", "QUERY").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, e := range entries {
		t.Row(e.SearchedAt.Local().Format(historyTimeLayout), e.Query)
	}
	fmt.Fprintln(w, t.String())
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return enc.Close()
}
