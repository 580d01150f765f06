package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/arf/areacheck/internal/app"
	"github.com/arf/areacheck/internal/application/stats"
	"github.com/arf/areacheck/internal/application/table"
	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/infrastructure/cli/helpers"
	"github.com/arf/areacheck/internal/infrastructure/history"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect persisted results",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent results, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.Context(), cmd.OutOrStdout(), container, limit, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all persisted results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHistory(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a .jsonl or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(cmd.Context(), cmd.OutOrStdout(), container, args[0])
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show hit rate and execution time statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

func listHistoryEntries(ctx context.Context, out io.Writer, container *app.Container, limit int, asJSON bool) error {
	store := container.HistoryStore
	if store == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	records := store.Load(ctx)
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	if asJSON {
		text, err := toJSON(records)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	}

	rows := make([]domain.TableRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.FormatRow(rec))
	}
	helpers.RenderTable(out, rows)
	return nil
}

func clearHistory(ctx context.Context, out io.Writer, container *app.Container) error {
	if container.HistoryStore == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	if err := container.HistoryStore.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Fprintln(out, MsgHistoryCleared)
	return nil
}

func exportHistory(ctx context.Context, out io.Writer, container *app.Container, path string) error {
	store := container.HistoryStore
	if store == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	records := store.Load(ctx)
	if err := history.Export(records, path); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}

	fmt.Fprintf(out, "Exported %d records to %s\n", len(records), path)
	return nil
}

func showHistoryStats(ctx context.Context, out io.Writer, container *app.Container) error {
	store := container.HistoryStore
	if store == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	records := store.Load(ctx)
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	summary, err := stats.Summarize(records)
	if err != nil {
		return fmt.Errorf("failed to analyze history: %w", err)
	}
	displayHistoryStatistics(out, summary)
	return nil
}

func displayHistoryStatistics(out io.Writer, s stats.Summary) {
	fmt.Fprintf(out, "Entries analyzed: %d\nHits: %d\nMisses: %d\nHit rate: %.1f%%\n",
		s.Total, s.Hits, s.Misses, s.HitRate)
	fmt.Fprintf(out, "Execution time (ms): mean %.4f, median %.4f, p95 %.4f, max %.4f\n",
		s.MeanExecution, s.MedianExecution, s.P95Execution, s.MaxExecution)

	radii := make([]float64, 0, len(s.ByRadius))
	for r := range s.ByRadius {
		radii = append(radii, r)
	}
	sort.Float64s(radii)

	fmt.Fprintln(out, "By radius:")
	for _, r := range radii {
		rs := s.ByRadius[r]
		fmt.Fprintf(out, "  R=%.2f: %d entries, hit rate %.1f%%\n", r, rs.Total, float64(rs.Hits)/float64(rs.Total)*100)
	}
}
