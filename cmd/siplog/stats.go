package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/siplog/siplog/internal/stats"
)

func newStatsCmd() *cobra.Command {
	var (
		month  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate spending statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			summary := stats.Compute(app.Records.Records(), month)

			switch format {
			case "json":
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(summary)
			case "table":
				outputStats(cmd, summary)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Restrict to one month (YYYY-MM)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

func outputStats(cmd *cobra.Command, s stats.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Cups: %d   Spend: %d   Average: %d\n", s.Cups, s.TotalSpend, s.AveragePrice)
	if s.Cups > 0 {
		fmt.Fprintf(out, "Eco cups: %d (%.0f%%)   Treats: %d\n", s.EcoCups, float64(s.EcoCups)/float64(s.Cups)*100, s.TreatCups)
	}

	renderRanking(cmd, "Shops by spend", s.ShopRanking)
	renderRanking(cmd, "Drinks by spend", s.ItemRanking)
	renderRanking(cmd, "Toppings by spend", s.Toppings)

	weekdays := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	fmt.Fprint(out, "Weekdays:")
	for i, name := range weekdays {
		fmt.Fprintf(out, " %s %d", name, s.Weekdays[i])
	}
	fmt.Fprintln(out)
}

func renderRanking(cmd *cobra.Command, title string, entries []stats.RankEntry) {
	if len(entries) == 0 {
		return
	}
	limit := 10
	if len(entries) < limit {
		limit = len(entries)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "Name", "Total", "Cups"})
	for i := 0; i < limit; i++ {
		t.AppendRow(table.Row{i + 1, entries[i].Name, entries[i].Total, entries[i].Cups})
	}
	t.Render()
}
