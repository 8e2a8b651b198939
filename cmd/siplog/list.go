package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/siplog/siplog/internal/drink"
)

func newListCmd() *cobra.Command {
	var (
		month  string
		day    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged drinks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			records := app.Records.Records()
			filtered := records[:0]
			for _, r := range records {
				if day != "" && r.Date != day {
					continue
				}
				if month != "" && !strings.HasPrefix(r.Date, month) {
					continue
				}
				filtered = append(filtered, r)
			}

			switch format {
			case "json":
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(filtered)
			case "table":
				outputRecordTable(cmd, filtered)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Only records of one month (YYYY-MM)")
	cmd.Flags().StringVar(&day, "date", "", "Only records of one day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

func outputRecordTable(cmd *cobra.Command, records []drink.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"ID", "Date", "Shop", "Item", "Sugar", "Ice", "Toppings", "Cost"})

	nameWidth := recordNameWidth()
	for _, r := range records {
		flags := ""
		if r.IsEco {
			flags += " ♻"
		}
		if r.IsTreat {
			flags += " 🎁"
		}
		t.AppendRow(table.Row{
			r.ID,
			r.Date,
			truncate(r.Shop, nameWidth),
			truncate(r.Item, nameWidth) + flags,
			r.Sugar,
			r.Ice,
			formatToppings(r.Toppings),
			r.FinalCost,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "Total", totalCost(records)})
	t.Render()
}

func formatToppings(toppings []drink.Topping) string {
	if len(toppings) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(toppings))
	for _, tp := range toppings {
		part := tp.Name
		if tp.Count > 1 {
			part = fmt.Sprintf("%s x%d", tp.Name, tp.Count)
		}
		if tp.Attr != "" && tp.Attr != drink.AttrNormal {
			part += "(" + tp.Attr + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func totalCost(records []drink.Record) int {
	total := 0
	for _, r := range records {
		total += r.FinalCost
	}
	return total
}

// recordNameWidth gives shop/item columns a fair share of the terminal.
func recordNameWidth() int {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	share := width / 5
	if share < 12 {
		share = 12
	}
	return share
}

// truncate shortens a string to maxWidth display cells, accounting for
// double-width characters.
func truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}
