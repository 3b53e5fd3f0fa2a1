package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goldeneye0077/stock-picker-sub001/internal/store"
)

func newResultsCmd(app *App) *cobra.Command {
	var (
		minScore float64
		limit    int
		rec      string
	)

	cmd := &cobra.Command{
		Use:   "results [SYMBOL]",
		Short: "Query saved analysis results",
		Long: `Results lists rows saved by 'picker scan' and 'picker report --save',
ranked by composite score. With a symbol argument it shows the latest saved
row for that symbol.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}
			ctx := cmd.Context()

			if len(args) == 1 {
				row, err := app.Store.GetLatestResult(ctx, args[0])
				if err != nil {
					return err
				}
				if output.IsJSON() {
					return output.JSON(row)
				}
				headerLine("Latest saved result - %s (%s)", row.Symbol, row.Date.Format(app.Config.UI.DateFormat))
				output.Printf("  Score: %s  %s\n",
					output.FormatScore(row.CompositeScore), output.Recommendation(string(row.Recommendation)))
				output.Printf("  Trend: %s  Patterns: %d↑ %d↓\n",
					output.Signal(row.TrendType), row.BullishPatterns, row.BearishPatterns)
				return nil
			}

			rows, err := app.Store.GetResults(ctx, store.ResultFilter{
				MinScore:       minScore,
				Recommendation: rec,
				Limit:          limit,
			})
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(rows)
			}
			if len(rows) == 0 {
				noteLine("No saved results. Run 'picker scan' or 'picker report SYMBOL --save' first.")
				return nil
			}

			table := NewTable(output, "SYMBOL", "DATE", "SCORE", "RECOMMENDATION", "TREND")
			for _, row := range rows {
				table.AddRow(
					row.Symbol,
					row.Date.Format(app.Config.UI.DateFormat),
					output.FormatScore(row.CompositeScore),
					output.Recommendation(string(row.Recommendation)),
					output.Signal(row.TrendType),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Float64Var(&minScore, "min-score", 0, "only show rows at or above this score")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to show")
	cmd.Flags().StringVar(&rec, "recommendation", "", "filter by recommendation label")
	return cmd
}
