package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis"
	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/scoring"
	"github.com/goldeneye0077/stock-picker-sub001/internal/config"
)

// newAnalyzer builds the pipeline analyzer from configuration.
func (app *App) newAnalyzer() *analysis.Analyzer {
	weights := scoring.DefaultWeights()
	if app.Config.Analysis.IndicatorWeight > 0 {
		weights.Indicator = app.Config.Analysis.IndicatorWeight
	}
	if app.Config.Analysis.TrendWeight > 0 {
		weights.Trend = app.Config.Analysis.TrendWeight
	}
	if app.Config.Analysis.PatternWeight > 0 {
		weights.Pattern = app.Config.Analysis.PatternWeight
	}
	return analysis.NewAnalyzerWithOptions(
		app.Logger,
		app.Config.Analysis.PatternLookback,
		app.Config.Analysis.TrendHorizons,
		weights,
	)
}

// scanUniverse resolves the symbols a scan should cover: explicit args,
// then a named watchlist, then every symbol with stored bars.
func (app *App) scanUniverse(cmd *cobra.Command, args []string, listName string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	ctx := cmd.Context()
	if listName != "" {
		symbols, err := app.Store.GetWatchlist(ctx, listName)
		if err != nil {
			return nil, err
		}
		if len(symbols) == 0 {
			return nil, fmt.Errorf("watchlist %q is empty", listName)
		}
		return symbols, nil
	}
	return app.Store.ListSymbols(ctx)
}

func newScanCmd(app *App) *cobra.Command {
	var (
		minScore    float64
		concurrency int
		barLimit    int
		listName    string
		top         int
	)

	cmd := &cobra.Command{
		Use:   "scan [symbols...]",
		Short: "Analyze many symbols and rank them by tradability score",
		Long: `Scan runs the full analysis pipeline over a set of symbols and prints
them ranked by composite score. Without arguments it scans the named
watchlist, or every symbol with stored bars.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable; check database path in %s", config.DefaultConfigDir())
			}

			symbols, err := app.scanUniverse(cmd, args, listName)
			if err != nil {
				return err
			}
			if len(symbols) == 0 {
				output.Warning("No symbols to scan. Load bars first with 'picker load FILE'.")
				return nil
			}

			screener := analysis.NewScreener(app.newAnalyzer(), app.Store, app.Store, concurrency, app.Logger)
			screener.SetBarLimit(barLimit)
			screener.SetMinScore(minScore)

			results, err := screener.Scan(cmd.Context(), symbols)
			if err != nil {
				return err
			}

			if top > 0 && len(results) > top {
				results = results[:top]
			}

			if output.IsJSON() {
				type row struct {
					Symbol         string  `json:"symbol"`
					Score          float64 `json:"score"`
					Recommendation string  `json:"recommendation,omitempty"`
					Error          string  `json:"error,omitempty"`
				}
				rows := make([]row, 0, len(results))
				for _, r := range results {
					out := row{Symbol: r.Symbol, Score: r.Score}
					if r.Err != nil {
						out.Error = r.Err.Error()
					} else {
						out.Recommendation = string(r.Report.Score.Recommendation)
					}
					rows = append(rows, out)
				}
				return output.JSON(rows)
			}

			output.Bold("Scan Results (%d symbols)", len(symbols))
			table := NewTable(output, "SYMBOL", "SCORE", "RECOMMENDATION", "TREND", "PATTERNS")
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					continue
				}
				trendLabel := "-"
				if r.Report.Trend != nil {
					trendLabel = string(r.Report.Trend.Composite.Classification)
				}
				patternLabel := "-"
				if r.Report.Patterns != nil {
					patternLabel = fmt.Sprintf("%d↑ %d↓", r.Report.Patterns.BullishCount, r.Report.Patterns.BearishCount)
				}
				table.AddRow(
					r.Symbol,
					output.FormatScore(r.Score),
					output.Recommendation(string(r.Report.Score.Recommendation)),
					output.Signal(trendLabel),
					patternLabel,
				)
			}
			table.Render()
			if failed > 0 {
				output.Dim("%d symbol(s) skipped (insufficient data or fetch failure)", failed)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&minScore, "min-score", 0, "only show symbols at or above this score")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "worker count (default from config)")
	cmd.Flags().IntVar(&barLimit, "bars", 0, "bars fetched per symbol (default from config)")
	cmd.Flags().StringVar(&listName, "list", "", "scan a named watchlist")
	cmd.Flags().IntVar(&top, "top", 0, "limit output to the N best symbols")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if concurrency == 0 {
			concurrency = app.Config.Scan.Concurrency
		}
		if barLimit == 0 {
			barLimit = app.Config.Scan.BarLimit
		}
		if !cmd.Flags().Changed("min-score") && app.Config.Scan.MinScore > 0 {
			minScore = app.Config.Scan.MinScore
		}
	}

	return cmd
}
