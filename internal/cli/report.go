package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis"
	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/patterns"
)

// analyzeSymbol fetches the stored bar window for a symbol and runs the
// full pipeline over it.
func (app *App) analyzeSymbol(cmd *cobra.Command, symbol string) (*analysis.Report, error) {
	if app.Store == nil {
		return nil, fmt.Errorf("store unavailable")
	}
	ctx := cmd.Context()
	bars, err := app.Store.GetBars(ctx, symbol, time.Time{}, time.Time{}, app.Config.Scan.BarLimit)
	if err != nil {
		return nil, err
	}
	return app.newAnalyzer().Analyze(ctx, symbol, bars)
}

func newIndicatorsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "indicators SYMBOL",
		Short: "Show the latest indicator values for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			output := NewOutput(cmd)

			report, err := app.analyzeSymbol(cmd, symbol)
			if err != nil {
				return err
			}
			snap := report.Indicators
			if snap == nil {
				output.Warning("Not enough history for indicators on %s", symbol)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(snap)
			}

			headerLine("Indicators - %s (%s)", symbol, report.Date.Format(app.Config.UI.DateFormat))
			output.Printf("  Close:     %s\n", FormatPrice(snap.Close))
			output.Println()

			output.Bold("Moving Averages")
			output.Printf("  MA5: %s  MA10: %s  MA20: %s  MA60: %s  [%s]\n",
				FormatPrice(snap.MA5), FormatPrice(snap.MA10),
				FormatPrice(snap.MA20), FormatPrice(snap.MA60),
				output.Signal(string(snap.MASignal)))

			output.Bold("MACD (12,26,9)")
			output.Printf("  MACD: %.4f  Signal: %.4f  Histogram: %.4f  [%s]\n",
				snap.MACD, snap.MACDSig, snap.MACDHist, output.Signal(string(snap.MACDSignal)))

			output.Bold("RSI")
			output.Printf("  RSI6: %.2f  RSI12: %.2f  RSI24: %.2f  [%s]\n",
				snap.RSI6, snap.RSI12, snap.RSI24, output.Signal(string(snap.RSISignal)))

			output.Bold("KDJ (9,3,3)")
			output.Printf("  K: %.2f  D: %.2f  J: %.2f  [%s]\n",
				snap.K, snap.D, snap.J, output.Signal(string(snap.KDJSignal)))

			output.Bold("Bollinger Bands (20,2)")
			output.Printf("  Upper: %s  Mid: %s  Lower: %s  [%s]\n",
				FormatPrice(snap.BollUpper), FormatPrice(snap.BollMid),
				FormatPrice(snap.BollLower), output.Signal(string(snap.BollSignal)))

			output.Bold("Volatility & Volume")
			output.Printf("  ATR14: %.4f  CCI20: %.2f  OBV: %.0f  VolRatio: %.2f\n",
				snap.ATR, snap.CCI, snap.OBV, snap.VolRatio)

			return nil
		},
	}
}

func newTrendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "trend SYMBOL",
		Short: "Show the multi-horizon trend analysis for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			output := NewOutput(cmd)

			report, err := app.analyzeSymbol(cmd, symbol)
			if err != nil {
				return err
			}
			if report.Trend == nil {
				output.Warning("Not enough history for trend analysis on %s", symbol)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"trend":    report.Trend,
					"reversal": report.Reversal,
					"quality":  report.Quality,
				})
			}

			headerLine("Trend Analysis - %s (%s)", symbol, report.Date.Format(app.Config.UI.DateFormat))

			table := NewTable(output, "HORIZON", "SLOPE", "R²", "TREND", "STRENGTH", "RETURN", "SUPPORT", "RESISTANCE")
			for _, h := range report.Trend.Horizons {
				table.AddRow(
					fmt.Sprintf("%dd", h.Horizon),
					fmt.Sprintf("%+.4f", h.Slope),
					fmt.Sprintf("%.3f", h.RSquared),
					output.Signal(string(h.Classification)),
					string(h.Strength),
					FormatPercent(h.PeriodReturn*100),
					FormatPrice(h.Support),
					FormatPrice(h.Resistance),
				)
			}
			table.Render()
			output.Println()

			comp := report.Trend.Composite
			output.Bold("Composite")
			output.Printf("  Trend: %s  Confidence: %s  Avg Slope: %+.4f\n",
				output.Signal(string(comp.Classification)), FormatConfidence(comp.Confidence), comp.AvgSlope)

			if report.Reversal != nil {
				output.Bold("Reversal")
				output.Printf("  Signal: %s  Confidence: %s  MA%d: %s  MA%d: %s\n",
					output.Signal(string(report.Reversal.Type)), FormatConfidence(report.Reversal.Confidence),
					5, FormatPrice(report.Reversal.ShortMA), 20, FormatPrice(report.Reversal.LongMA))
			}

			if report.Quality != nil {
				q := report.Quality
				output.Bold("Quality")
				output.Printf("  Score: %.1f/10 (%s)  Volatility: %.2f  Sharpe: %.2f  Max Drawdown: %s\n",
					q.Score, q.Label, q.Volatility, q.Sharpe, FormatPercent(q.MaxDrawdown*100))
			}

			return nil
		},
	}
}

func newPatternsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns SYMBOL",
		Short: "Show candlestick patterns detected in the recent window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			output := NewOutput(cmd)

			report, err := app.analyzeSymbol(cmd, symbol)
			if err != nil {
				return err
			}
			if report.Patterns == nil {
				output.Warning("Not enough history for pattern detection on %s", symbol)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(report.Patterns)
			}

			headerLine("Candlestick Patterns - %s (%s)", symbol, report.Date.Format(app.Config.UI.DateFormat))

			found := false
			table := NewTable(output, "DATE", "PATTERN", "DIRECTION", "CONFIDENCE", "PRICE")
			for _, kind := range patterns.Kinds {
				for _, occ := range report.Patterns.Occurrences[kind] {
					found = true
					table.AddRow(
						occ.Date.Format(app.Config.UI.DateFormat),
						string(occ.Kind),
						output.Signal(string(occ.Kind.Direction())),
						FormatConfidence(occ.Confidence),
						FormatPrice(occ.Price),
					)
				}
			}
			if !found {
				output.Println("No patterns detected in the lookback window.")
				return nil
			}
			table.Render()
			output.Println()
			output.Printf("Bullish: %d  Bearish: %d  Overall: %s\n",
				report.Patterns.BullishCount, report.Patterns.BearishCount,
				output.Signal(string(report.Patterns.Signal)))

			return nil
		},
	}
}

func newReportCmd(app *App) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "report SYMBOL",
		Short: "Show the full analysis report with composite score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			output := NewOutput(cmd)

			report, err := app.analyzeSymbol(cmd, symbol)
			if err != nil {
				return err
			}

			if save {
				if err := app.Store.SaveResult(cmd.Context(), report.ToResult()); err != nil {
					return err
				}
			}

			if output.IsJSON() {
				return output.JSON(report.ToResult())
			}

			score := report.Score
			headerLine("Analysis Report - %s (%s)", symbol, report.Date.Format(app.Config.UI.DateFormat))
			output.Println()

			output.Bold("Composite Score: %s / 100", output.FormatScore(score.Composite))
			output.Printf("  Recommendation: %s\n", output.Recommendation(string(score.Recommendation)))
			output.Println()

			output.Bold("Components")
			if score.HasTechnical {
				output.Printf("  Indicators: %.1f\n", score.TechnicalScore)
			} else {
				output.Dim("  Indicators: unavailable")
			}
			if score.HasTrend {
				output.Printf("  Trend:      %.1f\n", score.TrendScore)
			} else {
				output.Dim("  Trend:      unavailable")
			}
			if score.HasPattern {
				output.Printf("  Patterns:   %.1f (%d bullish, %d bearish)\n",
					score.PatternScore, score.BullishPatterns, score.BearishPatterns)
			} else {
				output.Dim("  Patterns:   unavailable")
			}
			output.Println()

			if len(score.TechnicalSignals) > 0 {
				output.Bold("Signals")
				for _, name := range []string{"MACD", "RSI", "KDJ", "BOLL", "MA"} {
					if sig, ok := score.TechnicalSignals[name]; ok {
						output.Printf("  %-5s %s\n", name, output.Signal(string(sig)))
					}
				}
			}

			if save {
				okLine("✓ Result saved for %s", symbol)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "persist the result row")
	return cmd
}
