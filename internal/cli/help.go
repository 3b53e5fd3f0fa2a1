package cli

import (
	"github.com/spf13/cobra"
)

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Common Workflows")
			output.Println()

			workflows := []struct {
				title string
				steps []string
			}{
				{
					title: "Backfill and scan",
					steps: []string{
						"picker load bars.csv",
						"picker scan --min-score 60 --top 20",
					},
				},
				{
					title: "Track a watchlist",
					steps: []string{
						"picker watch add AAPL MSFT NVDA",
						"picker scan --list default",
					},
				},
				{
					title: "Deep-dive one symbol",
					steps: []string{
						"picker indicators AAPL",
						"picker trend AAPL",
						"picker patterns AAPL",
						"picker report AAPL --save",
					},
				},
				{
					title: "Script against JSON output",
					steps: []string{
						"picker scan --json | jq '.[0]'",
						"picker report AAPL --json | jq '.CompositeScore'",
					},
				},
			}

			for _, w := range workflows {
				output.Info("%s", w.title)
				for _, step := range w.steps {
					output.Printf("  $ %s\n", step)
				}
				output.Println()
			}
			return nil
		},
	}
}

func newQuickstartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quickstart",
		Short: "Getting started guide",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Quickstart")
			output.Println()
			output.Println("1. Load daily bars from CSV (a config template is created on first run):")
			output.Printf("   $ picker load bars.csv\n\n")
			output.Println("2. Scan everything and rank by tradability score:")
			output.Printf("   $ picker scan\n\n")
			output.Println("3. Inspect the best candidates:")
			output.Printf("   $ picker report SYMBOL\n\n")
			output.Dim("Scores need at least 30 bars of history per symbol; symbols with")
			output.Dim("less are skipped and logged.")
			return nil
		},
	}
}
