package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goldeneye0077/stock-picker-sub001/internal/store"
)

func newLoadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Load daily bars from a CSV file",
		Long: `Load reads daily bars from a CSV file and upserts them into the store.
The file needs a header row with symbol, date, open, high, low, close and
volume columns; an amount column is optional.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}

			count, err := store.LoadCSV(cmd.Context(), app.Store, args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{"bars_loaded": count})
			}
			okLine("✓ Loaded %d bars from %s", count, args[0])
			return nil
		},
	}
}

func newWatchCmd(app *App) *cobra.Command {
	var listName string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Manage watchlists",
	}
	cmd.PersistentFlags().StringVar(&listName, "list", "default", "watchlist name")

	cmd.AddCommand(&cobra.Command{
		Use:   "add SYMBOL...",
		Short: "Add symbols to a watchlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}
			for _, symbol := range args {
				if err := app.Store.AddToWatchlist(cmd.Context(), symbol, listName); err != nil {
					return err
				}
			}
			okLine("✓ Added %d symbol(s) to %q", len(args), listName)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove SYMBOL...",
		Short: "Remove symbols from a watchlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}
			for _, symbol := range args {
				if err := app.Store.RemoveFromWatchlist(cmd.Context(), symbol, listName); err != nil {
					return err
				}
			}
			okLine("✓ Removed %d symbol(s) from %q", len(args), listName)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show all watchlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}
			lists, err := app.Store.GetAllWatchlists(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(lists)
			}
			if len(lists) == 0 {
				noteLine("No watchlists. Add symbols with 'picker watch add SYMBOL'.")
				return nil
			}
			for name, symbols := range lists {
				headerLine("%s (%d)", name, len(symbols))
				for _, sym := range symbols {
					output.Printf("  %s\n", sym)
				}
			}
			return nil
		},
	})

	return cmd
}
