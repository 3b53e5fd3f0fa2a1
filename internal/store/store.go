// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Bars
	SaveBars(ctx context.Context, symbol string, bars []models.Bar) error
	GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error)
	GetBarsFreshness(ctx context.Context, symbol string) (time.Time, error)
	ListSymbols(ctx context.Context) ([]string, error)

	// Analysis results
	SaveResult(ctx context.Context, result *models.TechnicalResult) error
	GetLatestResult(ctx context.Context, symbol string) (*models.TechnicalResult, error)
	GetResults(ctx context.Context, filter ResultFilter) ([]models.TechnicalResult, error)

	// Watchlist
	AddToWatchlist(ctx context.Context, symbol, listName string) error
	RemoveFromWatchlist(ctx context.Context, symbol, listName string) error
	GetWatchlist(ctx context.Context, listName string) ([]string, error)
	GetAllWatchlists(ctx context.Context) (map[string][]string, error)

	// Lifecycle
	Close() error
}

// ResultFilter represents filters for querying analysis results.
type ResultFilter struct {
	Symbol         string
	StartDate      time.Time
	EndDate        time.Time
	MinScore       float64
	Recommendation string
	Limit          int
}
