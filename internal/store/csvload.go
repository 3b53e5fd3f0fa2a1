package store

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

// csvDate parses the date column of a bar file.
type csvDate struct {
	time.Time
}

func (d *csvDate) UnmarshalCSV(value string) error {
	for _, layout := range []string{"2006-01-02", "2006/01/02", "20060102"} {
		if t, err := time.Parse(layout, value); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", value)
}

// csvBar is one row of a daily bar file.
type csvBar struct {
	Symbol string  `csv:"symbol"`
	Date   csvDate `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume int64   `csv:"volume"`
	Amount float64 `csv:"amount"`
}

// LoadCSV reads a daily bar file and upserts its rows, grouped by symbol.
// The file needs a header with symbol, date, open, high, low, close, volume
// columns; amount is optional. Returns the number of bars loaded.
func LoadCSV(ctx context.Context, ds DataStore, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	var rows []*csvBar
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return 0, fmt.Errorf("failed to parse csv file: %w", err)
	}
	if len(rows) == 0 {
		return 0, apperrors.NewDataError("csv", path, "file has no data rows", apperrors.ErrDataNotFound)
	}

	bySymbol := make(map[string][]models.Bar)
	for i, row := range rows {
		if row.Symbol == "" {
			return 0, apperrors.NewValidationError("symbol", i, "row is missing a symbol")
		}
		bySymbol[row.Symbol] = append(bySymbol[row.Symbol], models.Bar{
			Date:   row.Date.Time,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
			Amount: row.Amount,
		})
	}

	total := 0
	for symbol, bars := range bySymbol {
		sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
		if err := models.ValidateBars(bars); err != nil {
			return total, apperrors.NewDataError("csv", symbol, "invalid bar series in file", err)
		}
		if err := ds.SaveBars(ctx, symbol, bars); err != nil {
			return total, err
		}
		total += len(bars)
	}

	return total, nil
}
