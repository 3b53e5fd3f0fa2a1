package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
	"github.com/goldeneye0077/stock-picker-sub001/internal/logging"
	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
	"github.com/goldeneye0077/stock-picker-sub001/pkg/utils"
)

// ResultSink persists analysis outcomes.
type ResultSink interface {
	SaveResult(ctx context.Context, result *models.TechnicalResult) error
}

// ScanResult is the outcome of analyzing one symbol in a batch scan.
type ScanResult struct {
	Symbol string
	Report *Report
	Score  float64
	Err    error
}

// Screener runs the analysis pipeline over many symbols with concurrent
// processing. Per-symbol failures are captured and logged; the batch
// always continues.
type Screener struct {
	analyzer    *Analyzer
	provider    BarProvider
	sink        ResultSink
	concurrency int
	barLimit    int
	minScore    float64
	logger      zerolog.Logger
}

// NewScreener creates a batch screener.
func NewScreener(analyzer *Analyzer, provider BarProvider, sink ResultSink, concurrency int, logger zerolog.Logger) *Screener {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Screener{
		analyzer:    analyzer,
		provider:    provider,
		sink:        sink,
		concurrency: concurrency,
		barLimit:    250,
		logger:      logger,
	}
}

// SetBarLimit sets the number of bars fetched per symbol.
func (s *Screener) SetBarLimit(limit int) {
	if limit > 0 {
		s.barLimit = limit
	}
}

// SetMinScore filters scan output to symbols at or above the score.
func (s *Screener) SetMinScore(score float64) {
	s.minScore = score
}

// Scan analyzes the given symbols concurrently and returns results sorted
// by composite score, highest first.
func (s *Screener) Scan(ctx context.Context, symbols []string) ([]ScanResult, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	resultChan := make(chan ScanResult, len(symbols))
	workChan := make(chan string, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < s.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range workChan {
				select {
				case <-ctx.Done():
					return
				default:
					resultChan <- s.scanSymbol(ctx, symbol)
				}
			}
		}()
	}

	for _, symbol := range symbols {
		workChan <- symbol
	}
	close(workChan)

	wg.Wait()
	close(resultChan)

	results := make([]ScanResult, 0, len(symbols))
	for r := range resultChan {
		if r.Err == nil && r.Score < s.minScore {
			continue
		}
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}

// scanSymbol fetches bars, runs the pipeline, and persists the outcome.
func (s *Screener) scanSymbol(ctx context.Context, symbol string) ScanResult {
	result := ScanResult{Symbol: symbol}

	// Provider failures may be transient; retry before surfacing them.
	bars, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() ([]models.Bar, error) {
		return s.provider.GetBars(ctx, symbol, time.Time{}, time.Time{}, s.barLimit)
	})
	if err != nil {
		result.Err = apperrors.NewDataError("bars", symbol, "fetching bar series", err)
		logging.LogScanFailure(s.logger, symbol, result.Err)
		return result
	}

	report, err := s.analyzer.Analyze(ctx, symbol, bars)
	if err != nil {
		result.Err = err
		logging.LogScanFailure(s.logger, symbol, err)
		return result
	}

	result.Report = report
	result.Score = report.Score.Composite
	logging.LogScanResult(s.logger, symbol, result.Score, string(report.Score.Recommendation))

	if s.sink != nil {
		if err := s.sink.SaveResult(ctx, report.ToResult()); err != nil {
			logging.LogScanFailure(s.logger, symbol, apperrors.Wrap(err, "persisting result"))
		}
	}

	return result
}
