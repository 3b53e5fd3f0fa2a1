// Package analysis provides technical analysis functionality including indicators,
// pattern detection, trend classification, and signal scoring.
package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/indicators"
	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/patterns"
	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/scoring"
	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/trend"
	"github.com/goldeneye0077/stock-picker-sub001/internal/logging"
	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

// BarProvider supplies ordered daily bars for an instrument. Bars must be
// sorted ascending by date with unique dates.
type BarProvider interface {
	GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error)
}

// Report bundles every analysis artifact for one instrument on one date.
type Report struct {
	Symbol     string
	Date       time.Time
	Indicators *indicators.Snapshot
	Catalogue  *indicators.Catalogue
	Trend      *trend.Result
	Reversal   *trend.ReversalSignal
	Quality    *trend.QualityReport
	Patterns   *patterns.Report
	Score      *scoring.CompositeScore
}

// Analyzer runs the full analysis pipeline for one instrument.
type Analyzer struct {
	detector *patterns.Detector
	trender  *trend.Analyzer
	scorer   *scoring.Scorer
	logger   zerolog.Logger
}

// NewAnalyzer creates an analyzer with default components.
func NewAnalyzer(logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		detector: patterns.NewDetector(),
		trender:  trend.NewAnalyzer(),
		scorer:   scoring.NewScorer(),
		logger:   logger,
	}
}

// NewAnalyzerWithOptions creates an analyzer with a custom pattern lookback
// and trend horizons.
func NewAnalyzerWithOptions(logger zerolog.Logger, lookback int, horizons []int, weights scoring.Weights) *Analyzer {
	return &Analyzer{
		detector: patterns.NewDetectorWithLookback(lookback),
		trender:  trend.NewAnalyzerWithHorizons(horizons),
		scorer:   scoring.NewScorerWithWeights(weights),
		logger:   logger,
	}
}

// Analyze runs indicators, pattern detection, and trend analysis over one
// bar-series snapshot and aggregates the outputs. The three sub-analyses
// only read the shared series, so they run concurrently. Components without
// enough data are omitted from the aggregate rather than failing the run.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, bars []models.Bar) (*Report, error) {
	if err := models.ValidateBars(bars); err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	logger := logging.WithSymbol(a.logger, symbol)
	closes := models.Closes(bars)

	report := &Report{
		Symbol: symbol,
		Date:   bars[len(bars)-1].Date,
	}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		cat, err := indicators.Compute(ctx, bars)
		if err != nil {
			logging.LogInsufficientData(logger, symbol, len(bars), indicators.MinBars)
			return
		}
		report.Catalogue = cat
		report.Indicators = cat.Latest()
	}()

	go func() {
		defer wg.Done()
		pats, err := a.detector.Detect(bars)
		if err != nil {
			logging.LogInsufficientData(logger, symbol, len(bars), patterns.MinBars)
			return
		}
		report.Patterns = pats
	}()

	go func() {
		defer wg.Done()
		t, err := a.trender.Analyze(closes)
		if err != nil {
			logger.Warn().Err(err).Msg("Trend analysis skipped")
			return
		}
		report.Trend = t

		if rev, err := trend.DetectReversal(closes, trend.DefaultShortPeriod, trend.DefaultLongPeriod); err == nil {
			report.Reversal = rev
		}
		if q, err := trend.Quality(closes); err == nil {
			report.Quality = q
		}
	}()

	wg.Wait()

	if report.Indicators == nil && report.Patterns == nil && report.Trend == nil {
		return nil, apperrors.NewSeriesError(symbol, "no analyzer could run", apperrors.ErrInsufficientData)
	}

	report.Score = a.scorer.Aggregate(scoring.Inputs{
		Indicators: report.Indicators,
		Trend:      report.Trend,
		Quality:    report.Quality,
		Patterns:   report.Patterns,
	})

	return report, nil
}

// ToResult flattens a report into the persisted row shape.
func (r *Report) ToResult() *models.TechnicalResult {
	result := &models.TechnicalResult{
		Symbol:         r.Symbol,
		Date:           r.Date,
		PatternSignal:  models.SignalNeutral,
		CompositeScore: r.Score.Composite,
		Recommendation: r.Score.Recommendation,
	}

	if s := r.Indicators; s != nil {
		result.Close = s.Close
		result.MA5 = s.MA5
		result.MA10 = s.MA10
		result.MA20 = s.MA20
		result.MA60 = s.MA60
		result.MACD = s.MACD
		result.MACDSig = s.MACDSig
		result.MACDHist = s.MACDHist
		result.RSI6 = s.RSI6
		result.RSI12 = s.RSI12
		result.RSI24 = s.RSI24
		result.KDJK = s.K
		result.KDJD = s.D
		result.KDJJ = s.J
		result.BollUpper = s.BollUpper
		result.BollMid = s.BollMid
		result.BollLower = s.BollLower
		result.ATR14 = s.ATR
		result.CCI20 = s.CCI
		result.OBV = s.OBV
		result.VolRatio = s.VolRatio
		result.MACDSignal = s.MACDSignal
		result.RSISignal = s.RSISignal
		result.KDJSignal = s.KDJSignal
		result.BollSignal = s.BollSignal
		result.MASignal = s.MASignal
	}

	if t := r.Trend; t != nil {
		result.TrendType = string(t.Composite.Classification)
		result.TrendConfidence = t.Composite.Confidence
	}
	if rev := r.Reversal; rev != nil {
		result.ReversalSignal = string(rev.Type)
	}
	if q := r.Quality; q != nil {
		result.QualityLabel = string(q.Label)
		result.QualityScore = q.Score
	}
	if p := r.Patterns; p != nil {
		result.BullishPatterns = p.BullishCount
		result.BearishPatterns = p.BearishCount
		result.PatternSignal = p.Signal
	}

	return result
}
