// Package models provides domain models for the stock picker.
package models

import (
	"time"

	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
)

// Bar represents one trading day's OHLCV data for an instrument.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
	Amount float64
}

// Signal is a categorical reading derived from an indicator or analyzer.
type Signal string

const (
	SignalBullish       Signal = "BULLISH"
	SignalBearish       Signal = "BEARISH"
	SignalNeutral       Signal = "NEUTRAL"
	SignalOverbought    Signal = "OVERBOUGHT"
	SignalOversold      Signal = "OVERSOLD"
	SignalWithinBands   Signal = "WITHIN_BANDS"
	SignalStrongUp      Signal = "STRONG_UPTREND"
	SignalWeakUp        Signal = "WEAK_UPTREND"
	SignalStrongDown    Signal = "STRONG_DOWNTREND"
	SignalWeakDown      Signal = "WEAK_DOWNTREND"
	SignalConsolidation Signal = "CONSOLIDATION"
)

// Recommendation is the discrete label attached to a composite score.
type Recommendation string

const (
	StrongBuy  Recommendation = "STRONG_BUY"
	Buy        Recommendation = "BUY"
	Hold       Recommendation = "HOLD"
	Sell       Recommendation = "SELL"
	StrongSell Recommendation = "STRONG_SELL"
)

// TechnicalResult is the persisted outcome of a full analysis run:
// one row per symbol per trading day.
type TechnicalResult struct {
	Symbol    string
	Date      time.Time
	Close     float64
	MA5       float64
	MA10      float64
	MA20      float64
	MA60      float64
	MACD      float64
	MACDSig   float64
	MACDHist  float64
	RSI6      float64
	RSI12     float64
	RSI24     float64
	KDJK      float64
	KDJD      float64
	KDJJ      float64
	BollUpper float64
	BollMid   float64
	BollLower float64
	ATR14     float64
	CCI20     float64
	OBV       float64
	VolRatio  float64

	MACDSignal Signal
	RSISignal  Signal
	KDJSignal  Signal
	BollSignal Signal
	MASignal   Signal

	TrendType       string
	TrendConfidence float64
	ReversalSignal  string
	QualityLabel    string
	QualityScore    float64

	BullishPatterns int
	BearishPatterns int
	PatternSignal   Signal

	CompositeScore float64
	Recommendation Recommendation

	CreatedAt time.Time
}

// ValidateBars checks the bar-series contract: non-empty, dates strictly
// ascending and unique.
func ValidateBars(bars []Bar) error {
	if len(bars) == 0 {
		return apperrors.NewSeriesError("", "empty bar series", apperrors.ErrInvalidSeries)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return apperrors.NewSeriesError("", "bar dates must be strictly ascending", apperrors.ErrInvalidSeries)
		}
	}
	return nil
}

// Closes extracts the close column from a bar series.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
