package trend

import (
	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
)

// ReversalType identifies a moving-average crossover signal.
type ReversalType string

const (
	GoldenCross      ReversalType = "GOLDEN_CROSS"
	DeathCross       ReversalType = "DEATH_CROSS"
	ReversalStrongUp ReversalType = "STRONG_UPTREND"
	ReversalStrongDn ReversalType = "STRONG_DOWNTREND"
	NoClearSignal    ReversalType = "NO_CLEAR_SIGNAL"
)

// ReversalSignal is the outcome of a crossover check on the latest bar.
type ReversalSignal struct {
	Type       ReversalType
	Confidence float64
	ShortMA    float64
	LongMA     float64
}

// DefaultShortPeriod and DefaultLongPeriod are the crossover MA periods.
const (
	DefaultShortPeriod = 5
	DefaultLongPeriod  = 20
)

// DetectReversal checks for a short/long moving-average crossover between
// the previous and current bar. Needs longPeriod+1 closes.
func DetectReversal(closes []float64, shortPeriod, longPeriod int) (*ReversalSignal, error) {
	if shortPeriod <= 0 || longPeriod <= shortPeriod {
		return nil, apperrors.ErrInvalidPeriod
	}
	if len(closes) < longPeriod+1 {
		return nil, apperrors.ErrInsufficientData
	}

	n := len(closes)
	currShort := meanOf(closes[n-shortPeriod:])
	currLong := meanOf(closes[n-longPeriod:])
	prevShort := meanOf(closes[n-shortPeriod-1 : n-1])
	prevLong := meanOf(closes[n-longPeriod-1 : n-1])

	price := closes[n-1]
	signal := &ReversalSignal{ShortMA: currShort, LongMA: currLong}

	// Confidence scales with how far price sits from the long MA.
	distance := 0.0
	if currLong != 0 {
		distance = abs(price-currLong) / currLong
	}
	crossConfidence := capAt(0.5+distance*5, 0.95)

	switch {
	case prevShort <= prevLong && currShort > currLong:
		signal.Type = GoldenCross
		signal.Confidence = crossConfidence
	case prevShort >= prevLong && currShort < currLong:
		signal.Type = DeathCross
		signal.Confidence = crossConfidence
	case relativeDistance(price, currShort) > 0.02 && relativeDistance(price, currLong) > 0.02:
		signal.Type = ReversalStrongUp
		signal.Confidence = 0.8
	case relativeDistance(price, currShort) < -0.02 && relativeDistance(price, currLong) < -0.02:
		signal.Type = ReversalStrongDn
		signal.Confidence = 0.8
	default:
		signal.Type = NoClearSignal
		signal.Confidence = 0.3
	}

	return signal, nil
}

func relativeDistance(price, ma float64) float64 {
	if ma == 0 {
		return 0
	}
	return (price - ma) / ma
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
