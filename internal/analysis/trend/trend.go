// Package trend classifies price trend over multiple lookback horizons and
// scores trend quality.
package trend

import (
	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
)

// Classification represents a trend class for one horizon.
type Classification string

const (
	StrongUptrend   Classification = "STRONG_UPTREND"
	Uptrend         Classification = "UPTREND"
	Sideways        Classification = "SIDEWAYS"
	Downtrend       Classification = "DOWNTREND"
	StrongDowntrend Classification = "STRONG_DOWNTREND"
)

// Strength labels the reliability of a fit from its R-squared.
type Strength string

const (
	VeryWeak   Strength = "VERY_WEAK"
	Weak       Strength = "WEAK"
	Moderate   Strength = "MODERATE"
	Strong     Strength = "STRONG"
	VeryStrong Strength = "VERY_STRONG"
)

// DefaultHorizons are the lookback periods analyzed when none are given.
var DefaultHorizons = []int{5, 10, 20, 30, 60}

// HorizonResult holds the fitted trend state for one lookback horizon.
type HorizonResult struct {
	Horizon        int
	Slope          float64
	Intercept      float64
	RSquared       float64
	Classification Classification
	Strength       Strength
	Support        float64
	Resistance     float64
	PeriodReturn   float64
}

// Composite summarizes the per-horizon classifications.
type Composite struct {
	Classification Classification
	Confidence     float64
	AvgSlope       float64
	AvgStrength    float64
}

// Result holds the full multi-horizon trend analysis.
type Result struct {
	Horizons  []HorizonResult
	Composite Composite
}

// Analyzer fits and classifies price trends.
type Analyzer struct {
	horizons []int
}

// NewAnalyzer creates a trend analyzer over the default horizons.
func NewAnalyzer() *Analyzer {
	return &Analyzer{horizons: DefaultHorizons}
}

// NewAnalyzerWithHorizons creates a trend analyzer over the given horizons.
func NewAnalyzerWithHorizons(horizons []int) *Analyzer {
	if len(horizons) == 0 {
		horizons = DefaultHorizons
	}
	return &Analyzer{horizons: horizons}
}

// Analyze fits an OLS line per horizon with enough data and reports the
// composite majority classification. Returns ErrInsufficientData when no
// horizon can be fitted.
func (a *Analyzer) Analyze(closes []float64) (*Result, error) {
	result := &Result{}

	for _, h := range a.horizons {
		if len(closes) < h {
			continue
		}
		window := closes[len(closes)-h:]
		result.Horizons = append(result.Horizons, analyzeHorizon(window, h))
	}

	if len(result.Horizons) == 0 {
		return nil, apperrors.ErrInsufficientData
	}

	result.Composite = composite(result.Horizons)
	return result, nil
}

func analyzeHorizon(window []float64, horizon int) HorizonResult {
	slope, intercept, r2 := linearFit(window)

	hr := HorizonResult{
		Horizon:        horizon,
		Slope:          slope,
		Intercept:      intercept,
		RSquared:       r2,
		Classification: classify(slope, r2),
		Strength:       strengthOf(r2),
	}

	// Support/resistance from the last 20 closes, or the whole window if
	// shorter.
	sr := window
	if len(sr) > 20 {
		sr = sr[len(sr)-20:]
	}
	hr.Support, hr.Resistance = minMax(sr)

	if window[0] != 0 {
		hr.PeriodReturn = (window[len(window)-1] - window[0]) / window[0]
	}

	return hr
}

// classify applies the ordered classification rule.
func classify(slope, r2 float64) Classification {
	if r2 < 0.3 {
		return Sideways
	}
	switch {
	case slope > 0.01 && r2 > 0.7:
		return StrongUptrend
	case slope > 0.005 && r2 > 0.5:
		return Uptrend
	case slope < -0.01 && r2 > 0.7:
		return StrongDowntrend
	case slope < -0.005 && r2 > 0.5:
		return Downtrend
	default:
		return Sideways
	}
}

func strengthOf(r2 float64) Strength {
	switch {
	case r2 < 0.3:
		return VeryWeak
	case r2 < 0.5:
		return Weak
	case r2 < 0.7:
		return Moderate
	case r2 < 0.85:
		return Strong
	default:
		return VeryStrong
	}
}

// strengthValue maps strength labels onto a 1-5 scale for averaging.
func strengthValue(s Strength) float64 {
	switch s {
	case VeryWeak:
		return 1
	case Weak:
		return 2
	case Moderate:
		return 3
	case Strong:
		return 4
	default:
		return 5
	}
}

// composite takes the majority classification across horizons; ties resolve
// to the classification encountered first.
func composite(horizons []HorizonResult) Composite {
	votes := make(map[Classification]int)
	var order []Classification
	var slopeSum, strengthSum float64

	for _, h := range horizons {
		if votes[h.Classification] == 0 {
			order = append(order, h.Classification)
		}
		votes[h.Classification]++
		slopeSum += h.Slope
		strengthSum += strengthValue(h.Strength)
	}

	winner := order[0]
	for _, c := range order {
		if votes[c] > votes[winner] {
			winner = c
		}
	}

	n := float64(len(horizons))
	return Composite{
		Classification: winner,
		Confidence:     float64(votes[winner]) / n,
		AvgSlope:       slopeSum / n,
		AvgStrength:    strengthSum / n,
	}
}

// linearFit performs an ordinary least squares fit of values against their
// index, returning slope, intercept, and R-squared.
func linearFit(values []float64) (slope, intercept, r2 float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	// R-squared = 1 - SSres/SStot
	meanY := sumY / n
	var ssRes, ssTot float64
	for i, v := range values {
		fit := intercept + slope*float64(i)
		ssRes += (v - fit) * (v - fit)
		ssTot += (v - meanY) * (v - meanY)
	}
	if ssTot == 0 {
		// Perfectly flat series: the fit explains nothing.
		return slope, intercept, 0
	}
	r2 = 1 - ssRes/ssTot
	if r2 < 0 {
		r2 = 0
	}
	return slope, intercept, r2
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
