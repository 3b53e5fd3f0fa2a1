package trend

import (
	"math"

	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
)

// QualityLabel grades risk-adjusted trend consistency.
type QualityLabel string

const (
	Excellent QualityLabel = "EXCELLENT"
	Good      QualityLabel = "GOOD"
	Fair      QualityLabel = "FAIR"
	Poor      QualityLabel = "POOR"
	VeryPoor  QualityLabel = "VERY_POOR"
)

// QualityReport holds risk-adjusted trend quality measures.
type QualityReport struct {
	Volatility  float64 // annualized std dev of daily returns
	Sharpe      float64 // annualized mean/std of daily returns
	Continuity  float64 // |up days - down days| / total days
	MaxDrawdown float64 // most negative peak-to-trough on the cumulative curve
	Score       float64 // composite, 0-10
	Label       QualityLabel
}

// minQualityCloses is the minimum close count for a quality report.
const minQualityCloses = 30

const tradingDaysPerYear = 252

// Quality computes risk-adjusted trend quality from close-price history.
// Needs at least 30 closes.
func Quality(closes []float64) (*QualityReport, error) {
	if len(closes) < minQualityCloses {
		return nil, apperrors.ErrInsufficientData
	}

	returns := dailyReturns(closes)
	if len(returns) == 0 {
		return nil, apperrors.ErrInsufficientData
	}

	meanR, stdR := meanStd(returns)

	report := &QualityReport{}
	annFactor := math.Sqrt(tradingDaysPerYear)
	report.Volatility = stdR * annFactor
	if stdR != 0 {
		report.Sharpe = meanR / stdR * annFactor
	}

	var up, down int
	for _, r := range returns {
		if r > 0 {
			up++
		} else if r < 0 {
			down++
		}
	}
	report.Continuity = math.Abs(float64(up-down)) / float64(len(returns))

	report.MaxDrawdown = maxDrawdown(returns)

	sharpeTerm := 10 * math.Min(report.Sharpe, 1)
	continuityTerm := report.Continuity * 10
	drawdownTerm := math.Max(0, 10-100*math.Abs(report.MaxDrawdown))

	score := sharpeTerm*0.4 + continuityTerm*0.3 + drawdownTerm*0.3
	report.Score = math.Min(score, 10)
	report.Label = qualityLabel(report.Score)

	return report, nil
}

func qualityLabel(score float64) QualityLabel {
	switch {
	case score >= 8:
		return Excellent
	case score >= 6:
		return Good
	case score >= 4:
		return Fair
	case score >= 2:
		return Poor
	default:
		return VeryPoor
	}
}

func dailyReturns(closes []float64) []float64 {
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

func meanStd(values []float64) (mean, std float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	mean = total / n

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= n
	return mean, math.Sqrt(variance)
}

// maxDrawdown walks the cumulative-return curve and returns the most
// negative drop from a running peak (as a negative fraction).
func maxDrawdown(returns []float64) float64 {
	cum := 1.0
	peak := 1.0
	var worst float64
	for _, r := range returns {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		dd := (cum - peak) / peak
		if dd < worst {
			worst = dd
		}
	}
	return worst
}
