// Package scoring combines indicator, trend, and pattern outputs into a
// composite score with a recommendation label.
package scoring

import (
	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/indicators"
	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/patterns"
	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/trend"
	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

// Weights defines the blend applied to the three upstream terms and the
// sub-blend inside the indicator term.
type Weights struct {
	Indicator float64
	Trend     float64
	Pattern   float64

	MACD    float64
	RSI     float64
	KDJ     float64
	MATrend float64

	TrendDirection float64
	TrendQuality   float64
}

// DefaultWeights returns the standard aggregation weights.
func DefaultWeights() Weights {
	return Weights{
		Indicator:      0.4,
		Trend:          0.3,
		Pattern:        0.3,
		MACD:           0.3,
		RSI:            0.25,
		KDJ:            0.25,
		MATrend:        0.2,
		TrendDirection: 0.6,
		TrendQuality:   0.4,
	}
}

// Inputs carries the upstream analysis outputs. A nil field means that
// component could not produce a value (insufficient data); its term is
// omitted from the weighted sum.
type Inputs struct {
	Indicators *indicators.Snapshot
	Trend      *trend.Result
	Quality    *trend.QualityReport
	Patterns   *patterns.Report
}

// CompositeScore is the aggregated outcome for one instrument.
type CompositeScore struct {
	TechnicalSignals map[string]models.Signal
	TechnicalScore   float64
	TrendScore       float64
	PatternScore     float64

	HasTechnical bool
	HasTrend     bool
	HasPattern   bool

	BullishPatterns int
	BearishPatterns int
	PatternSignal   models.Signal

	Composite      float64
	Recommendation models.Recommendation
}

// Scorer aggregates upstream analysis outputs.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the default weights.
func NewScorer() *Scorer {
	return &Scorer{weights: DefaultWeights()}
}

// NewScorerWithWeights creates a scorer with custom weights.
func NewScorerWithWeights(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Aggregate blends the upstream outputs into one 0-100 composite score.
// Missing terms are omitted without renormalizing the remaining weights,
// which compresses the achievable range; downstream consumers depend on
// this exact scale.
func (s *Scorer) Aggregate(in Inputs) *CompositeScore {
	result := &CompositeScore{
		TechnicalSignals: make(map[string]models.Signal),
		PatternSignal:    models.SignalNeutral,
	}

	var composite float64

	if in.Indicators != nil {
		result.HasTechnical = true
		result.TechnicalScore = s.technicalScore(in.Indicators)
		result.TechnicalSignals["MACD"] = in.Indicators.MACDSignal
		result.TechnicalSignals["RSI"] = in.Indicators.RSISignal
		result.TechnicalSignals["KDJ"] = in.Indicators.KDJSignal
		result.TechnicalSignals["BOLL"] = in.Indicators.BollSignal
		result.TechnicalSignals["MA"] = in.Indicators.MASignal
		composite += result.TechnicalScore * s.weights.Indicator
	}

	if in.Trend != nil {
		result.HasTrend = true
		result.TrendScore = s.trendScore(in.Trend, in.Quality)
		composite += result.TrendScore * s.weights.Trend
	}

	if in.Patterns != nil {
		result.HasPattern = true
		result.PatternScore = s.patternScore(in.Patterns)
		result.BullishPatterns = in.Patterns.BullishCount
		result.BearishPatterns = in.Patterns.BearishCount
		result.PatternSignal = in.Patterns.Signal
		composite += result.PatternScore * s.weights.Pattern
	}

	result.Composite = clamp(composite, 0, 100)
	result.Recommendation = scoreToRecommendation(result.Composite)

	return result
}

// technicalScore blends the categorical indicator signals.
func (s *Scorer) technicalScore(snap *indicators.Snapshot) float64 {
	score := signalScore(snap.MACDSignal)*s.weights.MACD +
		signalScore(snap.RSISignal)*s.weights.RSI +
		signalScore(snap.KDJSignal)*s.weights.KDJ +
		signalScore(snap.MASignal)*s.weights.MATrend
	return clamp(score, 0, 100)
}

// signalScore maps a categorical signal onto the 0-100 scale; oversold
// reads bullish and overbought bearish.
func signalScore(sig models.Signal) float64 {
	switch sig {
	case models.SignalStrongUp:
		return 90
	case models.SignalOversold:
		return 80
	case models.SignalBullish:
		return 75
	case models.SignalWeakUp:
		return 65
	case models.SignalWeakDown:
		return 35
	case models.SignalBearish:
		return 25
	case models.SignalOverbought:
		return 20
	case models.SignalStrongDown:
		return 10
	default:
		return 50
	}
}

// trendScore blends trend direction with trend quality.
func (s *Scorer) trendScore(t *trend.Result, q *trend.QualityReport) float64 {
	direction := classificationScore(t.Composite.Classification)

	// Without a quality report the direction stands alone; its sub-weight
	// is still applied (no renormalization).
	score := direction * s.weights.TrendDirection
	if q != nil {
		score += q.Score * 10 * s.weights.TrendQuality
	}
	return clamp(score, 0, 100)
}

func classificationScore(c trend.Classification) float64 {
	switch c {
	case trend.StrongUptrend:
		return 90
	case trend.Uptrend:
		return 70
	case trend.Downtrend:
		return 30
	case trend.StrongDowntrend:
		return 10
	default:
		return 50
	}
}

// patternScore averages the oriented confidence of every directional
// occurrence: bullish patterns pull above 50, bearish below.
func (s *Scorer) patternScore(report *patterns.Report) float64 {
	var oriented float64
	var count int

	for kind, occs := range report.Occurrences {
		dir := kind.Direction()
		if dir == models.SignalNeutral {
			continue
		}
		for _, occ := range occs {
			if dir == models.SignalBullish {
				oriented += occ.Confidence
			} else {
				oriented -= occ.Confidence
			}
			count++
		}
	}

	if count == 0 {
		return 50
	}

	avg := oriented / float64(count) // in [-1, 1]
	return clamp(50+50*avg, 0, 100)
}

// scoreToRecommendation converts a composite score to a recommendation.
func scoreToRecommendation(score float64) models.Recommendation {
	switch {
	case score >= 80:
		return models.StrongBuy
	case score >= 60:
		return models.Buy
	case score >= 40:
		return models.Hold
	case score >= 20:
		return models.Sell
	default:
		return models.StrongSell
	}
}

// clamp restricts a value to the given range.
func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
