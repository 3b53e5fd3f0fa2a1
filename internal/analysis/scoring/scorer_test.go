package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/indicators"
	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/patterns"
	"github.com/goldeneye0077/stock-picker-sub001/internal/analysis/trend"
	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

func bullishSnapshot() *indicators.Snapshot {
	return &indicators.Snapshot{
		MACDSignal: models.SignalBullish,
		RSISignal:  models.SignalNeutral,
		KDJSignal:  models.SignalBullish,
		BollSignal: models.SignalWithinBands,
		MASignal:   models.SignalStrongUp,
	}
}

func strongUptrend() *trend.Result {
	return &trend.Result{
		Composite: trend.Composite{Classification: trend.StrongUptrend, Confidence: 1.0},
	}
}

func bullishPatterns() *patterns.Report {
	return &patterns.Report{
		Occurrences: map[patterns.Kind][]patterns.Occurrence{
			patterns.KindBullishEngulfing: {{Date: time.Now(), Kind: patterns.KindBullishEngulfing, Confidence: 0.8}},
			patterns.KindHammer:           {{Date: time.Now(), Kind: patterns.KindHammer, Confidence: 0.7}},
		},
		BullishCount: 2,
		Signal:       models.SignalBullish,
	}
}

func TestAggregateAllInputs(t *testing.T) {
	s := NewScorer()
	score := s.Aggregate(Inputs{
		Indicators: bullishSnapshot(),
		Trend:      strongUptrend(),
		Quality:    &trend.QualityReport{Score: 8.0, Label: trend.Excellent},
		Patterns:   bullishPatterns(),
	})

	if !score.HasTechnical || !score.HasTrend || !score.HasPattern {
		t.Fatal("all three terms should be present")
	}

	// technical: 75*0.3 + 50*0.25 + 75*0.25 + 90*0.2 = 65.75
	if math.Abs(score.TechnicalScore-65.75) > 1e-9 {
		t.Errorf("technical score = %v, want 65.75", score.TechnicalScore)
	}
	// trend: 90*0.6 + 80*0.4 = 86
	if math.Abs(score.TrendScore-86.0) > 1e-9 {
		t.Errorf("trend score = %v, want 86", score.TrendScore)
	}
	// patterns: 50 + 50*(0.8+0.7)/2 = 87.5
	if math.Abs(score.PatternScore-87.5) > 1e-9 {
		t.Errorf("pattern score = %v, want 87.5", score.PatternScore)
	}
	// composite: 65.75*0.4 + 86*0.3 + 87.5*0.3 = 78.35
	if math.Abs(score.Composite-78.35) > 1e-9 {
		t.Errorf("composite = %v, want 78.35", score.Composite)
	}
	if score.Recommendation != models.Buy {
		t.Errorf("recommendation = %s, want %s", score.Recommendation, models.Buy)
	}
}

func TestAggregateOmitsMissingTermsWithoutRenormalizing(t *testing.T) {
	s := NewScorer()

	full := s.Aggregate(Inputs{
		Indicators: bullishSnapshot(),
		Trend:      strongUptrend(),
		Patterns:   bullishPatterns(),
	})
	noPatterns := s.Aggregate(Inputs{
		Indicators: bullishSnapshot(),
		Trend:      strongUptrend(),
	})

	if noPatterns.HasPattern {
		t.Error("pattern term should be absent")
	}
	// The pattern weight is dropped, not redistributed: the composite falls
	// by exactly the pattern contribution.
	wantDrop := full.PatternScore * 0.3
	gotDrop := full.Composite - noPatterns.Composite
	if math.Abs(gotDrop-wantDrop) > 1e-9 {
		t.Errorf("composite drop = %v, want %v", gotDrop, wantDrop)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	s := NewScorer()
	in := Inputs{
		Indicators: bullishSnapshot(),
		Trend:      strongUptrend(),
		Quality:    &trend.QualityReport{Score: 6.5},
		Patterns:   bullishPatterns(),
	}

	first := s.Aggregate(in)
	second := s.Aggregate(in)
	if first.Composite != second.Composite {
		t.Errorf("same inputs scored differently: %v then %v", first.Composite, second.Composite)
	}
	if first.Recommendation != second.Recommendation {
		t.Errorf("same inputs labelled differently: %s then %s", first.Recommendation, second.Recommendation)
	}
}

func TestAggregateEmptyInputs(t *testing.T) {
	s := NewScorer()
	score := s.Aggregate(Inputs{})

	if score.HasTechnical || score.HasTrend || score.HasPattern {
		t.Error("no terms should be present")
	}
	if score.Composite != 0 {
		t.Errorf("composite = %v, want 0", score.Composite)
	}
	if score.Recommendation != models.StrongSell {
		t.Errorf("recommendation = %s, want %s", score.Recommendation, models.StrongSell)
	}
}

func TestScoreToRecommendationThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Recommendation
	}{
		{100, models.StrongBuy},
		{80, models.StrongBuy},
		{79.99, models.Buy},
		{60, models.Buy},
		{59.99, models.Hold},
		{40, models.Hold},
		{39.99, models.Sell},
		{20, models.Sell},
		{19.99, models.StrongSell},
		{0, models.StrongSell},
	}
	for _, tc := range cases {
		if got := scoreToRecommendation(tc.score); got != tc.want {
			t.Errorf("scoreToRecommendation(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestPatternScoreNeutralCases(t *testing.T) {
	s := NewScorer()

	// Only neutral patterns contribute nothing.
	dojiOnly := &patterns.Report{
		Occurrences: map[patterns.Kind][]patterns.Occurrence{
			patterns.KindDoji: {{Kind: patterns.KindDoji, Confidence: 0.5}},
		},
	}
	if got := s.patternScore(dojiOnly); got != 50 {
		t.Errorf("doji-only pattern score = %v, want 50", got)
	}

	empty := &patterns.Report{Occurrences: map[patterns.Kind][]patterns.Occurrence{}}
	if got := s.patternScore(empty); got != 50 {
		t.Errorf("empty pattern score = %v, want 50", got)
	}
}

func TestCompositeWithinRange(t *testing.T) {
	s := NewScorer()

	extremes := []models.Signal{
		models.SignalStrongUp, models.SignalStrongDown,
		models.SignalOversold, models.SignalOverbought,
	}
	for _, sig := range extremes {
		snap := &indicators.Snapshot{
			MACDSignal: sig, RSISignal: sig, KDJSignal: sig, MASignal: sig,
		}
		score := s.Aggregate(Inputs{
			Indicators: snap,
			Trend:      strongUptrend(),
			Quality:    &trend.QualityReport{Score: 10},
			Patterns:   bullishPatterns(),
		})
		if score.Composite < 0 || score.Composite > 100 {
			t.Errorf("signal %s: composite = %v outside [0, 100]", sig, score.Composite)
		}
	}
}
