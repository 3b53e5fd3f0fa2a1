package trend

import (
	"errors"
	"math"
	"testing"

	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
)

// linearCloses builds a series rising by step per bar.
func linearCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return closes
}

func TestAnalyzeLinearRisingSeries(t *testing.T) {
	// 20 bars rising from 10.0 to 19.5
	closes := linearCloses(20, 10.0, 0.5)

	a := NewAnalyzer()
	result, err := a.Analyze(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 5, 10 and 20 day horizons fit; 30 and 60 do not.
	if len(result.Horizons) != 3 {
		t.Fatalf("got %d horizons, want 3", len(result.Horizons))
	}

	for _, h := range result.Horizons {
		if h.Slope <= 0 {
			t.Errorf("horizon %d: slope = %v, want > 0", h.Horizon, h.Slope)
		}
		if math.Abs(h.RSquared-1.0) > 1e-9 {
			t.Errorf("horizon %d: R² = %v, want 1.0", h.Horizon, h.RSquared)
		}
		if h.Classification != StrongUptrend {
			t.Errorf("horizon %d: classification = %s, want %s", h.Horizon, h.Classification, StrongUptrend)
		}
		if h.Strength != VeryStrong {
			t.Errorf("horizon %d: strength = %s, want %s", h.Horizon, h.Strength, VeryStrong)
		}
	}

	if result.Composite.Classification != StrongUptrend {
		t.Errorf("composite = %s, want %s", result.Composite.Classification, StrongUptrend)
	}
	if result.Composite.Confidence != 1.0 {
		t.Errorf("composite confidence = %v, want 1.0", result.Composite.Confidence)
	}
}

func TestAnalyzeFlatSeriesIsSideways(t *testing.T) {
	closes := linearCloses(20, 100.0, 0)

	a := NewAnalyzer()
	result, err := a.Analyze(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, h := range result.Horizons {
		if h.Classification != Sideways {
			t.Errorf("horizon %d: classification = %s, want %s", h.Horizon, h.Classification, Sideways)
		}
	}
}

func TestAnalyzeInsufficientData(t *testing.T) {
	a := NewAnalyzer()
	if _, err := a.Analyze(linearCloses(4, 10, 0.5)); !errors.Is(err, apperrors.ErrInsufficientData) {
		t.Errorf("got %v, want ErrInsufficientData", err)
	}
}

func TestAnalyzeSkipsShortHorizons(t *testing.T) {
	a := NewAnalyzer()
	result, err := a.Analyze(linearCloses(12, 10, 0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only the 5 and 10 day horizons fit 12 closes.
	if len(result.Horizons) != 2 {
		t.Fatalf("got %d horizons, want 2", len(result.Horizons))
	}
	for _, h := range result.Horizons {
		if h.Horizon != 5 && h.Horizon != 10 {
			t.Errorf("unexpected horizon %d", h.Horizon)
		}
	}
}

// goldenCrossSeries declines for 20 bars from 120 then rises 3 per bar. The
// 5-day average crosses above the 20-day average exactly at the 25th bar.
func goldenCrossSeries() []float64 {
	closes := linearCloses(20, 120, -1)
	price := 101.0
	for i := 0; i < 7; i++ {
		price += 3
		closes = append(closes, price)
	}
	return closes
}

func TestGoldenCrossFiresOnce(t *testing.T) {
	closes := goldenCrossSeries()

	for n := 21; n <= len(closes); n++ {
		signal, err := DetectReversal(closes[:n], DefaultShortPeriod, DefaultLongPeriod)
		if err != nil {
			t.Fatalf("prefix %d: unexpected error: %v", n, err)
		}
		if n == 25 {
			if signal.Type != GoldenCross {
				t.Errorf("prefix %d: signal = %s, want %s", n, signal.Type, GoldenCross)
			}
			if signal.Confidence < 0.5 || signal.Confidence > 0.95 {
				t.Errorf("prefix %d: confidence = %v, want within [0.5, 0.95]", n, signal.Confidence)
			}
		} else if signal.Type == GoldenCross {
			t.Errorf("prefix %d: unexpected golden cross", n)
		}
	}
}

func TestDeathCrossOnMirroredSeries(t *testing.T) {
	closes := linearCloses(20, 80, 1)
	price := 99.0
	for i := 0; i < 5; i++ {
		price -= 3
		closes = append(closes, price)
	}

	found := false
	for n := 21; n <= len(closes); n++ {
		signal, err := DetectReversal(closes[:n], DefaultShortPeriod, DefaultLongPeriod)
		if err != nil {
			t.Fatalf("prefix %d: unexpected error: %v", n, err)
		}
		if signal.Type == DeathCross {
			found = true
		}
	}
	if !found {
		t.Error("death cross never detected on declining reversal")
	}
}

func TestDetectReversalValidation(t *testing.T) {
	if _, err := DetectReversal(linearCloses(10, 100, 1), 5, 20); !errors.Is(err, apperrors.ErrInsufficientData) {
		t.Errorf("short series: got %v, want ErrInsufficientData", err)
	}
	if _, err := DetectReversal(linearCloses(30, 100, 1), 20, 5); !errors.Is(err, apperrors.ErrInvalidPeriod) {
		t.Errorf("inverted periods: got %v, want ErrInvalidPeriod", err)
	}
}

func TestQualitySteadyRiseScoresHigh(t *testing.T) {
	// Alternating 1% and 2% daily gains: maximal continuity, no drawdown.
	closes := make([]float64, 60)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 0 {
			closes[i] = closes[i-1] * 1.02
		} else {
			closes[i] = closes[i-1] * 1.01
		}
	}

	report, err := Quality(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Score < 8 {
		t.Errorf("score = %v, want >= 8 for a steady rise", report.Score)
	}
	if report.Label != Excellent {
		t.Errorf("label = %s, want %s", report.Label, Excellent)
	}
	if report.MaxDrawdown != 0 {
		t.Errorf("max drawdown = %v, want 0", report.MaxDrawdown)
	}
	if math.Abs(report.Continuity-1.0) > 1e-9 {
		t.Errorf("continuity = %v, want 1.0", report.Continuity)
	}
}

func TestQualityInsufficientData(t *testing.T) {
	if _, err := Quality(linearCloses(10, 100, 1)); !errors.Is(err, apperrors.ErrInsufficientData) {
		t.Errorf("got %v, want ErrInsufficientData", err)
	}
}

func TestQualityScoreBounded(t *testing.T) {
	// Alternating gains and losses stay within [0, 10].
	closes := make([]float64, 40)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 0 {
			closes[i] = closes[i-1] * 1.05
		} else {
			closes[i] = closes[i-1] * 0.96
		}
	}
	report, err := Quality(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Score < 0 || report.Score > 10 {
		t.Errorf("score = %v, want within [0, 10]", report.Score)
	}
}
