package patterns

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

func day(i int) time.Time {
	return time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func bar(i int, open, high, low, close float64) models.Bar {
	return models.Bar{Date: day(i), Open: open, High: high, Low: low, Close: close, Volume: 10000}
}

// decliningPrefix returns four bars with falling closes, establishing a
// downtrend for the bars that follow.
func decliningPrefix() []models.Bar {
	return []models.Bar{
		bar(0, 13.1, 13.2, 12.9, 13.0),
		bar(1, 13.0, 13.1, 11.9, 12.0),
		bar(2, 12.0, 12.1, 10.9, 11.0),
		bar(3, 11.0, 11.1, 9.9, 10.0),
	}
}

// risingPrefix returns four bars with rising closes.
func risingPrefix() []models.Bar {
	return []models.Bar{
		bar(0, 8.4, 8.6, 8.3, 8.5),
		bar(1, 8.5, 9.1, 8.4, 9.0),
		bar(2, 9.0, 9.6, 8.9, 9.5),
		bar(3, 9.5, 10.1, 9.4, 10.0),
	}
}

func TestDetectRequiresMinimumBars(t *testing.T) {
	d := NewDetector()
	_, err := d.Detect(decliningPrefix())
	if !errors.Is(err, apperrors.ErrInsufficientData) {
		t.Fatalf("Detect with 4 bars: got %v, want ErrInsufficientData", err)
	}
}

func TestBullishEngulfingAfterDowntrend(t *testing.T) {
	bars := append(decliningPrefix(),
		bar(4, 10.0, 10.1, 8.9, 9.0),  // bearish candle
		bar(5, 8.5, 10.6, 8.4, 10.5), // bullish body engulfs the prior body
	)

	d := NewDetector()
	report, err := d.Detect(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	occs := report.Occurrences[KindBullishEngulfing]
	if len(occs) != 1 {
		t.Fatalf("got %d bullish engulfing occurrences, want 1", len(occs))
	}
	if !occs[0].Date.Equal(day(5)) {
		t.Errorf("occurrence date = %v, want %v", occs[0].Date, day(5))
	}
	if occs[0].Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", occs[0].Confidence)
	}
	if report.BullishCount < 1 {
		t.Errorf("bullish count = %d, want >= 1", report.BullishCount)
	}
}

func TestBullishEngulfingNeedsPriorDowntrend(t *testing.T) {
	// Same two-candle shape, but preceded by rising closes.
	bars := append(risingPrefix(),
		bar(4, 10.0, 10.1, 8.9, 9.0),
		bar(5, 8.5, 10.6, 8.4, 10.5),
	)

	d := NewDetector()
	report, err := d.Detect(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(report.Occurrences[KindBullishEngulfing]); got != 0 {
		t.Errorf("got %d bullish engulfing occurrences without a downtrend, want 0", got)
	}
}

func TestHammerFamilyExclusivity(t *testing.T) {
	// Lower shadow three times the body, negligible upper shadow.
	hammer := bar(4, 100.0, 101.1, 97.0, 101.0)

	bars := append([]models.Bar{
		bar(0, 106.1, 106.3, 105.9, 106.0),
		bar(1, 106.0, 106.1, 104.9, 105.0),
		bar(2, 105.0, 105.1, 103.9, 104.0),
		bar(3, 104.0, 104.1, 102.9, 103.0),
	}, hammer)

	d := NewDetector()
	report, err := d.Detect(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(report.Occurrences[KindHammer]); got != 1 {
		t.Errorf("got %d hammer occurrences after downtrend, want 1", got)
	}
	for _, kind := range []Kind{KindHangingMan, KindInvertedHammer, KindShootingStar} {
		if got := len(report.Occurrences[kind]); got != 0 {
			t.Errorf("got %d %s occurrences, want 0", got, kind)
		}
	}
}

func TestHangingManNeedsUptrend(t *testing.T) {
	// The same shape after rising closes reads as a hanging man instead.
	shape := bar(4, 100.0, 101.1, 97.0, 101.0)

	bars := append([]models.Bar{
		bar(0, 96.1, 96.3, 95.9, 96.0),
		bar(1, 96.0, 97.1, 95.9, 97.0),
		bar(2, 97.0, 98.1, 96.9, 98.0),
		bar(3, 98.0, 99.1, 97.9, 99.0),
	}, shape)

	d := NewDetector()
	report, err := d.Detect(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(report.Occurrences[KindHangingMan]); got != 1 {
		t.Errorf("got %d hanging man occurrences after uptrend, want 1", got)
	}
	if got := len(report.Occurrences[KindHammer]); got != 0 {
		t.Errorf("got %d hammer occurrences after uptrend, want 0", got)
	}
}

func TestDojiDetection(t *testing.T) {
	bars := append(decliningPrefix(),
		bar(4, 100.0, 101.0, 99.0, 100.05), // body well under a tenth of the range
	)

	d := NewDetector()
	report, err := d.Detect(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	occs := report.Occurrences[KindDoji]
	if len(occs) != 1 {
		t.Fatalf("got %d doji occurrences, want 1", len(occs))
	}
	if occs[0].Confidence != 0.5 {
		t.Errorf("doji confidence = %v, want 0.5", occs[0].Confidence)
	}
}

func TestDojiAtWindowHead(t *testing.T) {
	// A doji on the very first bar of the window has no prior-trend
	// requirement and must still be found.
	bars := []models.Bar{
		bar(0, 100.0, 100.5, 99.5, 100.05),
		bar(1, 100.0, 101.1, 99.9, 101.0),
		bar(2, 100.0, 101.1, 99.9, 101.0),
		bar(3, 100.0, 101.1, 99.9, 101.0),
		bar(4, 100.0, 101.1, 99.9, 101.0),
	}

	d := NewDetector()
	report, err := d.Detect(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	occs := report.Occurrences[KindDoji]
	if len(occs) != 1 {
		t.Fatalf("got %d doji occurrences, want 1", len(occs))
	}
	if !occs[0].Date.Equal(day(0)) {
		t.Errorf("occurrence date = %v, want %v", occs[0].Date, day(0))
	}
}

func TestThreeBlackCrowsAtWindowHead(t *testing.T) {
	// The declining prefix itself forms crows ending on bars 2 and 3; they
	// are directional, so missing them would skew the aggregate signal.
	bars := append(decliningPrefix(),
		bar(4, 10.0, 10.6, 9.97, 10.5),
	)

	d := NewDetector()
	report, err := d.Detect(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	occs := report.Occurrences[KindThreeBlackCrows]
	if len(occs) != 2 {
		t.Fatalf("got %d crow occurrences, want 2", len(occs))
	}
	if !occs[0].Date.Equal(day(2)) || !occs[1].Date.Equal(day(3)) {
		t.Errorf("occurrence dates = %v, %v, want %v, %v", occs[0].Date, occs[1].Date, day(2), day(3))
	}
	if report.BearishCount != 2 {
		t.Errorf("bearish count = %d, want 2", report.BearishCount)
	}
	if report.Signal != models.SignalBearish {
		t.Errorf("aggregate signal = %s, want %s", report.Signal, models.SignalBearish)
	}
}

func TestKindDirections(t *testing.T) {
	cases := []struct {
		kind Kind
		want models.Signal
	}{
		{KindHammer, models.SignalBullish},
		{KindMorningStar, models.SignalBullish},
		{KindThreeWhiteSoldiers, models.SignalBullish},
		{KindShootingStar, models.SignalBearish},
		{KindEveningStar, models.SignalBearish},
		{KindThreeBlackCrows, models.SignalBearish},
		{KindDoji, models.SignalNeutral},
	}
	for _, tc := range cases {
		if got := tc.kind.Direction(); got != tc.want {
			t.Errorf("%s.Direction() = %s, want %s", tc.kind, got, tc.want)
		}
	}
}
