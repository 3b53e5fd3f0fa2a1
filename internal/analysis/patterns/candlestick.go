// Package patterns provides candlestick pattern detection over a bounded
// window of recent bars.
package patterns

import (
	"time"

	apperrors "github.com/goldeneye0077/stock-picker-sub001/internal/errors"
	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

// Kind identifies a candlestick pattern. The set is closed so detection can
// be dispatched exhaustively.
type Kind string

const (
	KindHammer             Kind = "HAMMER"
	KindInvertedHammer     Kind = "INVERTED_HAMMER"
	KindShootingStar       Kind = "SHOOTING_STAR"
	KindHangingMan         Kind = "HANGING_MAN"
	KindBullishEngulfing   Kind = "BULLISH_ENGULFING"
	KindBearishEngulfing   Kind = "BEARISH_ENGULFING"
	KindDoji               Kind = "DOJI"
	KindMorningStar        Kind = "MORNING_STAR"
	KindEveningStar        Kind = "EVENING_STAR"
	KindThreeWhiteSoldiers Kind = "THREE_WHITE_SOLDIERS"
	KindThreeBlackCrows    Kind = "THREE_BLACK_CROWS"
	KindBullishHarami      Kind = "BULLISH_HARAMI"
	KindBearishHarami      Kind = "BEARISH_HARAMI"
)

// Kinds lists every detectable pattern in dispatch order.
var Kinds = []Kind{
	KindHammer,
	KindInvertedHammer,
	KindShootingStar,
	KindHangingMan,
	KindBullishEngulfing,
	KindBearishEngulfing,
	KindDoji,
	KindMorningStar,
	KindEveningStar,
	KindThreeWhiteSoldiers,
	KindThreeBlackCrows,
	KindBullishHarami,
	KindBearishHarami,
}

// confidence holds the fixed reliability constant for each pattern kind.
var confidence = map[Kind]float64{
	KindHammer:             0.7,
	KindInvertedHammer:     0.6,
	KindShootingStar:       0.7,
	KindHangingMan:         0.7,
	KindBullishEngulfing:   0.8,
	KindBearishEngulfing:   0.8,
	KindDoji:               0.5,
	KindMorningStar:        0.85,
	KindEveningStar:        0.85,
	KindThreeWhiteSoldiers: 0.9,
	KindThreeBlackCrows:    0.9,
	KindBullishHarami:      0.6,
	KindBearishHarami:      0.6,
}

// bullishKinds and bearishKinds partition the directional patterns for the
// aggregate pattern signal.
var bullishKinds = map[Kind]bool{
	KindHammer:             true,
	KindInvertedHammer:     true,
	KindBullishEngulfing:   true,
	KindMorningStar:        true,
	KindThreeWhiteSoldiers: true,
	KindBullishHarami:      true,
}

var bearishKinds = map[Kind]bool{
	KindShootingStar:     true,
	KindHangingMan:       true,
	KindBearishEngulfing: true,
	KindEveningStar:      true,
	KindThreeBlackCrows:  true,
	KindBearishHarami:    true,
}

// Direction returns whether a kind is bullish, bearish, or neutral.
func (k Kind) Direction() models.Signal {
	if bullishKinds[k] {
		return models.SignalBullish
	}
	if bearishKinds[k] {
		return models.SignalBearish
	}
	return models.SignalNeutral
}

// Confidence returns the fixed confidence constant for a kind.
func (k Kind) Confidence() float64 {
	return confidence[k]
}

// Occurrence records one detected pattern ending on a specific bar.
type Occurrence struct {
	Date         time.Time
	Kind         Kind
	Confidence   float64
	Price        float64
	Measurements map[string]float64
}

// Report maps each detected kind to its occurrences within the scanned
// window, with the aggregate directional counts.
type Report struct {
	Occurrences  map[Kind][]Occurrence
	BullishCount int
	BearishCount int
	Signal       models.Signal
}

// DefaultLookback is the number of recent bars scanned for patterns.
const DefaultLookback = 20

// MinBars is the minimum series length for a pattern scan.
const MinBars = 5

// Detector scans bar series for candlestick patterns.
type Detector struct {
	lookback        int
	shadowRatio     float64 // long shadow >= ratio x body
	oppositeShadow  float64 // opposite shadow <= ratio x body
	dojiBodyRatio   float64 // body <= ratio x range
	starBodyRatio   float64 // middle candle body <= ratio x neighbor bodies
	haramiBodyRatio float64 // inside candle body <= ratio x prior body
	trendWindow     int     // bars used for the prior-trend slope check
}

// NewDetector creates a detector with the default thresholds.
func NewDetector() *Detector {
	return &Detector{
		lookback:        DefaultLookback,
		shadowRatio:     2.0,
		oppositeShadow:  0.3,
		dojiBodyRatio:   0.1,
		starBodyRatio:   0.3,
		haramiBodyRatio: 0.5,
		trendWindow:     4,
	}
}

// NewDetectorWithLookback creates a detector scanning the given number of
// recent bars.
func NewDetectorWithLookback(lookback int) *Detector {
	d := NewDetector()
	if lookback >= MinBars {
		d.lookback = lookback
	}
	return d
}

// Detect scans the most recent lookback bars and returns every pattern
// occurrence grouped by kind. Requires at least MinBars bars.
func (d *Detector) Detect(bars []models.Bar) (*Report, error) {
	if len(bars) < MinBars {
		return nil, apperrors.ErrInsufficientData
	}

	window := bars
	if len(bars) > d.lookback {
		window = bars[len(bars)-d.lookback:]
	}

	report := &Report{Occurrences: make(map[Kind][]Occurrence)}

	// Each detector gates its own index and prior-trend requirements, so
	// shapes without a trend precondition are still found at the window head.
	for i := 0; i < len(window); i++ {
		for _, kind := range Kinds {
			if occ := d.detect(kind, window, i); occ != nil {
				report.Occurrences[kind] = append(report.Occurrences[kind], *occ)
			}
		}
	}

	d.summarize(report)
	return report, nil
}

// summarize counts directional kinds and sets the aggregate signal.
func (d *Detector) summarize(report *Report) {
	for kind, occs := range report.Occurrences {
		if bullishKinds[kind] {
			report.BullishCount += len(occs)
		} else if bearishKinds[kind] {
			report.BearishCount += len(occs)
		}
	}

	switch {
	case report.BullishCount > report.BearishCount:
		report.Signal = models.SignalBullish
	case report.BearishCount > report.BullishCount:
		report.Signal = models.SignalBearish
	default:
		report.Signal = models.SignalNeutral
	}
}

// detect dispatches a single kind against the bar ending at idx.
func (d *Detector) detect(kind Kind, bars []models.Bar, idx int) *Occurrence {
	switch kind {
	case KindHammer:
		return d.detectLongShadow(bars, idx, kind, true, downtrend)
	case KindInvertedHammer:
		return d.detectLongShadow(bars, idx, kind, false, downtrend)
	case KindShootingStar:
		return d.detectLongShadow(bars, idx, kind, false, uptrend)
	case KindHangingMan:
		return d.detectLongShadow(bars, idx, kind, true, uptrend)
	case KindBullishEngulfing:
		return d.detectEngulfing(bars, idx, true)
	case KindBearishEngulfing:
		return d.detectEngulfing(bars, idx, false)
	case KindDoji:
		return d.detectDoji(bars, idx)
	case KindMorningStar:
		return d.detectStar(bars, idx, true)
	case KindEveningStar:
		return d.detectStar(bars, idx, false)
	case KindThreeWhiteSoldiers:
		return d.detectThreeInARow(bars, idx, true)
	case KindThreeBlackCrows:
		return d.detectThreeInARow(bars, idx, false)
	case KindBullishHarami:
		return d.detectHarami(bars, idx, true)
	case KindBearishHarami:
		return d.detectHarami(bars, idx, false)
	}
	return nil
}

type trendDirection int

const (
	downtrend trendDirection = iota
	uptrend
)

// priorTrend classifies the bars preceding idx by the sign of an OLS slope
// over their closes.
func (d *Detector) priorTrend(bars []models.Bar, idx int) (trendDirection, bool) {
	if idx < d.trendWindow {
		return downtrend, false
	}
	closes := make([]float64, d.trendWindow)
	for i := 0; i < d.trendWindow; i++ {
		closes[i] = bars[idx-d.trendWindow+i].Close
	}
	slope := regressionSlope(closes)
	if slope < 0 {
		return downtrend, true
	}
	if slope > 0 {
		return uptrend, true
	}
	return downtrend, false
}

// regressionSlope fits an OLS line against index and returns the slope.
func regressionSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
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
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func bodySize(b models.Bar) float64 {
	return abs(b.Close - b.Open)
}

func candleRange(b models.Bar) float64 {
	return b.High - b.Low
}

func upperShadow(b models.Bar) float64 {
	return b.High - max(b.Open, b.Close)
}

func lowerShadow(b models.Bar) float64 {
	return min(b.Open, b.Close) - b.Low
}

func isBullish(b models.Bar) bool {
	return b.Close > b.Open
}

func isBearish(b models.Bar) bool {
	return b.Close < b.Open
}

func (d *Detector) occurrence(kind Kind, b models.Bar, measurements map[string]float64) *Occurrence {
	return &Occurrence{
		Date:         b.Date,
		Kind:         kind,
		Confidence:   confidence[kind],
		Price:        b.Close,
		Measurements: measurements,
	}
}

// detectLongShadow covers the four single-candle reversal shapes: one long
// shadow on the given side, a small opposite shadow, and a matching prior
// trend.
func (d *Detector) detectLongShadow(bars []models.Bar, idx int, kind Kind, longLower bool, requires trendDirection) *Occurrence {
	b := bars[idx]
	body := bodySize(b)
	if body == 0 {
		return nil
	}

	long, short := upperShadow(b), lowerShadow(b)
	if longLower {
		long, short = lowerShadow(b), upperShadow(b)
	}

	if long < body*d.shadowRatio {
		return nil
	}
	if short > body*d.oppositeShadow {
		return nil
	}

	dir, ok := d.priorTrend(bars, idx)
	if !ok || dir != requires {
		return nil
	}

	return d.occurrence(kind, b, map[string]float64{
		"body":            body,
		"long_shadow":     long,
		"opposite_shadow": short,
	})
}

func (d *Detector) detectEngulfing(bars []models.Bar, idx int, bullish bool) *Occurrence {
	if idx < 1 {
		return nil
	}
	prev, curr := bars[idx-1], bars[idx]

	if bodySize(curr) <= bodySize(prev) {
		return nil
	}

	dir, ok := d.priorTrend(bars, idx)
	if !ok {
		return nil
	}

	kind := KindBearishEngulfing
	if bullish {
		kind = KindBullishEngulfing
		if dir != downtrend {
			return nil
		}
		// Bullish candle whose body fully contains the prior bearish body.
		if !isBearish(prev) || !isBullish(curr) {
			return nil
		}
		if curr.Open > prev.Close || curr.Close < prev.Open {
			return nil
		}
	} else {
		if dir != uptrend {
			return nil
		}
		if !isBullish(prev) || !isBearish(curr) {
			return nil
		}
		if curr.Open < prev.Close || curr.Close > prev.Open {
			return nil
		}
	}

	return d.occurrence(kind, curr, map[string]float64{
		"prev_body": bodySize(prev),
		"curr_body": bodySize(curr),
	})
}

func (d *Detector) detectDoji(bars []models.Bar, idx int) *Occurrence {
	b := bars[idx]
	rng := candleRange(b)
	if rng == 0 {
		return nil
	}
	body := bodySize(b)
	if body > rng*d.dojiBodyRatio {
		return nil
	}
	return d.occurrence(KindDoji, b, map[string]float64{
		"body":  body,
		"range": rng,
	})
}

func (d *Detector) detectStar(bars []models.Bar, idx int, morning bool) *Occurrence {
	if idx < 2 {
		return nil
	}
	first, second, third := bars[idx-2], bars[idx-1], bars[idx]

	firstBody := bodySize(first)
	thirdBody := bodySize(third)
	if firstBody == 0 || thirdBody == 0 {
		return nil
	}

	// Middle candle must have a small body relative to its neighbors.
	if bodySize(second) > d.starBodyRatio*max(firstBody, thirdBody) {
		return nil
	}

	firstMid := (first.Open + first.Close) / 2

	kind := KindEveningStar
	if morning {
		kind = KindMorningStar
		// Long bearish candle, then reversal closing past its midpoint.
		if !isBearish(first) || !isBullish(third) {
			return nil
		}
		if third.Close < firstMid {
			return nil
		}
	} else {
		if !isBullish(first) || !isBearish(third) {
			return nil
		}
		if third.Close > firstMid {
			return nil
		}
	}

	return d.occurrence(kind, third, map[string]float64{
		"first_body":  firstBody,
		"second_body": bodySize(second),
		"third_body":  thirdBody,
	})
}

func (d *Detector) detectThreeInARow(bars []models.Bar, idx int, bullish bool) *Occurrence {
	if idx < 2 {
		return nil
	}
	first, second, third := bars[idx-2], bars[idx-1], bars[idx]

	kind := KindThreeBlackCrows
	if bullish {
		kind = KindThreeWhiteSoldiers
		if !isBullish(first) || !isBullish(second) || !isBullish(third) {
			return nil
		}
		// Each opens inside the previous body and closes higher.
		if second.Open < first.Open || second.Open > first.Close {
			return nil
		}
		if third.Open < second.Open || third.Open > second.Close {
			return nil
		}
		if second.Close <= first.Close || third.Close <= second.Close {
			return nil
		}
	} else {
		if !isBearish(first) || !isBearish(second) || !isBearish(third) {
			return nil
		}
		if second.Open > first.Open || second.Open < first.Close {
			return nil
		}
		if third.Open > second.Open || third.Open < second.Close {
			return nil
		}
		if second.Close >= first.Close || third.Close >= second.Close {
			return nil
		}
	}

	return d.occurrence(kind, third, map[string]float64{
		"first_body":  bodySize(first),
		"second_body": bodySize(second),
		"third_body":  bodySize(third),
	})
}

func (d *Detector) detectHarami(bars []models.Bar, idx int, bullish bool) *Occurrence {
	if idx < 1 {
		return nil
	}
	prev, curr := bars[idx-1], bars[idx]

	prevBody := bodySize(prev)
	currBody := bodySize(curr)
	if prevBody == 0 || currBody > prevBody*d.haramiBodyRatio {
		return nil
	}

	kind := KindBearishHarami
	if bullish {
		kind = KindBullishHarami
		// Small bullish body strictly inside the prior bearish body.
		if !isBearish(prev) || !isBullish(curr) {
			return nil
		}
		if curr.Open <= prev.Close || curr.Close >= prev.Open {
			return nil
		}
	} else {
		if !isBullish(prev) || !isBearish(curr) {
			return nil
		}
		if curr.Open >= prev.Close || curr.Close <= prev.Open {
			return nil
		}
	}

	return d.occurrence(kind, curr, map[string]float64{
		"prev_body": prevBody,
		"curr_body": currBody,
	})
}

// Helper functions
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
