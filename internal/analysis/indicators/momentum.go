package indicators

import (
	"fmt"

	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

// RSI calculates the Relative Strength Index using rolling means of gains
// and losses over the period.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI_%d", r.period)
}

func (r *RSI) Period() int {
	return r.period
}

func (r *RSI) Calculate(bars []models.Bar) ([]float64, error) {
	if r.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(bars) < r.period+1 {
		return nil, ErrInsufficientData
	}

	n := len(bars)
	result := make([]float64, n)
	closes := closePrices(bars)

	gains := make([]float64, n)
	losses := make([]float64, n)

	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := r.period; i < n; i++ {
		avgGain := mean(gains[i-r.period+1 : i+1])
		avgLoss := mean(losses[i-r.period+1 : i+1])

		switch {
		case avgLoss == 0 && avgGain == 0:
			// Flat window: no directional information.
			result[i] = 50
		case avgLoss == 0:
			result[i] = 100
		default:
			rs := avgGain / avgLoss
			result[i] = 100 - (100 / (1 + rs))
		}
	}

	return result, nil
}

// KDJ calculates the stochastic KDJ oscillator.
type KDJ struct {
	period  int
	kSmooth int
	dSmooth int
}

// NewKDJ creates a new KDJ indicator with the given periods (default 9, 3, 3).
func NewKDJ(period, kSmooth, dSmooth int) *KDJ {
	return &KDJ{
		period:  period,
		kSmooth: kSmooth,
		dSmooth: dSmooth,
	}
}

func (k *KDJ) Name() string {
	return fmt.Sprintf("KDJ_%d_%d_%d", k.period, k.kSmooth, k.dSmooth)
}

func (k *KDJ) Period() int {
	return k.period
}

func (k *KDJ) Calculate(bars []models.Bar) (map[string][]float64, error) {
	if k.period <= 0 || k.kSmooth <= 0 || k.dSmooth <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(bars) < k.period {
		return nil, ErrInsufficientData
	}

	n := len(bars)
	highs := highPrices(bars)
	lows := lowPrices(bars)
	closes := closePrices(bars)

	kLine := make([]float64, n)
	dLine := make([]float64, n)
	jLine := make([]float64, n)

	// K and D are seeded at the neutral midpoint.
	prevK := 50.0
	prevD := 50.0
	kAlpha := 1.0 / float64(k.kSmooth)
	dAlpha := 1.0 / float64(k.dSmooth)

	for i := k.period - 1; i < n; i++ {
		hh := highest(highs[i-k.period+1 : i+1])
		ll := lowest(lows[i-k.period+1 : i+1])

		rsv := 50.0
		if hh != ll {
			rsv = 100 * (closes[i] - ll) / (hh - ll)
		}

		prevK = prevK*(1-kAlpha) + rsv*kAlpha
		prevD = prevD*(1-dAlpha) + prevK*dAlpha

		kLine[i] = prevK
		dLine[i] = prevD
		jLine[i] = 3*prevK - 2*prevD
	}

	return map[string][]float64{
		"k": kLine,
		"d": dLine,
		"j": jLine,
	}, nil
}

// CCI calculates the Commodity Channel Index.
type CCI struct {
	period int
}

// NewCCI creates a new CCI indicator.
func NewCCI(period int) *CCI {
	return &CCI{period: period}
}

func (c *CCI) Name() string {
	return fmt.Sprintf("CCI_%d", c.period)
}

func (c *CCI) Period() int {
	return c.period
}

func (c *CCI) Calculate(bars []models.Bar) ([]float64, error) {
	if c.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(bars) < c.period {
		return nil, ErrInsufficientData
	}

	n := len(bars)
	result := make([]float64, n)

	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = typicalPrice(bars[i])
	}

	for i := c.period - 1; i < n; i++ {
		tpSlice := tp[i-c.period+1 : i+1]
		sma := mean(tpSlice)

		var meanDev float64
		for _, v := range tpSlice {
			meanDev += abs(v - sma)
		}
		meanDev /= float64(c.period)

		if meanDev == 0 {
			result[i] = 0
		} else {
			result[i] = (tp[i] - sma) / (0.015 * meanDev)
		}
	}

	return result, nil
}
