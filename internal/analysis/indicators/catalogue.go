package indicators

import (
	"context"

	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

// MinBars is the minimum series length for the full indicator catalogue.
const MinBars = 30

// Catalogue holds the full set of indicator series for one instrument,
// each aligned index-for-index with the input bars. Positions inside an
// indicator's warm-up window hold zero.
type Catalogue struct {
	Bars []models.Bar

	MA5  []float64
	MA10 []float64
	MA20 []float64
	MA60 []float64

	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64

	RSI6  []float64
	RSI12 []float64
	RSI24 []float64

	K []float64
	D []float64
	J []float64

	BollUpper []float64
	BollMid   []float64
	BollLower []float64

	ATR      []float64
	CCI      []float64
	OBV      []float64
	VolRatio []float64
}

// Snapshot holds the latest value of every series plus the derived
// categorical signals.
type Snapshot struct {
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
	K         float64
	D         float64
	J         float64
	BollUpper float64
	BollMid   float64
	BollLower float64
	ATR       float64
	CCI       float64
	OBV       float64
	VolRatio  float64

	MACDSignal models.Signal
	RSISignal  models.Signal
	KDJSignal  models.Signal
	BollSignal models.Signal
	MASignal   models.Signal
}

// catalogueEngine builds the engine registered with the full indicator set.
func catalogueEngine() *Engine {
	e := NewEngine(4)
	e.RegisterIndicator(NewSMA(5))
	e.RegisterIndicator(NewSMA(10))
	e.RegisterIndicator(NewSMA(20))
	e.RegisterIndicator(NewSMA(60))
	e.RegisterIndicator(NewRSI(6))
	e.RegisterIndicator(NewRSI(12))
	e.RegisterIndicator(NewRSI(24))
	e.RegisterIndicator(NewATR(14))
	e.RegisterIndicator(NewCCI(20))
	e.RegisterIndicator(NewOBV())
	e.RegisterIndicator(NewVolumeRatio(20))
	e.RegisterMultiIndicator(NewMACD(12, 26, 9))
	e.RegisterMultiIndicator(NewKDJ(9, 3, 3))
	e.RegisterMultiIndicator(NewBollingerBands(20, 2.0))
	return e
}

// Compute calculates the full indicator catalogue for a bar series,
// fanning the individual indicators across the engine's worker pool.
// A series shorter than MinBars returns ErrInsufficientData; callers must
// treat this as "not yet computable", not a failure.
func Compute(ctx context.Context, bars []models.Bar) (*Catalogue, error) {
	if len(bars) < MinBars {
		return nil, ErrInsufficientData
	}

	single, multi, err := catalogueEngine().CalculateAll(ctx, bars)
	if err != nil {
		return nil, err
	}

	cat := &Catalogue{Bars: bars}
	n := len(bars)

	cat.MA5 = mustSeries(single["SMA_5"], n)
	cat.MA10 = mustSeries(single["SMA_10"], n)
	cat.MA20 = mustSeries(single["SMA_20"], n)
	cat.MA60 = mustSeries(single["SMA_60"], n)

	cat.RSI6 = mustSeries(single["RSI_6"], n)
	cat.RSI12 = mustSeries(single["RSI_12"], n)
	cat.RSI24 = mustSeries(single["RSI_24"], n)

	cat.ATR = mustSeries(single["ATR_14"], n)
	cat.CCI = mustSeries(single["CCI_20"], n)
	cat.OBV = mustSeries(single["OBV"], n)
	cat.VolRatio = mustSeries(single["VolumeRatio_20"], n)

	macd := multi["MACD_12_26_9"]
	cat.MACD = mustSeries(macd["macd"], n)
	cat.MACDSignal = mustSeries(macd["signal"], n)
	cat.MACDHist = mustSeries(macd["histogram"], n)

	kdj := multi["KDJ_9_3_3"]
	cat.K = mustSeries(kdj["k"], n)
	cat.D = mustSeries(kdj["d"], n)
	cat.J = mustSeries(kdj["j"], n)

	boll := multi["BollingerBands_20_2.0"]
	cat.BollMid = mustSeries(boll["middle"], n)
	cat.BollUpper = mustSeries(boll["upper"], n)
	cat.BollLower = mustSeries(boll["lower"], n)

	return cat, nil
}

// mustSeries normalizes a calculation result to a full-length series,
// substituting warm-up zeros when the indicator could not be computed.
func mustSeries(values []float64, n int) []float64 {
	if values == nil || len(values) != n {
		return make([]float64, n)
	}
	return values
}

// Latest returns the snapshot of the most recent position with derived
// categorical signals.
func (c *Catalogue) Latest() *Snapshot {
	i := len(c.Bars) - 1
	s := &Snapshot{
		Close:     c.Bars[i].Close,
		MA5:       c.MA5[i],
		MA10:      c.MA10[i],
		MA20:      c.MA20[i],
		MA60:      c.MA60[i],
		MACD:      c.MACD[i],
		MACDSig:   c.MACDSignal[i],
		MACDHist:  c.MACDHist[i],
		RSI6:      c.RSI6[i],
		RSI12:     c.RSI12[i],
		RSI24:     c.RSI24[i],
		K:         c.K[i],
		D:         c.D[i],
		J:         c.J[i],
		BollUpper: c.BollUpper[i],
		BollMid:   c.BollMid[i],
		BollLower: c.BollLower[i],
		ATR:       c.ATR[i],
		CCI:       c.CCI[i],
		OBV:       c.OBV[i],
		VolRatio:  c.VolRatio[i],
	}

	s.MACDSignal = macdSignal(s.MACD, s.MACDSig, s.MACDHist)
	s.RSISignal = rsiSignal(s.RSI6)
	s.KDJSignal = kdjSignal(s.K, s.D)
	s.BollSignal = bollSignal(s.Close, s.BollUpper, s.BollLower)
	s.MASignal = maTrendSignal(s.Close, s.MA5, s.MA20)

	return s
}

func macdSignal(macd, signal, hist float64) models.Signal {
	if macd > signal && hist > 0 {
		return models.SignalBullish
	}
	if macd < signal && hist < 0 {
		return models.SignalBearish
	}
	return models.SignalNeutral
}

func rsiSignal(rsi float64) models.Signal {
	if rsi > 70 {
		return models.SignalOverbought
	}
	if rsi < 30 {
		return models.SignalOversold
	}
	return models.SignalNeutral
}

func kdjSignal(k, d float64) models.Signal {
	switch {
	case k > 80 && d > 80:
		return models.SignalOverbought
	case k < 20 && d < 20:
		return models.SignalOversold
	case k > d:
		return models.SignalBullish
	case k < d:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

func bollSignal(close, upper, lower float64) models.Signal {
	if close > upper {
		return models.SignalOverbought
	}
	if close < lower {
		return models.SignalOversold
	}
	return models.SignalWithinBands
}

func maTrendSignal(close, ma5, ma20 float64) models.Signal {
	switch {
	case close > ma5 && ma5 > ma20:
		return models.SignalStrongUp
	case close > ma5:
		return models.SignalWeakUp
	case close < ma5 && ma5 < ma20:
		return models.SignalStrongDown
	case close < ma5:
		return models.SignalWeakDown
	default:
		return models.SignalConsolidation
	}
}
