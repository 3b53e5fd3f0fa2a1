package indicators

import (
	"fmt"

	"github.com/goldeneye0077/stock-picker-sub001/internal/models"
)

// OBV calculates On-Balance Volume.
type OBV struct{}

// NewOBV creates a new OBV indicator.
func NewOBV() *OBV {
	return &OBV{}
}

func (o *OBV) Name() string {
	return "OBV"
}

func (o *OBV) Period() int {
	return 1
}

func (o *OBV) Calculate(bars []models.Bar) ([]float64, error) {
	if len(bars) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(bars)
	result := make([]float64, n)
	result[0] = float64(bars[0].Volume)

	for i := 1; i < n; i++ {
		if bars[i].Close > bars[i-1].Close {
			result[i] = result[i-1] + float64(bars[i].Volume)
		} else if bars[i].Close < bars[i-1].Close {
			result[i] = result[i-1] - float64(bars[i].Volume)
		} else {
			result[i] = result[i-1]
		}
	}

	return result, nil
}

// VolumeRatio calculates current volume relative to its rolling mean.
type VolumeRatio struct {
	period int
}

// NewVolumeRatio creates a new volume ratio indicator.
func NewVolumeRatio(period int) *VolumeRatio {
	return &VolumeRatio{period: period}
}

func (v *VolumeRatio) Name() string {
	return fmt.Sprintf("VolumeRatio_%d", v.period)
}

func (v *VolumeRatio) Period() int {
	return v.period
}

func (v *VolumeRatio) Calculate(bars []models.Bar) ([]float64, error) {
	if v.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(bars) < v.period {
		return nil, ErrInsufficientData
	}

	n := len(bars)
	result := make([]float64, n)

	for i := v.period - 1; i < n; i++ {
		var total float64
		for j := i - v.period + 1; j <= i; j++ {
			total += float64(bars[j].Volume)
		}
		avg := total / float64(v.period)
		if avg == 0 {
			// No traded volume in the window: ratio is undefined, report neutral.
			result[i] = 1
		} else {
			result[i] = float64(bars[i].Volume) / avg
		}
	}

	return result, nil
}
