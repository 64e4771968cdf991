package domain

import "time"

// Thresholds is the read-only analysis configuration of a single run.
type Thresholds struct {
	LossMargin         float64       `json:"loss_margin"`
	LowMargin          float64       `json:"low_margin"`
	LowStockFloor      int           `json:"low_stock_floor"`
	StaleAfter         time.Duration `json:"stale_after"`
	TopN               int           `json:"top_n"`
	ForecastWindowDays int           `json:"forecast_window_days"`
	CriticalDays       float64       `json:"critical_days"`
	WarningDays        float64       `json:"warning_days"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		LossMargin:         0,
		LowMargin:          20,
		LowStockFloor:      5,
		StaleAfter:         30 * 24 * time.Hour,
		TopN:               5,
		ForecastWindowDays: 30,
		CriticalDays:       7,
		WarningDays:        14,
	}
}
