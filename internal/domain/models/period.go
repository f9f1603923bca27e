package models

// PeriodAsset summarizes one asset's price path across a date range.
// StartPrice/EndPrice are the first and last valid (>0) observations in
// chronological order; ReturnPct is nil only when a boundary price is
// non-positive.
type PeriodAsset struct {
	StartPrice    float64  `json:"start_price"`
	EndPrice      float64  `json:"end_price"`
	ReturnPct     *float64 `json:"return_pct"`
	Unit          string   `json:"unit"`
	DaysWithPrice int      `json:"days_with_price"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
}

// PeriodMetrics is the aggregate over an inclusive date range. Computed on
// demand from daily snapshots; never persisted.
type PeriodMetrics struct {
	StartDate    string                 `json:"start_date"`
	EndDate      string                 `json:"end_date"`
	DaysWithData int                    `json:"days_with_data"`
	Prediction   PredictionEval         `json:"prediction"`
	Assets       map[string]PeriodAsset `json:"assets"`
}
