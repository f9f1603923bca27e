package models

// PeriodRequest selects an inclusive date range for aggregation.
type PeriodRequest struct {
	Start string `query:"start" validate:"required,datetime=2006-01-02"`
	End   string `query:"end" validate:"required,datetime=2006-01-02"`
}
