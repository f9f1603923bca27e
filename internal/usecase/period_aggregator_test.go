package usecase

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/repository"
	applogger "MarketBrief/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordReportGenerated(string)    {}
func (nopMetrics) RecordDelivery(string, string)   {}
func (nopMetrics) RecordFetchError(string)         {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordScanDay(string)            {}
func (nopMetrics) RecordLatency(string, float64)   {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestAggregator(t *testing.T) (*PeriodAggregator, *repository.FileSnapshotStore, string) {
	t.Helper()
	dir := t.TempDir()
	l := testLogger(t)
	store := repository.NewFileSnapshotStore(dir, l)
	agg := NewPeriodAggregator(store, nopMetrics{}, l, time.UTC)
	return agg, store, dir
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func writeSnapshot(t *testing.T, store *repository.FileSnapshotStore, date string, pe models.PredictionEval, assets map[string]models.AssetQuote) {
	t.Helper()
	snap := &models.DailySnapshot{
		Date:           date,
		Timestamp:      day(date).Add(18 * time.Hour),
		PredictionEval: pe,
		MarketSnapshot: assets,
	}
	if err := store.Save(snap); err != nil {
		t.Fatalf("save %s: %v", date, err)
	}
}

func TestConcreteWeekScenario(t *testing.T) {
	agg, store, _ := newTestAggregator(t)

	// Mon..Fri with Wednesday's file absent.
	writeSnapshot(t, store, "2025-03-17", models.PredictionEval{Hits: 2, TotalTracked: 2}, nil)
	writeSnapshot(t, store, "2025-03-18", models.PredictionEval{Hits: 1, Misses: 2, TotalTracked: 3}, nil)
	writeSnapshot(t, store, "2025-03-20", models.PredictionEval{Hits: 1, TotalTracked: 1}, nil)
	writeSnapshot(t, store, "2025-03-21", models.PredictionEval{Hits: 2, Misses: 2, TotalTracked: 4}, nil)

	got := agg.PeriodMetrics(day("2025-03-17"), day("2025-03-21"))

	if got.DaysWithData != 4 {
		t.Fatalf("days_with_data = %d, want 4", got.DaysWithData)
	}
	if got.Prediction.TotalTracked != 10 {
		t.Fatalf("total_tracked = %d, want 10", got.Prediction.TotalTracked)
	}
	if got.Prediction.Hits != 6 {
		t.Fatalf("hits = %d, want 6", got.Prediction.Hits)
	}
	if got.Prediction.AccuracyPct != 60.0 {
		t.Fatalf("accuracy_pct = %v, want 60.0", got.Prediction.AccuracyPct)
	}
}

func TestAccuracySummedNotAveraged(t *testing.T) {
	agg, store, _ := newTestAggregator(t)

	// 1 hit of 1 tracked (100%) plus 0 hits of 9 tracked (0%) must combine
	// to 10%, not to the 50% a naive average of percentages would give.
	writeSnapshot(t, store, "2025-06-02", models.PredictionEval{Hits: 1, TotalTracked: 1, AccuracyPct: 100}, nil)
	writeSnapshot(t, store, "2025-06-03", models.PredictionEval{Misses: 9, TotalTracked: 9, AccuracyPct: 0}, nil)

	got := agg.PeriodMetrics(day("2025-06-02"), day("2025-06-03"))
	if got.Prediction.AccuracyPct != 10.0 {
		t.Fatalf("accuracy_pct = %v, want 10.0", got.Prediction.AccuracyPct)
	}
}

func TestStoredAccuracyIgnored(t *testing.T) {
	agg, store, _ := newTestAggregator(t)

	// The per-day accuracy_pct in the file is informational; the roll-up
	// recomputes from raw counts.
	writeSnapshot(t, store, "2025-06-02", models.PredictionEval{Hits: 1, TotalTracked: 2, AccuracyPct: 99.9}, nil)

	got := agg.PeriodMetrics(day("2025-06-02"), day("2025-06-02"))
	if got.Prediction.AccuracyPct != 50.0 {
		t.Fatalf("accuracy_pct = %v, want 50.0", got.Prediction.AccuracyPct)
	}
}

func TestRangeSwap(t *testing.T) {
	agg, store, _ := newTestAggregator(t)

	writeSnapshot(t, store, "2025-06-02", models.PredictionEval{Hits: 1, TotalTracked: 2}, map[string]models.AssetQuote{
		"BTC": {Price: 50000, Unit: "USD"},
	})
	writeSnapshot(t, store, "2025-06-04", models.PredictionEval{Hits: 1, TotalTracked: 1}, map[string]models.AssetQuote{
		"BTC": {Price: 55000, Unit: "USD"},
	})

	forward := agg.PeriodMetrics(day("2025-06-02"), day("2025-06-04"))
	reversed := agg.PeriodMetrics(day("2025-06-04"), day("2025-06-02"))

	if !reflect.DeepEqual(forward, reversed) {
		t.Fatalf("reversed range differs:\nforward:  %+v\nreversed: %+v", forward, reversed)
	}
}

func TestIdempotent(t *testing.T) {
	agg, store, _ := newTestAggregator(t)

	writeSnapshot(t, store, "2025-06-02", models.PredictionEval{Hits: 3, Misses: 1, TotalTracked: 4}, map[string]models.AssetQuote{
		"GOLD": {Price: 75.2, Unit: "USD/g"},
	})

	a := agg.PeriodMetrics(day("2025-06-01"), day("2025-06-07"))
	b := agg.PeriodMetrics(day("2025-06-01"), day("2025-06-07"))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated aggregation differs:\nfirst:  %+v\nsecond: %+v", a, b)
	}
}

func TestSingleDayReturnIsZeroNotNil(t *testing.T) {
	agg, store, _ := newTestAggregator(t)

	writeSnapshot(t, store, "2025-06-02", models.PredictionEval{}, map[string]models.AssetQuote{
		"BTC": {Price: 50000, ChangePct: 1.2, Unit: "USD"},
	})

	got := agg.PeriodMetrics(day("2025-06-02"), day("2025-06-02"))
	btc, ok := got.Assets["BTC"]
	if !ok {
		t.Fatalf("BTC missing from assets")
	}
	if btc.ReturnPct == nil {
		t.Fatalf("return_pct is nil, want 0.0")
	}
	if *btc.ReturnPct != 0.0 {
		t.Fatalf("return_pct = %v, want 0.0", *btc.ReturnPct)
	}
	if btc.StartPrice != btc.EndPrice {
		t.Fatalf("start %v != end %v for single-day window", btc.StartPrice, btc.EndPrice)
	}
}

func TestNonPositivePriceExcluded(t *testing.T) {
	agg, store, _ := newTestAggregator(t)

	writeSnapshot(t, store, "2025-06-02", models.PredictionEval{}, map[string]models.AssetQuote{
		"BTC": {Price: 0, Unit: "USD"},
	})
	writeSnapshot(t, store, "2025-06-03", models.PredictionEval{}, map[string]models.AssetQuote{
		"BTC": {Price: 50000, Unit: "USD"},
	})

	got := agg.PeriodMetrics(day("2025-06-02"), day("2025-06-03"))
	btc := got.Assets["BTC"]
	if btc.StartPrice != 50000 || btc.EndPrice != 50000 {
		t.Fatalf("start/end = %v/%v, want 50000/50000 (zero-price day excluded)", btc.StartPrice, btc.EndPrice)
	}
	if btc.DaysWithPrice != 1 {
		t.Fatalf("days_with_price = %d, want 1", btc.DaysWithPrice)
	}
	if btc.StartDate != "2025-06-03" {
		t.Fatalf("start_date = %s, want 2025-06-03", btc.StartDate)
	}
}

func TestReturnAcrossGap(t *testing.T) {
	agg, store, _ := newTestAggregator(t)

	// Monday and Friday only; the gap days simply don't contribute.
	writeSnapshot(t, store, "2025-03-17", models.PredictionEval{}, map[string]models.AssetQuote{
		"EURUSD": {Price: 1.00, Unit: "rate"},
	})
	writeSnapshot(t, store, "2025-03-21", models.PredictionEval{}, map[string]models.AssetQuote{
		"EURUSD": {Price: 1.10, Unit: "rate"},
	})

	got := agg.PeriodMetrics(day("2025-03-17"), day("2025-03-21"))
	eur := got.Assets["EURUSD"]
	if eur.ReturnPct == nil {
		t.Fatalf("return_pct is nil")
	}
	if diff := *eur.ReturnPct - 10.0; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("return_pct = %v, want 10.0", *eur.ReturnPct)
	}
	if eur.StartDate != "2025-03-17" || eur.EndDate != "2025-03-21" {
		t.Fatalf("observation dates = %s/%s", eur.StartDate, eur.EndDate)
	}
}

func TestMalformedFileSkipped(t *testing.T) {
	agg, store, dir := newTestAggregator(t)

	writeSnapshot(t, store, "2025-06-02", models.PredictionEval{Hits: 2, TotalTracked: 4}, nil)
	writeSnapshot(t, store, "2025-06-04", models.PredictionEval{Hits: 1, TotalTracked: 1}, nil)

	// Corrupt file for the middle day.
	corrupt := filepath.Join(dir, "daily_metrics_2025-06-03.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	// Wrong top-level shape for another day inside the range.
	list := filepath.Join(dir, "daily_metrics_2025-06-05.json")
	if err := os.WriteFile(list, []byte(`[1,2,3]`), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}

	got := agg.PeriodMetrics(day("2025-06-02"), day("2025-06-05"))
	if got.DaysWithData != 2 {
		t.Fatalf("days_with_data = %d, want 2", got.DaysWithData)
	}
	if got.Prediction.Hits != 3 || got.Prediction.TotalTracked != 5 {
		t.Fatalf("totals = %d/%d, want 3/5", got.Prediction.Hits, got.Prediction.TotalTracked)
	}
}

func TestNullTopLevelSkipped(t *testing.T) {
	agg, _, dir := newTestAggregator(t)

	path := filepath.Join(dir, "daily_metrics_2025-06-02.json")
	if err := os.WriteFile(path, []byte("null"), 0o644); err != nil {
		t.Fatalf("write null: %v", err)
	}

	got := agg.PeriodMetrics(day("2025-06-02"), day("2025-06-02"))
	if got.DaysWithData != 0 {
		t.Fatalf("days_with_data = %d, want 0", got.DaysWithData)
	}
	if got.Prediction.TotalTracked != 0 {
		t.Fatalf("total_tracked = %d, want 0", got.Prediction.TotalTracked)
	}
}

func TestMissingDayMatchesAbsentFile(t *testing.T) {
	// Same data with and without a hole in the middle of the range must
	// produce identical totals; missing days are skipped, not zero-filled.
	aggA, storeA, _ := newTestAggregator(t)
	writeSnapshot(t, storeA, "2025-06-02", models.PredictionEval{Hits: 2, TotalTracked: 3}, nil)
	writeSnapshot(t, storeA, "2025-06-03", models.PredictionEval{Hits: 1, TotalTracked: 2}, nil)

	aggB, storeB, _ := newTestAggregator(t)
	writeSnapshot(t, storeB, "2025-06-02", models.PredictionEval{Hits: 2, TotalTracked: 3}, nil)
	writeSnapshot(t, storeB, "2025-06-04", models.PredictionEval{Hits: 1, TotalTracked: 2}, nil)

	a := aggA.PeriodMetrics(day("2025-06-02"), day("2025-06-04"))
	b := aggB.PeriodMetrics(day("2025-06-02"), day("2025-06-04"))

	if a.Prediction != b.Prediction {
		t.Fatalf("prediction totals differ: %+v vs %+v", a.Prediction, b.Prediction)
	}
	if a.DaysWithData != 2 || b.DaysWithData != 2 {
		t.Fatalf("days_with_data = %d/%d, want 2/2", a.DaysWithData, b.DaysWithData)
	}
}

func TestEmptyRange(t *testing.T) {
	agg, _, _ := newTestAggregator(t)

	got := agg.PeriodMetrics(day("2025-06-02"), day("2025-06-06"))
	if got.DaysWithData != 0 {
		t.Fatalf("days_with_data = %d, want 0", got.DaysWithData)
	}
	if got.Prediction.AccuracyPct != 0.0 || got.Prediction.TotalTracked != 0 {
		t.Fatalf("expected zero counters, got %+v", got.Prediction)
	}
	if len(got.Assets) != 0 {
		t.Fatalf("expected empty asset map, got %v", got.Assets)
	}
}

func TestPartialRecordDefaults(t *testing.T) {
	agg, _, dir := newTestAggregator(t)

	// Hand-written file with missing counters, a string where a number
	// belongs, and a non-object asset entry.
	raw := `{
		"date": "2025-06-02",
		"prediction_eval": {"hits": "3", "total_tracked": 4, "pending": null},
		"market_snapshot": {
			"BTC": {"price": "oops", "unit": "USD"},
			"SPX": 5000,
			"GOLD": {"price": 75.5, "unit": "USD/g"}
		}
	}`
	path := filepath.Join(dir, "daily_metrics_2025-06-02.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := agg.PeriodMetrics(day("2025-06-02"), day("2025-06-02"))
	if got.DaysWithData != 1 {
		t.Fatalf("days_with_data = %d, want 1", got.DaysWithData)
	}
	if got.Prediction.Hits != 3 || got.Prediction.TotalTracked != 4 || got.Prediction.Pending != 0 {
		t.Fatalf("unexpected counters %+v", got.Prediction)
	}
	if _, ok := got.Assets["BTC"]; ok {
		t.Fatalf("BTC with non-numeric price should be excluded")
	}
	if _, ok := got.Assets["SPX"]; ok {
		t.Fatalf("non-object SPX entry should be excluded")
	}
	if gold := got.Assets["GOLD"]; gold.StartPrice != 75.5 {
		t.Fatalf("gold start = %v, want 75.5", gold.StartPrice)
	}
}

func TestWeeklyMetricsBounds(t *testing.T) {
	agg, store, _ := newTestAggregator(t)

	writeSnapshot(t, store, "2025-03-17", models.PredictionEval{Hits: 1, TotalTracked: 1}, nil)
	writeSnapshot(t, store, "2025-03-21", models.PredictionEval{Hits: 1, TotalTracked: 2}, nil)
	// Saturday data must stay outside the Monday..Friday window.
	writeSnapshot(t, store, "2025-03-22", models.PredictionEval{Hits: 5, TotalTracked: 5}, nil)

	got := agg.WeeklyMetrics(day("2025-03-19"))
	if got.StartDate != "2025-03-17" || got.EndDate != "2025-03-21" {
		t.Fatalf("week bounds = %s..%s", got.StartDate, got.EndDate)
	}
	if got.Prediction.TotalTracked != 3 {
		t.Fatalf("total_tracked = %d, want 3", got.Prediction.TotalTracked)
	}
}

func TestMonthlyMetricsBounds(t *testing.T) {
	agg, _, _ := newTestAggregator(t)

	dec := agg.MonthlyMetrics(day("2025-12-15"))
	if dec.StartDate != "2025-12-01" || dec.EndDate != "2025-12-31" {
		t.Fatalf("december bounds = %s..%s", dec.StartDate, dec.EndDate)
	}

	nov := agg.MonthlyMetrics(day("2025-11-15"))
	if nov.EndDate != "2025-11-30" {
		t.Fatalf("november end = %s, want 2025-11-30", nov.EndDate)
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	_, store, dir := newTestAggregator(t)

	writeSnapshot(t, store, "2025-06-02", models.PredictionEval{Hits: 1, TotalTracked: 2, AccuracyPct: 50},
		map[string]models.AssetQuote{"BTC": {Price: 50000, ChangePct: -1.5, Unit: "USD"}})

	b, err := os.ReadFile(filepath.Join(dir, "daily_metrics_2025-06-02.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"date", "timestamp", "prediction_eval", "market_snapshot"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("file missing %q key: %s", key, b)
		}
	}
}
