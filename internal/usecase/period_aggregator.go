package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/util"
)

// PeriodAggregator rolls daily metrics snapshots up into weekly/monthly
// figures. It is a pure read-side view over the snapshot store: every number
// it produces is derived from saved daily data, and every per-day failure
// mode (missing file, malformed file, bad field, non-positive price)
// degrades to "exclude this data point" rather than an error.
type PeriodAggregator struct {
	store   drepo.SnapshotStore
	metrics drepo.Metrics
	logger  *applogger.Logger
	loc     *time.Location
	clock   func() time.Time
}

// NewPeriodAggregator creates an aggregator resolving default week/month
// boundaries in loc.
func NewPeriodAggregator(store drepo.SnapshotStore, m drepo.Metrics, l *applogger.Logger, loc *time.Location) *PeriodAggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &PeriodAggregator{
		store:   store,
		metrics: m,
		logger:  l,
		loc:     loc,
		clock:   time.Now,
	}
}

// observation is one valid price sighting during the scan.
type observation struct {
	price float64
	date  time.Time
	unit  string
}

// PeriodMetrics aggregates prediction accuracy and asset performance over
// the inclusive date range [start, end]. A reversed range is swapped rather
// than rejected. Accuracy is recomputed from summed counts, never averaged
// from daily percentages, so small-sample days carry their true weight.
func (a *PeriodAggregator) PeriodMetrics(start, end time.Time) *models.PeriodMetrics {
	began := time.Now()
	defer func() {
		a.metrics.RecordLatency("period_aggregation", time.Since(began).Seconds())
	}()

	start = util.DateOf(start)
	end = util.DateOf(end)
	if end.Before(start) {
		start, end = end, start
	}

	agg := &models.PeriodMetrics{
		StartDate: start.Format(models.DateLayout),
		EndDate:   end.Format(models.DateLayout),
		Assets:    make(map[string]models.PeriodAsset),
	}

	var totalHits, totalMisses, totalPending, totalTracked int

	first := make(map[string]observation)
	last := make(map[string]observation)
	daysWithPrice := make(map[string]int)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		snap, status := a.store.Load(day)
		if status == drepo.LoadMissing {
			a.metrics.RecordScanDay("missing")
			continue
		}
		if status == drepo.LoadMalformed || snap == nil {
			a.metrics.RecordScanDay("malformed")
			continue
		}
		a.metrics.RecordScanDay("loaded")
		agg.DaysWithData++

		pe := snap.PredictionEval
		totalHits += pe.Hits
		totalMisses += pe.Misses
		totalPending += pe.Pending
		totalTracked += pe.TotalTracked

		for asset, q := range snap.MarketSnapshot {
			if !q.Valid() {
				continue
			}
			if _, seen := first[asset]; !seen {
				first[asset] = observation{price: q.Price, date: day, unit: q.Unit}
			}
			// Last is always the most recent valid price in range.
			last[asset] = observation{price: q.Price, date: day, unit: q.Unit}
			daysWithPrice[asset]++
		}
	}

	accuracy := 0.0
	if totalTracked > 0 {
		accuracy = float64(totalHits) / float64(totalTracked) * 100.0
	}
	agg.Prediction = models.PredictionEval{
		Hits:         totalHits,
		Misses:       totalMisses,
		Pending:      totalPending,
		TotalTracked: totalTracked,
		AccuracyPct:  accuracy,
	}

	for asset, f := range first {
		l, ok := last[asset]
		if !ok {
			l = f
		}
		var returnPct *float64
		if f.price > 0 && l.price > 0 {
			v := (l.price - f.price) / f.price * 100.0
			returnPct = &v
		}
		agg.Assets[asset] = models.PeriodAsset{
			StartPrice:    f.price,
			EndPrice:      l.price,
			ReturnPct:     returnPct,
			Unit:          l.unit,
			DaysWithPrice: daysWithPrice[asset],
			StartDate:     f.date.Format(models.DateLayout),
			EndDate:       l.date.Format(models.DateLayout),
		}
	}

	a.logger.Info("aggregated period metrics",
		applogger.String("range", fmt.Sprintf("%s..%s", agg.StartDate, agg.EndDate)),
		applogger.Int("days_with_data", agg.DaysWithData),
		applogger.String("assets", joinAssetNames(agg.Assets)),
	)

	return agg
}

// WeeklyMetrics aggregates Monday through Friday of the week containing now.
// A zero now resolves to the current time in the configured timezone.
func (a *PeriodAggregator) WeeklyMetrics(now time.Time) *models.PeriodMetrics {
	monday, friday := util.WeekBounds(a.resolveDay(now))
	return a.PeriodMetrics(monday, friday)
}

// MonthlyMetrics aggregates the full calendar month containing now,
// including the December to January rollover for the month's last day.
func (a *PeriodAggregator) MonthlyMetrics(now time.Time) *models.PeriodMetrics {
	firstDay, lastDay := util.MonthBounds(a.resolveDay(now))
	return a.PeriodMetrics(firstDay, lastDay)
}

func (a *PeriodAggregator) resolveDay(now time.Time) time.Time {
	if now.IsZero() {
		return util.DateOf(a.clock().In(a.loc))
	}
	return util.DateOf(now)
}

func joinAssetNames(assets map[string]models.PeriodAsset) string {
	if len(assets) == 0 {
		return "none"
	}
	names := make([]string, 0, len(assets))
	for name := range assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
