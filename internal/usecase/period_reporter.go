package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	applogger "MarketBrief/pkg/logger"
)

// PeriodReporter narrates weekly and monthly roll-ups built by the
// aggregator. A period with no underlying daily data still produces a
// report saying so, so the schedule never goes silent.
type PeriodReporter struct {
	aggregator *PeriodAggregator
	metrics    drepo.Metrics
	logger     *applogger.Logger

	loc   *time.Location
	clock func() time.Time
}

func NewPeriodReporter(agg *PeriodAggregator, m drepo.Metrics, l *applogger.Logger, loc *time.Location) *PeriodReporter {
	if loc == nil {
		loc = time.UTC
	}
	return &PeriodReporter{
		aggregator: agg,
		metrics:    m,
		logger:     l,
		loc:        loc,
		clock:      time.Now,
	}
}

// WeeklyReport narrates Monday through Friday of the current week.
func (r *PeriodReporter) WeeklyReport() *models.Report {
	now := r.clock().In(r.loc)
	pm := r.aggregator.WeeklyMetrics(now)

	report := r.narrate(models.ReportWeekly, "Weekly Market Report", pm, now)
	r.metrics.RecordReportGenerated(string(models.ReportWeekly))
	return report
}

// MonthlyReport narrates the current calendar month.
func (r *PeriodReporter) MonthlyReport() *models.Report {
	now := r.clock().In(r.loc)
	pm := r.aggregator.MonthlyMetrics(now)

	report := r.narrate(models.ReportMonthly, "Monthly Market Report", pm, now)
	r.metrics.RecordReportGenerated(string(models.ReportMonthly))
	return report
}

func (r *PeriodReporter) narrate(kind models.ReportKind, title string, pm *models.PeriodMetrics, now time.Time) *models.Report {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n%s to %s\n\n", title, pm.StartDate, pm.EndDate)

	if pm.DaysWithData == 0 {
		b.WriteString("No data available for this period.\n")
		r.logger.Warn("period report without data",
			applogger.String("kind", string(kind)),
			applogger.String("range", pm.StartDate+".."+pm.EndDate),
		)
		return &models.Report{
			Kind:        kind,
			Title:       fmt.Sprintf("%s %s", title, pm.EndDate),
			Body:        b.String(),
			GeneratedAt: now,
		}
	}

	fmt.Fprintf(&b, "Days with data: %d\n\n", pm.DaysWithData)

	b.WriteString("<b>Predictions</b>\n")
	pe := pm.Prediction
	if pe.TotalTracked == 0 {
		b.WriteString("No predictions tracked.\n")
	} else {
		fmt.Fprintf(&b, "%d/%d hits (%.1f%%)", pe.Hits, pe.TotalTracked, pe.AccuracyPct)
		if pe.Pending > 0 {
			fmt.Fprintf(&b, ", %d pending", pe.Pending)
		}
		b.WriteString("\n")
	}

	if len(pm.Assets) > 0 {
		b.WriteString("\n<b>Asset performance</b>\n")
		for _, name := range sortedAssetNames(pm.Assets) {
			a := pm.Assets[name]
			if a.ReturnPct != nil {
				fmt.Fprintf(&b, "%s: %+.2f%% (%s to %s %s)\n",
					name, *a.ReturnPct, formatPrice(a.StartPrice), formatPrice(a.EndPrice), a.Unit)
			} else {
				fmt.Fprintf(&b, "%s: n/a\n", name)
			}
		}
	}

	return &models.Report{
		Kind:        kind,
		Title:       fmt.Sprintf("%s %s", title, pm.EndDate),
		Body:        b.String(),
		GeneratedAt: now,
	}
}

func sortedAssetNames(assets map[string]models.PeriodAsset) []string {
	names := make([]string, 0, len(assets))
	for name := range assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
