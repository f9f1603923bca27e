package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/util"
)

// DailyReporter produces the intraday content slots: the morning briefing,
// the noon and evening market pulses, and the end-of-day summary. The
// summary is the write side of the metrics pipeline: it evaluates the day's
// predictions, persists the daily snapshot, and only then builds the
// narrative.
type DailyReporter struct {
	quotes    drepo.QuoteSource
	news      drepo.NewsSource
	store     drepo.SnapshotStore
	evaluator *PredictionEvaluator
	metrics   drepo.Metrics
	logger    *applogger.Logger

	loc          *time.Location
	clock        func() time.Time
	maxHeadlines int
}

func NewDailyReporter(
	quotes drepo.QuoteSource,
	news drepo.NewsSource,
	store drepo.SnapshotStore,
	evaluator *PredictionEvaluator,
	m drepo.Metrics,
	l *applogger.Logger,
	loc *time.Location,
	maxHeadlines int,
) *DailyReporter {
	if loc == nil {
		loc = time.UTC
	}
	if maxHeadlines <= 0 {
		maxHeadlines = 5
	}
	return &DailyReporter{
		quotes:       quotes,
		news:         news,
		store:        store,
		evaluator:    evaluator,
		metrics:      m,
		logger:       l,
		loc:          loc,
		clock:        time.Now,
		maxHeadlines: maxHeadlines,
	}
}

// MorningBriefing combines overnight headlines with the opening market
// snapshot. A dead news feed degrades to a quotes-only briefing.
func (r *DailyReporter) MorningBriefing(ctx context.Context) (*models.Report, error) {
	now := r.clock().In(r.loc)

	market, err := r.quotes.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("morning briefing: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Good morning - %s</b>\n\n", now.Format("Monday, 2 January"))
	writeMarketLines(&b, market)

	headlines, err := r.news.Headlines(ctx, r.maxHeadlines)
	if err != nil {
		r.logger.Warn("morning briefing without headlines", applogger.Error(err))
	}
	if len(headlines) > 0 {
		b.WriteString("\n<b>Overnight headlines</b>\n")
		for _, h := range headlines {
			if h.Source != "" {
				fmt.Fprintf(&b, "• %s (%s)\n", h.Title, h.Source)
			} else {
				fmt.Fprintf(&b, "• %s\n", h.Title)
			}
		}
	}

	r.metrics.RecordReportGenerated(string(models.ReportMorning))
	return &models.Report{
		Kind:        models.ReportMorning,
		Title:       "Morning Briefing " + now.Format(models.DateLayout),
		Body:        b.String(),
		GeneratedAt: now,
	}, nil
}

// MarketPulse is the noon/evening check-in: current prices and day moves.
func (r *DailyReporter) MarketPulse(ctx context.Context, kind models.ReportKind) (*models.Report, error) {
	now := r.clock().In(r.loc)

	market, err := r.quotes.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("market pulse: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Market pulse - %s</b>\n\n", now.Format("15:04"))
	writeMarketLines(&b, market)

	r.metrics.RecordReportGenerated(string(kind))
	return &models.Report{
		Kind:        kind,
		Title:       fmt.Sprintf("Market Pulse %s %s", now.Format(models.DateLayout), now.Format("15:04")),
		Body:        b.String(),
		GeneratedAt: now,
	}, nil
}

// DailySummary closes the business day: it judges the journal against the
// closing snapshot, saves the daily metrics file, and narrates the result.
// The snapshot save happens before narration so a delivery failure never
// loses the day's data.
func (r *DailyReporter) DailySummary(ctx context.Context) (*models.Report, error) {
	now := r.clock().In(r.loc)
	today := util.DateOf(now)

	market, err := r.quotes.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}

	eval, judged := r.evaluator.Evaluate(today, market)

	snap := &models.DailySnapshot{
		Date:           today.Format(models.DateLayout),
		Timestamp:      now,
		PredictionEval: eval,
		MarketSnapshot: market,
	}
	if err := r.store.Save(snap); err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Daily summary - %s</b>\n\n", today.Format("Monday, 2 January"))
	writeMarketLines(&b, market)

	b.WriteString("\n<b>Prediction scorecard</b>\n")
	if eval.TotalTracked == 0 {
		b.WriteString("No predictions tracked today.\n")
	} else {
		fmt.Fprintf(&b, "%d/%d hits (%.1f%%), %d pending\n",
			eval.Hits, eval.TotalTracked, eval.AccuracyPct, eval.Pending)
		for _, jp := range judged {
			fmt.Fprintf(&b, "%s %s %s\n",
				outcomeMark(jp.Outcome), jp.Prediction.Asset, string(jp.Prediction.Direction))
		}
	}

	r.metrics.RecordReportGenerated(string(models.ReportSummary))
	return &models.Report{
		Kind:        models.ReportSummary,
		Title:       "Daily Summary " + today.Format(models.DateLayout),
		Body:        b.String(),
		GeneratedAt: now,
	}, nil
}

func writeMarketLines(b *strings.Builder, market map[string]models.AssetQuote) {
	names := make([]string, 0, len(market))
	for name := range market {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		q := market[name]
		fmt.Fprintf(b, "%s: %s %s (%s)\n", name, formatPrice(q.Price), q.Unit, formatChange(q.ChangePct))
	}
}

func formatPrice(p float64) string {
	if p >= 1000 {
		return fmt.Sprintf("%.0f", p)
	}
	if p >= 10 {
		return fmt.Sprintf("%.2f", p)
	}
	return fmt.Sprintf("%.4f", p)
}

func formatChange(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}

func outcomeMark(o models.Outcome) string {
	switch o {
	case models.OutcomeHit:
		return "[hit]"
	case models.OutcomeMiss:
		return "[miss]"
	default:
		return "[pending]"
	}
}
