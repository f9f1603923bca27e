package di

import (
	"context"
	"fmt"
	"time"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	"MarketBrief/internal/handler/api"
	internalrepo "MarketBrief/internal/repository"
	"MarketBrief/internal/service/marketdata"
	"MarketBrief/internal/service/news"
	"MarketBrief/internal/service/pdf"
	"MarketBrief/internal/service/scheduler"
	"MarketBrief/internal/service/telegram"
	"MarketBrief/internal/usecase"
	"MarketBrief/pkg/cache"
	"MarketBrief/pkg/config"
	xhttp "MarketBrief/pkg/http"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/metrics"
	"MarketBrief/pkg/server"
)

// ProvideLogger creates the application logger with the warning collector
// attached so /api/status can report recent problems.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.AttachCollector(applogger.NewCollector(256))
	return l, nil
}

// ProvideLocation resolves the business timezone all day/week/month
// boundaries are computed in.
func ProvideLocation(cfg *config.Config) *time.Location {
	return cfg.Location()
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the quote/news cache: memory-only by default,
// layered over Redis when configured.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	memOpts := []cache.MemoryOption{}
	if cfg.Cache.MemorySize > 0 {
		memOpts = append(memOpts, cache.WithMemoryMaxSize(cfg.Cache.MemorySize))
	}

	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(memOpts...), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache, memOpts...), nil
}

// ProvideSnapshotStore creates the daily metrics file store.
func ProvideSnapshotStore(cfg *config.Config, l *applogger.Logger) drepo.SnapshotStore {
	return internalrepo.NewFileSnapshotStore(cfg.Reports.MetricsDir, l)
}

// ProvidePredictionJournal creates the prediction journal. It shares the
// metrics directory unless a separate one is configured.
func ProvidePredictionJournal(cfg *config.Config, l *applogger.Logger) drepo.PredictionJournal {
	dir := cfg.Reports.PredictionsDir
	if dir == "" {
		dir = cfg.Reports.MetricsDir
	}
	return internalrepo.NewFilePredictionJournal(dir, l)
}

// ProvideQuoteSource creates the merged CryptoCompare/Yahoo quote client.
func ProvideQuoteSource(cfg *config.Config, cacheSvc cache.Service, m drepo.Metrics, l *applogger.Logger) drepo.QuoteSource {
	opts := []marketdata.Option{
		marketdata.WithCryptoCompare(cfg.MarketData.CryptoCompareURL, cfg.MarketData.CryptoCompareKey, cfg.MarketData.CryptoSymbols),
		marketdata.WithYahoo(cfg.MarketData.YahooQuoteURL, cfg.MarketData.QuoteSymbols),
	}
	if cfg.MarketData.Timeout > 0 {
		opts = append(opts, marketdata.WithTimeout(cfg.MarketData.Timeout))
	}
	if cfg.MarketData.Retries > 0 {
		opts = append(opts, marketdata.WithRetries(cfg.MarketData.Retries))
	}
	if cfg.MarketData.CacheTTL > 0 {
		opts = append(opts, marketdata.WithCacheTTL(cfg.MarketData.CacheTTL))
	}
	return marketdata.NewClient(cacheSvc, m, l, opts...)
}

// ProvideNewsSource creates the RSS headline client.
func ProvideNewsSource(cfg *config.Config, cacheSvc cache.Service, l *applogger.Logger) drepo.NewsSource {
	opts := []news.Option{news.WithFeedURL(cfg.News.FeedURL)}
	if cfg.News.Timeout > 0 {
		opts = append(opts, news.WithTimeout(cfg.News.Timeout))
	}
	if cfg.News.CacheTTL > 0 {
		opts = append(opts, news.WithCacheTTL(cfg.News.CacheTTL))
	}
	return news.NewClient(cacheSvc, l, opts...)
}

// ProvideNotifier creates the delivery channel: the Telegram client when
// enabled, otherwise a console notifier.
func ProvideNotifier(cfg *config.Config, m drepo.Metrics, l *applogger.Logger) drepo.Notifier {
	if !cfg.Telegram.Enabled {
		return telegram.NewConsoleNotifier(l)
	}
	opts := []telegram.Option{}
	if cfg.Telegram.Timeout > 0 {
		opts = append(opts, telegram.WithTimeout(cfg.Telegram.Timeout))
	}
	return telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, m, l, opts...)
}

// ProvideRenderer creates the PDF attachment renderer.
func ProvideRenderer(l *applogger.Logger) drepo.DocumentRenderer {
	return pdf.NewRenderer(l)
}

// ProvideEvaluator creates the prediction evaluator.
func ProvideEvaluator(journal drepo.PredictionJournal, l *applogger.Logger) *usecase.PredictionEvaluator {
	return usecase.NewPredictionEvaluator(journal, l)
}

// ProvideAggregator creates the period aggregator.
func ProvideAggregator(store drepo.SnapshotStore, m drepo.Metrics, l *applogger.Logger, loc *time.Location) *usecase.PeriodAggregator {
	return usecase.NewPeriodAggregator(store, m, l, loc)
}

// ProvideDailyReporter creates the intraday content producer.
func ProvideDailyReporter(
	quotes drepo.QuoteSource,
	newsSource drepo.NewsSource,
	store drepo.SnapshotStore,
	evaluator *usecase.PredictionEvaluator,
	m drepo.Metrics,
	l *applogger.Logger,
	loc *time.Location,
	cfg *config.Config,
) *usecase.DailyReporter {
	return usecase.NewDailyReporter(quotes, newsSource, store, evaluator, m, l, loc, cfg.News.MaxHeadlines)
}

// ProvidePeriodReporter creates the weekly/monthly narrator.
func ProvidePeriodReporter(agg *usecase.PeriodAggregator, m drepo.Metrics, l *applogger.Logger, loc *time.Location) *usecase.PeriodReporter {
	return usecase.NewPeriodReporter(agg, m, l, loc)
}

// ProvidePublisher creates the delivery coordinator.
func ProvidePublisher(n drepo.Notifier, r drepo.DocumentRenderer, l *applogger.Logger, cfg *config.Config) *usecase.Publisher {
	return usecase.NewPublisher(n, r, l, cfg.Telegram.SendPDF)
}

// ProvideScheduler creates the cron scheduler with every content slot
// registered against its configured spec.
func ProvideScheduler(
	cfg *config.Config,
	loc *time.Location,
	l *applogger.Logger,
	daily *usecase.DailyReporter,
	period *usecase.PeriodReporter,
	pub *usecase.Publisher,
) (*scheduler.Scheduler, error) {
	s := scheduler.New(loc, l, 5*time.Minute)

	slots := []struct {
		name string
		spec string
		fn   scheduler.JobFunc
	}{
		{"morning", cfg.Schedule.Morning, func(ctx context.Context) error {
			report, err := daily.MorningBriefing(ctx)
			if err != nil {
				return err
			}
			return pub.Publish(ctx, report)
		}},
		{"noon", cfg.Schedule.Noon, func(ctx context.Context) error {
			report, err := daily.MarketPulse(ctx, models.ReportNoon)
			if err != nil {
				return err
			}
			return pub.Publish(ctx, report)
		}},
		{"evening", cfg.Schedule.Evening, func(ctx context.Context) error {
			report, err := daily.MarketPulse(ctx, models.ReportEvening)
			if err != nil {
				return err
			}
			return pub.Publish(ctx, report)
		}},
		{"summary", cfg.Schedule.Summary, func(ctx context.Context) error {
			report, err := daily.DailySummary(ctx)
			if err != nil {
				return err
			}
			return pub.Publish(ctx, report)
		}},
		{"weekly", cfg.Schedule.Weekly, func(ctx context.Context) error {
			return pub.Publish(ctx, period.WeeklyReport())
		}},
		{"monthly", cfg.Schedule.Monthly, func(ctx context.Context) error {
			// Cron cannot express "last day of month", so the schedule
			// fires on days 28-31 and only the true last day publishes.
			now := time.Now().In(loc)
			if now.AddDate(0, 0, 1).Month() == now.Month() {
				return nil
			}
			return pub.Publish(ctx, period.MonthlyReport())
		}},
		{"heartbeat", cfg.Schedule.Heartbeat, func(ctx context.Context) error {
			l.Info("heartbeat")
			return nil
		}},
	}

	for _, slot := range slots {
		if err := s.Register(slot.name, slot.spec, slot.fn); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ProvideHTTPHandler creates the dashboard API handler.
func ProvideHTTPHandler(
	l *applogger.Logger,
	agg *usecase.PeriodAggregator,
	store drepo.SnapshotStore,
	sched *scheduler.Scheduler,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewReportsEchoHandler(l, agg, store, sched, cfg.Environment)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, handler xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsMiddleware(l),
	)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	sched *scheduler.Scheduler,
	httpServer *xhttp.Server,
	cacheSvc cache.Service,
) *server.App {
	return server.New(cfg, l, sched, httpServer, cacheSvc)
}
