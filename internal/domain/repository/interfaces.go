package repository

import (
	"context"
	"time"

	"MarketBrief/internal/domain/models"
)

// LoadStatus tells a missing day apart from a malformed one. Both count as
// "no data" for aggregation; the distinction only feeds diagnostics.
type LoadStatus int

const (
	LoadOK LoadStatus = iota
	LoadMissing
	LoadMalformed
)

// SnapshotStore persists and loads per-day metrics snapshots.
// Load never fails for per-day problems: a missing file yields
// (nil, LoadMissing) silently, an unparseable file or wrong top-level
// shape yields (nil, LoadMalformed) after a warning log.
type SnapshotStore interface {
	Save(snap *models.DailySnapshot) error
	Load(day time.Time) (*models.DailySnapshot, LoadStatus)
}

// PredictionJournal stores the day's directional calls.
type PredictionJournal interface {
	Append(day time.Time, p *models.Prediction) error
	List(day time.Time) ([]*models.Prediction, error)
}

// QuoteSource builds a live market snapshot for the core assets.
type QuoteSource interface {
	Snapshot(ctx context.Context) (map[string]models.AssetQuote, error)
}

// NewsSource fetches recent headlines for the morning briefing.
type NewsSource interface {
	Headlines(ctx context.Context, limit int) ([]models.Headline, error)
}

// Notifier delivers rendered reports to the chat channel.
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
	SendDocument(ctx context.Context, filename string, payload []byte, caption string) error
}

// DocumentRenderer renders a report into an attachable document.
type DocumentRenderer interface {
	Render(r *models.Report) ([]byte, error)
}

// Metrics records operational counters.
type Metrics interface {
	RecordReportGenerated(kind string)
	RecordDelivery(channel, status string)
	RecordFetchError(provider string)
	RecordLastPrice(symbol string, price float64)
	RecordScanDay(outcome string)
	RecordLatency(op string, seconds float64)
}
