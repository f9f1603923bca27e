package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	applogger "MarketBrief/pkg/logger"
)

// FileSnapshotStore keeps one JSON file per calendar day under a metrics
// directory, named daily_metrics_YYYY-MM-DD.json. Saving the same day twice
// overwrites the file; the aggregator only ever reads.
type FileSnapshotStore struct {
	dir    string
	logger *applogger.Logger
}

// NewFileSnapshotStore creates a store rooted at dir.
func NewFileSnapshotStore(dir string, l *applogger.Logger) *FileSnapshotStore {
	return &FileSnapshotStore{dir: dir, logger: l}
}

func (s *FileSnapshotStore) path(day time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("daily_metrics_%s.json", day.Format(models.DateLayout)))
}

// Save writes the snapshot for its date, creating the directory if needed.
func (s *FileSnapshotStore) Save(snap *models.DailySnapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot store: nil snapshot")
	}
	if _, err := time.Parse(models.DateLayout, snap.Date); err != nil {
		return fmt.Errorf("snapshot store: bad date %q: %w", snap.Date, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("snapshot store: mkdir: %w", err)
	}

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot store: marshal: %w", err)
	}

	day, _ := time.Parse(models.DateLayout, snap.Date)
	if err := os.WriteFile(s.path(day), b, 0o644); err != nil {
		return fmt.Errorf("snapshot store: write: %w", err)
	}

	s.logger.Info("saved daily metrics snapshot",
		applogger.String("date", snap.Date),
		applogger.Int("assets", len(snap.MarketSnapshot)),
	)
	return nil
}

// Load reads one day's snapshot. A missing file is a normal condition and
// comes back as LoadMissing silently; an unparseable file or wrong
// top-level shape is logged as a warning and comes back as LoadMalformed.
// Per-day problems are never surfaced as errors.
func (s *FileSnapshotStore) Load(day time.Time) (*models.DailySnapshot, drepo.LoadStatus) {
	b, err := os.ReadFile(s.path(day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, drepo.LoadMissing
		}
		s.logger.Warn("error reading daily metrics",
			applogger.String("date", day.Format(models.DateLayout)),
			applogger.Error(err),
		)
		return nil, drepo.LoadMalformed
	}

	// The top level must be an object. A bare null unmarshals into the
	// struct without error, so the shape is checked first.
	var top map[string]json.RawMessage
	err = json.Unmarshal(b, &top)
	if err == nil && top == nil {
		err = fmt.Errorf("top level is not an object")
	}
	if err != nil {
		s.logger.Warn("invalid daily metrics format",
			applogger.String("date", day.Format(models.DateLayout)),
			applogger.Error(err),
		)
		return nil, drepo.LoadMalformed
	}

	var snap models.DailySnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		s.logger.Warn("invalid daily metrics format",
			applogger.String("date", day.Format(models.DateLayout)),
			applogger.Error(err),
		)
		return nil, drepo.LoadMalformed
	}

	return &snap, drepo.LoadOK
}
