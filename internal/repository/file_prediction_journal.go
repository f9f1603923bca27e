package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"MarketBrief/internal/domain/models"
	applogger "MarketBrief/pkg/logger"
)

// FilePredictionJournal stores the day's directional calls as a JSON array
// in predictions_YYYY-MM-DD.json, one file per calendar day.
type FilePredictionJournal struct {
	dir    string
	logger *applogger.Logger
}

// NewFilePredictionJournal creates a journal rooted at dir.
func NewFilePredictionJournal(dir string, l *applogger.Logger) *FilePredictionJournal {
	return &FilePredictionJournal{dir: dir, logger: l}
}

func (j *FilePredictionJournal) path(day time.Time) string {
	return filepath.Join(j.dir, fmt.Sprintf("predictions_%s.json", day.Format(models.DateLayout)))
}

// Append adds one prediction to the day's journal.
func (j *FilePredictionJournal) Append(day time.Time, p *models.Prediction) error {
	if p == nil {
		return fmt.Errorf("prediction journal: nil prediction")
	}

	entries, _ := j.List(day)
	entries = append(entries, p)

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("prediction journal: mkdir: %w", err)
	}

	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("prediction journal: marshal: %w", err)
	}

	if err := os.WriteFile(j.path(day), b, 0o644); err != nil {
		return fmt.Errorf("prediction journal: write: %w", err)
	}
	return nil
}

// List returns the day's predictions. A missing or unparseable file yields
// an empty list; evaluation treats that as "nothing tracked today".
func (j *FilePredictionJournal) List(day time.Time) ([]*models.Prediction, error) {
	b, err := os.ReadFile(j.path(day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		j.logger.Warn("error reading prediction journal",
			applogger.String("date", day.Format(models.DateLayout)),
			applogger.Error(err),
		)
		return nil, nil
	}

	var entries []*models.Prediction
	if err := json.Unmarshal(b, &entries); err != nil {
		j.logger.Warn("invalid prediction journal format",
			applogger.String("date", day.Format(models.DateLayout)),
			applogger.Error(err),
		)
		return nil, nil
	}
	return entries, nil
}
