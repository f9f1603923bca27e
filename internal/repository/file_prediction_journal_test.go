package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"MarketBrief/internal/domain/models"
)

func TestJournalAppendAndList(t *testing.T) {
	dir := t.TempDir()
	journal := NewFilePredictionJournal(dir, testLogger(t))
	day := mustDay(t, "2025-06-02")

	first := &models.Prediction{
		Asset:        "BTC",
		Direction:    models.DirectionUp,
		ThresholdPct: 1.5,
		CreatedAt:    time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	second := &models.Prediction{
		Asset:     "EURUSD",
		Direction: models.DirectionDown,
		Note:      "ECB meeting",
		CreatedAt: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
	}

	if err := journal.Append(day, first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := journal.Append(day, second); err != nil {
		t.Fatalf("append second: %v", err)
	}

	got, err := journal.List(day)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Asset != "BTC" || got[1].Asset != "EURUSD" {
		t.Fatalf("order not preserved: %s, %s", got[0].Asset, got[1].Asset)
	}
	if got[1].Note != "ECB meeting" {
		t.Fatalf("note = %q", got[1].Note)
	}
}

func TestJournalListMissingDay(t *testing.T) {
	journal := NewFilePredictionJournal(t.TempDir(), testLogger(t))

	got, err := journal.List(mustDay(t, "2025-06-02"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got != nil {
		t.Fatalf("predictions = %v, want nil", got)
	}
}

func TestJournalListMalformed(t *testing.T) {
	dir := t.TempDir()
	journal := NewFilePredictionJournal(dir, testLogger(t))

	path := filepath.Join(dir, "predictions_2025-06-02.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := journal.List(mustDay(t, "2025-06-02"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got != nil {
		t.Fatalf("predictions = %v, want nil", got)
	}
}

func TestJournalDaysAreIndependent(t *testing.T) {
	journal := NewFilePredictionJournal(t.TempDir(), testLogger(t))

	monday := mustDay(t, "2025-06-02")
	tuesday := mustDay(t, "2025-06-03")

	if err := journal.Append(monday, &models.Prediction{Asset: "BTC", Direction: models.DirectionUp, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := journal.List(tuesday)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("tuesday has %d entries, want 0", len(got))
	}
}
