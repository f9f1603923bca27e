package pdf

import (
	"bytes"
	"testing"
	"time"

	"MarketBrief/internal/domain/models"
	applogger "MarketBrief/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestRender(t *testing.T) {
	r := NewRenderer(testLogger(t))

	report := &models.Report{
		Kind:        models.ReportWeekly,
		Title:       "Weekly Market Report",
		Body:        "<b>Predictions</b>\n6/10 hits (60.0%)\n\n<b>Assets</b>\nBTC: +3.2%\nGOLD: -0.5%",
		GeneratedAt: time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC),
	}

	out, err := r.Render(report)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF: %q", out[:8])
	}
	if len(out) < 500 {
		t.Fatalf("suspiciously small pdf: %d bytes", len(out))
	}
}

func TestRenderNil(t *testing.T) {
	r := NewRenderer(testLogger(t))
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil report")
	}
}

func TestRenderEmptyBody(t *testing.T) {
	r := NewRenderer(testLogger(t))

	out, err := r.Render(&models.Report{
		Kind:        models.ReportMorning,
		Title:       "Morning Briefing",
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("not a pdf")
	}
}
