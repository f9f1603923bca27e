package usecase

import (
	"context"
	"fmt"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	applogger "MarketBrief/pkg/logger"
)

// Publisher delivers finished reports to the chat channel. Weekly and
// monthly reports optionally go out with a PDF attachment; a failed render
// still delivers the text message.
type Publisher struct {
	notifier drepo.Notifier
	renderer drepo.DocumentRenderer
	logger   *applogger.Logger

	attachPDF bool
}

func NewPublisher(n drepo.Notifier, r drepo.DocumentRenderer, l *applogger.Logger, attachPDF bool) *Publisher {
	return &Publisher{
		notifier:  n,
		renderer:  r,
		logger:    l,
		attachPDF: attachPDF,
	}
}

func (p *Publisher) Publish(ctx context.Context, report *models.Report) error {
	if report == nil {
		return fmt.Errorf("publish: nil report")
	}

	if err := p.notifier.SendMessage(ctx, report.Body); err != nil {
		return fmt.Errorf("publish %s: %w", report.Kind, err)
	}

	if p.attachPDF && wantsAttachment(report.Kind) {
		payload, err := p.renderer.Render(report)
		if err != nil {
			p.logger.Warn("report delivered without attachment",
				applogger.String("kind", string(report.Kind)),
				applogger.Error(err),
			)
			return nil
		}
		filename := fmt.Sprintf("%s_%s.pdf", report.Kind, report.GeneratedAt.Format(models.DateLayout))
		if err := p.notifier.SendDocument(ctx, filename, payload, report.Title); err != nil {
			p.logger.Warn("attachment delivery failed",
				applogger.String("kind", string(report.Kind)),
				applogger.Error(err),
			)
		}
	}
	return nil
}

func wantsAttachment(kind models.ReportKind) bool {
	return kind == models.ReportWeekly || kind == models.ReportMonthly
}
