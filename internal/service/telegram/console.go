package telegram

import (
	"context"

	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/util"
)

// ConsoleNotifier logs deliveries instead of sending them, for local runs
// and deployments without a bot token.
type ConsoleNotifier struct {
	logger *applogger.Logger
}

func NewConsoleNotifier(l *applogger.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: l}
}

func (n *ConsoleNotifier) SendMessage(_ context.Context, text string) error {
	n.logger.Info("delivery skipped, telegram disabled",
		applogger.String("preview", util.Truncate(text, 120)),
	)
	return nil
}

func (n *ConsoleNotifier) SendDocument(_ context.Context, filename string, payload []byte, _ string) error {
	n.logger.Info("document delivery skipped, telegram disabled",
		applogger.String("filename", filename),
		applogger.Int("bytes", len(payload)),
	)
	return nil
}
