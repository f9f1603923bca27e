package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	drepo "MarketBrief/internal/domain/repository"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/util"
)

// Bot API hard limits.
const (
	maxMessageLen = 4096
	maxCaptionLen = 1024
)

// Client delivers reports to a Telegram chat through the Bot API.
type Client struct {
	http    *resty.Client
	metrics drepo.Metrics
	logger  *applogger.Logger

	token  string
	chatID string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.http.SetBaseURL(u) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

func NewClient(token, chatID string, m drepo.Metrics, l *applogger.Logger, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL("https://api.telegram.org").
			SetTimeout(30 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(time.Second),
		metrics: m,
		logger:  l,
		token:   token,
		chatID:  chatID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse is the Bot API envelope; ok=false carries the error text.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts an HTML-formatted message. Text beyond the Bot API
// length limit is truncated rather than rejected.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	text = util.Truncate(text, maxMessageLen)

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id":                  c.chatID,
			"text":                     text,
			"parse_mode":               "HTML",
			"disable_web_page_preview": "true",
		}).
		Post(fmt.Sprintf("/bot%s/sendMessage", c.token))
	if err != nil {
		c.metrics.RecordDelivery("telegram", "error")
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	if err := checkAPIResponse(resp); err != nil {
		c.metrics.RecordDelivery("telegram", "error")
		return fmt.Errorf("telegram sendMessage: %w", err)
	}

	c.metrics.RecordDelivery("telegram", "ok")
	c.logger.Info("telegram message delivered", applogger.Int("chars", len(text)))
	return nil
}

// SendDocument uploads a file as a document with an optional caption.
func (c *Client) SendDocument(ctx context.Context, filename string, payload []byte, caption string) error {
	if len(payload) == 0 {
		return fmt.Errorf("telegram sendDocument: empty payload")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("document", filename, bytes.NewReader(payload)).
		SetFormData(map[string]string{
			"chat_id":    c.chatID,
			"caption":    util.Truncate(caption, maxCaptionLen),
			"parse_mode": "HTML",
		}).
		Post(fmt.Sprintf("/bot%s/sendDocument", c.token))
	if err != nil {
		c.metrics.RecordDelivery("telegram", "error")
		return fmt.Errorf("telegram sendDocument: %w", err)
	}
	if err := checkAPIResponse(resp); err != nil {
		c.metrics.RecordDelivery("telegram", "error")
		return fmt.Errorf("telegram sendDocument: %w", err)
	}

	c.metrics.RecordDelivery("telegram", "ok")
	c.logger.Info("telegram document delivered",
		applogger.String("filename", filename),
		applogger.Int("bytes", len(payload)),
	)
	return nil
}

func checkAPIResponse(resp *resty.Response) error {
	if resp.StatusCode() != 200 {
		return fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String())
	}
	var body apiResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if !body.OK {
		return fmt.Errorf("api error: %s", body.Description)
	}
	return nil
}
