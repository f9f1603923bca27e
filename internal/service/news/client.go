package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"MarketBrief/internal/domain/models"
	"MarketBrief/pkg/cache"
	applogger "MarketBrief/pkg/logger"
)

var headlinesCacheKey = cache.GenerateKey("news", "headlines")

// rss mirrors the subset of the RSS 2.0 envelope the briefing needs.
type rss struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Title string `xml:"title"`
		Items []item `xml:"item"`
	} `xml:"channel"`
}

type item struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
	Source  struct {
		Text string `xml:",chardata"`
	} `xml:"source"`
}

// Client fetches financial headlines from an RSS feed.
type Client struct {
	http     *resty.Client
	cache    cache.Service
	logger   *applogger.Logger
	feedURL  string
	cacheTTL time.Duration
}

type Option func(*Client)

func WithFeedURL(u string) Option {
	return func(c *Client) { c.feedURL = u }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.cacheTTL = d }
}

func NewClient(cacheSvc cache.Service, l *applogger.Logger, opts ...Option) *Client {
	c := &Client{
		http:     resty.New().SetTimeout(15*time.Second).SetHeader("User-Agent", "Mozilla/5.0 (compatible; MarketBrief/1.0)"),
		cache:    cacheSvc,
		logger:   l,
		cacheTTL: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Headlines returns up to limit recent headlines. Fetch failures fall back
// to cached headlines when available.
func (c *Client) Headlines(ctx context.Context, limit int) ([]models.Headline, error) {
	if limit <= 0 {
		return nil, nil
	}

	var cached []models.Headline
	haveCached := false
	if c.cache != nil {
		if err := c.cache.Get(ctx, headlinesCacheKey, &cached); err == nil {
			haveCached = true
		}
	}
	if haveCached && len(cached) >= limit {
		return cached[:limit], nil
	}

	fetched, err := c.fetch(ctx)
	if err != nil {
		if haveCached {
			c.logger.Warn("news fetch failed, serving cached headlines", applogger.Error(err))
			return clamp(cached, limit), nil
		}
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, headlinesCacheKey, fetched, c.cacheTTL); err != nil {
			c.logger.Warn("headline cache write failed", applogger.Error(err))
		}
	}
	return clamp(fetched, limit), nil
}

func (c *Client) fetch(ctx context.Context) ([]models.Headline, error) {
	if c.feedURL == "" {
		return nil, fmt.Errorf("news feed url not configured")
	}

	resp, err := c.http.R().SetContext(ctx).Get(c.feedURL)
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("news status %d", resp.StatusCode())
	}

	var feed rss
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("news parse: %w", err)
	}

	out := make([]models.Headline, 0, len(feed.Channel.Items))
	for _, it := range feed.Channel.Items {
		title := strings.TrimSpace(html.UnescapeString(it.Title))
		if title == "" {
			continue
		}
		out = append(out, models.Headline{
			Title:       title,
			Link:        strings.TrimSpace(it.Link),
			Source:      strings.TrimSpace(it.Source.Text),
			PublishedAt: parsePubDate(it.PubDate),
		})
	}
	return out, nil
}

func clamp(headlines []models.Headline, limit int) []models.Headline {
	if len(headlines) > limit {
		return headlines[:limit]
	}
	return headlines
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
}

func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
