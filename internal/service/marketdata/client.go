package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	"MarketBrief/pkg/cache"
	applogger "MarketBrief/pkg/logger"
)

const gramsPerTroyOunce = 31.1035

var snapshotCacheKey = cache.GenerateKey("marketdata", "snapshot")

// Client aggregates live quotes from CryptoCompare (crypto pairs) and the
// Yahoo quote endpoint (commodities, FX, indices) into one market snapshot.
// Each provider fails independently: a dead feed drops its symbols from the
// snapshot instead of failing the whole fetch.
type Client struct {
	crypto *resty.Client
	yahoo  *resty.Client

	cache   cache.Service
	metrics drepo.Metrics
	logger  *applogger.Logger

	apiKey        string
	cryptoSymbols []string
	quoteSymbols  []string
	cacheTTL      time.Duration
}

type Option func(*Client)

func WithCryptoCompare(baseURL, apiKey string, symbols []string) Option {
	return func(c *Client) {
		c.crypto.SetBaseURL(baseURL)
		c.apiKey = apiKey
		c.cryptoSymbols = symbols
	}
}

func WithYahoo(baseURL string, symbols []string) Option {
	return func(c *Client) {
		c.yahoo.SetBaseURL(baseURL)
		c.quoteSymbols = symbols
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.crypto.SetTimeout(d)
		c.yahoo.SetTimeout(d)
	}
}

func WithRetries(n int) Option {
	return func(c *Client) {
		c.crypto.SetRetryCount(n).SetRetryWaitTime(500 * time.Millisecond)
		c.yahoo.SetRetryCount(n).SetRetryWaitTime(500 * time.Millisecond)
	}
}

func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.cacheTTL = d }
}

// NewClient creates a quote source. With no options it fetches nothing and
// returns an empty snapshot.
func NewClient(cacheSvc cache.Service, m drepo.Metrics, l *applogger.Logger, opts ...Option) *Client {
	c := &Client{
		crypto:   resty.New().SetTimeout(15 * time.Second),
		yahoo:    resty.New().SetTimeout(15*time.Second).SetHeader("User-Agent", "Mozilla/5.0 (compatible; MarketBrief/1.0)"),
		cache:    cacheSvc,
		metrics:  m,
		logger:   l,
		cacheTTL: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current quotes for all configured symbols. A fresh
// cached snapshot short-circuits the fetch. An error is returned only when
// no provider yields any quote and the cache is empty.
func (c *Client) Snapshot(ctx context.Context) (map[string]models.AssetQuote, error) {
	if c.cache != nil {
		var cached map[string]models.AssetQuote
		if err := c.cache.Get(ctx, snapshotCacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	out := make(map[string]models.AssetQuote)

	if len(c.cryptoSymbols) > 0 {
		quotes, err := c.fetchCrypto(ctx)
		if err != nil {
			c.metrics.RecordFetchError("cryptocompare")
			c.logger.Warn("cryptocompare fetch failed", applogger.Error(err))
		}
		for sym, q := range quotes {
			out[sym] = q
		}
	}

	if len(c.quoteSymbols) > 0 {
		quotes, err := c.fetchYahoo(ctx)
		if err != nil {
			c.metrics.RecordFetchError("yahoo")
			c.logger.Warn("yahoo fetch failed", applogger.Error(err))
		}
		for sym, q := range quotes {
			out[sym] = q
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no market data from any provider")
	}

	for sym, q := range out {
		c.metrics.RecordLastPrice(sym, q.Price)
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, snapshotCacheKey, out, c.cacheTTL); err != nil {
			c.logger.Warn("snapshot cache write failed", applogger.Error(err))
		}
	}
	return out, nil
}

// ccRaw mirrors the RAW section of CryptoCompare's pricemultifull response.
type ccRaw struct {
	Raw map[string]map[string]struct {
		Price        float64 `json:"PRICE"`
		ChangePct24h float64 `json:"CHANGEPCT24HOUR"`
	} `json:"RAW"`
}

func (c *Client) fetchCrypto(ctx context.Context) (map[string]models.AssetQuote, error) {
	req := c.crypto.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fsyms": strings.Join(c.cryptoSymbols, ","),
			"tsyms": "USD",
		})
	if c.apiKey != "" {
		req.SetHeader("Authorization", "Apikey "+c.apiKey)
	}

	resp, err := req.Get("/data/pricemultifull")
	if err != nil {
		return nil, fmt.Errorf("cryptocompare request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("cryptocompare status %d: %s", resp.StatusCode(), resp.String())
	}

	var body ccRaw
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("cryptocompare parse: %w", err)
	}

	out := make(map[string]models.AssetQuote, len(c.cryptoSymbols))
	for _, sym := range c.cryptoSymbols {
		usd, ok := body.Raw[sym]["USD"]
		if !ok || usd.Price <= 0 {
			continue
		}
		out[sym] = models.AssetQuote{
			Price:     usd.Price,
			ChangePct: usd.ChangePct24h,
			Unit:      "USD",
		}
	}
	return out, nil
}

// yahooQuoteResponse mirrors the v7 finance quote envelope.
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol    string  `json:"symbol"`
			Price     float64 `json:"regularMarketPrice"`
			ChangePct float64 `json:"regularMarketChangePercent"`
			Currency  string  `json:"currency"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

func (c *Client) fetchYahoo(ctx context.Context) (map[string]models.AssetQuote, error) {
	resp, err := c.yahoo.R().
		SetContext(ctx).
		SetQueryParam("symbols", strings.Join(c.quoteSymbols, ",")).
		Get("/v7/finance/quote")
	if err != nil {
		return nil, fmt.Errorf("yahoo request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("yahoo status %d: %s", resp.StatusCode(), resp.String())
	}

	var body yahooQuoteResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("yahoo parse: %w", err)
	}

	out := make(map[string]models.AssetQuote, len(body.QuoteResponse.Result))
	for _, r := range body.QuoteResponse.Result {
		if r.Price <= 0 {
			continue
		}
		name := DisplayName(r.Symbol)
		q := models.AssetQuote{
			Price:     r.Price,
			ChangePct: r.ChangePct,
			Unit:      r.Currency,
		}
		if r.Symbol == "GC=F" {
			// Gold futures quote in USD per troy ounce; reports use grams.
			q.Price = r.Price / gramsPerTroyOunce
			q.Unit = "USD/g"
		}
		out[name] = q
	}
	return out, nil
}

var displayNames = map[string]string{
	"GC=F":     "GOLD",
	"SI=F":     "SILVER",
	"CL=F":     "OIL",
	"EURUSD=X": "EURUSD",
	"^GSPC":    "SPX",
	"^IXIC":    "NASDAQ",
}

// DisplayName maps a provider ticker to the name used in snapshots.
func DisplayName(symbol string) string {
	if name, ok := displayNames[symbol]; ok {
		return name
	}
	name := strings.TrimPrefix(symbol, "^")
	name = strings.TrimSuffix(name, "=X")
	name = strings.TrimSuffix(name, "=F")
	return name
}
