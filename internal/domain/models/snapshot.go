package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// DateLayout is the calendar-day key for snapshot files.
const DateLayout = "2006-01-02"

// PredictionEval holds one day's prediction outcome counters.
type PredictionEval struct {
	Hits         int     `json:"hits"`
	Misses       int     `json:"misses"`
	Pending      int     `json:"pending"`
	TotalTracked int     `json:"total_tracked"`
	AccuracyPct  float64 `json:"accuracy_pct"`
}

// UnmarshalJSON coerces missing or non-numeric counter fields to zero
// instead of failing the containing snapshot.
func (p *PredictionEval) UnmarshalJSON(b []byte) error {
	*p = PredictionEval{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		// Not an object at all: treat as empty counters.
		return nil
	}

	p.Hits = coerceInt(raw["hits"])
	p.Misses = coerceInt(raw["misses"])
	p.Pending = coerceInt(raw["pending"])
	p.TotalTracked = coerceInt(raw["total_tracked"])
	p.AccuracyPct = coerceFloat(raw["accuracy_pct"])
	return nil
}

// AssetQuote is one asset's price observation inside a market snapshot.
type AssetQuote struct {
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
	Unit      string  `json:"unit"`
}

// Valid reports whether the quote carries a usable price.
// Entries with price <= 0 are excluded from return calculations.
func (q AssetQuote) Valid() bool {
	return q.Price > 0
}

// UnmarshalJSON zeroes the quote when the entry is not an object or its
// price is not numeric, so one bad asset never fails the whole day.
func (q *AssetQuote) UnmarshalJSON(b []byte) error {
	*q = AssetQuote{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}

	q.Price = coerceFloat(raw["price"])
	q.ChangePct = coerceFloat(raw["change_pct"])
	if u, ok := raw["unit"]; ok {
		var s string
		if err := json.Unmarshal(u, &s); err == nil {
			q.Unit = s
		}
	}
	return nil
}

// DailySnapshot is one calendar day's persisted record of prediction
// outcomes and asset prices. Written once per business day by the daily
// report generator and never mutated afterwards.
type DailySnapshot struct {
	Date           string                `json:"date"`
	Timestamp      time.Time             `json:"timestamp"`
	PredictionEval PredictionEval        `json:"prediction_eval"`
	MarketSnapshot map[string]AssetQuote `json:"market_snapshot"`
}

// Day parses the snapshot's calendar date. Returns zero time if unset/garbled.
func (s *DailySnapshot) Day() time.Time {
	t, err := time.Parse(DateLayout, s.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// coerceInt reads an int from a raw JSON value, accepting numbers and
// numeric strings; anything else (including absence) yields 0.
func coerceInt(raw json.RawMessage) int {
	return int(coerceFloat(raw))
}

func coerceFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}
