package http

import (
	"time"

	xutil "MarketBrief/pkg/util"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }

// ParseDate parses a YYYY-MM-DD query param. Returns (t, true) if it worked.
func ParseDate(s string) (time.Time, bool) { return xutil.ParseDate(s) }
