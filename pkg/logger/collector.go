package logger

import (
	"sync"
	"time"
)

// Entry is one aggregated warn/error line kept for the status endpoint.
type Entry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// Collector keeps a bounded set of recent warn/error entries in memory,
// deduplicated by level+message+caller with an occurrence count. The
// dashboard status endpoint reads it to show what went wrong lately
// (e.g. which snapshot dates failed to parse) without trawling log files.
type Collector struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
	maxSize int
}

// NewCollector creates a collector holding at most maxSize distinct entries.
func NewCollector(maxSize int) *Collector {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Collector{
		entries: make(map[string]*Entry),
		maxSize: maxSize,
	}
}

// Add records one warn/error occurrence.
func (c *Collector) Add(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := level + "|" + message + "|" + caller

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.Count++
		e.LastSeen = now
		e.Fields = fields
		return
	}

	if len(c.order) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &Entry{
		Level:     level,
		Message:   message,
		Fields:    fields,
		Caller:    caller,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
	c.order = append(c.order, key)
}

// Recent returns the collected entries, oldest first.
func (c *Collector) Recent() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry, 0, len(c.order))
	for _, key := range c.order {
		if e, ok := c.entries[key]; ok {
			out = append(out, *e)
		}
	}
	return out
}

// Reset drops all collected entries.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
	c.order = nil
}
