package models

import "time"

// ReportKind identifies a scheduled content slot.
type ReportKind string

const (
	ReportMorning ReportKind = "morning"
	ReportNoon    ReportKind = "noon"
	ReportEvening ReportKind = "evening"
	ReportSummary ReportKind = "summary"
	ReportWeekly  ReportKind = "weekly"
	ReportMonthly ReportKind = "monthly"
)

// Report is a rendered piece of commentary ready for delivery.
type Report struct {
	Kind        ReportKind `json:"kind"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// Headline is one news item used by the morning briefing.
type Headline struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}
