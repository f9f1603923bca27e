package util

import "time"

// DateLayout is the calendar-day key used for snapshot files and API params.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date. Returns (t, true) if it worked.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WeekBounds returns the Monday and Friday of the week containing d.
func WeekBounds(d time.Time) (time.Time, time.Time) {
	d = DateOf(d)
	// time.Weekday puts Sunday at 0; shift so Monday is 0.
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -offset)
	friday := monday.AddDate(0, 0, 4)
	return monday, friday
}

// MonthBounds returns the first and last calendar day of the month containing d.
func MonthBounds(d time.Time) (time.Time, time.Time) {
	y, m, _ := d.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, d.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}
