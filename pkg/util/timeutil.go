package util

import "time"

// DateLayout is the YYYY-MM-DD form used for report dates.
const DateLayout = "2006-01-02"

// Midnight truncates t to 00:00 in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// PreviousDay returns the [yesterday 00:00, today 00:00) window relative to now.
func PreviousDay(now time.Time) (start, end time.Time) {
	end = Midnight(now)
	start = end.AddDate(0, 0, -1)
	return start, end
}
