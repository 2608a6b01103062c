package util

import "time"

// DateLayout is the ISO calendar date layout used for expiration dates.
const DateLayout = "2006-01-02"

// DateOf drops the clock part of t, keeping its calendar date in t's own
// location, and returns that date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar date.
func Today() time.Time {
	return DateOf(time.Now())
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween counts whole calendar days from `from` to `to`. The result is
// negative when `to` is before `from`. Unix seconds keep far dates exact,
// where a time.Duration would saturate after about 292 years.
func DaysBetween(from, to time.Time) int {
	return int((DateOf(to).Unix() - DateOf(from).Unix()) / secondsPerDay)
}
