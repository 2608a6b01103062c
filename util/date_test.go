package util

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	base := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	cases := []struct {
		name string
		to   time.Time
		want int
	}{
		{"same day", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 0},
		{"tomorrow", time.Date(2024, 3, 11, 0, 1, 0, 0, time.UTC), 1},
		{"yesterday", time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), -1},
		{"across month", time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC), 30},
		{"far future", time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), 2913104},
		{"far past", time.Date(1700, 3, 10, 0, 0, 0, 0, time.UTC), -118339},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysBetween(base, tc.to); got != tc.want {
				t.Fatalf("DaysBetween = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDateOf_DropsClock(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	in := time.Date(2024, 12, 31, 22, 30, 0, 0, loc)
	got := DateOf(in)
	want := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateOf = %v, want %v", got, want)
	}
}
