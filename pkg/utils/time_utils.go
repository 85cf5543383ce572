package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format shared by planner inputs and trip metadata.
const DateLayout = "2006-01-02"

func NowUnixMillis() int64 { return time.Now().UnixMilli() }

// ParseTripDate parses a YYYY-MM-DD date in UTC.
func ParseTripDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidInput, s)
	}
	return t, nil
}

// TripDayCount returns the inclusive number of calendar days between start and end,
// or 0 when either date is malformed or end precedes start.
func TripDayCount(start, end string) int {
	s, err := ParseTripDate(start)
	if err != nil {
		return 0
	}
	e, err := ParseTripDate(end)
	if err != nil || e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// DayDate returns the calendar date of trip day n (1-based).
func DayDate(start string, day int) (time.Time, error) {
	s, err := ParseTripDate(start)
	if err != nil {
		return time.Time{}, err
	}
	return s.AddDate(0, 0, day-1), nil
}

// TripDates lists every calendar date of the trip in order.
func TripDates(start, end string) []string {
	n := TripDayCount(start, end)
	s, _ := ParseTripDate(start)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.AddDate(0, 0, i).Format(DateLayout))
	}
	return out
}
