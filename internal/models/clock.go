package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockTime is a wall-clock time of day expressed as seconds since midnight.
type ClockTime int

// ParseClock parses a 24-hour "HH:MM:SS" string into a ClockTime.
func ParseClock(raw string) (ClockTime, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM:SS", raw)
	}

	numbers := make([]int, 3)
	for i, part := range parts {
		if len(part) != 2 {
			return 0, fmt.Errorf("invalid time %q: expected HH:MM:SS", raw)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time %q: expected HH:MM:SS", raw)
		}
		numbers[i] = n
	}

	hour, minute, second := numbers[0], numbers[1], numbers[2]
	if hour > 23 || minute > 59 || second > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", raw)
	}

	return ClockTime(hour*3600 + minute*60 + second), nil
}

// String renders the time back as "HH:MM:SS".
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)%3600/60, int(t)%60)
}

// Minutes returns the value in whole minutes.
func (t ClockTime) Minutes() int {
	return int(t) / 60
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect: s1 < e2 && s2 < e1. Adjacent intervals do not overlap.
func Overlaps(s1, e1, s2, e2 ClockTime) bool {
	return s1 < e2 && s2 < e1
}

// Weekdays lists the valid day_of_week values in teaching-week order.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// IsWeekday reports whether day is one of the seven English weekday names.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
