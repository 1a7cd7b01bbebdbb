package models

import "fmt"

// Grid bounds for the teaching timetable. Sunday is not schedulable.
const (
	MinDay    = 1
	MaxDay    = 6
	MinPeriod = 1
	MaxPeriod = 12
)

// DayInfo pairs a day index with its display name.
type DayInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DaysOfWeek returns the schedulable days Monday through Saturday in order.
func DaysOfWeek() []DayInfo {
	days := make([]DayInfo, 0, MaxDay)
	for i, name := range dayNames {
		days = append(days, DayInfo{ID: i + 1, Name: name})
	}
	return days
}

// DayName returns the display name for a day index, or an empty string when out of range.
func DayName(day int) string {
	if day < MinDay || day > MaxDay {
		return ""
	}
	return dayNames[day-1]
}

// Periods returns the teaching period indices 1 through 12 in order.
func Periods() []int {
	periods := make([]int, 0, MaxPeriod)
	for p := MinPeriod; p <= MaxPeriod; p++ {
		periods = append(periods, p)
	}
	return periods
}

// WeeksInRange returns the inclusive week sequence start..end.
// An inverted range yields an empty slice.
func WeeksInRange(start, end int) []int {
	if end < start {
		return nil
	}
	weeks := make([]int, 0, end-start+1)
	for w := start; w <= end; w++ {
		weeks = append(weeks, w)
	}
	return weeks
}

// ParseDay validates a day index.
func ParseDay(day int) (int, error) {
	if day < MinDay || day > MaxDay {
		return 0, fmt.Errorf("day must be between %d and %d, got %d", MinDay, MaxDay, day)
	}
	return day, nil
}

// ParsePeriod validates a period index.
func ParsePeriod(period int) (int, error) {
	if period < MinPeriod || period > MaxPeriod {
		return 0, fmt.Errorf("period must be between %d and %d, got %d", MinPeriod, MaxPeriod, period)
	}
	return period, nil
}

// ParseWeek validates a week against a program's inclusive range.
func ParseWeek(week, startWeek, endWeek int) (int, error) {
	if week < startWeek || week > endWeek {
		return 0, fmt.Errorf("week must be between %d and %d, got %d", startWeek, endWeek, week)
	}
	return week, nil
}
