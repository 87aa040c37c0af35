package service

import (
	"time"

	"github.com/vbonduro/appcatalog/internal/store"
)

// DateWindow is a named date filter offered on admin list pages.
type DateWindow string

const (
	WindowAny      DateWindow = ""
	WindowToday    DateWindow = "today"
	WindowPastWeek DateWindow = "week"
	WindowMonth    DateWindow = "month"
	WindowYear     DateWindow = "year"
)

// DateWindows lists the filters in display order.
var DateWindows = []DateWindow{WindowAny, WindowToday, WindowPastWeek, WindowMonth, WindowYear}

func (w DateWindow) Label() string {
	switch w {
	case WindowToday:
		return "Today"
	case WindowPastWeek:
		return "Past 7 days"
	case WindowMonth:
		return "This month"
	case WindowYear:
		return "This year"
	default:
		return "Any date"
	}
}

// ParseDateWindow maps a query value to a window; unknown values mean any date.
func ParseDateWindow(s string) DateWindow {
	switch w := DateWindow(s); w {
	case WindowToday, WindowPastWeek, WindowMonth, WindowYear:
		return w
	default:
		return WindowAny
	}
}

// Range returns the half-open window relative to now, in now's location.
// "Today" and "Past 7 days" end at tomorrow's midnight; month and year end at
// the start of the next month or year.
func (w DateWindow) Range(now time.Time) store.TimeRange {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	switch w {
	case WindowToday:
		return store.TimeRange{From: today, To: tomorrow}
	case WindowPastWeek:
		return store.TimeRange{From: today.AddDate(0, 0, -7), To: tomorrow}
	case WindowMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return store.TimeRange{From: first, To: first.AddDate(0, 1, 0)}
	case WindowYear:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return store.TimeRange{From: first, To: first.AddDate(1, 0, 0)}
	default:
		return store.TimeRange{}
	}
}
