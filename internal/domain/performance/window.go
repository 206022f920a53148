package performance

import (
	"strings"
	"time"
)

// Window is the trailing time range a report is computed over.
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
	WindowAll   Window = "all"
)

// Windows lists every window the leaderboard cache keeps warm.
var Windows = []Window{WindowWeek, WindowMonth, WindowYear, WindowAll}

// ParseWindow accepts an empty string as WindowMonth.
func ParseWindow(s string) (Window, error) {
	switch Window(strings.ToLower(strings.TrimSpace(s))) {
	case "", WindowMonth:
		return WindowMonth, nil
	case WindowWeek:
		return WindowWeek, nil
	case WindowYear:
		return WindowYear, nil
	case WindowAll:
		return WindowAll, nil
	default:
		return "", ErrInvalidWindow
	}
}

// Start returns the inclusive lower bound of the window, or nil for WindowAll.
func (w Window) Start(now time.Time) *time.Time {
	var start time.Time
	switch w {
	case WindowWeek:
		start = now.AddDate(0, 0, -7)
	case WindowMonth:
		start = now.AddDate(0, -1, 0)
	case WindowYear:
		start = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &start
}
