package tui

import (
	"fmt"
	"time"

	"github.com/mrz1836/agentspace/internal/clock"
)

// DefaultClock is the clock RelativeTime measures against.
//
//nolint:gochecknoglobals // replaceable in tests
var DefaultClock clock.Clock = clock.RealClock{}

// RelativeTime formats t as "just now", "5 minutes ago", "1 day ago", ...
func RelativeTime(t time.Time) string {
	return RelativeTimeWith(t, DefaultClock)
}

// RelativeTimeWith is RelativeTime against the given clock.
func RelativeTimeWith(t time.Time, c clock.Clock) string {
	diff := c.Now().Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	default:
		return plural(int(diff.Hours()/24/7), "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
