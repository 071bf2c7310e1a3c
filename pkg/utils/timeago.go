// Package utils holds small helpers shared by the CLI and the panel.
package utils

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatTimeAgo renders t relative to now ("5 minutes ago"). Zero times are
// "never", anything under a minute is "just now" and anything older than
// 30 days is shown as a date.
func FormatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := time.Since(t)
	switch {
	case d < 0:
		return "in the future"
	case d < time.Minute:
		return "just now"
	case d > 30*24*time.Hour:
		return t.Format("Jan 2, 2006")
	}

	return humanize.Time(t)
}
