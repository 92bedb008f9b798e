package update

import (
	"strconv"
	"time"

	"github.com/sandeepkv93/tasklog/internal/model"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

// formatClock renders t as HH:MM in the reference zone.
func formatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(model.ReferenceZone).Format("15:04")
}

// endOfDay returns the last second of date in the reference zone, or
// fallback when date does not parse.
func endOfDay(date string, fallback time.Time) time.Time {
	day, err := model.ParseDay(date)
	if err != nil {
		return fallback
	}
	return day.Add(24*time.Hour - time.Second)
}

// lastN returns at most n trailing items of items.
func lastN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
