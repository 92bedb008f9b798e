package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ReferenceZone is the fixed UTC+8 zone used for calendar day keys.
var ReferenceZone = time.FixedZone("UTC+8", 8*60*60)

const DayLayout = "2006-01-02"

var durationPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

var NonBillableTasks = []string{
	"Internal - Meetings",
	"Internal - IT Issues",
	"Internal - Workflow Planning",
}

// DayKey returns the calendar date of t in the reference zone.
func DayKey(t time.Time) string {
	return t.In(ReferenceZone).Format(DayLayout)
}

func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}

func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, strings.TrimSpace(s), ReferenceZone)
}

// FormatDuration renders seconds as HH:MM:SS.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseDuration accepts HH:MM or HH:MM:SS and returns whole seconds.
func ParseDuration(raw string) (int64, error) {
	match := durationPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return 0, fmt.Errorf("%w: %q, use HH:MM or HH:MM:SS", ErrInvalidDuration, raw)
	}
	hours, _ := strconv.ParseInt(match[1], 10, 64)
	minutes, _ := strconv.ParseInt(match[2], 10, 64)
	var seconds int64
	if match[3] != "" {
		seconds, _ = strconv.ParseInt(match[3], 10, 64)
	}
	if minutes >= 60 || seconds >= 60 {
		return 0, fmt.Errorf("%w: %q, minutes and seconds must be below 60", ErrInvalidDuration, raw)
	}
	return hours*3600 + minutes*60 + seconds, nil
}

// FormatDurationInput turns raw keystrokes into the HH:MM:SS mask used by
// duration inputs, dropping non-digits.
func FormatDurationInput(raw string) string {
	digits := make([]byte, 0, 6)
	for i := 0; i < len(raw) && len(digits) < 6; i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	switch {
	case len(digits) <= 2:
		return string(digits)
	case len(digits) <= 4:
		return string(digits[:2]) + ":" + string(digits[2:])
	default:
		return string(digits[:2]) + ":" + string(digits[2:4]) + ":" + string(digits[4:])
	}
}

func IsNonBillable(name string) bool {
	lower := strings.ToLower(name)
	for _, label := range NonBillableTasks {
		if strings.Contains(lower, strings.ToLower(label)) {
			return true
		}
	}
	return false
}
