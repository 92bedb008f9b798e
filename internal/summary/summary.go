// Package summary derives the shift and productivity view of one day's
// task collection. Everything here is recomputed from scratch on each call.
package summary

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklog/internal/model"
)

var (
	ErrInvalidClock = errors.New("summary: invalid time of day")
	ErrInvalidShift = errors.New("summary: shift end must be after shift start")
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Clock is a time of day in minutes after midnight.
type Clock int

func ParseClock(raw string) (Clock, error) {
	match := clockPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	h, _ := strconv.Atoi(match[1])
	m, _ := strconv.Atoi(match[2])
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return Clock(h*60 + m), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

type Shift struct {
	Start Clock
	End   Clock
}

func ParseShift(start, end string) (Shift, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Shift{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Shift{}, err
	}
	shift := Shift{Start: s, End: e}
	if err := shift.Validate(); err != nil {
		return Shift{}, err
	}
	return shift, nil
}

func (s Shift) Validate() error {
	if s.End <= s.Start {
		return fmt.Errorf("%w: %s-%s", ErrInvalidShift, s.Start, s.End)
	}
	return nil
}

func (s Shift) Seconds() int64 {
	return int64(s.End-s.Start) * 60
}

// Elapsed returns the seconds of the shift that have passed at now, measured
// in the reference zone and clamped to [0, Seconds()].
func (s Shift) Elapsed(now time.Time) int64 {
	local := now.In(model.ReferenceZone)
	y, m, d := local.Date()
	start := time.Date(y, m, d, int(s.Start)/60, int(s.Start)%60, 0, 0, model.ReferenceZone)
	elapsed := int64(local.Sub(start) / time.Second)
	if elapsed < 0 {
		return 0
	}
	if total := s.Seconds(); elapsed > total {
		return total
	}
	return elapsed
}

type Segment struct {
	TaskID       string
	Name         string
	Start        time.Time
	Seconds      int64
	WidthPercent float64
	Billable     bool
}

type Summary struct {
	TotalSeconds        int64
	BillableSeconds     int64
	NonBillableSeconds  int64
	ShiftSeconds        int64
	ShiftElapsedSeconds int64
	// LoggedPercent is not capped; values above 100 mean overtime.
	LoggedPercent       float64
	ShiftPercent        float64
	DeltaSeconds        int64
	ProductivityPercent float64
	TargetSeconds       int64
	TargetPercent       float64
	TaskCount           int
	Segments            []Segment
}

func (s Summary) Ahead() bool {
	return s.DeltaSeconds >= 0
}

// Compute derives the summary for tasks against shift at now. targetSeconds
// may be zero, in which case TargetPercent stays zero.
func Compute(tasks []model.Task, shift Shift, targetSeconds int64, now time.Time) (Summary, error) {
	if err := shift.Validate(); err != nil {
		return Summary{}, err
	}
	out := Summary{
		ShiftSeconds:  shift.Seconds(),
		TargetSeconds: targetSeconds,
		TaskCount:     len(tasks),
	}
	// Billable segments come first, each group in start order.
	ordered := append([]model.Task{}, tasks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		bi, bj := !model.IsNonBillable(ordered[i].Name), !model.IsNonBillable(ordered[j].Name)
		if bi != bj {
			return bi
		}
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})
	segments := make([]Segment, 0, len(ordered))
	for _, task := range ordered {
		secs := task.Duration
		if secs < 0 {
			secs = 0
		}
		billable := !model.IsNonBillable(task.Name)
		out.TotalSeconds += secs
		if !billable {
			out.NonBillableSeconds += secs
		}
		segments = append(segments, Segment{
			TaskID:       task.ID,
			Name:         task.Name,
			Start:        task.StartTime,
			Seconds:      secs,
			WidthPercent: percent(secs, out.ShiftSeconds),
			Billable:     billable,
		})
	}
	if out.TotalSeconds > 0 {
		out.Segments = segments
	}
	out.BillableSeconds = out.TotalSeconds - out.NonBillableSeconds
	out.ShiftElapsedSeconds = shift.Elapsed(now)
	out.LoggedPercent = percent(out.TotalSeconds, out.ShiftSeconds)
	out.ShiftPercent = percent(out.ShiftElapsedSeconds, out.ShiftSeconds)
	out.DeltaSeconds = out.TotalSeconds - out.ShiftElapsedSeconds
	out.ProductivityPercent = percent(out.BillableSeconds, out.TotalSeconds)
	out.TargetPercent = percent(out.TotalSeconds, targetSeconds)
	return out, nil
}

func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// FormatHM renders seconds as HH:MM.
func FormatHM(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/3600, (seconds%3600)/60)
}

// FormatDelta renders a signed ahead/behind value as +H:MM or -H:MM.
func FormatDelta(seconds int64) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
