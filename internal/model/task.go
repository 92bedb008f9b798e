package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDuration = errors.New("model: invalid duration")
	ErrInvalidTask     = errors.New("model: invalid task")
)

// TitleDedupWindow is how long an identical consecutive window title is
// suppressed before it is logged again.
const TitleDedupWindow = 10 * time.Second

type FileOperation struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Details   string    `json:"details,omitempty"`
}

type WindowTitleLog struct {
	Timestamp   time.Time `json:"timestamp"`
	WindowTitle string    `json:"windowTitle"`
}

// Task is one unit of tracked work. Duration and PausedDuration are whole
// seconds. EndTime is nil while the task is still active.
type Task struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	StartTime      time.Time        `json:"startTime"`
	EndTime        *time.Time       `json:"endTime,omitempty"`
	Duration       int64            `json:"duration"`
	PausedDuration int64            `json:"pausedDuration"`
	IsPaused       bool             `json:"isPaused"`
	FileOperations []FileOperation  `json:"fileOperations"`
	WindowTitles   []WindowTitleLog `json:"windowTitles"`
	Narration      string           `json:"narration,omitempty"`
}

func NewID() string {
	return uuid.NewString()
}

func NewTask(name string, now time.Time) Task {
	return Task{
		ID:             NewID(),
		Name:           name,
		StartTime:      now.UTC(),
		FileOperations: []FileOperation{},
		WindowTitles:   []WindowTitleLog{},
	}
}

// DurationAt returns the active seconds of the task, measured up to EndTime
// when set and up to now otherwise, minus the paused seconds. Never negative.
func (t Task) DurationAt(now time.Time) int64 {
	if t.StartTime.IsZero() {
		return 0
	}
	end := now
	if t.EndTime != nil {
		end = *t.EndTime
	}
	total := int64(end.Sub(t.StartTime) / time.Second)
	if d := total - t.PausedDuration; d > 0 {
		return d
	}
	return 0
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTask)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTask)
	}
	if t.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidTask)
	}
	if t.EndTime != nil && t.EndTime.Before(t.StartTime) {
		return fmt.Errorf("%w: endTime before startTime", ErrInvalidTask)
	}
	if t.Duration < 0 || t.PausedDuration < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidTask)
	}
	return nil
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	out := t
	if t.EndTime != nil {
		end := *t.EndTime
		out.EndTime = &end
	}
	out.FileOperations = append([]FileOperation{}, t.FileOperations...)
	out.WindowTitles = append([]WindowTitleLog{}, t.WindowTitles...)
	return out
}

func (t Task) WithFileOperation(op, details string, now time.Time) Task {
	out := t.Clone()
	out.FileOperations = append(out.FileOperations, FileOperation{
		Timestamp: now.UTC(),
		Operation: op,
		Details:   details,
	})
	return out
}

// AppendWindowTitle records title unless the previous entry carries the same
// title and is younger than TitleDedupWindow. Empty titles are ignored. The
// second return reports whether an entry was added.
func AppendWindowTitle(t Task, title string, now time.Time) (Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return t, false
	}
	if n := len(t.WindowTitles); n > 0 {
		last := t.WindowTitles[n-1]
		if last.WindowTitle == title && now.Sub(last.Timestamp) < TitleDedupWindow {
			return t, false
		}
	}
	out := t.Clone()
	out.WindowTitles = append(out.WindowTitles, WindowTitleLog{Timestamp: now.UTC(), WindowTitle: title})
	return out, true
}

// TimerState is the single active-task slot. PauseStartedAt is set only while
// the current task is paused.
type TimerState struct {
	CurrentTask    *Task      `json:"currentTask"`
	IsRunning      bool       `json:"isRunning"`
	IsPaused       bool       `json:"isPaused"`
	PauseStartedAt *time.Time `json:"pauseStartedAt,omitempty"`
}

func (s TimerState) Active() bool {
	return s.CurrentTask != nil
}
