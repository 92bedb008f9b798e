package timer

import (
	"time"

	"github.com/sandeepkv93/tasklog/internal/model"
)

// RolloverResult describes what to do with a persisted state whose task
// started on an earlier reference day.
type RolloverResult struct {
	// Final is set when the stale task was running and must be written to Day.
	Final *model.Task
	Day   string
	// Reset is true when the timer state must be emptied.
	Reset bool
}

// Rollover applies the day-boundary policy. A stale running task is closed
// with EndTime equal to StartTime, which credits it no time, and is filed under
// the day it started. The state is reset whether the task was running or paused.
func Rollover(state model.TimerState, now time.Time) RolloverResult {
	task := state.CurrentTask
	if task == nil || task.StartTime.IsZero() || model.SameDay(task.StartTime, now) {
		return RolloverResult{}
	}
	out := RolloverResult{Day: model.DayKey(task.StartTime), Reset: true}
	if state.IsRunning {
		final := task.Clone()
		end := final.StartTime
		final.EndTime = &end
		final.IsPaused = false
		final.Duration = final.DurationAt(end)
		out.Final = &final
	}
	return out
}
