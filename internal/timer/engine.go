// Package timer owns the single active task: start, pause, resume and
// finalize, with paused intervals excluded from the tracked duration.
package timer

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/tasklog/internal/model"
)

var (
	ErrAlreadyActive = errors.New("timer: a task is already active")
	ErrNoActiveTask  = errors.New("timer: no active task")
)

const DefaultTaskName = "New Task"

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
)

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine is safe for use from the UI loop and from persistence goroutines.
// It never performs I/O.
type Engine struct {
	mu    sync.Mutex
	now   func() time.Time
	state model.TimerState
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Now() time.Time {
	return e.now()
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return phaseOf(e.state)
}

func phaseOf(s model.TimerState) Phase {
	switch {
	case s.CurrentTask == nil:
		return PhaseIdle
	case s.IsPaused:
		return PhasePaused
	default:
		return PhaseRunning
	}
}

// State returns a deep copy of the timer state.
func (e *Engine) State() model.TimerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyState(e.state)
}

// Restore replaces the in-memory state, typically with one loaded from disk.
func (e *Engine) Restore(s model.TimerState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = copyState(s)
	if e.state.CurrentTask == nil {
		e.state = model.TimerState{}
	}
}

func (e *Engine) Start(name string) (model.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.CurrentTask != nil {
		return model.Task{}, ErrAlreadyActive
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTaskName
	}
	task := model.NewTask(name, e.now())
	e.state = model.TimerState{CurrentTask: &task, IsRunning: true}
	return task.Clone(), nil
}

// Pause reports whether the state changed. Pausing a paused or idle timer is
// a no-op.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if phaseOf(e.state) != PhaseRunning {
		return false
	}
	now := e.now().UTC()
	e.state.IsPaused = true
	e.state.PauseStartedAt = &now
	e.state.CurrentTask.IsPaused = true
	return true
}

func (e *Engine) Resume() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if phaseOf(e.state) != PhasePaused {
		return false
	}
	e.foldPause(e.now())
	return true
}

// foldPause adds the in-progress pause interval to PausedDuration and returns
// the task to the running phase.
func (e *Engine) foldPause(now time.Time) {
	if e.state.PauseStartedAt != nil {
		if d := int64(now.Sub(*e.state.PauseStartedAt) / time.Second); d > 0 {
			e.state.CurrentTask.PausedDuration += d
		}
	}
	e.state.PauseStartedAt = nil
	e.state.IsPaused = false
	e.state.CurrentTask.IsPaused = false
}

// Elapsed is the display value: live while running, frozen at the pause
// instant while paused, zero when idle.
func (e *Engine) Elapsed() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	task := e.state.CurrentTask
	if task == nil {
		return 0
	}
	at := e.now()
	if e.state.IsPaused && e.state.PauseStartedAt != nil {
		at = *e.state.PauseStartedAt
	}
	return task.DurationAt(at)
}

// Finalize computes the closed record for the active task without clearing
// it, so the caller can persist it first and Clear only on success.
func (e *Engine) Finalize() (model.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.CurrentTask == nil {
		return model.Task{}, false
	}
	now := e.now()
	final := e.state.CurrentTask.Clone()
	if e.state.IsPaused && e.state.PauseStartedAt != nil {
		if d := int64(now.Sub(*e.state.PauseStartedAt) / time.Second); d > 0 {
			final.PausedDuration += d
		}
	}
	end := now.UTC()
	final.EndTime = &end
	final.IsPaused = false
	final.Duration = final.DurationAt(end)
	return final, true
}

func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = model.TimerState{}
}

func (e *Engine) Rename(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	name = strings.TrimSpace(name)
	if e.state.CurrentTask == nil || name == "" {
		return false
	}
	e.state.CurrentTask.Name = name
	return true
}

func (e *Engine) LogFileOperation(op, details string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if phaseOf(e.state) != PhaseRunning {
		return false
	}
	next := e.state.CurrentTask.WithFileOperation(op, details, e.now())
	e.state.CurrentTask = &next
	return true
}

// ObserveTitle logs a foreground window title against the running task.
func (e *Engine) ObserveTitle(title string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if phaseOf(e.state) != PhaseRunning {
		return false
	}
	next, added := model.AppendWindowTitle(*e.state.CurrentTask, title, e.now())
	if added {
		e.state.CurrentTask = &next
	}
	return added
}

func copyState(s model.TimerState) model.TimerState {
	out := s
	if s.CurrentTask != nil {
		task := s.CurrentTask.Clone()
		out.CurrentTask = &task
	}
	if s.PauseStartedAt != nil {
		at := *s.PauseStartedAt
		out.PauseStartedAt = &at
	}
	return out
}
