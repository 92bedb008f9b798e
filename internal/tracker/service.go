// Package tracker coordinates the timer engine with persistence and change
// notification. Front ends talk to a Service rather than to the engine.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/tasklog/internal/bus"
	"github.com/sandeepkv93/tasklog/internal/model"
	"github.com/sandeepkv93/tasklog/internal/storage"
	"github.com/sandeepkv93/tasklog/internal/summary"
	"github.com/sandeepkv93/tasklog/internal/timer"
)

var ErrStaleStop = errors.New("tracker: pending stop does not match the active task")

// StateStore persists the timer state between runs.
type StateStore interface {
	Load() (model.TimerState, error)
	Save(model.TimerState) error
}

type Options struct {
	Engine        *timer.Engine
	Logs          storage.LogStore
	State         StateStore
	Bus           *bus.Bus
	Logger        *slog.Logger
	Shift         summary.Shift
	TargetSeconds int64
}

type Service struct {
	engine *timer.Engine
	logs   storage.LogStore
	state  StateStore
	bus    *bus.Bus
	logger *slog.Logger

	mu            sync.RWMutex
	shift         summary.Shift
	targetSeconds int64
	// rollover holds a stale task whose rollover record was not written yet.
	// The state file still carries it, so nothing may overwrite that file
	// until the record is saved.
	rollover *timer.RolloverResult
}

func New(opts Options) (*Service, error) {
	if opts.Logs == nil {
		return nil, errors.New("tracker: log store is required")
	}
	if err := opts.Shift.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		engine:        opts.Engine,
		logs:          opts.Logs,
		state:         opts.State,
		bus:           opts.Bus,
		logger:        opts.Logger,
		shift:         opts.Shift,
		targetSeconds: opts.TargetSeconds,
	}
	if s.engine == nil {
		s.engine = timer.NewEngine()
	}
	if s.bus == nil {
		s.bus = bus.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

func (s *Service) Bus() *bus.Bus {
	return s.bus
}

func (s *Service) Now() time.Time {
	return s.engine.Now()
}

func (s *Service) Today() string {
	return model.DayKey(s.engine.Now())
}

func (s *Service) State() model.TimerState {
	return s.engine.State()
}

func (s *Service) Phase() timer.Phase {
	return s.engine.Phase()
}

func (s *Service) Elapsed() int64 {
	return s.engine.Elapsed()
}

func (s *Service) SetShift(shift summary.Shift, targetSeconds int64) error {
	if err := shift.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shift = shift
	s.targetSeconds = targetSeconds
	return nil
}

// Restore loads the persisted timer state and applies the day rollover
// policy. When a stale running task is finalized it is returned. If that
// record cannot be written the engine stays idle, the state file is left
// untouched and the write is retried by the next Start.
func (s *Service) Restore(ctx context.Context) (*model.Task, error) {
	var loaded model.TimerState
	if s.state != nil {
		st, err := s.state.Load()
		if err != nil {
			s.logger.Warn("timer state unreadable, starting idle", "err", err)
		} else {
			loaded = st
		}
	}

	roll := timer.Rollover(loaded, s.engine.Now())
	if !roll.Reset {
		s.engine.Restore(loaded)
		if loaded.Active() {
			s.logger.Info("timer restored", "task_id", loaded.CurrentTask.ID, "paused", loaded.IsPaused)
			s.publishTimer()
		}
		return nil, nil
	}

	s.engine.Restore(model.TimerState{})
	s.mu.Lock()
	s.rollover = &roll
	s.mu.Unlock()
	if err := s.flushRollover(ctx); err != nil {
		return nil, err
	}
	s.saveState()
	s.publishTimer()
	return roll.Final, nil
}

// RolloverPending reports whether a stale task is still waiting to be
// written to its day's log.
func (s *Service) RolloverPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rollover != nil
}

func (s *Service) flushRollover(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	roll := s.rollover
	if roll == nil {
		return nil
	}
	if roll.Final != nil {
		if err := s.logs.Upsert(ctx, roll.Day, *roll.Final); err != nil {
			s.logger.Error("save rolled over task failed", "task_id", roll.Final.ID, "date", roll.Day, "err", err)
			return fmt.Errorf("tracker: save rolled over task to %s: %w", roll.Day, err)
		}
		s.logger.Info("stale task finalized at day rollover", "task_id", roll.Final.ID, "date", roll.Day)
		s.bus.Publish(bus.TaskUpdated{Date: roll.Day, TaskID: roll.Final.ID, Action: bus.ActionCreated})
	}
	s.rollover = nil
	return nil
}

// Start begins timing name. A rollover record left unwritten by Restore is
// saved first; Start fails while that write keeps failing.
func (s *Service) Start(ctx context.Context, name string) (model.Task, error) {
	if err := s.flushRollover(ctx); err != nil {
		return model.Task{}, err
	}
	task, err := s.engine.Start(name)
	if err != nil {
		return model.Task{}, err
	}
	s.logger.Info("timer started", "task_id", task.ID, "name", task.Name)
	s.changed()
	return task, nil
}

func (s *Service) Pause() bool {
	if !s.engine.Pause() {
		return false
	}
	s.logger.Debug("timer paused")
	s.changed()
	return true
}

func (s *Service) Resume() bool {
	if !s.engine.Resume() {
		return false
	}
	s.logger.Debug("timer resumed")
	s.changed()
	return true
}

func (s *Service) Rename(name string) bool {
	if !s.engine.Rename(name) {
		return false
	}
	s.changed()
	return true
}

// PrepareStop returns the record a stop would write right now, without
// changing any state. Front ends show it in the stop form.
func (s *Service) PrepareStop() (model.Task, bool) {
	return s.engine.Finalize()
}

type StopOptions struct {
	// Pending is the record returned by PrepareStop. When nil the task is
	// finalized at the moment of the call.
	Pending   *model.Task
	Name      string
	Duration  string
	Narration string
}

// Stop writes the finalized task to today's log and clears the timer only
// after the write succeeds. On failure the timer keeps running.
func (s *Service) Stop(ctx context.Context, opts StopOptions) (model.Task, error) {
	final, ok := s.engine.Finalize()
	if !ok {
		return model.Task{}, timer.ErrNoActiveTask
	}
	if opts.Pending != nil {
		if opts.Pending.ID != final.ID {
			return model.Task{}, ErrStaleStop
		}
		// Titles and file operations keep accruing while the stop form is open.
		live := final
		final = opts.Pending.Clone()
		final.WindowTitles = live.WindowTitles
		final.FileOperations = live.FileOperations
	}
	if name := strings.TrimSpace(opts.Name); name != "" {
		final.Name = name
	}
	if raw := strings.TrimSpace(opts.Duration); raw != "" {
		secs, err := model.ParseDuration(raw)
		if err != nil {
			return model.Task{}, err
		}
		final.Duration = secs
	}
	final.Narration = strings.TrimSpace(opts.Narration)

	date := s.Today()
	if err := s.logs.Upsert(ctx, date, final); err != nil {
		s.logger.Error("save stopped task failed", "task_id", final.ID, "date", date, "err", err)
		return model.Task{}, fmt.Errorf("tracker: save task: %w", err)
	}
	s.engine.Clear()
	s.logger.Info("timer stopped", "task_id", final.ID, "date", date, "duration", final.Duration)
	s.bus.Publish(bus.TaskUpdated{Date: date, TaskID: final.ID, Action: bus.ActionCreated})
	s.changed()
	return final, nil
}

// ObserveTitle records a foreground window title against the running task.
func (s *Service) ObserveTitle(title string) bool {
	if !s.engine.ObserveTitle(title) {
		return false
	}
	s.saveState()
	return true
}

func (s *Service) LogFileOperation(op, details string) bool {
	op = strings.TrimSpace(op)
	if op == "" || !s.engine.LogFileOperation(op, strings.TrimSpace(details)) {
		return false
	}
	s.bus.Publish(bus.FileOperation{Operation: op, Details: strings.TrimSpace(details)})
	s.saveState()
	return true
}

func (s *Service) Logs(ctx context.Context, date string) ([]model.Task, error) {
	return s.logs.List(ctx, date)
}

func (s *Service) LogsRange(ctx context.Context, from, to time.Time) ([]model.Task, map[string]error) {
	return storage.ListRange(ctx, s.logs, from, to)
}

type Edit struct {
	Name      string
	Duration  string
	Narration string
}

// EditLogged rewrites a logged task. The end time is moved to start plus the
// new duration.
func (s *Service) EditLogged(ctx context.Context, date, id string, edit Edit) (model.Task, error) {
	name := strings.TrimSpace(edit.Name)
	if name == "" {
		return model.Task{}, fmt.Errorf("%w: name is required", model.ErrInvalidTask)
	}
	secs, err := model.ParseDuration(edit.Duration)
	if err != nil {
		return model.Task{}, err
	}
	tasks, err := s.logs.List(ctx, date)
	if err != nil {
		return model.Task{}, err
	}
	idx := -1
	for i := range tasks {
		if tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Task{}, storage.ErrNotFound
	}
	updated := tasks[idx].Clone()
	updated.Name = name
	updated.Duration = secs
	end := updated.StartTime.Add(time.Duration(secs) * time.Second)
	updated.EndTime = &end
	updated.Narration = strings.TrimSpace(edit.Narration)
	if err := s.logs.Upsert(ctx, date, updated); err != nil {
		return model.Task{}, err
	}
	s.logger.Info("task edited", "task_id", id, "date", date)
	s.bus.Publish(bus.TaskUpdated{Date: date, TaskID: id, Action: bus.ActionUpdated})
	return updated, nil
}

func (s *Service) DeleteLogged(ctx context.Context, date, id string) error {
	if err := s.logs.Delete(ctx, date, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", "task_id", id, "date", date)
	s.bus.Publish(bus.TaskUpdated{Date: date, TaskID: id, Action: bus.ActionDeleted})
	return nil
}

// AddManual logs a retroactive task that ends now and lasted duration.
func (s *Service) AddManual(ctx context.Context, name, duration, narration string) (model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, fmt.Errorf("%w: name is required", model.ErrInvalidTask)
	}
	secs, err := model.ParseDuration(duration)
	if err != nil {
		return model.Task{}, err
	}
	now := s.engine.Now().UTC()
	task := model.NewTask(name, now.Add(-time.Duration(secs)*time.Second))
	task.EndTime = &now
	task.Duration = secs
	task.Narration = strings.TrimSpace(narration)

	date := model.DayKey(now)
	if err := s.logs.Upsert(ctx, date, task); err != nil {
		return model.Task{}, err
	}
	s.logger.Info("manual task added", "task_id", task.ID, "date", date, "duration", secs)
	s.bus.Publish(bus.TaskUpdated{Date: date, TaskID: task.ID, Action: bus.ActionCreated})
	return task, nil
}

// Summary recomputes the shift view for date. Days other than today are
// measured against their full shift. A failed read yields the summary of an
// empty day together with the error.
func (s *Service) Summary(ctx context.Context, date string) (summary.Summary, []model.Task, error) {
	s.mu.RLock()
	shift, target := s.shift, s.targetSeconds
	s.mu.RUnlock()

	tasks, listErr := s.logs.List(ctx, date)
	if listErr != nil {
		tasks = []model.Task{}
	}
	at := s.engine.Now()
	if date != model.DayKey(at) {
		if day, err := model.ParseDay(date); err == nil {
			at = day.Add(24*time.Hour - time.Second)
		}
	}
	sum, err := summary.Compute(tasks, shift, target, at)
	if err != nil {
		return summary.Summary{}, tasks, err
	}
	return sum, tasks, listErr
}

func (s *Service) changed() {
	s.saveState()
	s.publishTimer()
}

func (s *Service) saveState() {
	if s.state == nil {
		return
	}
	if err := s.state.Save(s.engine.State()); err != nil {
		s.logger.Warn("save timer state failed", "err", err)
	}
}

func (s *Service) publishTimer() {
	s.bus.Publish(bus.TimerChanged{State: s.engine.State()})
}
