package timer

import (
	"testing"
	"time"

	"github.com/sandeepkv93/tasklog/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Set(hms string) {
	parsed, err := time.Parse("15:04:05", hms)
	if err != nil {
		panic(err)
	}
	y, m, d := c.now.Date()
	c.now = time.Date(y, m, d, parsed.Hour(), parsed.Minute(), parsed.Second(), 0, c.now.Location())
}

func newTestEngine(t *testing.T) (*Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 2, 9, 9, 0, 0, 0, model.ReferenceZone)}
	return NewEngine(WithClock(clock.Now)), clock
}

func TestStartPauseResumeStopExample(t *testing.T) {
	engine, clock := newTestEngine(t)

	if _, err := engine.Start("Client A"); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Set("09:10:00")
	if !engine.Pause() {
		t.Fatal("expected pause to change state")
	}
	clock.Set("09:12:30")
	if !engine.Resume() {
		t.Fatal("expected resume to change state")
	}
	clock.Set("09:20:00")

	final, ok := engine.Finalize()
	if !ok {
		t.Fatal("expected finalized task")
	}
	if final.Duration != 1050 {
		t.Fatalf("duration = %d, want 1050", final.Duration)
	}
	if final.PausedDuration != 150 {
		t.Fatalf("paused = %d, want 150", final.PausedDuration)
	}
	if model.FormatDuration(final.Duration) != "00:17:30" {
		t.Fatalf("display = %s", model.FormatDuration(final.Duration))
	}
	if final.EndTime == nil || !final.EndTime.Equal(clock.now) {
		t.Fatalf("unexpected end time: %v", final.EndTime)
	}
	if engine.Phase() != PhaseRunning {
		t.Fatal("finalize must not clear the active task")
	}
	engine.Clear()
	if engine.Phase() != PhaseIdle || engine.State().Active() {
		t.Fatal("expected idle after clear")
	}
}

func TestDoublePauseIsNoop(t *testing.T) {
	engine, clock := newTestEngine(t)
	if _, err := engine.Start("Client A"); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Set("09:05:00")
	engine.Pause()
	clock.Set("09:06:00")
	if engine.Pause() {
		t.Fatal("second pause must be a no-op")
	}
	clock.Set("09:07:00")
	engine.Resume()
	if got := engine.State().CurrentTask.PausedDuration; got != 120 {
		t.Fatalf("paused = %d, want 120 (measured from first pause)", got)
	}
	if engine.Resume() {
		t.Fatal("resume while running must be a no-op")
	}
}

func TestElapsedFrozenWhilePaused(t *testing.T) {
	engine, clock := newTestEngine(t)
	if _, err := engine.Start("Client A"); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Set("09:01:00")
	if got := engine.Elapsed(); got != 60 {
		t.Fatalf("elapsed = %d, want 60", got)
	}
	engine.Pause()
	clock.Set("09:30:00")
	if got := engine.Elapsed(); got != 60 {
		t.Fatalf("paused elapsed = %d, want 60", got)
	}
	engine.Resume()
	clock.Set("09:31:00")
	if got := engine.Elapsed(); got != 120 {
		t.Fatalf("elapsed after resume = %d, want 120", got)
	}
}

func TestFinalizeWhilePausedExcludesOpenPause(t *testing.T) {
	engine, clock := newTestEngine(t)
	if _, err := engine.Start("Client A"); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Set("09:10:00")
	engine.Pause()
	clock.Set("09:15:00")
	final, _ := engine.Finalize()
	if final.Duration != 600 || final.PausedDuration != 300 {
		t.Fatalf("unexpected final: duration=%d paused=%d", final.Duration, final.PausedDuration)
	}
	if final.IsPaused {
		t.Fatal("finalized task must not be paused")
	}
}

func TestStartRejectsSecondTask(t *testing.T) {
	engine, _ := newTestEngine(t)
	if _, err := engine.Start(""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if engine.State().CurrentTask.Name != DefaultTaskName {
		t.Fatalf("expected default name, got %q", engine.State().CurrentTask.Name)
	}
	if _, err := engine.Start("other"); err != ErrAlreadyActive {
		t.Fatalf("expected ErrAlreadyActive, got %v", err)
	}
}

func TestObserveTitleOnlyWhileRunning(t *testing.T) {
	engine, clock := newTestEngine(t)
	if engine.ObserveTitle("Editor") {
		t.Fatal("idle engine must not log titles")
	}
	if _, err := engine.Start("Client A"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !engine.ObserveTitle("Editor") {
		t.Fatal("expected title logged")
	}
	clock.Set("09:00:02")
	if engine.ObserveTitle("Editor") {
		t.Fatal("expected duplicate suppressed")
	}
	engine.Pause()
	if engine.ObserveTitle("Browser") {
		t.Fatal("paused engine must not log titles")
	}
	if engine.LogFileOperation("save", "a.txt") {
		t.Fatal("paused engine must not log file operations")
	}
	engine.Resume()
	if !engine.LogFileOperation("save", "a.txt") {
		t.Fatal("expected file operation logged")
	}
	if got := len(engine.State().CurrentTask.WindowTitles); got != 1 {
		t.Fatalf("window titles = %d, want 1", got)
	}
}

func TestStateIsACopy(t *testing.T) {
	engine, _ := newTestEngine(t)
	if _, err := engine.Start("Client A"); err != nil {
		t.Fatalf("start: %v", err)
	}
	s := engine.State()
	s.CurrentTask.Name = "mutated"
	if engine.State().CurrentTask.Name != "Client A" {
		t.Fatal("State must not expose internal task")
	}
}

func TestRestoreEmptyTaskResetsFlags(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.Restore(model.TimerState{IsRunning: true, IsPaused: true})
	if s := engine.State(); s.IsRunning || s.IsPaused {
		t.Fatalf("expected empty state, got %+v", s)
	}
}
