package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := NewTask("Client A", now)
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestTaskValidateRejectsBadRecords(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Minute)

	cases := []Task{
		{Name: "no id", StartTime: now},
		{ID: "t1", StartTime: now},
		{ID: "t1", Name: "no start"},
		{ID: "t1", Name: "bad end", StartTime: now, EndTime: &before},
		{ID: "t1", Name: "negative", StartTime: now, Duration: -1},
	}
	for _, tc := range cases {
		if err := tc.Validate(); !errors.Is(err, ErrInvalidTask) {
			t.Fatalf("expected ErrInvalidTask for %+v, got %v", tc, err)
		}
	}
}

func TestDurationAtExcludesPausedTime(t *testing.T) {
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)
	task := Task{ID: "t", Name: "Client A", StartTime: start, EndTime: &end, PausedDuration: 150}
	if got := task.DurationAt(time.Time{}); got != 1050 {
		t.Fatalf("duration = %d, want 1050", got)
	}
	if FormatDuration(1050) != "00:17:30" {
		t.Fatalf("unexpected format: %s", FormatDuration(1050))
	}
}

func TestDurationAtRunningAndClamped(t *testing.T) {
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	task := Task{ID: "t", Name: "x", StartTime: start, PausedDuration: 30}
	if got := task.DurationAt(start.Add(90*time.Second + 900*time.Millisecond)); got != 60 {
		t.Fatalf("running duration = %d, want 60", got)
	}
	task.PausedDuration = 500
	if got := task.DurationAt(start.Add(time.Minute)); got != 0 {
		t.Fatalf("expected clamp to zero, got %d", got)
	}
}

func TestAppendWindowTitleDedup(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	task := NewTask("Client A", now)

	task, added := AppendWindowTitle(task, "Editor", now)
	if !added {
		t.Fatal("expected first title to be added")
	}
	task, added = AppendWindowTitle(task, "Editor", now.Add(5*time.Second))
	if added || len(task.WindowTitles) != 1 {
		t.Fatalf("expected duplicate within window to be dropped, got %d entries", len(task.WindowTitles))
	}
	task, added = AppendWindowTitle(task, "Editor", now.Add(10*time.Second))
	if !added || len(task.WindowTitles) != 2 {
		t.Fatalf("expected title after 10s to be logged, got %d entries", len(task.WindowTitles))
	}
	task, added = AppendWindowTitle(task, "Browser", now.Add(11*time.Second))
	if !added || len(task.WindowTitles) != 3 {
		t.Fatalf("expected focus switch to be logged, got %d entries", len(task.WindowTitles))
	}
	if _, added = AppendWindowTitle(task, "   ", now.Add(12*time.Second)); added {
		t.Fatal("expected blank title to be ignored")
	}
}

func TestAppendWindowTitleDoesNotAliasInput(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	base := NewTask("Client A", now)
	base.WindowTitles = make([]WindowTitleLog, 0, 4)
	a, _ := AppendWindowTitle(base, "A", now)
	b, _ := AppendWindowTitle(base, "B", now)
	if a.WindowTitles[0].WindowTitle != "A" || b.WindowTitles[0].WindowTitle != "B" {
		t.Fatalf("expected independent slices, got %v and %v", a.WindowTitles, b.WindowTitles)
	}
	if len(base.WindowTitles) != 0 {
		t.Fatalf("input task mutated: %v", base.WindowTitles)
	}
}

func TestWithFileOperationAppends(t *testing.T) {
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	task := NewTask("Client A", now)
	next := task.WithFileOperation("save", "/tmp/report.pdf", now)
	if len(task.FileOperations) != 0 {
		t.Fatal("original task mutated")
	}
	if len(next.FileOperations) != 1 || next.FileOperations[0].Details != "/tmp/report.pdf" {
		t.Fatalf("unexpected file operations: %+v", next.FileOperations)
	}
}
