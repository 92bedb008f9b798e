package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/tasklog/internal/model"
)

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func finishedTask(t *testing.T, id, name, start string, duration int64) model.Task {
	t.Helper()
	begin := parseRFC3339(t, start)
	end := begin.Add(time.Duration(duration) * time.Second)
	return model.Task{
		ID:             id,
		Name:           name,
		StartTime:      begin,
		EndTime:        &end,
		Duration:       duration,
		FileOperations: []model.FileOperation{},
		WindowTitles: []model.WindowTitleLog{
			{Timestamp: begin, WindowTitle: "Editor"},
		},
	}
}

type storeFactory func(t *testing.T) LogStore

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"json": func(t *testing.T) LogStore {
			store, err := NewJSONStore(t.TempDir())
			if err != nil {
				t.Fatalf("new json store: %v", err)
			}
			return store
		},
		"sqlite": func(t *testing.T) LogStore {
			return setupSQLite(t)
		},
	}
}

func TestLogStoreContract(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name+"/upsert_then_list", func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()
			first := finishedTask(t, "task-1", "Client A", "2026-02-09T01:00:00Z", 600)
			second := finishedTask(t, "task-2", "Internal - Meetings", "2026-02-09T02:00:00Z", 300)

			if err := store.Upsert(ctx, "2026-02-09", first); err != nil {
				t.Fatalf("upsert first: %v", err)
			}
			if err := store.Upsert(ctx, "2026-02-09", second); err != nil {
				t.Fatalf("upsert second: %v", err)
			}
			first.Name = "Client B"
			first.Duration = 900
			first.Narration = "reworked"
			if err := store.Upsert(ctx, "2026-02-09", first); err != nil {
				t.Fatalf("upsert replace: %v", err)
			}

			got, err := store.List(ctx, "2026-02-09")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 tasks, got %d", len(got))
			}
			if got[0].ID != "task-1" || got[1].ID != "task-2" {
				t.Fatalf("expected replace in place, got order %s,%s", got[0].ID, got[1].ID)
			}
			if got[0].Name != "Client B" || got[0].Duration != 900 || got[0].Narration != "reworked" {
				t.Fatalf("expected latest upsert, got %+v", got[0])
			}
			if len(got[0].WindowTitles) != 1 || got[0].WindowTitles[0].WindowTitle != "Editor" {
				t.Fatalf("window titles not preserved: %+v", got[0].WindowTitles)
			}
			if got[0].EndTime == nil || !got[0].EndTime.Equal(*first.EndTime) {
				t.Fatalf("end time not preserved: %v", got[0].EndTime)
			}

			other, err := store.List(ctx, "2026-02-10")
			if err != nil || len(other) != 0 {
				t.Fatalf("expected empty other day, got %v (%v)", other, err)
			}
		})

		t.Run(name+"/delete", func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()
			task := finishedTask(t, "task-1", "Client A", "2026-02-09T01:00:00Z", 600)
			if err := store.Upsert(ctx, "2026-02-09", task); err != nil {
				t.Fatalf("upsert: %v", err)
			}

			if err := store.Delete(ctx, "2026-02-09", "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			got, err := store.List(ctx, "2026-02-09")
			if err != nil || len(got) != 1 {
				t.Fatalf("list after failed delete changed: %v (%v)", got, err)
			}

			if err := store.Delete(ctx, "2026-02-09", "task-1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			got, err = store.List(ctx, "2026-02-09")
			if err != nil || len(got) != 0 {
				t.Fatalf("expected empty list, got %v (%v)", got, err)
			}
			if err := store.Delete(ctx, "2026-02-01", "task-1"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound on empty day, got %v", err)
			}
		})

		t.Run(name+"/rejects_bad_input", func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()
			if _, err := store.List(ctx, "yesterday"); !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("expected ErrInvalidDate, got %v", err)
			}
			if err := store.Upsert(ctx, "2026-02-09", model.Task{ID: "x"}); !errors.Is(err, model.ErrInvalidTask) {
				t.Fatalf("expected ErrInvalidTask, got %v", err)
			}
		})
	}
}

func TestListRange(t *testing.T) {
	store, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	for i, day := range []string{"2026-02-08", "2026-02-09", "2026-02-11"} {
		task := finishedTask(t, day, "Client A", "2026-02-09T01:00:00Z", int64(60*(i+1)))
		if err := store.Upsert(ctx, day, task); err != nil {
			t.Fatalf("upsert %s: %v", day, err)
		}
	}
	from, _ := model.ParseDay("2026-02-09")
	to, _ := model.ParseDay("2026-02-11")
	tasks, failed := ListRange(ctx, store, from, to)
	if len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if len(tasks) != 2 || tasks[0].ID != "2026-02-09" || tasks[1].ID != "2026-02-11" {
		t.Fatalf("unexpected range result: %+v", tasks)
	}
}
