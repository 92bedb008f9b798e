package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sandeepkv93/tasklog/internal/model"
)

var (
	ErrNotFound    = errors.New("storage: not found")
	ErrCorruptLog  = errors.New("storage: corrupt task log")
	ErrInvalidDate = errors.New("storage: invalid log date")
)

// LogStore keeps one ordered collection of tasks per calendar date.
type LogStore interface {
	// List never returns a partial collection: on failure it returns an empty
	// slice together with the error.
	List(ctx context.Context, date string) ([]model.Task, error)
	// Upsert replaces the task with the same id in place, or appends it.
	Upsert(ctx context.Context, date string, task model.Task) error
	// Delete returns ErrNotFound when no task with id exists for date.
	Delete(ctx context.Context, date, id string) error
	Close() error
}

type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendJSON, BackendSQLite:
		return true
	default:
		return false
	}
}

// Open returns the log store for backend rooted at dir.
func Open(backend Backend, dir string) (LogStore, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(dir)
	case BackendSQLite:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create %s: %w", dir, err)
		}
		return OpenSQLite(SQLitePath(dir))
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}

func validateDate(date string) error {
	if _, err := model.ParseDay(date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// ListRange concatenates the collections for every date from..to inclusive.
// Dates whose collection cannot be read are skipped and reported in the
// returned error map.
func ListRange(ctx context.Context, store LogStore, from, to time.Time) ([]model.Task, map[string]error) {
	out := make([]model.Task, 0)
	var failed map[string]error
	day := from.In(model.ReferenceZone)
	last := model.DayKey(to)
	for {
		key := model.DayKey(day)
		tasks, err := store.List(ctx, key)
		if err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[key] = err
		} else {
			out = append(out, tasks...)
		}
		if key >= last {
			break
		}
		day = day.AddDate(0, 0, 1)
	}
	return out, failed
}
