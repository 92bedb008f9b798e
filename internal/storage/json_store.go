package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sandeepkv93/tasklog/internal/model"
)

const TaskLogDirName = "time-logger-tasks"

// JSONStore keeps each date's collection in <dir>/<date>.json as a JSON array.
// Writes go to a temp file that is renamed over the target.
type JSONStore struct {
	mu  sync.Mutex
	dir string
}

func NewJSONStore(root string) (*JSONStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("storage: empty root path")
	}
	dir := filepath.Join(root, TaskLogDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create task log dir: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) Dir() string {
	return s.dir
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) path(date string) string {
	return filepath.Join(s.dir, date+".json")
}

func (s *JSONStore) List(ctx context.Context, date string) ([]model.Task, error) {
	if err := validateDate(date); err != nil {
		return []model.Task{}, err
	}
	if err := ctx.Err(); err != nil {
		return []model.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, err := s.read(date)
	if err != nil {
		return []model.Task{}, err
	}
	return tasks, nil
}

func (s *JSONStore) Upsert(ctx context.Context, date string, task model.Task) error {
	if err := validateDate(date); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.read(date)
	if err != nil {
		return err
	}
	found := false
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = task
			found = true
			break
		}
	}
	if !found {
		tasks = append(tasks, task)
	}
	return s.write(date, tasks)
}

func (s *JSONStore) Delete(ctx context.Context, date, id string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.read(date)
	if err != nil {
		return err
	}
	kept := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	if len(kept) == len(tasks) {
		return ErrNotFound
	}
	return s.write(date, kept)
}

func (s *JSONStore) read(date string) ([]model.Task, error) {
	raw, err := os.ReadFile(s.path(date))
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("read task log %s: %w", date, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return []model.Task{}, nil
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptLog, date, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *JSONStore) write(date string, tasks []model.Task) error {
	return writeJSONAtomic(s.path(date), tasks)
}

func writeJSONAtomic(path string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
