package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/tasklog/internal/model"
)

const SQLiteFileName = "tasklog.db"

func SQLitePath(root string) string {
	return filepath.Join(root, SQLiteFileName)
}

// SQLiteStore is the LogStore backed by a single SQLite database. Collection
// order is kept in the position column.
type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteStore{db: sqlx.NewDb(db, "sqlite3")}, nil
}

// OpenSQLite opens path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectTaskColumns = `log_date, id, position, name, start_time, end_time, duration, paused_duration,
	is_paused, file_operations, window_titles, narration`

func (s *SQLiteStore) List(ctx context.Context, date string) ([]model.Task, error) {
	if err := validateDate(date); err != nil {
		return []model.Task{}, err
	}
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows, `SELECT `+selectTaskColumns+`
		FROM task_logs WHERE log_date = ? ORDER BY position ASC`, date)
	if err != nil {
		return []model.Task{}, err
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		task, convErr := row.toTask()
		if convErr != nil {
			return []model.Task{}, fmt.Errorf("%w: %s/%s: %v", ErrCorruptLog, date, row.ID, convErr)
		}
		out = append(out, task)
	}
	return out, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, date string, task model.Task) error {
	if err := validateDate(date); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return err
	}
	row, err := rowFromTask(date, task)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.NamedExecContext(ctx, `
		UPDATE task_logs
		SET name = :name, start_time = :start_time, end_time = :end_time, duration = :duration,
			paused_duration = :paused_duration, is_paused = :is_paused, file_operations = :file_operations,
			window_titles = :window_titles, narration = :narration
		WHERE log_date = :log_date AND id = :id`, row)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := tx.GetContext(ctx, &row.Position,
			`SELECT COALESCE(MAX(position), 0) + 1 FROM task_logs WHERE log_date = ?`, date); err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO task_logs (`+selectTaskColumns+`)
			VALUES (:log_date, :id, :position, :name, :start_time, :end_time, :duration, :paused_duration,
				:is_paused, :file_operations, :window_titles, :narration)`, row); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, date, id string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM task_logs WHERE log_date = ? AND id = ?`, date, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
