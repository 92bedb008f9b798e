package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandeepkv93/tasklog/internal/model"
)

type taskRow struct {
	LogDate        string         `db:"log_date"`
	ID             string         `db:"id"`
	Position       int            `db:"position"`
	Name           string         `db:"name"`
	StartTime      string         `db:"start_time"`
	EndTime        sql.NullString `db:"end_time"`
	Duration       int64          `db:"duration"`
	PausedDuration int64          `db:"paused_duration"`
	IsPaused       bool           `db:"is_paused"`
	FileOperations string         `db:"file_operations"`
	WindowTitles   string         `db:"window_titles"`
	Narration      string         `db:"narration"`
}

func rowFromTask(date string, in model.Task) (taskRow, error) {
	ops := in.FileOperations
	if ops == nil {
		ops = []model.FileOperation{}
	}
	opsJSON, err := json.Marshal(ops)
	if err != nil {
		return taskRow{}, fmt.Errorf("encode file operations: %w", err)
	}
	titles := in.WindowTitles
	if titles == nil {
		titles = []model.WindowTitleLog{}
	}
	titlesJSON, err := json.Marshal(titles)
	if err != nil {
		return taskRow{}, fmt.Errorf("encode window titles: %w", err)
	}
	return taskRow{
		LogDate:        date,
		ID:             in.ID,
		Name:           in.Name,
		StartTime:      mustTime(in.StartTime),
		EndTime:        nullTime(in.EndTime),
		Duration:       in.Duration,
		PausedDuration: in.PausedDuration,
		IsPaused:       in.IsPaused,
		FileOperations: string(opsJSON),
		WindowTitles:   string(titlesJSON),
		Narration:      in.Narration,
	}, nil
}

func (r taskRow) toTask() (model.Task, error) {
	start, err := parseRequiredTime(r.StartTime)
	if err != nil {
		return model.Task{}, err
	}
	end, err := parseNullableTime(r.EndTime)
	if err != nil {
		return model.Task{}, err
	}
	out := model.Task{
		ID:             r.ID,
		Name:           r.Name,
		StartTime:      start,
		EndTime:        end,
		Duration:       r.Duration,
		PausedDuration: r.PausedDuration,
		IsPaused:       r.IsPaused,
		Narration:      r.Narration,
	}
	if err := json.Unmarshal([]byte(r.FileOperations), &out.FileOperations); err != nil {
		return model.Task{}, fmt.Errorf("decode file operations: %w", err)
	}
	if err := json.Unmarshal([]byte(r.WindowTitles), &out.WindowTitles); err != nil {
		return model.Task{}, fmt.Errorf("decode window titles: %w", err)
	}
	return out, nil
}

const sqliteTimeLayout = time.RFC3339Nano

func nullTime(v *time.Time) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.UTC().Format(sqliteTimeLayout), Valid: true}
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}
