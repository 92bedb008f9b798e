package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasklog/internal/model"
)

func (m Model) handleLogKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.Log.Cursor < len(m.Log.Tasks)-1 {
			m.Log.Cursor++
		}
	case "k", "up":
		if m.Log.Cursor > 0 {
			m.Log.Cursor--
		}
	case "h":
		return m.shiftLogDate(-1)
	case "l":
		return m.shiftLogDate(1)
	case "e", "enter":
		task, ok := m.selectedLogTask()
		if !ok {
			m.Status = StatusBar{Text: "no task selected", IsError: true}
			return m, nil
		}
		return m.openEditForm(m.Log.Date, task), nil
	case "a":
		return m.openAddForm(), nil
	}
	return m, nil
}

func (m Model) shiftLogDate(days int) (Model, tea.Cmd) {
	day, err := model.ParseDay(m.Log.Date)
	if err != nil {
		day = m.now()
	}
	m.Log.Date = model.DayKey(day.AddDate(0, 0, days).Add(12 * time.Hour))
	m.Log.Tasks = nil
	m.Log.Cursor = 0
	return m, loadLogsCmd(m.tracker, m.Log.Date)
}

func (m Model) selectedLogTask() (model.Task, bool) {
	if m.Log.Cursor < 0 || m.Log.Cursor >= len(m.Log.Tasks) {
		return model.Task{}, false
	}
	return m.Log.Tasks[m.Log.Cursor], true
}

// taskAtRow resolves a palette target: a 1-based row of the shown log or a
// task id.
func (m Model) taskAtRow(row int, id string) (model.Task, error) {
	if id != "" {
		for _, task := range m.Log.Tasks {
			if task.ID == id {
				return task, nil
			}
		}
		return model.Task{}, fmt.Errorf("no task %s in %s", id, m.Log.Date)
	}
	if row < 1 || row > len(m.Log.Tasks) {
		return model.Task{}, fmt.Errorf("row %d out of range (1-%d)", row, len(m.Log.Tasks))
	}
	return m.Log.Tasks[row-1], nil
}

func (m Model) onLogsLoaded(msg LogsLoadedMsg) Model {
	if msg.Date != m.Log.Date {
		return m
	}
	m.Log.Tasks = msg.Tasks
	m.Log.LoadError = ""
	if msg.Err != nil {
		m.Log.LoadError = msg.Err.Error()
		m.logger.Warn("task log unreadable", "date", msg.Date, "err", msg.Err)
	}
	if m.Log.Cursor >= len(m.Log.Tasks) {
		m.Log.Cursor = len(m.Log.Tasks) - 1
	}
	if m.Log.Cursor < 0 {
		m.Log.Cursor = 0
	}
	return m
}

func (m Model) reloadLogsIfShowing(date string) tea.Cmd {
	if date != m.Log.Date {
		return nil
	}
	return loadLogsCmd(m.tracker, date)
}
