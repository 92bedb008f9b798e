package update

import (
	"fmt"

	"github.com/sandeepkv93/tasklog/internal/model"
	"github.com/sandeepkv93/tasklog/internal/views"
)

const recentItems = 5

func (m Model) renderTimerView() string {
	data := views.TimerPanelData{
		Phase:     "idle",
		Elapsed:   model.FormatDuration(0),
		NameInput: m.taskInput.View(),
		Editing:   m.Timer.Editing,
		Tracking:  m.Settings.TrackWindows,
	}
	if m.Timer.Editing {
		data.Suggestions = suggestionRows(m.Timer.Search)
	}
	if m.tracker == nil {
		return views.RenderTimerPanel(data)
	}
	data.Phase = string(m.tracker.Phase())
	state := m.tracker.State()
	if task := state.CurrentTask; task != nil {
		data.TaskName = task.Name
		data.Elapsed = model.FormatDuration(m.tracker.Elapsed())
		data.StartedAt = formatClock(task.StartTime)
		for _, title := range lastN(task.WindowTitles, recentItems) {
			data.Titles = append(data.Titles, fmt.Sprintf("%s %s", formatClock(title.Timestamp), title.WindowTitle))
		}
		for _, op := range lastN(task.FileOperations, recentItems) {
			line := fmt.Sprintf("%s %s", formatClock(op.Timestamp), op.Operation)
			if op.Details != "" {
				line += ": " + op.Details
			}
			data.FileOps = append(data.FileOps, line)
		}
	}
	return views.RenderTimerPanel(data)
}

func (m Model) renderLogView() string {
	return views.RenderLogPanel(views.LogPanelData{
		Date:      m.Log.Date,
		TableView: m.logTable.View(),
		Narration: m.narrationView.View(),
		Empty:     len(m.Log.Tasks) == 0,
		LoadError: m.Log.LoadError,
	})
}

func (m Model) renderFormOverlay() string {
	if !m.Form.Active() {
		return ""
	}
	title := map[FormKind]string{
		FormStop: "stop task",
		FormEdit: "edit task",
		FormAdd:  "add task",
	}[m.Form.Kind]
	if m.Form.Kind == FormEdit {
		title = fmt.Sprintf("%s (%s)", title, m.Form.Date)
	}
	saving := ""
	if m.Pending > 0 {
		saving = m.savingSpinner.View()
	}
	return views.RenderFormPanel(views.FormPanelData{
		Title:       title,
		Name:        m.nameInput.View(),
		Duration:    m.durationInput.View(),
		Narration:   m.narrationArea.View(),
		Focus:       m.Form.Focus,
		Err:         m.Form.Err,
		Suggestions: suggestionRows(m.Form.Search),
		CanDelete:   m.Form.Kind == FormEdit,
		Saving:      saving,
	})
}

func suggestionRows(s SearchState) []views.SuggestionData {
	out := make([]views.SuggestionData, 0, len(s.Matches))
	for i, match := range s.Matches {
		out = append(out, views.SuggestionData{
			Name:     match.Name,
			Kind:     string(match.Kind),
			Selected: i == s.Cursor,
		})
	}
	return out
}
