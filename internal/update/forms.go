package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasklog/internal/clientbase"
	"github.com/sandeepkv93/tasklog/internal/model"
	"github.com/sandeepkv93/tasklog/internal/tracker"
)

func (s SearchState) move(delta int) SearchState {
	if len(s.Matches) == 0 {
		s.Cursor = -1
		return s
	}
	s.Cursor += delta
	if s.Cursor < -1 {
		s.Cursor = len(s.Matches) - 1
	}
	if s.Cursor >= len(s.Matches) {
		s.Cursor = -1
	}
	return s
}

func (s SearchState) selected() (string, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Matches) {
		return "", false
	}
	return s.Matches[s.Cursor].Name, true
}

// search returns clientbase matches for query. An empty query offers the
// presets instead.
func (m Model) search(query string) SearchState {
	if strings.TrimSpace(query) == "" {
		presets := m.clients.Presets(clientbase.DefaultSearchLimit)
		matches := make([]clientbase.Match, 0, len(presets))
		for _, name := range presets {
			kind := clientbase.KindClient
			if model.IsNonBillable(name) {
				kind = clientbase.KindInternal
			}
			matches = append(matches, clientbase.Match{Name: name, Kind: kind})
		}
		return SearchState{Matches: matches, Cursor: -1}
	}
	return SearchState{Matches: m.clients.Search(query, clientbase.DefaultSearchLimit), Cursor: -1}
}

func (m Model) openStopForm() (Model, tea.Cmd) {
	if m.tracker == nil {
		return m, nil
	}
	pending, ok := m.tracker.PrepareStop()
	if !ok {
		m.Status = StatusBar{Text: "no active task", IsError: true}
		return m, nil
	}
	m = m.openForm(FormStop, pending.Name, model.FormatDuration(pending.Duration), pending.Narration)
	m.Form.Pending = &pending
	return m, nil
}

func (m Model) openAddForm() Model {
	return m.openForm(FormAdd, "", "", "")
}

func (m Model) openEditForm(date string, task model.Task) Model {
	m = m.openForm(FormEdit, task.Name, model.FormatDuration(task.Duration), task.Narration)
	m.Form.Date = date
	m.Form.TaskID = task.ID
	return m
}

func (m Model) openForm(kind FormKind, name, duration, narration string) Model {
	m.Form = FormState{Kind: kind, Search: SearchState{Cursor: -1}}
	m.nameInput.SetValue(name)
	m.nameInput.CursorEnd()
	m.durationInput.SetValue(duration)
	m.durationInput.CursorEnd()
	m.narrationArea.SetValue(narration)
	m.focusField(fieldName)
	return m
}

func (m Model) closeForm() Model {
	m.Form = FormState{Search: SearchState{Cursor: -1}}
	m.nameInput.Blur()
	m.durationInput.Blur()
	m.narrationArea.Blur()
	return m
}

func (m *Model) focusField(field int) {
	m.Form.Focus = field
	m.nameInput.Blur()
	m.durationInput.Blur()
	m.narrationArea.Blur()
	switch field {
	case fieldName:
		m.nameInput.Focus()
	case fieldDuration:
		m.durationInput.Focus()
	case fieldNarration:
		m.narrationArea.Focus()
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closeForm()
		m.Status = StatusBar{Text: "cancelled"}
		return m, nil
	case "tab":
		m.focusField((m.Form.Focus + 1) % fieldCount)
		return m, nil
	case "shift+tab":
		m.focusField((m.Form.Focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "ctrl+d":
		if m.Form.Kind == FormEdit && m.tracker != nil {
			m.Pending++
			return m, deleteLoggedCmd(m.tracker, m.Form.Date, m.Form.TaskID)
		}
		return m, nil
	case "up", "down":
		if m.Form.Focus == fieldName {
			delta := 1
			if msg.String() == "up" {
				delta = -1
			}
			m.Form.Search = m.Form.Search.move(delta)
			return m, nil
		}
	case "enter":
		if m.Form.Focus == fieldName {
			if name, ok := m.Form.Search.selected(); ok {
				m.nameInput.SetValue(name)
				m.nameInput.CursorEnd()
				m.Form.Search = SearchState{Cursor: -1}
				return m, nil
			}
		}
		return m.submitForm()
	}

	switch m.Form.Focus {
	case fieldName:
		m.nameInput = updateInput(m.nameInput, msg)
		m.Form.Search = m.search(m.nameInput.Value())
	case fieldDuration:
		m.durationInput = updateInput(m.durationInput, msg)
		m.durationInput.SetValue(model.FormatDurationInput(m.durationInput.Value()))
		m.durationInput.CursorEnd()
	case fieldNarration:
		m.narrationArea = updateArea(m.narrationArea, msg)
	}
	m.Form.Err = ""
	return m, nil
}

// submitForm validates the inputs inline and only then hands them to the
// tracker.
func (m Model) submitForm() (Model, tea.Cmd) {
	name := strings.TrimSpace(m.nameInput.Value())
	duration := strings.TrimSpace(m.durationInput.Value())
	narration := strings.TrimSpace(m.narrationArea.Value())
	if name == "" {
		m.Form.Err = "name is required"
		m.focusField(fieldName)
		return m, nil
	}
	if _, err := model.ParseDuration(duration); err != nil {
		m.Form.Err = err.Error()
		m.focusField(fieldDuration)
		return m, nil
	}
	if m.tracker == nil {
		return m, nil
	}
	m.Form.Err = ""
	m.Pending++
	switch m.Form.Kind {
	case FormStop:
		return m, stopCmd(m.tracker, tracker.StopOptions{
			Pending:   m.Form.Pending,
			Name:      name,
			Duration:  duration,
			Narration: narration,
		})
	case FormEdit:
		return m, editLoggedCmd(m.tracker, m.Form.Date, m.Form.TaskID, tracker.Edit{
			Name:      name,
			Duration:  duration,
			Narration: narration,
		})
	case FormAdd:
		return m, addManualCmd(m.tracker, name, duration, narration)
	}
	m.Pending--
	return m, nil
}

func (m Model) onTaskStopped(msg TaskStoppedMsg) (Model, tea.Cmd) {
	m.Pending = decrement(m.Pending)
	if msg.Err != nil {
		m.Form.Err = msg.Err.Error()
		m.Status = StatusBar{Text: fmt.Sprintf("stop failed: %v", msg.Err), IsError: true}
		return m, nil
	}
	m = m.closeForm()
	m.stopTicks()
	m.taskInput.SetValue("")
	m.Status = StatusBar{Text: fmt.Sprintf("logged %s (%s)", msg.Task.Name, model.FormatDuration(msg.Task.Duration))}
	return m, m.reloadLogsIfShowing(m.today())
}

func (m Model) onLogSaved(msg LogSavedMsg) (Model, tea.Cmd) {
	m.Pending = decrement(m.Pending)
	if msg.Err != nil {
		if m.Form.Active() {
			m.Form.Err = msg.Err.Error()
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s failed: %v", msg.Action, msg.Err), IsError: true}
		return m, nil
	}
	m = m.closeForm()
	switch msg.Action {
	case "add":
		m.Status = StatusBar{Text: fmt.Sprintf("added %s (%s)", msg.Task.Name, model.FormatDuration(msg.Task.Duration))}
	case "edit":
		m.Status = StatusBar{Text: fmt.Sprintf("updated %s", msg.Task.Name)}
	case "delete":
		m.Status = StatusBar{Text: "task deleted"}
	}
	return m, m.reloadLogsIfShowing(msg.Date)
}

func decrement(n int) int {
	if n > 0 {
		return n - 1
	}
	return 0
}

func updateInput(in textinput.Model, msg tea.KeyMsg) textinput.Model {
	switch msg.Type {
	case tea.KeyRunes:
		in.SetValue(in.Value() + string(msg.Runes))
		in.CursorEnd()
		return in
	case tea.KeySpace:
		in.SetValue(in.Value() + " ")
		in.CursorEnd()
		return in
	}
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	_ = cmd
	return in
}

func updateArea(area textarea.Model, msg tea.KeyMsg) textarea.Model {
	switch msg.Type {
	case tea.KeyRunes:
		area.InsertString(string(msg.Runes))
		return area
	case tea.KeySpace:
		area.InsertString(" ")
		return area
	}
	var cmd tea.Cmd
	area, cmd = area.Update(msg)
	_ = cmd
	return area
}
