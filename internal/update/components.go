package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/tasklog/internal/model"
	"github.com/sandeepkv93/tasklog/internal/views"
)

func (m *Model) initBubbleComponents() {
	m.taskInput = textinput.New()
	m.taskInput.Prompt = "task> "
	m.taskInput.Placeholder = "client or internal label"
	m.taskInput.CharLimit = 256
	m.taskInput.Width = 42

	m.nameInput = textinput.New()
	m.nameInput.Prompt = "> "
	m.nameInput.CharLimit = 256
	m.nameInput.Width = 42

	m.durationInput = textinput.New()
	m.durationInput.Prompt = "> "
	m.durationInput.Placeholder = "HH:MM:SS"
	m.durationInput.CharLimit = 8
	m.durationInput.Width = 12

	m.narrationArea = textarea.New()
	m.narrationArea.SetWidth(54)
	m.narrationArea.SetHeight(4)
	m.narrationArea.ShowLineNumbers = false
	m.narrationArea.Placeholder = "What was done (markdown)"

	m.settingInput = textinput.New()
	m.settingInput.Prompt = "value> "
	m.settingInput.CharLimit = 512
	m.settingInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Name", Width: 24},
		{Title: "Start", Width: 6},
		{Title: "Duration", Width: 9},
		{Title: "Type", Width: 8},
	}
	m.logTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.loggedBar = progress.New(progress.WithDefaultGradient())
	m.loggedBar.Width = 24
	m.loggedBar.ShowPercentage = false
	m.shiftBar = progress.New(progress.WithDefaultGradient())
	m.shiftBar.Width = 24
	m.shiftBar.ShowPercentage = false

	m.savingSpinner = spinner.New()
	m.savingSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.narrationView = viewport.New(54, 6)
}

// syncBubbleData copies the log state into the table and narration viewport.
// It runs on the copy being rendered.
func (m *Model) syncBubbleData() {
	rows := make([]table.Row, 0, len(m.Log.Tasks))
	for i, task := range m.Log.Tasks {
		rows = append(rows, table.Row{
			itoa(i + 1),
			task.Name,
			formatClock(task.StartTime),
			model.FormatDuration(task.Duration),
			billingLabel(task.Name),
		})
	}
	m.logTable.SetRows(rows)
	if len(rows) > 0 && m.Log.Cursor < len(rows) {
		m.logTable.SetCursor(m.Log.Cursor)
	}

	m.narrationView.SetContent("")
	if task, ok := m.selectedLogTask(); ok && strings.TrimSpace(task.Narration) != "" {
		m.narrationView.SetContent(views.RenderMarkdown(task.Narration))
	}

	if m.Palette.Active {
		m.commandInput.Focus()
	}
}

func billingLabel(name string) string {
	if model.IsNonBillable(name) {
		return "internal"
	}
	return "billable"
}
