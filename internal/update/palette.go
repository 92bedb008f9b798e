package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasklog/internal/commands"
	"github.com/sandeepkv93/tasklog/internal/model"
	"github.com/sandeepkv93/tasklog/internal/timer"
	"github.com/sandeepkv93/tasklog/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		m.commandInput = updateInput(m.commandInput, msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

var errNoTracker = &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "tracker not available"}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	handlers := commands.Handlers{
		Start: func(a commands.StartArgs) (commands.Result, error) {
			if m.tracker == nil {
				return commands.Result{}, errNoTracker
			}
			if m.tracker.Phase() != timer.PhaseIdle {
				return commands.Result{}, timer.ErrAlreadyActive
			}
			next = startCmd(m.tracker, a.Name)
			return commands.Result{Message: "starting"}, nil
		},
		Pause: func() (commands.Result, error) {
			if m.tracker == nil {
				return commands.Result{}, errNoTracker
			}
			next = pauseCmd(m.tracker)
			return commands.Result{Message: "pausing"}, nil
		},
		Resume: func() (commands.Result, error) {
			if m.tracker == nil {
				return commands.Result{}, errNoTracker
			}
			next = resumeCmd(m.tracker)
			return commands.Result{Message: "resuming"}, nil
		},
		Stop: func() (commands.Result, error) {
			var opened Model
			opened, next = m.openStopForm()
			if !opened.Form.Active() {
				return commands.Result{}, timer.ErrNoActiveTask
			}
			m = opened
			return commands.Result{Message: "confirm stop"}, nil
		},
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if m.tracker == nil {
				return commands.Result{}, errNoTracker
			}
			m.Pending++
			next = addManualCmd(m.tracker, a.Name, model.FormatDuration(a.Duration), a.Narration)
			return commands.Result{Message: fmt.Sprintf("adding %s", a.Name)}, nil
		},
		Edit: func(a commands.TargetArgs) (commands.Result, error) {
			task, err := m.taskAtRow(a.Row, a.ID)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			m.CurrentView = ViewLog
			m = m.openEditForm(m.Log.Date, task)
			return commands.Result{Message: fmt.Sprintf("editing %s", task.Name)}, nil
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			if m.tracker == nil {
				return commands.Result{}, errNoTracker
			}
			task, err := m.taskAtRow(a.Row, a.ID)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			m.Pending++
			next = deleteLoggedCmd(m.tracker, m.Log.Date, task.ID)
			return commands.Result{Message: fmt.Sprintf("deleting %s", task.Name)}, nil
		},
		Rename: func(a commands.RenameArgs) (commands.Result, error) {
			if m.tracker == nil {
				return commands.Result{}, errNoTracker
			}
			if m.tracker.Phase() == timer.PhaseIdle {
				return commands.Result{}, timer.ErrNoActiveTask
			}
			next = renameCmd(m.tracker, a.Name)
			return commands.Result{Message: "renaming"}, nil
		},
		FileOp: func(a commands.FileOpArgs) (commands.Result, error) {
			if m.tracker == nil {
				return commands.Result{}, errNoTracker
			}
			next = fileOpCmd(m.tracker, a.Operation, a.Details)
			return commands.Result{Message: "logging file operation"}, nil
		},
		Layout: func(a commands.LayoutArgs) (commands.Result, error) {
			if a.Layout == "" {
				m, next = m.toggleLayout()
			} else {
				m, next = m.setLayout(a.Layout)
			}
			return commands.Result{Message: fmt.Sprintf("layout: %s", m.Settings.Layout)}, nil
		},
		Search: func(a commands.SearchArgs) (commands.Result, error) {
			m.CurrentView = ViewTimer
			m.Timer.Editing = true
			m.taskInput.SetValue(a.Query)
			m.taskInput.CursorEnd()
			m.taskInput.Focus()
			m.Timer.Search = m.search(a.Query)
			return commands.Result{Message: fmt.Sprintf("%d match(es)", len(m.Timer.Search.Matches))}, nil
		},
	}

	res, err := commands.Execute(cmd, handlers)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	return m, next
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}
