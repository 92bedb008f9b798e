package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasklog/internal/bus"
	"github.com/sandeepkv93/tasklog/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadLogsCmd(m.tracker, m.Log.Date),
		waitForEventCmd(m.events),
	}
	if m.running() {
		cmds = append(cmds, timerTickCmd(m.tickGen))
		if m.Settings.TrackWindows && m.titles != nil {
			cmds = append(cmds, titlePollCmd(m.pollGen, m.pollInterval()))
		}
	}
	return tea.Batch(cmds...)
}

// Update routes the message and starts the saving spinner whenever a store
// write becomes pending.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.Pending
	next, cmd := m.route(msg)
	if before == 0 && next.Pending > 0 {
		cmd = tea.Batch(cmd, next.savingSpinner.Tick)
	}
	return next, cmd
}

func (m Model) route(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.Pending > 0 {
			var cmd tea.Cmd
			m.savingSpinner, cmd = m.savingSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			return m.switchView(typed.View)
		}
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
	case ClearStatusMsg:
		m.Status = StatusBar{}
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.logger.Error("app error", "err", typed.Err)
		}
	case TimerTickMsg:
		return m.onTimerTick(typed)
	case TitlePollMsg:
		return m.onTitlePoll(typed)
	case TitleObservedMsg:
		return m.onTitleObserved(typed)
	case TimerActionMsg:
		return m.onTimerAction(typed)
	case TaskStoppedMsg:
		return m.onTaskStopped(typed)
	case LogsLoadedMsg:
		return m.onLogsLoaded(typed), nil
	case LogSavedMsg:
		return m.onLogSaved(typed)
	case SettingsSavedMsg:
		return m.onSettingsSaved(typed)
	case ClientsLoadedMsg:
		if typed.Err != nil {
			m.Status = StatusBar{Text: fmt.Sprintf("clientbase not loaded: %v", typed.Err), IsError: true}
			return m, nil
		}
		m.clients = typed.Clients
		m.Status = StatusBar{Text: fmt.Sprintf("clientbase: %d clients", typed.Clients.Len())}
	case BusEventMsg:
		return m.onBusEvent(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	switch {
	case m.Palette.Active:
		return m.handlePaletteKey(msg)
	case m.Form.Active():
		return m.handleFormKey(msg)
	case m.CurrentView == ViewTimer && m.Timer.Editing:
		return m.handleTaskNameKey(msg)
	case m.CurrentView == ViewSettings && m.SettingsUI.Editing:
		return m.handleSettingsKey(msg)
	}

	switch keyStr {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Timer:
		return m.switchView(ViewTimer)
	case m.Keys.Log:
		return m.switchView(ViewLog)
	case m.Keys.Shift:
		return m.switchView(ViewShift)
	case m.Keys.Settings:
		return m.switchView(ViewSettings)
	case m.Keys.Layout:
		return m.toggleLayout()
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewTimer:
		return m.handleTimerKey(msg)
	case ViewLog:
		return m.handleLogKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg)
	}
	return m, nil
}

// switchView changes the main pane. The log and shift views always show a
// fresh read of their date.
func (m Model) switchView(v View) (Model, tea.Cmd) {
	m.CurrentView = v
	if v == ViewLog || v == ViewShift {
		return m, loadLogsCmd(m.tracker, m.Log.Date)
	}
	return m, nil
}

func (m Model) onBusEvent(msg BusEventMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch p := msg.Event.Payload.(type) {
	case bus.TaskUpdated:
		cmd = m.reloadLogsIfShowing(p.Date)
	case bus.FileOperation:
		m.logger.Debug("file operation", "operation", p.Operation, "details", p.Details)
	case bus.TimerChanged:
		m.logger.Debug("timer changed", "running", p.State.IsRunning, "paused", p.State.IsPaused)
	}
	return m, tea.Batch(cmd, waitForEventCmd(m.events))
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	m.syncBubbleData()

	status := ""
	if m.Status.Text != "" {
		status = fmt.Sprintf("status: %s", m.Status.Text)
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		}
	}

	main := ""
	side := m.renderShiftView()
	switch m.CurrentView {
	case ViewTimer:
		main = m.renderTimerView()
	case ViewLog:
		main = m.renderLogView()
	case ViewShift:
		main = m.renderShiftView()
		side = m.renderLogView()
	case ViewSettings:
		main = m.renderSettingsView()
	}
	if help := m.renderHelpIfVisible(); help != "" {
		side = help
	}

	overlay := m.renderFormOverlay()
	if overlay == "" {
		overlay = m.renderCommandPalette()
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("tasklog | view: %s | %s", m.CurrentView, m.Log.Date),
		Layout:     views.Layout(m.Settings.Layout),
		MainPane:   main,
		SidePane:   side,
		Overlay:    overlay,
		StatusLine: status,
		StatusErr:  m.Status.IsError,
		Footer: fmt.Sprintf("keys: %s timer | %s log | %s shift | %s settings | %s layout | / cmd | %s help | %s quit",
			m.Keys.Timer, m.Keys.Log, m.Keys.Shift, m.Keys.Settings, m.Keys.Layout, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewTimer, ViewLog, ViewShift, ViewSettings:
		return true
	default:
		return false
	}
}
