package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasklog/internal/timer"
)

func (m Model) handleTimerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Timer.Editing {
		return m.handleTaskNameKey(msg)
	}
	switch msg.String() {
	case "n":
		m.Timer.Editing = true
		m.taskInput.Focus()
		m.Timer.Search = m.search(m.taskInput.Value())
		return m, nil
	case "s":
		return m, m.startTask(m.taskInput.Value())
	case "p", " ":
		return m, m.togglePause()
	case "x":
		return m.openStopForm()
	case "a":
		return m.openAddForm(), nil
	}
	return m, nil
}

// handleTaskNameKey edits the task name with search-as-you-type. Enter starts
// a task when idle and renames the active one otherwise.
func (m Model) handleTaskNameKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Timer.Editing = false
		m.Timer.Search = SearchState{Cursor: -1}
		m.taskInput.Blur()
		return m, nil
	case "up":
		m.Timer.Search = m.Timer.Search.move(-1)
		return m, nil
	case "down":
		m.Timer.Search = m.Timer.Search.move(1)
		return m, nil
	case "enter":
		if name, ok := m.Timer.Search.selected(); ok {
			m.taskInput.SetValue(name)
			m.taskInput.CursorEnd()
		}
		m.Timer.Editing = false
		m.Timer.Search = SearchState{Cursor: -1}
		m.taskInput.Blur()
		name := m.taskInput.Value()
		if m.tracker != nil && m.tracker.Phase() != timer.PhaseIdle {
			return m, renameCmd(m.tracker, name)
		}
		return m, m.startTask(name)
	}
	m.taskInput = updateInput(m.taskInput, msg)
	m.Timer.Search = m.search(m.taskInput.Value())
	return m, nil
}

func (m Model) startTask(name string) tea.Cmd {
	if m.tracker == nil {
		return nil
	}
	if m.tracker.Phase() != timer.PhaseIdle {
		return func() tea.Msg { return SetStatusMsg{Text: "a task is already active", IsError: true} }
	}
	return startCmd(m.tracker, name)
}

func (m Model) togglePause() tea.Cmd {
	if m.tracker == nil {
		return nil
	}
	switch m.tracker.Phase() {
	case timer.PhaseRunning:
		return pauseCmd(m.tracker)
	case timer.PhasePaused:
		return resumeCmd(m.tracker)
	default:
		return func() tea.Msg { return SetStatusMsg{Text: "no active task", IsError: true} }
	}
}

func (m Model) onTimerAction(msg TimerActionMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.Status = StatusBar{Text: msg.Err.Error(), IsError: true}
		return m, nil
	}
	switch msg.Action {
	case "start":
		m.Status = StatusBar{Text: fmt.Sprintf("started: %s", msg.Task.Name)}
		m.taskInput.SetValue(msg.Task.Name)
		return m, m.startTicks()
	case "resume":
		m.Status = StatusBar{Text: "resumed"}
		return m, m.startTicks()
	case "pause":
		m.Status = StatusBar{Text: "paused"}
		m.stopTicks()
	case "rename":
		m.Status = StatusBar{Text: fmt.Sprintf("renamed to %s", msg.Task.Name)}
	case "fileop":
		m.Status = StatusBar{Text: "file operation logged"}
	case "noop":
		m.Status = StatusBar{Text: "nothing to do"}
	}
	return m, nil
}

// startTicks invalidates any running tick and poll chains and starts new ones.
func (m *Model) startTicks() tea.Cmd {
	m.tickGen++
	m.pollGen++
	cmds := []tea.Cmd{timerTickCmd(m.tickGen)}
	if m.Settings.TrackWindows && m.titles != nil {
		cmds = append(cmds, titlePollCmd(m.pollGen, m.pollInterval()))
	}
	return tea.Batch(cmds...)
}

func (m *Model) stopTicks() {
	m.tickGen++
	m.pollGen++
}

func (m Model) running() bool {
	return m.tracker != nil && m.tracker.Phase() == timer.PhaseRunning
}

func (m Model) onTimerTick(msg TimerTickMsg) (Model, tea.Cmd) {
	if msg.Gen != m.tickGen || !m.running() {
		return m, nil
	}
	return m, timerTickCmd(m.tickGen)
}

func (m Model) onTitlePoll(msg TitlePollMsg) (Model, tea.Cmd) {
	if msg.Gen != m.pollGen || !m.running() || !m.Settings.TrackWindows {
		return m, nil
	}
	return m, observeTitleCmd(msg.Gen, m.tracker, m.titles, m.logger)
}

func (m Model) onTitleObserved(msg TitleObservedMsg) (Model, tea.Cmd) {
	if msg.Gen != m.pollGen || !m.running() || !m.Settings.TrackWindows {
		return m, nil
	}
	return m, titlePollCmd(m.pollGen, m.pollInterval())
}

func (m Model) pollInterval() time.Duration {
	secs := m.Settings.WindowTrackingInterval
	if secs < 1 {
		secs = 2
	}
	return time.Duration(secs) * time.Second
}

func timerTickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return TimerTickMsg{Gen: gen} })
}

func titlePollCmd(gen int, every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg { return TitlePollMsg{Gen: gen} })
}
