package update

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasklog/internal/config"
	"github.com/sandeepkv93/tasklog/internal/views"
)

func settingValue(s config.Settings, key string) string {
	switch key {
	case "root_path":
		return s.RootPath
	case "clientbase_path":
		return s.ClientbasePath
	case "work_shift_start":
		return s.WorkShiftStart
	case "work_shift_end":
		return s.WorkShiftEnd
	case "productivity_target_hours":
		return strconv.FormatFloat(s.ProductivityTargetHours, 'f', -1, 64)
	case "track_windows":
		return strconv.FormatBool(s.TrackWindows)
	case "window_tracking_interval":
		return strconv.Itoa(s.WindowTrackingInterval)
	case "layout":
		return s.Layout
	case "storage_backend":
		return s.StorageBackend
	}
	return ""
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keys := config.Keys()
	if m.SettingsUI.Editing {
		switch msg.String() {
		case "esc":
			m.SettingsUI.Editing = false
			m.settingInput.Blur()
			return m, nil
		case "enter":
			m.SettingsUI.Editing = false
			m.settingInput.Blur()
			if m.config == nil {
				m.SettingsUI.Err = "settings file not available"
				return m, nil
			}
			m.Pending++
			return m, setSettingCmd(m.config, keys[m.SettingsUI.Cursor], m.settingInput.Value())
		}
		m.settingInput = updateInput(m.settingInput, msg)
		return m, nil
	}
	switch msg.String() {
	case "j", "down":
		if m.SettingsUI.Cursor < len(keys)-1 {
			m.SettingsUI.Cursor++
		}
	case "k", "up":
		if m.SettingsUI.Cursor > 0 {
			m.SettingsUI.Cursor--
		}
	case "enter", "e":
		m.SettingsUI.Editing = true
		m.SettingsUI.Err = ""
		m.settingInput.SetValue(settingValue(m.Settings, keys[m.SettingsUI.Cursor]))
		m.settingInput.CursorEnd()
		m.settingInput.Focus()
	}
	return m, nil
}

func (m Model) toggleLayout() (Model, tea.Cmd) {
	next := config.LayoutVertical
	if m.Settings.Layout == config.LayoutVertical {
		next = config.LayoutHorizontal
	}
	return m.setLayout(next)
}

func (m Model) setLayout(layout string) (Model, tea.Cmd) {
	m.Settings.Layout = layout
	m.Status = StatusBar{Text: fmt.Sprintf("layout: %s", layout)}
	if m.config == nil {
		return m, nil
	}
	m.Pending++
	return m, updateSettingsCmd(m.config, func(s *config.Settings) { s.Layout = layout })
}

// onSettingsSaved applies the saved settings to the running session.
func (m Model) onSettingsSaved(msg SettingsSavedMsg) (Model, tea.Cmd) {
	m.Pending = decrement(m.Pending)
	if msg.Err != nil {
		m.SettingsUI.Err = msg.Err.Error()
		m.Status = StatusBar{Text: fmt.Sprintf("settings not saved: %v", msg.Err), IsError: true}
		return m, nil
	}
	wasTracking := m.Settings.TrackWindows
	clientsChanged := m.Settings.ClientbasePath != msg.Settings.ClientbasePath
	m.Settings = msg.Settings
	m.SettingsUI.Err = ""
	if m.tracker != nil {
		if shift, err := msg.Settings.Shift(); err == nil {
			_ = m.tracker.SetShift(shift, msg.Settings.TargetSeconds())
		}
	}
	m.Status = StatusBar{Text: "settings saved"}
	var cmds []tea.Cmd
	if clientsChanged {
		cmds = append(cmds, loadClientsCmd(m.Settings.ClientbasePath))
	}
	if !wasTracking && m.Settings.TrackWindows && m.running() && m.titles != nil {
		m.pollGen++
		cmds = append(cmds, titlePollCmd(m.pollGen, m.pollInterval()))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) renderSettingsView() string {
	keys := config.Keys()
	rows := make([]views.SettingRowData, 0, len(keys))
	for i, key := range keys {
		rows = append(rows, views.SettingRowData{
			Key:      key,
			Value:    settingValue(m.Settings, key),
			Selected: i == m.SettingsUI.Cursor,
		})
	}
	path := "(no settings file)"
	if m.config != nil {
		path = m.config.Path()
	}
	return views.RenderSettingsPanel(views.SettingsPanelData{
		Path:    path,
		Rows:    rows,
		Editing: m.SettingsUI.Editing,
		Input:   m.settingInput.View(),
		Err:     m.SettingsUI.Err,
	})
}
