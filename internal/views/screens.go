package views

import (
	"fmt"
	"strings"
)

type TimerPanelData struct {
	Phase       string
	TaskName    string
	Elapsed     string
	StartedAt   string
	NameInput   string
	Editing     bool
	Suggestions []SuggestionData
	Titles      []string
	FileOps     []string
	Tracking    bool
}

type SuggestionData struct {
	Name     string
	Kind     string
	Selected bool
}

type LogRowData struct {
	Index    int
	Name     string
	Start    string
	Duration string
	Billable bool
	Selected bool
}

type LogPanelData struct {
	Date      string
	TableView string
	Rows      []LogRowData
	Narration string
	Empty     bool
	LoadError string
}

type SegmentData struct {
	Name     string
	Width    int
	Billable bool
}

type ShiftPanelData struct {
	Shift        string
	Logged       string
	LoggedBar    string
	LoggedPct    float64
	ShiftBar     string
	ShiftPct     float64
	Delta        string
	Ahead        bool
	Productivity float64
	Billable     string
	NonBillable  string
	Target       string
	TargetPct    float64
	Segments     []SegmentData
	TaskCount    int
}

type SettingRowData struct {
	Key      string
	Value    string
	Selected bool
}

type SettingsPanelData struct {
	Path    string
	Rows    []SettingRowData
	Editing bool
	Input   string
	Err     string
}

type FormPanelData struct {
	Title       string
	Name        string
	Duration    string
	Narration   string
	Focus       int
	Err         string
	Suggestions []SuggestionData
	CanDelete   bool
	Saving      string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTimerPanel(data TimerPanelData) string {
	var b strings.Builder
	b.WriteString("timer:\n")
	if data.TaskName != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", data.TaskName))
	} else {
		b.WriteString("task: (none)\n")
	}
	b.WriteString(fmt.Sprintf("state: %s\n", strings.ToUpper(data.Phase)))
	b.WriteString(fmt.Sprintf("elapsed: %s\n", data.Elapsed))
	if data.StartedAt != "" {
		b.WriteString(fmt.Sprintf("started: %s\n", data.StartedAt))
	}
	if data.Editing {
		b.WriteString("\n" + data.NameInput + "\n")
		renderSuggestions(&b, data.Suggestions)
	}
	b.WriteString("actions: [n]name [s]start [p]pause/resume [x]stop [a]add\n")
	if !data.Tracking {
		b.WriteString(mutedStyle.Render("window tracking off") + "\n")
	}
	if len(data.Titles) > 0 {
		b.WriteString("\nrecent windows:\n")
		for _, title := range data.Titles {
			b.WriteString("  " + title + "\n")
		}
	}
	if len(data.FileOps) > 0 {
		b.WriteString("\nfile operations:\n")
		for _, op := range data.FileOps {
			b.WriteString("  " + op + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderLogPanel(data LogPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("log: %s\n", data.Date))
	b.WriteString("actions: [j/k]move [h/l]day [e]edit [a]add\n")
	if data.LoadError != "" {
		b.WriteString(errorStyle.Render("read failed: "+data.LoadError) + "\n")
	}
	if data.Empty {
		b.WriteString("(no tasks logged)")
		return strings.TrimSpace(b.String())
	}
	b.WriteString(data.TableView + "\n")
	if data.Narration != "" {
		b.WriteString("\nnarration:\n" + data.Narration + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderShiftPanel(data ShiftPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("shift %s\n", data.Shift))
	b.WriteString(fmt.Sprintf("logged   %s %s %.0f%%\n", data.Logged, data.LoggedBar, data.LoggedPct))
	b.WriteString(fmt.Sprintf("elapsed  %s %.0f%%\n", data.ShiftBar, data.ShiftPct))
	delta := behindStyle.Render(data.Delta + " behind")
	if data.Ahead {
		delta = aheadStyle.Render(data.Delta + " ahead")
	}
	b.WriteString("pace     " + delta + "\n")
	b.WriteString(fmt.Sprintf("billable %s | internal %s\n", data.Billable, data.NonBillable))
	b.WriteString(fmt.Sprintf("productivity %.0f%%\n", data.Productivity))
	if data.Target != "" {
		b.WriteString(fmt.Sprintf("target %s (%.0f%%)\n", data.Target, data.TargetPct))
	}
	b.WriteString(fmt.Sprintf("tasks: %d\n", data.TaskCount))
	if len(data.Segments) > 0 {
		b.WriteString(renderSegments(data.Segments) + "\n")
	}
	return strings.TrimSpace(b.String())
}

// renderSegments draws one block run per task, proportional to its share of
// the shift.
func renderSegments(segments []SegmentData) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Width <= 0 {
			continue
		}
		block := strings.Repeat("█", seg.Width)
		if seg.Billable {
			b.WriteString(aheadStyle.Render(block))
		} else {
			b.WriteString(mutedStyle.Render(block))
		}
	}
	return b.String()
}

func RenderSettingsPanel(data SettingsPanelData) string {
	var b strings.Builder
	b.WriteString("settings:\n")
	b.WriteString(mutedStyle.Render(data.Path) + "\n")
	b.WriteString("actions: [j/k]move [enter]edit [esc]cancel\n")
	for _, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-26s %s\n", cursor, row.Key, row.Value))
	}
	if data.Editing {
		b.WriteString("\n" + data.Input + "\n")
	}
	if data.Err != "" {
		b.WriteString(errorStyle.Render("error: "+data.Err) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderFormPanel(data FormPanelData) string {
	var b strings.Builder
	b.WriteString(data.Title + ":\n")
	fields := []struct {
		label string
		view  string
	}{
		{"name", data.Name},
		{"duration (HH:MM:SS)", data.Duration},
		{"narration", data.Narration},
	}
	for i, field := range fields {
		marker := " "
		if i == data.Focus {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s\n%s\n", marker, field.label, field.view))
		if i == 0 {
			renderSuggestions(&b, data.Suggestions)
		}
	}
	if data.Err != "" {
		b.WriteString(errorStyle.Render("error: "+data.Err) + "\n")
	}
	actions := "keys: [tab]next field [enter]save [esc]cancel"
	if data.CanDelete {
		actions += " [ctrl+d]delete"
	}
	b.WriteString(actions + "\n")
	if data.Saving != "" {
		b.WriteString(data.Saving + " saving\n")
	}
	return strings.TrimSpace(b.String())
}

func renderSuggestions(b *strings.Builder, suggestions []SuggestionData) {
	for _, sg := range suggestions {
		cursor := " "
		if sg.Selected {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("  %s %s [%s]\n", cursor, sg.Name, sg.Kind))
	}
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
