package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type Layout string

const (
	LayoutHorizontal Layout = "horizontal"
	LayoutVertical   Layout = "vertical"
)

type AppData struct {
	Header     string
	Layout     Layout
	MainPane   string
	SidePane   string
	Overlay    string
	StatusLine string
	StatusErr  bool
	Footer     string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	aheadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	behindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// RenderApp places the main and side panes next to each other in the
// horizontal layout and stacks them in the vertical one.
func RenderApp(data AppData) string {
	var row string
	if data.Layout == LayoutVertical {
		main := panelStyle.Width(76).Render(data.MainPane)
		side := panelStyle.Width(76).Render(data.SidePane)
		row = lipgloss.JoinVertical(lipgloss.Left, main, side)
	} else {
		main := panelStyle.Width(58).Render(data.MainPane)
		side := panelStyle.Width(46).Render(data.SidePane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, main, side)
	}

	status := statusStyle.Render(data.StatusLine)
	if data.StatusErr {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
	}
	if data.Overlay != "" {
		lines = append(lines, panelStyle.Render(data.Overlay))
	}
	lines = append(lines, status)
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
