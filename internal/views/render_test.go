package views

import (
	"strings"
	"testing"
)

func TestRenderAppLayouts(t *testing.T) {
	data := AppData{
		Header:     "tasklog",
		MainPane:   "main-pane",
		SidePane:   "side-pane",
		StatusLine: "status: ok",
		Footer:     "keys",
	}

	data.Layout = LayoutHorizontal
	horizontal := RenderApp(data)
	lines := strings.Split(horizontal, "\n")
	sameLine := false
	for _, line := range lines {
		if strings.Contains(line, "main-pane") && strings.Contains(line, "side-pane") {
			sameLine = true
		}
	}
	if !sameLine {
		t.Fatalf("expected panes side by side:\n%s", horizontal)
	}

	data.Layout = LayoutVertical
	vertical := RenderApp(data)
	if strings.Index(vertical, "main-pane") > strings.Index(vertical, "side-pane") {
		t.Fatalf("expected main pane above side pane:\n%s", vertical)
	}
	for _, line := range strings.Split(vertical, "\n") {
		if strings.Contains(line, "main-pane") && strings.Contains(line, "side-pane") {
			t.Fatalf("vertical layout must stack panes:\n%s", vertical)
		}
	}
}

func TestRenderFormPanelShowsFieldsAndErrors(t *testing.T) {
	out := RenderFormPanel(FormPanelData{
		Title:       "stop task",
		Name:        "Client A",
		Duration:    "00:17:30",
		Focus:       1,
		Err:         "model: invalid duration",
		CanDelete:   true,
		Suggestions: []SuggestionData{{Name: "Client AB", Kind: "client", Selected: true}},
	})
	for _, want := range []string{"stop task:", "> duration (HH:MM:SS)", "00:17:30", "error: model: invalid duration", "[ctrl+d]delete", "> Client AB [client]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in form:\n%s", want, out)
		}
	}
}

func TestRenderShiftPanel(t *testing.T) {
	out := RenderShiftPanel(ShiftPanelData{
		Shift:     "06:00-15:00",
		Logged:    "03:00",
		Delta:     "-1:00",
		TaskCount: 2,
		Segments:  []SegmentData{{Name: "a", Width: 3, Billable: true}, {Name: "b", Width: 0}},
	})
	if !strings.Contains(out, "shift 06:00-15:00") || !strings.Contains(out, "-1:00 behind") || !strings.Contains(out, "tasks: 2") {
		t.Fatalf("unexpected shift panel:\n%s", out)
	}
	if !strings.Contains(out, "███") {
		t.Fatalf("expected segment blocks:\n%s", out)
	}
}

func TestRenderMarkdownFallsBackOnEmpty(t *testing.T) {
	if RenderMarkdown("  ") != "" {
		t.Fatal("expected empty output for blank markdown")
	}
}
