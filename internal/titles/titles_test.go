package titles

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestCommandSourcePicksPlatformHelper(t *testing.T) {
	tests := []struct {
		goos    string
		wantCmd string
	}{
		{goos: "linux", wantCmd: "xdotool"},
		{goos: "darwin", wantCmd: "osascript"},
	}
	for _, tt := range tests {
		var gotCmd string
		src := &CommandSource{
			GOOS: tt.goos,
			Run: func(_ context.Context, name string, _ ...string) ([]byte, error) {
				gotCmd = name
				return []byte("  Quarterly Report.xlsx - Excel\n"), nil
			},
		}
		title, err := src.ActiveTitle(context.Background())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.goos, err)
		}
		if gotCmd != tt.wantCmd {
			t.Fatalf("%s: ran %q, want %q", tt.goos, gotCmd, tt.wantCmd)
		}
		if title != "Quarterly Report.xlsx - Excel" {
			t.Fatalf("%s: unexpected title %q", tt.goos, title)
		}
	}
}

func TestCommandSourceUnsupportedPlatform(t *testing.T) {
	src := &CommandSource{GOOS: "plan9"}
	if _, err := src.ActiveTitle(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestFetchDegradesToEmptyTitle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	failing := &CommandSource{
		GOOS: "linux",
		Run: func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("xdotool: not found")
		},
	}
	if got := Fetch(context.Background(), failing, logger); got != "" {
		t.Fatalf("expected empty title on failure, got %q", got)
	}
	if got := Fetch(context.Background(), nil, logger); got != "" {
		t.Fatalf("expected empty title without source, got %q", got)
	}
	if got := Fetch(context.Background(), Static(" Inbox "), nil); got != "Inbox" {
		t.Fatalf("unexpected static title %q", got)
	}
}
