// Package titles reads the title of the focused desktop window.
package titles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

var ErrUnsupported = errors.New("titles: active window lookup not supported on this platform")

const DefaultTimeout = time.Second

type Source interface {
	ActiveTitle(ctx context.Context) (string, error)
}

// Runner executes name with args and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

const darwinScript = `tell application "System Events" to get name of first window of (first application process whose frontmost is true)`

// CommandSource shells out to a platform helper: xdotool on linux,
// osascript on darwin.
type CommandSource struct {
	GOOS    string
	Timeout time.Duration
	Run     Runner
}

func NewCommandSource() *CommandSource {
	return &CommandSource{GOOS: runtime.GOOS, Timeout: DefaultTimeout, Run: execRunner}
}

func (s *CommandSource) command() (string, []string, error) {
	switch s.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdotool", []string{"getactivewindow", "getwindowname"}, nil
	case "darwin":
		return "osascript", []string{"-e", darwinScript}, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupported, s.GOOS)
	}
}

func (s *CommandSource) ActiveTitle(ctx context.Context) (string, error) {
	name, args, err := s.command()
	if err != nil {
		return "", err
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	run := s.Run
	if run == nil {
		run = execRunner
	}
	out, err := run(ctx, name, args...)
	if err != nil {
		return "", fmt.Errorf("titles: %s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Static always reports the same title.
type Static string

func (s Static) ActiveTitle(context.Context) (string, error) {
	return string(s), nil
}

// Fetch asks src for the focused title. Failures are logged at debug level
// and reported as an empty title.
func Fetch(ctx context.Context, src Source, logger *slog.Logger) string {
	if src == nil {
		return ""
	}
	title, err := src.ActiveTitle(ctx)
	if err != nil {
		if logger != nil {
			logger.Debug("active window title unavailable", "err", err)
		}
		return ""
	}
	return strings.TrimSpace(title)
}
