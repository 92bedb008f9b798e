package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/tasklog/internal/config"
)

// testConfig writes a settings file whose task logs live under a temp dir.
func testConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config", config.FileName)
	_, err := config.NewStore(path).Update(func(s *config.Settings) {
		s.RootPath = filepath.Join(dir, "root")
		s.StorageBackend = backend
		s.TrackWindows = false
	})
	require.NoError(t, err)
	return path
}

func run(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTimerLifecycleAcrossInvocations(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)

			out, err := run(t, cfg, "status")
			require.NoError(t, err)
			assert.Equal(t, "idle\n", out)

			out, err = run(t, cfg, "start", "Client", "A")
			require.NoError(t, err)
			assert.Contains(t, out, "started Client A")

			_, err = run(t, cfg, "start", "Other")
			assert.Error(t, err, "a second start must be rejected")

			out, err = run(t, cfg, "pause")
			require.NoError(t, err)
			assert.Contains(t, out, "paused")

			out, err = run(t, cfg, "status")
			require.NoError(t, err)
			assert.Contains(t, out, "paused: Client A")

			_, err = run(t, cfg, "resume")
			require.NoError(t, err)
			_, err = run(t, cfg, "fileop", "save", "report.xlsx")
			require.NoError(t, err)

			out, err = run(t, cfg, "stop", "--duration", "00:30:00", "--narration", "weekly review")
			require.NoError(t, err)
			assert.Contains(t, out, "logged Client A 00:30:00")

			out, err = run(t, cfg, "status")
			require.NoError(t, err)
			assert.Equal(t, "idle\n", out)

			out, err = run(t, cfg, "log", "list")
			require.NoError(t, err)
			assert.Contains(t, out, "Client A")
			assert.Contains(t, out, "00:30:00")
		})
	}
}

func TestPauseWithoutTaskFails(t *testing.T) {
	cfg := testConfig(t, "json")
	_, err := run(t, cfg, "pause")
	assert.Error(t, err)
	_, err = run(t, cfg, "stop")
	assert.Error(t, err)
}

func TestLogAddEditDelete(t *testing.T) {
	cfg := testConfig(t, "json")

	out, err := run(t, cfg, "log", "add", "01:00", "Internal", "-", "Meetings")
	require.NoError(t, err)
	assert.Contains(t, out, "added Internal - Meetings 01:00:00")
	id := strings.TrimSuffix(out[strings.LastIndex(out, "(")+1:], ")\n")

	out, err = run(t, cfg, "log", "edit", id, "--duration", "00:45:00")
	require.NoError(t, err)
	assert.Contains(t, out, "updated Internal - Meetings 00:45:00")

	out, err = run(t, cfg, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "logged       00:45")
	assert.Contains(t, out, "internal 00:45")
	assert.Contains(t, out, "productivity 0%")

	_, err = run(t, cfg, "log", "delete", id)
	require.NoError(t, err)
	_, err = run(t, cfg, "log", "delete", id)
	assert.Error(t, err)

	out, err = run(t, cfg, "log", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no tasks logged")
}

func TestLogAddRejectsBadDuration(t *testing.T) {
	cfg := testConfig(t, "json")
	_, err := run(t, cfg, "log", "add", "1:75", "Client A")
	assert.Error(t, err)
	_, err = run(t, cfg, "log", "list", "--date", "yesterday")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	cfg := testConfig(t, "json")

	out, err := run(t, cfg, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfg+"\n", out)

	_, err = run(t, cfg, "config", "set", "layout", "vertical")
	require.NoError(t, err)
	_, err = run(t, cfg, "config", "set", "layout", "diagonal")
	assert.Error(t, err)

	out, err = run(t, cfg, "config", "show")
	require.NoError(t, err)
	var shown map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "vertical", shown["layout"])
	assert.Equal(t, "06:00", shown["work_shift_start"])
}

func TestInvalidSettingKeepsOtherFields(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "mylogs")
	cfg := filepath.Join(dir, config.FileName)
	raw, err := json.Marshal(map[string]any{
		"root_path":        root,
		"work_shift_start": "08:00",
		"work_shift_end":   "17:00",
		"layout":           "diagonal",
		"track_windows":    false,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg, raw, 0o644))

	_, err = run(t, cfg, "log", "add", "0:10", "Client A")
	require.NoError(t, err)
	logs, err := filepath.Glob(filepath.Join(root, "*", "*.json"))
	require.NoError(t, err)
	assert.Len(t, logs, 1, "task log must stay under the configured root_path")

	_, err = run(t, cfg, "config", "set", "layout", "vertical")
	require.NoError(t, err)
	out, err := run(t, cfg, "config", "show")
	require.NoError(t, err)
	var shown map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, root, shown["root_path"])
	assert.Equal(t, "08:00", shown["work_shift_start"])
	assert.Equal(t, "17:00", shown["work_shift_end"])
	assert.Equal(t, "vertical", shown["layout"])
}

func TestClientsSearchAndPresets(t *testing.T) {
	cfg := testConfig(t, "json")
	csvPath := filepath.Join(t.TempDir(), "clients.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Company\nAcme Corp\nGlobex\n"), 0o644))
	_, err := run(t, cfg, "config", "set", "clientbase_path", csvPath)
	require.NoError(t, err)

	out, err := run(t, cfg, "clients", "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp\tclient\n", out)

	out, err = run(t, cfg, "clients")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Internal - Meetings\tinternal\n"), out)
	assert.Contains(t, out, "Globex\tclient")
}
