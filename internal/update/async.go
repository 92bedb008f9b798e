package update

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasklog/internal/bus"
	"github.com/sandeepkv93/tasklog/internal/clientbase"
	"github.com/sandeepkv93/tasklog/internal/config"
	"github.com/sandeepkv93/tasklog/internal/titles"
	"github.com/sandeepkv93/tasklog/internal/tracker"
)

// storeTimeout bounds every store call issued from the UI.
const storeTimeout = 5 * time.Second

func startCmd(svc *tracker.Service, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		task, err := svc.Start(ctx, name)
		return TimerActionMsg{Action: "start", Task: task, Err: err}
	}
}

func pauseCmd(svc *tracker.Service) tea.Cmd {
	return func() tea.Msg {
		if !svc.Pause() {
			return TimerActionMsg{Action: "noop"}
		}
		return TimerActionMsg{Action: "pause"}
	}
}

func resumeCmd(svc *tracker.Service) tea.Cmd {
	return func() tea.Msg {
		if !svc.Resume() {
			return TimerActionMsg{Action: "noop"}
		}
		return TimerActionMsg{Action: "resume"}
	}
}

func renameCmd(svc *tracker.Service, name string) tea.Cmd {
	return func() tea.Msg {
		if !svc.Rename(name) {
			return TimerActionMsg{Action: "noop"}
		}
		state := svc.State()
		msg := TimerActionMsg{Action: "rename"}
		if state.CurrentTask != nil {
			msg.Task = *state.CurrentTask
		}
		return msg
	}
}

func fileOpCmd(svc *tracker.Service, op, details string) tea.Cmd {
	return func() tea.Msg {
		if !svc.LogFileOperation(op, details) {
			return SetStatusMsg{Text: "file operations are only logged while a task is running", IsError: true}
		}
		return TimerActionMsg{Action: "fileop"}
	}
}

func stopCmd(svc *tracker.Service, opts tracker.StopOptions) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		task, err := svc.Stop(ctx, opts)
		return TaskStoppedMsg{Task: task, Err: err}
	}
}

func loadLogsCmd(svc *tracker.Service, date string) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		tasks, err := svc.Logs(ctx, date)
		return LogsLoadedMsg{Date: date, Tasks: tasks, Err: err}
	}
}

func addManualCmd(svc *tracker.Service, name, duration, narration string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		task, err := svc.AddManual(ctx, name, duration, narration)
		return LogSavedMsg{Action: "add", Date: svc.Today(), Task: task, Err: err}
	}
}

func editLoggedCmd(svc *tracker.Service, date, id string, edit tracker.Edit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		task, err := svc.EditLogged(ctx, date, id, edit)
		return LogSavedMsg{Action: "edit", Date: date, Task: task, Err: err}
	}
}

func deleteLoggedCmd(svc *tracker.Service, date, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		err := svc.DeleteLogged(ctx, date, id)
		return LogSavedMsg{Action: "delete", Date: date, Err: err}
	}
}

func observeTitleCmd(gen int, svc *tracker.Service, src titles.Source, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), titles.DefaultTimeout)
		defer cancel()
		title := titles.Fetch(ctx, src, logger)
		added := svc.ObserveTitle(title)
		if added {
			logger.Debug("window title logged", "title", title)
		}
		return TitleObservedMsg{Gen: gen, Title: title, Added: added}
	}
}

func updateSettingsCmd(store *config.Store, mutate func(*config.Settings)) tea.Cmd {
	return func() tea.Msg {
		settings, err := store.Update(mutate)
		return SettingsSavedMsg{Settings: settings, Err: err}
	}
}

func setSettingCmd(store *config.Store, key, value string) tea.Cmd {
	return func() tea.Msg {
		settings, err := store.Set(key, value)
		return SettingsSavedMsg{Settings: settings, Err: err}
	}
}

func loadClientsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		clients, err := clientbase.Load(path)
		return ClientsLoadedMsg{Clients: clients, Err: err}
	}
}

func waitForEventCmd(sub *bus.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-sub.C()
		if !ok {
			return nil
		}
		return BusEventMsg{Event: ev}
	}
}
