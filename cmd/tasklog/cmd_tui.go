package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasklog/internal/clientbase"
	"github.com/sandeepkv93/tasklog/internal/titles"
	"github.com/sandeepkv93/tasklog/internal/update"
)

// eventBuffer is how many bus events the UI may fall behind by before the
// bus starts dropping them.
const eventBuffer = 64

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	store, err := opts.store()
	if err != nil {
		return err
	}
	logger, closer, err := opts.fileLogger(store.Dir())
	if err != nil {
		return err
	}
	defer closer.Close()

	a, err := openApp(cmd.Context(), store, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	clients, err := clientbase.Load(a.settings.ClientbasePath)
	if err != nil {
		logger.Warn("clientbase not loaded", "path", a.settings.ClientbasePath, "err", err)
	}
	events, err := a.bus.Subscribe(eventBuffer)
	if err != nil {
		return err
	}
	defer events.Close()

	m := update.NewModel(update.Deps{
		Tracker:  a.tracker,
		Config:   store,
		Settings: a.settings,
		Clients:  clients,
		Titles:   titles.NewCommandSource(),
		Events:   events,
		Logger:   logger,
	})
	logger.Info("tui started", "config", store.Path(), "backend", a.settings.StorageBackend)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tasklog failed: %w", err)
	}
	return nil
}
