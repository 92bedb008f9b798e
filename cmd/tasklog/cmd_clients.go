package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasklog/internal/clientbase"
	"github.com/sandeepkv93/tasklog/internal/config"
	"github.com/sandeepkv93/tasklog/internal/model"
)

func newClientsCommand(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "clients [query]",
		Short: "Search the clientbase, or list the presets without a query",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.store()
			if err != nil {
				return err
			}
			settings, err := store.Load()
			if errors.Is(err, config.ErrInvalidSettings) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			} else if err != nil {
				return err
			}
			clients, err := clientbase.Load(settings.ClientbasePath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				for _, name := range clients.Presets(limit) {
					fmt.Fprintf(out, "%s\t%s\n", name, kindOf(name))
				}
				return nil
			}
			for _, match := range clients.Search(query, limit) {
				fmt.Fprintf(out, "%s\t%s\n", match.Name, match.Kind)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results (default 5 for a search, 50 for presets)")
	return cmd
}

func kindOf(name string) clientbase.Kind {
	if model.IsNonBillable(name) {
		return clientbase.KindInternal
	}
	return clientbase.KindClient
}
