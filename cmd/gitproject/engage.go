package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitproject/internal/tmux"
)

func newEngageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "engage <project>",
		Short: "Bring a project down and open its tmux session",
		Long: `Make sure the project is present with its hooks installed, then attach to
the tmux session named after the repository, creating it with the project
directory as its working directory when needed.`,
		Example: `  gitproject engage acme/widget`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEngage(cmd.Context(), args[0])
		},
	}
}

func (a *app) runEngage(ctx context.Context, raw string) error {
	session := tmux.NewClient(a.cfg.Tmux.Binary, a.tmuxRunner, a.logger)
	if value, ok := a.lookup("TMUX"); ok && value != "" {
		session.Nested = true
	}
	_, err := a.pipeline().Engage(ctx, raw, session)
	return err
}
