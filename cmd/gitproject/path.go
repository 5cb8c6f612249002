package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitproject/internal/urlutils"
)

func newPathCmd(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "path <project>",
		Short: "Print the local path of a project",
		Example: `  cd "$(gitproject path acme/widget)"
  gitproject path --check git@gitlab.com:acme/tools.git`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := urlutils.Resolve(args[0])
			if err != nil {
				return err
			}
			ws := a.workspace()
			path := ws.Path(id)
			if check && !ws.Exists(id) {
				return fmt.Errorf("project %s is not present at %s", id.Slug(), path)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Fail when the project is not present")
	return cmd
}
