package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitproject/internal/hooks"
)

func newHooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage the hook framework",
	}
	cmd.AddCommand(newHooksInstallCmd(a), newHooksListCmd())
	return cmd
}

func newHooksInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install [dir]",
		Short: "Install the hook framework into a working copy",
		Long: `Install the hook dispatchers and the bundled scripts into the working copy
at dir, or the current directory. Running it again restores the bundled
scripts and leaves any other script in the .d directories alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			} else if wd, err := os.Getwd(); err == nil {
				dir = wd
			}
			if err := hooks.NewInstaller(a.logger).Install(dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "hooks installed in %s\n", dir)
			return nil
		},
	}
}

func newHooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the hooks and the scripts installed for them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, entry := range hooks.Catalog() {
				names := lo.Map(entry.Scripts, func(s hooks.Script, _ int) string {
					return s.FileName()
				})
				if len(names) == 0 {
					fmt.Fprintln(out, entry.Hook)
					continue
				}
				fmt.Fprintf(out, "%-20s %s\n", entry.Hook, strings.Join(names, " "))
			}
			return nil
		},
	}
}
