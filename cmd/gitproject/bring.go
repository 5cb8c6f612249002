package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitproject/internal/errors"
	"github.com/NicabarNimble/go-gitproject/internal/github"
	"github.com/NicabarNimble/go-gitproject/internal/progress"
	"github.com/NicabarNimble/go-gitproject/internal/project"
	"github.com/NicabarNimble/go-gitproject/internal/token"
)

type bringOptions struct {
	owner    string
	https    bool
	archived bool
	forks    bool
}

func newBringCmd(a *app) *cobra.Command {
	opts := &bringOptions{}

	cmd := &cobra.Command{
		Use:   "bring [project...]",
		Short: "Clone projects and install hooks",
		Long: `Bring down one or more projects into the project tree and install the
hook framework into each of them. Projects already present are left as they
are, apart from their hooks being refreshed.`,
		Example: `  gitproject bring acme/widget
  gitproject bring git@github.com:acme/widget.git https://gitlab.com/acme/tools
  gitproject bring --owner acme --https`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.owner == "" {
				return fmt.Errorf("requires at least one project or --owner")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBring(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.owner, "owner", "", "Also bring every repository of this GitHub user or organization")
	cmd.Flags().BoolVar(&opts.https, "https", false, "Clone --owner repositories over HTTPS instead of SSH")
	cmd.Flags().BoolVar(&opts.archived, "archived", false, "Include archived --owner repositories")
	cmd.Flags().BoolVar(&opts.forks, "forks", false, "Include forked --owner repositories")

	return cmd
}

func (a *app) runBring(ctx context.Context, opts *bringOptions, args []string) error {
	raws := append([]string(nil), args...)
	if opts.owner != "" {
		listed, err := a.ownerProjects(ctx, opts)
		if err != nil {
			return err
		}
		a.logger.WithField("owner", opts.owner).Infof("found %d repositories", len(listed))
		raws = append(raws, listed...)
	}
	raws = lo.Uniq(raws)
	if len(raws) == 0 {
		return nil
	}

	pipeline := a.pipeline()
	display := a.display(len(raws))

	if len(raws) == 1 {
		tracker := display.Tracker(raws[0])
		if err := display.Start(); err != nil {
			a.logger.WithError(err).Debug("progress display unavailable")
		}
		result := pipeline.Bring(ctx, raws[0], tracker)
		_ = display.Stop()
		if result.Err != nil {
			return result.Err
		}
		a.printSummary([]project.Result{result})
		return nil
	}

	results := pipeline.BringAll(ctx, raws, display)
	a.printSummary(results)
	if failed := len(project.Failures(results)); failed > 0 {
		return &errors.BulkError{Failed: failed, Total: len(results)}
	}
	return nil
}

// ownerProjects lists the identifiers of every repository of opts.owner.
func (a *app) ownerProjects(ctx context.Context, opts *bringOptions) ([]string, error) {
	tok, err := github.ResolveToken(ctx, a.cfg.GitHub.Token, token.NewEnvStorage())
	if err != nil {
		return nil, fmt.Errorf("failed to get GitHub token: %w", err)
	}
	client, err := github.NewClient(ctx, tok, a.cfg.GitHub.APIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	repos, err := client.ListRepositories(ctx, opts.owner, github.ListOptions{
		IncludeArchived: opts.archived,
		IncludeForks:    opts.forks,
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(repos, func(r github.Repository, _ int) string {
		return r.Identifier(opts.https)
	}), nil
}

// display renders bars when stderr is a terminal and log lines otherwise.
func (a *app) display(projects int) progress.Display {
	if f, ok := a.stderr.(*os.File); ok {
		return progress.NewDisplay(f, a.logger, projects)
	}
	return &progress.LogDisplay{Logger: a.logger}
}

func (a *app) printSummary(results []project.Result) {
	printSummary(a.stdout, results)
}

func printSummary(w io.Writer, results []project.Result) {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, r := range results {
		switch {
		case r.Failed():
			fmt.Fprintf(w, "%s %s\n", bad(fmt.Sprintf("%-7s", "failed")), r.Raw)
		case r.Cloned:
			fmt.Fprintf(w, "%s %s %s\n", ok(fmt.Sprintf("%-7s", "cloned")), r.Raw, dim(r.Path))
		default:
			fmt.Fprintf(w, "%s %s %s\n", ok("present"), r.Raw, dim(r.Path))
		}
	}
	if len(results) > 1 {
		failed := len(project.Failures(results))
		fmt.Fprintf(w, "%d projects, %d done, %d failed\n", len(results), len(results)-failed, failed)
	}
}
