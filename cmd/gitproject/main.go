// Command gitproject clones projects into a predictable directory tree,
// installs a hook framework into them and opens a tmux session per project.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/NicabarNimble/go-gitproject/internal/config"
	"github.com/NicabarNimble/go-gitproject/internal/git"
	"github.com/NicabarNimble/go-gitproject/internal/hooks"
	"github.com/NicabarNimble/go-gitproject/internal/logging"
	"github.com/NicabarNimble/go-gitproject/internal/project"
	"github.com/NicabarNimble/go-gitproject/internal/tmux"
	"github.com/NicabarNimble/go-gitproject/internal/workspace"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type globalOptions struct {
	debug      bool
	verbose    bool
	syslog     bool
	json       bool
	logFile    string
	configPath string
	root       string
}

// app carries what every subcommand needs once the root command has loaded
// the configuration.
type app struct {
	opts   globalOptions
	cfg    *config.Config
	logger *logrus.Logger
	closer io.Closer

	stdout io.Writer
	stderr io.Writer
	lookup func(string) (string, bool)
	home   func() (string, error)

	// replaced in tests
	transport  git.Transport
	tmuxRunner tmux.Runner
}

func newApp() *app {
	return &app{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		lookup:     os.LookupEnv,
		home:       os.UserHomeDir,
		transport:  git.NewGoGitTransport(),
		tmuxRunner: tmux.NewExecRunner(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitproject",
		Short: "Bring down projects and work on them",
		Long: `A CLI tool for keeping every project in one predictable tree.
Projects are cloned to <root>/<host>/<owner>/<repository>, get a hook
framework installed and can be opened in their own tmux session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&a.opts.debug, "debug", "d", false, "Log debug messages")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Log with timestamps and fields")
	flags.BoolVar(&a.opts.syslog, "syslog", false, "Also send log messages to syslog")
	flags.BoolVarP(&a.opts.json, "json", "j", false, "Log as JSON")
	flags.StringVar(&a.opts.logFile, "log-file", "", "Also write log messages to a rotated file")
	flags.StringVar(&a.opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/gitproject/config.yaml)")
	flags.StringVar(&a.opts.root, "root", "", "Root of the project tree")
	cmd.MarkFlagsMutuallyExclusive("verbose", "json")

	cmd.AddCommand(
		newBringCmd(a),
		newEngageCmd(a),
		newPathCmd(a),
		newHooksCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup resolves the configuration with flags taking precedence over the
// environment, the environment over the file and the file over defaults.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.opts.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(a.lookup); err != nil {
		return err
	}
	a.applyFlags(cmd.Flags(), cfg)

	home, err := a.home()
	if err != nil {
		return fmt.Errorf("failed to locate home directory: %w", err)
	}
	cfg.ExpandPaths(home)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Debug:  a.opts.debug,
		Format: cfg.Logging.Format,
		Syslog: cfg.Logging.Syslog,
		File:   cfg.Logging.File,
		Output: a.stderr,
	})
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.closer = cfg, logger, closer
	logger.WithField("path", path).Debug("configuration loaded")
	return nil
}

func (a *app) applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("root") {
		cfg.Root = a.opts.root
	}
	if a.opts.debug {
		cfg.Logging.Level = "debug"
	}
	if a.opts.verbose {
		cfg.Logging.Format = config.FormatVerbose
	}
	if a.opts.json {
		cfg.Logging.Format = config.FormatJSON
	}
	if a.opts.syslog {
		cfg.Logging.Syslog = true
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = a.opts.logFile
	}
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *app) workspace() workspace.Workspace {
	return workspace.New(a.cfg.Root)
}

func (a *app) pipeline() *project.Pipeline {
	engine := git.NewEngine(a.workspace(), a.transport, a.logger)
	return project.NewPipeline(engine, hooks.NewInstaller(a.logger), a.cfg.Workers, a.logger)
}

// reportError prints err through the logger when one was configured.
func (a *app) reportError(err error) {
	if a.logger != nil {
		a.logger.Error(err)
		return
	}
	fmt.Fprintf(a.stderr, "error: %v\n", err)
}

func run(ctx context.Context, a *app, args []string) int {
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		a.reportError(err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, newApp(), os.Args[1:])
	stop()
	os.Exit(code)
}
