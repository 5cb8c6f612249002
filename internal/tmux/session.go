// Package tmux attaches the user to a tmux session rooted in a project.
package tmux

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/NicabarNimble/go-gitproject/internal/urlutils"
)

// Client enters tmux sessions through a Runner.
type Client struct {
	Binary string
	Runner Runner
	Logger logrus.FieldLogger

	// Nested is true when the caller already runs inside tmux; sessions are
	// then switched to instead of attached.
	Nested bool
}

// NewClient creates a client for the given tmux binary.
func NewClient(binary string, runner Runner, logger logrus.FieldLogger) *Client {
	if binary == "" {
		binary = "tmux"
	}
	return &Client{Binary: binary, Runner: runner, Logger: logger}
}

// SessionName returns the session used for a project: its repository name
// with the characters tmux rejects replaced.
func SessionName(id urlutils.Identity) string {
	return strings.NewReplacer(".", "_", ":", "_").Replace(id.Repository)
}

// Sessions lists the names of running sessions. A failing "tmux ls" means no
// server is running, which is reported as no sessions.
func (c *Client) Sessions(ctx context.Context) []string {
	out, err := c.Runner.Output(ctx, "", c.Binary, "ls")
	if err != nil {
		c.Logger.WithError(err).Debug("no tmux sessions")
		return nil
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, _, _ := strings.Cut(line, ":")
		names = append(names, name)
	}
	return names
}

// HasSession reports whether a session called name is running.
func (c *Client) HasSession(ctx context.Context, name string) bool {
	for _, session := range c.Sessions(ctx) {
		if session == name {
			return true
		}
	}
	return false
}

// Enter attaches to the named session, creating it in dir first when it does
// not exist. It returns once the user detaches or the session ends.
func (c *Client) Enter(ctx context.Context, name, dir string) error {
	log := c.Logger.WithFields(logrus.Fields{"session": name, "path": dir})
	exists := c.HasSession(ctx, name)

	if c.Nested {
		if !exists {
			log.Debug("creating detached tmux session")
			if _, err := c.Runner.Output(ctx, dir, c.Binary, "new", "-d", "-s", name, "-c", dir); err != nil {
				return err
			}
		}
		log.Debug("switching tmux client")
		return c.Runner.Interactive(ctx, dir, c.Binary, "switch-client", "-t", "="+name)
	}

	if exists {
		log.Debug("attaching to existing tmux session")
		return c.Runner.Interactive(ctx, dir, c.Binary, "attach", "-t", "="+name)
	}
	log.Debug("creating tmux session")
	return c.Runner.Interactive(ctx, dir, c.Binary, "new", "-s", name, "-c", dir)
}
