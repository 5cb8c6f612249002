package project

import (
	"context"

	"github.com/NicabarNimble/go-gitproject/internal/progress"
	"github.com/NicabarNimble/go-gitproject/internal/tmux"
)

// Session enters a named terminal session rooted at a directory.
type Session interface {
	Enter(ctx context.Context, name, dir string) error
}

// Engage brings the project down without progress output, then enters its
// session with the working copy as the start directory.
func (p *Pipeline) Engage(ctx context.Context, raw string, session Session) (Result, error) {
	result := p.Bring(ctx, raw, progress.Discard)
	if result.Err != nil {
		return result, result.Err
	}
	return result, session.Enter(ctx, tmux.SessionName(result.Identity), result.Path)
}
