package git

import (
	"context"
	stderrors "errors"
	"io"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"github.com/NicabarNimble/go-gitproject/internal/errors"
	"github.com/NicabarNimble/go-gitproject/internal/urlutils"
)

// ErrNotRepository is returned by Transport.Open when no repository exists at
// the path.
var ErrNotRepository = stderrors.New("not a git repository")

// CloneOptions contains configuration for repository cloning
type CloneOptions struct {
	Identity urlutils.Identity
	Path     string
	Progress io.Writer // receives the remote's sideband progress
}

// Transport opens and clones repositories.
type Transport interface {
	Open(path string) (*Repository, error)
	Clone(ctx context.Context, opts CloneOptions) (*Repository, error)
}

// For testing purposes
var newSSHAgentAuth = func(user string) (transport.AuthMethod, error) {
	return ssh.NewSSHAgentAuth(user)
}

// GoGitTransport is the go-git backed Transport.
type GoGitTransport struct{}

// NewGoGitTransport creates the production transport.
func NewGoGitTransport() *GoGitTransport {
	return &GoGitTransport{}
}

// Open opens the repository whose working directory is exactly path. Parent
// directories are never searched.
func (t *GoGitTransport) Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: false})
	if err != nil {
		if stderrors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, errors.New("open repository", err).On(path)
	}
	return NewRepository(path, repo), nil
}

// Clone clones the identity's canonical URL into opts.Path.
func (t *GoGitTransport) Clone(ctx context.Context, opts CloneOptions) (*Repository, error) {
	auth, err := AuthMethod(opts.Identity)
	if err != nil {
		return nil, errors.New("setup auth", err)
	}

	repo, err := gogit.PlainCloneContext(ctx, opts.Path, false, &gogit.CloneOptions{
		URL:      opts.Identity.URL(),
		Auth:     auth,
		Progress: opts.Progress,
	})
	if err != nil {
		return nil, errors.New("git clone", err).On(opts.Identity.URL())
	}
	return NewRepository(opts.Path, repo), nil
}

// AuthMethod returns the credentials used to reach the identity's remote:
// the SSH agent for SSH identities and none for HTTPS.
func AuthMethod(id urlutils.Identity) (transport.AuthMethod, error) {
	if id.Protocol != urlutils.ProtocolSSH {
		return nil, nil
	}
	auth, err := newSSHAgentAuth(id.ConnectUser())
	if err != nil {
		return nil, errors.New("ssh agent for "+id.ConnectUser(), err)
	}
	return auth, nil
}
