package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// Repository wraps a go-git repository
type Repository struct {
	*gogit.Repository
	path string

	// Cloned is true when the repository was created by the current sync.
	Cloned bool
}

// NewRepository wraps repo, which lives at path.
func NewRepository(path string, repo *gogit.Repository) *Repository {
	return &Repository{Repository: repo, path: path}
}

// Path returns the working directory of the repository
func (r *Repository) Path() string {
	return r.path
}

// Branch returns the short name of the checked out branch.
func (r *Repository) Branch() (string, error) {
	if r.Repository == nil {
		return "", fmt.Errorf("repository at %s is not open", r.path)
	}
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Name().Short(), nil
}
