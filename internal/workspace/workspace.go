// Package workspace maps resolved identities onto local checkout paths.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/NicabarNimble/go-gitproject/internal/urlutils"
)

// DefaultRootSegments is the default project root relative to the home
// directory.
var DefaultRootSegments = []string{"devel", "src"}

// Workspace roots every project checkout under a single directory.
type Workspace struct {
	Root string
}

// New creates a Workspace rooted at root.
func New(root string) Workspace {
	return Workspace{Root: filepath.Clean(root)}
}

// Path returns <root>/<host>/<owner>/<repository>. It never touches the
// filesystem.
func (w Workspace) Path(id urlutils.Identity) string {
	return filepath.Join(w.Root, id.Host, id.Owner, id.Repository)
}

// Exists reports whether the mapped path is an existing directory.
func (w Workspace) Exists(id urlutils.Identity) bool {
	info, err := os.Stat(w.Path(id))
	return err == nil && info.IsDir()
}
