package hooks

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/NicabarNimble/go-gitproject/internal/errors"
)

const hookMode = 0o700

// Installer writes the dispatcher and catalog scripts into a repository.
type Installer struct {
	Logger logrus.FieldLogger
}

// NewInstaller creates an installer logging to logger.
func NewInstaller(logger logrus.FieldLogger) *Installer {
	return &Installer{Logger: logger}
}

// Install writes every hook into repoPath/.git/hooks. Running it again
// rewrites the same bytes; files in the .d directories that are not part of
// the catalog are left alone.
func (i *Installer) Install(repoPath string) error {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		return &errors.InstallError{Path: repoPath, Err: err}
	}
	if !info.IsDir() {
		return &errors.InstallError{Path: repoPath, Err: fmt.Errorf("%s is not a directory", gitDir)}
	}

	hooksDir := filepath.Join(gitDir, "hooks")
	if err := ensureDir(hooksDir, 0o755); err != nil {
		return &errors.InstallError{Path: repoPath, Err: err}
	}

	for _, hook := range Hooks {
		if err := i.installHook(hooksDir, hook); err != nil {
			return &errors.InstallError{Path: repoPath, Hook: string(hook), Err: err}
		}
	}

	i.Logger.WithField("path", repoPath).Debugf("installed %d hooks", len(Hooks))
	return nil
}

func (i *Installer) installHook(hooksDir string, hook Hook) error {
	dropIn := filepath.Join(hooksDir, string(hook)+".d")
	if err := ensureDir(dropIn, hookMode); err != nil {
		return err
	}

	if err := writeHook(filepath.Join(hooksDir, string(hook)), dispatcher); err != nil {
		return err
	}

	for _, script := range catalog[hook] {
		i.Logger.WithFields(logrus.Fields{"hook": hook, "script": script.FileName()}).Debug("installing script")
		if err := writeHook(filepath.Join(dropIn, script.FileName()), script.Content); err != nil {
			return err
		}
	}
	return nil
}

// ensureDir creates dir with perm when missing.
func ensureDir(dir string, perm os.FileMode) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.Mkdir(dir, perm)
}

// writeHook replaces path with content and makes it executable by the owner
// only.
func writeHook(path, content string) error {
	if err := os.WriteFile(path, []byte(content), hookMode); err != nil {
		return err
	}
	return os.Chmod(path, hookMode)
}
