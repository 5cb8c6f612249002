package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/NicabarNimble/go-gitproject/internal/errors"
	"github.com/NicabarNimble/go-gitproject/internal/progress"
	"github.com/NicabarNimble/go-gitproject/internal/urlutils"
	"github.com/NicabarNimble/go-gitproject/internal/workspace"
)

// Engine makes sure a local working copy exists for a project.
type Engine struct {
	Workspace workspace.Workspace
	Transport Transport
	Logger    logrus.FieldLogger

	// dirs serialises creating and pruning clone directories, which
	// concurrent syncs may share as parents.
	dirs sync.Mutex
}

// NewEngine creates an engine cloning into ws through transport.
func NewEngine(ws workspace.Workspace, transport Transport, logger logrus.FieldLogger) *Engine {
	return &Engine{Workspace: ws, Transport: transport, Logger: logger}
}

// Sync opens the repository mapped to id, cloning it first when the path is
// free. Opening an existing repository makes no tracker calls.
func (e *Engine) Sync(ctx context.Context, id urlutils.Identity, tracker progress.Tracker) (*Repository, error) {
	if tracker == nil {
		tracker = progress.Discard
	}
	path := e.Workspace.Path(id)
	log := e.Logger.WithFields(logrus.Fields{"project": id.Slug(), "path": path})

	repo, openErr := e.Transport.Open(path)
	if openErr == nil {
		log.Debug("opened existing repository")
		return repo, nil
	}

	if err := checkFree(path, openErr); err != nil {
		return nil, errors.NewIoError(id.String(), path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewTransferError(id.String(), path, err)
	}

	created, err := e.prepare(path)
	if err != nil {
		return nil, errors.NewIoError(id.String(), path, err)
	}

	log.Debugf("cloning %s", id.URL())
	tracker.Start(fmt.Sprintf("cloning %s", id.Slug()))

	parser := progress.NewSidebandParser(func(t progress.Transfer) {
		tracker.Update(progress.Percent(t), 100)
	})
	repo, err = e.Transport.Clone(ctx, CloneOptions{Identity: id, Path: path, Progress: parser})
	if err != nil {
		e.cleanup(created, path)
		syncErr := errors.NewTransferError(id.String(), path, err)
		tracker.Error(syncErr)
		log.WithError(err).Debug("clone failed")
		return nil, syncErr
	}

	tracker.Update(progress.Percent(parser.Snapshot().Done()), 100)
	tracker.Complete()
	repo.Cloned = true
	log.Debug("clone finished")
	return repo, nil
}

// checkFree reports why path cannot receive a clone. A missing path or an
// empty directory is free.
func checkFree(path string, openErr error) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists and is not a directory")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	if stderrors.Is(openErr, ErrNotRepository) {
		return fmt.Errorf("directory is not empty and is not a git repository")
	}
	return openErr
}

// firstMissing returns the outermost directory on the way to path that does
// not exist yet, or "" when path itself exists.
func firstMissing(path string) (string, error) {
	missing := ""
	for dir := filepath.Clean(path); ; dir = filepath.Dir(dir) {
		_, err := os.Lstat(dir)
		if err == nil {
			return missing, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		missing = dir
		if filepath.Dir(dir) == dir {
			return missing, nil
		}
	}
}

// prepare creates path and returns the outermost directory it had to create.
func (e *Engine) prepare(path string) (string, error) {
	e.dirs.Lock()
	defer e.dirs.Unlock()

	created, err := firstMissing(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		e.prune(created, path)
		return "", err
	}
	return created, nil
}

// cleanup removes what a failed clone left behind: path and the parents
// created for it, or the contents of a directory that existed empty. Parents
// still holding another project are kept.
func (e *Engine) cleanup(created, path string) {
	e.dirs.Lock()
	defer e.dirs.Unlock()

	if created != "" {
		e.prune(created, path)
		return
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return
	}
	for _, entry := range entries {
		_ = os.RemoveAll(filepath.Join(path, entry.Name()))
	}
}

// prune removes path, then each parent up to created while they are empty.
func (e *Engine) prune(created, path string) {
	_ = os.RemoveAll(path)
	if path == created {
		return
	}
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil || dir == created {
			return
		}
	}
}
