package hooks

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicabarNimble/go-gitproject/internal/errors"
)

func newRepoDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func newTestInstaller() *Installer {
	logger, _ := logtest.NewNullLogger()
	return NewInstaller(logger)
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		tree[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}

func TestInstall(t *testing.T) {
	repo := newRepoDir(t)
	require.NoError(t, newTestInstaller().Install(repo))

	hooksDir := filepath.Join(repo, ".git", "hooks")
	for _, hook := range Hooks {
		path := filepath.Join(hooksDir, string(hook))
		info, err := os.Stat(path)
		require.NoError(t, err, hook)
		assert.Equal(t, os.FileMode(0o700), info.Mode().Perm(), hook)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, Dispatcher(), string(data))

		assert.DirExists(t, path+".d")
	}

	for _, hook := range []Hook{PostCheckout, PostCommit, PostMerge, PrePush} {
		info, err := os.Stat(filepath.Join(hooksDir, string(hook)+".d", "10-git-lfs.sh"))
		require.NoError(t, err, hook)
		assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	}
	assert.FileExists(t, filepath.Join(hooksDir, "post-merge.d", "90-branch-clean.sh"))
	assert.NoFileExists(t, filepath.Join(hooksDir, "pre-commit.d", "10-git-lfs.sh"))
}

func TestInstall_Idempotent(t *testing.T) {
	repo := newRepoDir(t)
	installer := newTestInstaller()
	hooksDir := filepath.Join(repo, ".git", "hooks")

	require.NoError(t, installer.Install(repo))
	first := readTree(t, hooksDir)

	userScript := filepath.Join(hooksDir, "pre-commit.d", "50-user.sh")
	require.NoError(t, os.WriteFile(userScript, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	require.NoError(t, installer.Install(repo))
	second := readTree(t, hooksDir)

	assert.Equal(t, "#!/bin/sh\nexit 0\n", second[filepath.Join("pre-commit.d", "50-user.sh")])
	delete(second, filepath.Join("pre-commit.d", "50-user.sh"))
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(filepath.Join(hooksDir, "post-merge.d"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestInstall_RestoresModifiedDispatcher(t *testing.T) {
	repo := newRepoDir(t)
	installer := newTestInstaller()
	require.NoError(t, installer.Install(repo))

	path := filepath.Join(repo, ".git", "hooks", "pre-push")
	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o644))
	require.NoError(t, os.Chmod(path, 0o644))

	require.NoError(t, installer.Install(repo))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Dispatcher(), string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestInstall_Errors(t *testing.T) {
	t.Run("not a repository", func(t *testing.T) {
		dir := t.TempDir()
		err := newTestInstaller().Install(dir)
		require.Error(t, err)
		assert.True(t, errors.IsInstallError(err))
	})

	t.Run("git file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: elsewhere"), 0o644))
		err := newTestInstaller().Install(dir)
		assert.True(t, errors.IsInstallError(err))
	})

	t.Run("drop-in path is a file", func(t *testing.T) {
		repo := newRepoDir(t)
		hooksDir := filepath.Join(repo, ".git", "hooks")
		require.NoError(t, os.MkdirAll(hooksDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(hooksDir, "commit-msg.d"), nil, 0o644))

		err := newTestInstaller().Install(repo)
		require.Error(t, err)

		var installErr *errors.InstallError
		require.True(t, errors.As(err, &installErr))
		assert.Equal(t, string(CommitMsg), installErr.Hook)
		assert.Equal(t, repo, installErr.Path)
	})
}

func TestDispatcher_Runs(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}

	repo := newRepoDir(t)
	require.NoError(t, newTestInstaller().Install(repo))
	hooksDir := filepath.Join(repo, ".git", "hooks")
	dropIn := filepath.Join(hooksDir, "pre-commit.d")
	out := filepath.Join(t.TempDir(), "out")

	write := func(name, body string, mode os.FileMode) {
		path := filepath.Join(dropIn, name)
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), mode))
		require.NoError(t, os.Chmod(path, mode))
	}
	write("20-second.sh", `echo "second $* $(cat)" >> "`+out+`"`+"\n", 0o755)
	write("10-first.sh", `echo "first $* $(cat)" >> "`+out+`"`+"\n", 0o755)
	write("15-disabled.sh", `echo disabled >> "`+out+`"`+"\n", 0o644)
	require.NoError(t, os.Mkdir(filepath.Join(dropIn, "12-dir"), 0o755))

	cmd := exec.Command(filepath.Join(hooksDir, "pre-commit"), "a", "b")
	cmd.Stdin = strings.NewReader("payload")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run(), stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "first a b payload\nsecond a b payload\n", string(data))
}

func TestDispatcher_StopsOnFailure(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}

	repo := newRepoDir(t)
	require.NoError(t, newTestInstaller().Install(repo))
	hooksDir := filepath.Join(repo, ".git", "hooks")
	dropIn := filepath.Join(hooksDir, "commit-msg.d")
	marker := filepath.Join(t.TempDir(), "ran")

	require.NoError(t, os.WriteFile(filepath.Join(dropIn, "10-fail.sh"), []byte("#!/bin/sh\nexit 3\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dropIn, "20-after.sh"), []byte("#!/bin/sh\ntouch \""+marker+"\"\n"), 0o755))

	cmd := exec.Command(filepath.Join(hooksDir, "commit-msg"), "MSG")
	cmd.Stdin = strings.NewReader("")
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())
	assert.NoFileExists(t, marker)
}
