package tmux

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Output(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	runner := NewExecRunner()
	dir := t.TempDir()

	out, err := runner.Output(context.Background(), dir, "sh", "-c", "pwd; printf 'bad \\377 byte\\n'")
	require.NoError(t, err)
	assert.Contains(t, out, dir)
	assert.Contains(t, out, "bad \uFFFD byte")

	_, err = runner.Output(context.Background(), "", "sh", "-c", "echo oops >&2; exit 4")
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "oops", cmdErr.Output)
	assert.Contains(t, cmdErr.Error(), "sh -c")
}

func TestExecRunner_Interactive(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	var stdout bytes.Buffer
	runner := &ExecRunner{Stdout: &stdout, Stderr: &stdout}

	require.NoError(t, runner.Interactive(context.Background(), "", "sh", "-c", "echo attached"))
	assert.Equal(t, "attached\n", stdout.String())

	err := runner.Interactive(context.Background(), "", "sh", "-c", "exit 1")
	var exitErr *exec.ExitError
	assert.ErrorAs(t, err, &exitErr)
}
