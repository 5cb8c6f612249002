package hooks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks(t *testing.T) {
	assert.Len(t, Hooks, 14)
	assert.Contains(t, Hooks, PostUpdate)

	seen := map[Hook]bool{}
	for _, hook := range Hooks {
		assert.False(t, seen[hook], "duplicate hook %s", hook)
		seen[hook] = true
	}
}

func TestCatalog(t *testing.T) {
	entries := Catalog()
	require.Len(t, entries, len(Hooks))

	files := map[Hook][]string{}
	for i, entry := range entries {
		assert.Equal(t, Hooks[i], entry.Hook)
		for _, script := range entry.Scripts {
			files[entry.Hook] = append(files[entry.Hook], script.FileName())
		}
	}

	assert.Equal(t, map[Hook][]string{
		PostCheckout: {"10-git-lfs.sh"},
		PostCommit:   {"10-git-lfs.sh"},
		PostMerge:    {"10-git-lfs.sh", "90-branch-clean.sh"},
		PrePush:      {"10-git-lfs.sh"},
	}, files)
}

func TestScripts_Content(t *testing.T) {
	for _, hook := range []Hook{PostCheckout, PostCommit, PostMerge, PrePush} {
		lfs := Scripts(hook)[0]
		assert.True(t, strings.HasPrefix(lfs.Content, "#!/bin/sh"), hook)
		assert.Contains(t, lfs.Content, "git lfs "+string(hook)+` "$@"`)
		assert.Contains(t, lfs.Content, "filter=lfs")
	}

	clean := Scripts(PostMerge)[1]
	assert.Equal(t, "branch-clean", clean.Label)
	assert.Contains(t, clean.Content, "git branch -d")
}

func TestScripts_ReturnsCopy(t *testing.T) {
	scripts := Scripts(PostMerge)
	scripts[0].Label = "changed"

	assert.Equal(t, "git-lfs", Scripts(PostMerge)[0].Label)
	assert.Empty(t, Scripts(PreCommit))
}

func TestDispatcher(t *testing.T) {
	content := Dispatcher()
	assert.True(t, strings.HasPrefix(content, "#!/usr/bin/env bash"))
	assert.Contains(t, content, "LC_ALL=C")
	assert.Contains(t, content, `"${0}.d"`)
}

func TestScript_FileName(t *testing.T) {
	assert.Equal(t, "05-lint.sh", Script{Order: 5, Label: "lint"}.FileName())
	assert.Equal(t, "90-branch-clean.sh", Script{Order: 90, Label: "branch-clean"}.FileName())
}
