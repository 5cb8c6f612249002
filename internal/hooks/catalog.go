// Package hooks installs a layered git hook dispatcher into repositories.
//
// Every supported hook gets a dispatcher at .git/hooks/<hook> that runs the
// executable scripts found in .git/hooks/<hook>.d. Scripts shipped with this
// package are listed in the catalog; users may add their own next to them.
package hooks

import (
	"embed"
	"fmt"
	"path"
)

// Hook names a client-side git hook.
type Hook string

const (
	ApplypatchMsg    Hook = "applypatch-msg"
	CommitMsg        Hook = "commit-msg"
	PostApplypatch   Hook = "post-applypatch"
	PostCheckout     Hook = "post-checkout"
	PostCommit       Hook = "post-commit"
	PostMerge        Hook = "post-merge"
	PostRewrite      Hook = "post-rewrite"
	PostUpdate       Hook = "post-update"
	PreApplypatch    Hook = "pre-applypatch"
	PreAutoGC        Hook = "pre-auto-gc"
	PreCommit        Hook = "pre-commit"
	PrePush          Hook = "pre-push"
	PreRebase        Hook = "pre-rebase"
	PrepareCommitMsg Hook = "prepare-commit-msg"
)

// Hooks lists every hook that receives a dispatcher, in install order.
var Hooks = []Hook{
	ApplypatchMsg,
	CommitMsg,
	PostApplypatch,
	PostCheckout,
	PostCommit,
	PostMerge,
	PostRewrite,
	PostUpdate,
	PreApplypatch,
	PreAutoGC,
	PreCommit,
	PrePush,
	PreRebase,
	PrepareCommitMsg,
}

// Script is a file installed into a hook's .d directory.
type Script struct {
	Order   int
	Label   string
	Content string
}

// FileName returns the name the script is installed under, e.g. 10-git-lfs.sh.
func (s Script) FileName() string {
	return fmt.Sprintf("%02d-%s.sh", s.Order, s.Label)
}

// Entry pairs a hook with the scripts shipped for it.
type Entry struct {
	Hook    Hook
	Scripts []Script
}

//go:embed lib
var lib embed.FS

var (
	dispatcher = mustRead("dispatcher.sh")
	catalog    = map[Hook][]Script{
		PostCheckout: {gitLFS(PostCheckout)},
		PostCommit:   {gitLFS(PostCommit)},
		PostMerge:    {gitLFS(PostMerge), {Order: 90, Label: "branch-clean", Content: mustRead("branch-clean.sh")}},
		PrePush:      {gitLFS(PrePush)},
	}
)

func gitLFS(hook Hook) Script {
	return Script{Order: 10, Label: "git-lfs", Content: mustRead(path.Join("git-lfs", string(hook)+".sh"))}
}

func mustRead(name string) string {
	data, err := lib.ReadFile(path.Join("lib", name))
	if err != nil {
		panic(fmt.Sprintf("hooks: missing embedded script %s: %v", name, err))
	}
	return string(data)
}

// Dispatcher returns the script installed as every hook's entry point.
func Dispatcher() string {
	return dispatcher
}

// Scripts returns the catalog scripts for hook, ordered by Order.
func Scripts(hook Hook) []Script {
	scripts := catalog[hook]
	out := make([]Script, len(scripts))
	copy(out, scripts)
	return out
}

// Catalog returns every hook with its scripts, in install order.
func Catalog() []Entry {
	entries := make([]Entry, 0, len(Hooks))
	for _, hook := range Hooks {
		entries = append(entries, Entry{Hook: hook, Scripts: Scripts(hook)})
	}
	return entries
}
