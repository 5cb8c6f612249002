// Package git synchronizes a local working copy with a remote project.
//
// The package wraps go-git behind a small Transport interface so that the
// synchronization rules can be exercised without a network.
//
// Key Components:
//
// Engine: Maps an identity to its workspace path and makes sure a repository
// exists there. An existing repository is opened without touching the
// network; otherwise the project is cloned and progress is reported to a
// progress.Tracker.
//
// Transport: Opens and clones repositories. GoGitTransport is the production
// implementation; SSH identities authenticate through the local SSH agent and
// HTTPS identities clone anonymously.
//
// Repository: A go-git repository together with the directory it lives in.
//
// Example Usage:
//
//	engine := git.NewEngine(workspace.New(root), git.NewGoGitTransport(), logger)
//	repo, err := engine.Sync(ctx, id, tracker)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(repo.Path())
//
// Error Handling:
//
// Sync returns *errors.SyncError. Kind TransferFailed means the clone itself
// failed and nothing was left behind; Kind Io means the target path could not
// be used, for example because a file or an unrelated directory occupies it.
//
// Thread Safety:
//
// An Engine may be shared between goroutines as long as they sync different
// identities. Syncing the same identity concurrently is not supported.
package git
