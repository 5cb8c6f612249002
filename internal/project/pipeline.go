// Package project runs the per-project pipeline: resolve the identifier, make
// sure a working copy exists and install the hook framework into it. BringAll
// runs many pipelines on a bounded worker pool.
package project

import (
	"context"
	"runtime"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/NicabarNimble/go-gitproject/internal/git"
	"github.com/NicabarNimble/go-gitproject/internal/progress"
	"github.com/NicabarNimble/go-gitproject/internal/urlutils"
)

// Syncer makes sure a working copy exists for an identity.
type Syncer interface {
	Sync(ctx context.Context, id urlutils.Identity, tracker progress.Tracker) (*git.Repository, error)
}

// Installer installs the hook framework into a working copy.
type Installer interface {
	Install(repoPath string) error
}

// Result is the outcome of one pipeline.
type Result struct {
	Raw      string
	Identity urlutils.Identity
	Path     string
	Cloned   bool
	Err      error
}

// Failed reports whether any stage of the pipeline failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Pipeline wires the resolver, the sync engine and the hook installer.
type Pipeline struct {
	Syncer    Syncer
	Installer Installer
	Logger    logrus.FieldLogger
	// Workers bounds BringAll's concurrency; 0 means one per CPU.
	Workers int
}

// NewPipeline creates a pipeline with the given stages.
func NewPipeline(syncer Syncer, installer Installer, workers int, logger logrus.FieldLogger) *Pipeline {
	return &Pipeline{Syncer: syncer, Installer: installer, Workers: workers, Logger: logger}
}

// Bring resolves raw, syncs it and installs hooks. Hooks are installed even
// when the repository was already present. Install only runs after a
// successful sync.
func (p *Pipeline) Bring(ctx context.Context, raw string, tracker progress.Tracker) Result {
	if tracker == nil {
		tracker = progress.Discard
	}
	result := Result{Raw: raw}

	id, err := urlutils.Resolve(raw)
	if err != nil {
		tracker.Start("resolve")
		tracker.Error(err)
		result.Err = err
		return result
	}
	result.Identity = id

	repo, err := p.Syncer.Sync(ctx, id, tracker)
	if err != nil {
		result.Err = err
		return result
	}
	result.Path = repo.Path()
	result.Cloned = repo.Cloned
	if !repo.Cloned {
		tracker.Start("present")
	}

	if err := p.Installer.Install(repo.Path()); err != nil {
		tracker.Error(err)
		result.Err = err
		return result
	}
	if !repo.Cloned {
		tracker.Complete()
	}

	fields := logrus.Fields{
		"project": id.Slug(),
		"path":    result.Path,
		"cloned":  result.Cloned,
	}
	if branch, err := repo.Branch(); err == nil {
		fields["branch"] = branch
	}
	p.Logger.WithFields(fields).Debug("project ready")
	return result
}

// BringAll runs one pipeline per distinct identifier and returns the results
// in input order. A failed project never stops its siblings. Failures are
// logged one by one once the display has stopped.
func (p *Pipeline) BringAll(ctx context.Context, raws []string, display progress.Display) []Result {
	raws = lo.Uniq(raws)
	if len(raws) == 0 {
		return nil
	}
	if display == nil {
		display = &progress.LogDisplay{Logger: p.Logger}
	}

	// The pb pool stops rendering once every bar it knows is finished, so
	// all trackers are created before Start.
	trackers := lo.Map(raws, func(raw string, _ int) progress.Tracker {
		return display.Tracker(raw)
	})
	if err := display.Start(); err != nil {
		p.Logger.WithError(err).Warn("progress display unavailable")
	}

	results := make([]Result, len(raws))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers(len(raws)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.Bring(ctx, raws[i], trackers[i])
			}
		}()
	}
	for i := range raws {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := display.Stop(); err != nil {
		p.Logger.WithError(err).Debug("stopping progress display")
	}

	for _, r := range Failures(results) {
		p.Logger.WithField("project", r.Raw).Error(r.Err)
	}
	return results
}

func (p *Pipeline) workers(jobs int) int {
	n := p.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return max(1, min(n, jobs))
}

// Failures returns the failed results, keeping their order.
func Failures(results []Result) []Result {
	return lo.Filter(results, func(r Result, _ int) bool {
		return r.Failed()
	})
}
