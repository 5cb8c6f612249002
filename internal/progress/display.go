package progress

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

const barTemplate = `{{ string . "prefix" }} {{ bar . "[" "=" ">" " " "]" }} {{ percent . }} {{ string . "status" }}`

// Display hands out one Tracker per project and renders them together.
type Display interface {
	Tracker(name string) Tracker
	Start() error
	Stop() error
}

// NewDisplay renders progress bars when out is a terminal and falls back to
// log lines otherwise. A single project gets a standalone bar, several share
// a pool.
func NewDisplay(out *os.File, logger logrus.FieldLogger, projects int) Display {
	switch {
	case !IsTerminal(out):
		return &LogDisplay{Logger: logger}
	case projects == 1:
		return &SingleDisplay{out: out}
	default:
		return NewPool(out)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// BarTracker drives a single pb progress bar.
type BarTracker struct {
	mu     sync.Mutex
	bar    *pb.ProgressBar
	name   string
	op     *Operation
	pooled bool
}

func newBar(name string, out io.Writer) *pb.ProgressBar {
	bar := pb.ProgressBarTemplate(barTemplate).New(100)
	bar.SetWriter(out)
	bar.SetRefreshRate(100 * time.Millisecond)
	bar.Set("prefix", name)
	bar.Set("status", "waiting")
	return bar
}

// NewBarTracker creates a standalone bar writing to out.
func NewBarTracker(name string, out io.Writer) *BarTracker {
	return &BarTracker{bar: newBar(name, out), name: name}
}

// Start begins tracking and, for a standalone bar, starts rendering.
func (t *BarTracker) Start(operation string) *Operation {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.op = &Operation{Name: operation, StartTime: now, LastUpdate: now, Status: StatusInProgress}
	t.bar.Set("status", operation)
	if !t.pooled {
		t.bar.Start()
	}
	return t.op
}

func (t *BarTracker) Update(current, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.op == nil {
		return
	}
	t.op.LastUpdate = time.Now()
	t.op.LastCurrent = current
	t.op.LastTotal = total
	t.op.Updates++
	t.bar.SetTotal(total)
	t.bar.SetCurrent(current)
}

func (t *BarTracker) Complete() {
	t.finish(StatusCompleted, "done", nil)
}

func (t *BarTracker) Error(err error) {
	t.finish(StatusFailed, "failed", err)
}

// Close finishes a bar that never started, so a pool can stop.
func (t *BarTracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.bar.IsFinished() {
		t.bar.Finish()
	}
}

func (t *BarTracker) finish(status, label string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.op == nil {
		return
	}
	t.op.Status = status
	t.op.Err = err
	if err == nil {
		t.bar.SetCurrent(t.bar.Total())
	}
	t.bar.Set("status", label)
	t.bar.Finish()
}

// Pool renders several bars as one synchronized block.
type Pool struct {
	out      io.Writer
	pool     *pb.Pool
	mu       sync.Mutex
	trackers []*BarTracker
	started  bool
}

// NewPool creates an empty pool writing to out.
func NewPool(out io.Writer) *Pool {
	pool := pb.NewPool()
	pool.Output = out
	return &Pool{out: out, pool: pool}
}

// Tracker creates a bar owned by the pool. All trackers must be created
// before Start.
func (p *Pool) Tracker(name string) Tracker {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker := &BarTracker{bar: newBar(name, p.out), name: name, pooled: true}
	p.trackers = append(p.trackers, tracker)
	p.pool.Add(tracker.bar)
	return tracker
}

func (p *Pool) Start() error {
	if err := p.pool.Start(); err != nil {
		return err
	}
	p.mu.Lock()
	p.started = true
	p.mu.Unlock()
	return nil
}

// Stop finishes any bar left untouched and stops rendering.
func (p *Pool) Stop() error {
	p.mu.Lock()
	trackers := append([]*BarTracker(nil), p.trackers...)
	started := p.started
	p.mu.Unlock()

	for _, tracker := range trackers {
		tracker.Close()
	}
	if !started {
		return nil
	}
	return p.pool.Stop()
}

// SingleDisplay renders one standalone bar.
type SingleDisplay struct {
	out     io.Writer
	tracker *BarTracker
}

func (d *SingleDisplay) Tracker(name string) Tracker {
	d.tracker = NewBarTracker(name, d.out)
	return d.tracker
}

func (d *SingleDisplay) Start() error { return nil }

func (d *SingleDisplay) Stop() error {
	if d.tracker != nil {
		d.tracker.Close()
	}
	return nil
}

// LogTracker reports progress as log lines, one per tenth of the transfer.
type LogTracker struct {
	Logger logrus.FieldLogger

	mu     sync.Mutex
	op     *Operation
	name   string
	logged int64
}

// NewLogTracker creates a tracker for the named project.
func NewLogTracker(name string, logger logrus.FieldLogger) *LogTracker {
	return &LogTracker{Logger: logger, name: name, logged: -1}
}

func (t *LogTracker) Start(operation string) *Operation {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.op = &Operation{Name: operation, StartTime: now, LastUpdate: now, Status: StatusInProgress}
	t.logged = -1
	t.Logger.WithField("project", t.name).Infof("%s", operation)
	return t.op
}

func (t *LogTracker) Update(current, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.op == nil {
		return
	}
	t.op.LastUpdate = time.Now()
	t.op.LastCurrent = current
	t.op.LastTotal = total
	t.op.Updates++

	step := t.op.Percent() / 10
	if step > t.logged {
		t.logged = step
		t.Logger.WithField("project", t.name).Debugf("%s: %d%%", t.op.Name, t.op.Percent())
	}
}

func (t *LogTracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.op == nil {
		return
	}
	t.op.Status = StatusCompleted
	t.Logger.WithFields(logrus.Fields{
		"project": t.name,
		"took":    time.Since(t.op.StartTime).Round(time.Millisecond),
	}).Debugf("%s: done", t.op.Name)
}

func (t *LogTracker) Error(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.op == nil {
		return
	}
	t.op.Status = StatusFailed
	t.op.Err = err
}

// LogDisplay hands out LogTrackers.
type LogDisplay struct {
	Logger logrus.FieldLogger
}

func (d *LogDisplay) Tracker(name string) Tracker {
	return NewLogTracker(name, d.Logger)
}

func (d *LogDisplay) Start() error { return nil }
func (d *LogDisplay) Stop() error  { return nil }
