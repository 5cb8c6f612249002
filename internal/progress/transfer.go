package progress

import (
	"bytes"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Transfer is a checkpoint of a repository transfer. Received counts objects
// fetched from the remote, Indexed counts objects resolved locally.
type Transfer struct {
	Received int64
	Indexed  int64
	Total    int64
}

// Percent weights receiving and indexing equally and rounds to the nearest
// integer. A transfer with no known total is at 0.
func Percent(t Transfer) int64 {
	if t.Total <= 0 {
		return 0
	}
	total := float64(t.Total)
	received := 0.5 * float64(t.Received) / total * 100
	indexed := 0.5 * float64(t.Indexed) / total * 100
	return int64(math.Round(received + indexed))
}

// Done returns the snapshot reported once a transfer has finished.
func (t Transfer) Done() Transfer {
	if t.Total <= 0 {
		t.Total = 1
	}
	t.Received = t.Total
	t.Indexed = t.Total
	return t
}

var (
	// Match sideband lines like:
	// Counting objects:  45% (450/1000)
	// Receiving objects:  67% (35484/52960), 236.76 MiB | 78.92 MiB/s
	// Resolving deltas: 100% (120/120), done.
	sidebandRegex = regexp.MustCompile(`(Counting objects|Compressing objects|Receiving objects|Resolving deltas):\s*\d+%\s*\((\d+)/(\d+)\)`)
)

// SidebandParser is an io.Writer fed with the remote's progress stream. It
// turns recognised lines into monotonic Transfer snapshots passed to OnUpdate.
//
// Counting and receiving lines advance Received, compressing and resolving
// lines advance Indexed. Every phase is rescaled onto the first total seen.
type SidebandParser struct {
	OnUpdate func(Transfer)

	mu      sync.Mutex
	pending []byte
	current Transfer
}

// NewSidebandParser creates a parser reporting to fn.
func NewSidebandParser(fn func(Transfer)) *SidebandParser {
	return &SidebandParser{OnUpdate: fn}
}

func (p *SidebandParser) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending = append(p.pending, b...)
	for {
		idx := bytes.IndexAny(p.pending, "\r\n")
		if idx < 0 {
			break
		}
		line := string(p.pending[:idx])
		p.pending = p.pending[idx+1:]
		p.parseLine(line)
	}
	return len(b), nil
}

// Snapshot returns the latest transfer state.
func (p *SidebandParser) Snapshot() Transfer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *SidebandParser) parseLine(line string) {
	line = strings.TrimPrefix(strings.TrimSpace(line), "remote: ")
	matches := sidebandRegex.FindStringSubmatch(line)
	if matches == nil {
		return
	}

	current, err := strconv.ParseInt(matches[2], 10, 64)
	if err != nil {
		return
	}
	total, err := strconv.ParseInt(matches[3], 10, 64)
	if err != nil || total <= 0 {
		return
	}

	next := p.current
	if next.Total == 0 {
		next.Total = total
	}
	scaled := current * next.Total / total

	switch matches[1] {
	case "Counting objects", "Receiving objects":
		next.Received = max(next.Received, scaled)
	default:
		next.Indexed = max(next.Indexed, scaled)
	}

	if next == p.current {
		return
	}
	p.current = next
	if p.OnUpdate != nil {
		p.OnUpdate(next)
	}
}
