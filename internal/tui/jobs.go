package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// jobKind names a background load. At most one job of each kind is live:
// starting a new one cancels the previous one.
type jobKind string

type jobStatus string

const (
	jobKindIndex jobKind = "index"
	jobKindPost  jobKind = "post"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
	// jobStatusSuperseded marks a job replaced by a newer one of its kind.
	// Its payload is dropped.
	jobStatusSuperseded jobStatus = "superseded"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

// jobSignalMsg announces that a job started.
type jobSignalMsg struct {
	Snapshot jobSnapshot
}

// jobResultEnvelope carries the runner's message back to Update.
type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	logger *log.Logger

	mu      sync.Mutex
	seq     int
	current map[jobKind]liveJob
}

type liveJob struct {
	id     string
	cancel context.CancelFunc
}

func newJobBus(logger *log.Logger) *jobBus {
	return &jobBus{logger: logger, current: map[jobKind]liveJob{}}
}

// register makes id the live job of kind and cancels its predecessor.
func (b *jobBus) register(kind jobKind) (string, context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	id := fmt.Sprintf("%s-%d", kind, b.seq)
	if prev, ok := b.current[kind]; ok {
		prev.cancel()
		b.logger.Debug("job superseded", "id", prev.id, "by", id)
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.current[kind] = liveJob{id: id, cancel: cancel}
	return id, ctx
}

// finish releases id and reports whether it was still the live job.
func (b *jobBus) finish(kind jobKind, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	live, ok := b.current[kind]
	if !ok || live.id != id {
		return false
	}
	live.cancel()
	delete(b.current, kind)
	return true
}

// Start returns a command that emits a jobSignalMsg, runs runner and then
// emits a jobResultEnvelope.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id, ctx := b.register(kind)
	started := time.Now()
	b.logger.Debug("job started", "id", id)

	signal := func() tea.Msg {
		return jobSignalMsg{Snapshot: jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}}
	}
	run := func() tea.Msg {
		payload, err := runner(ctx)
		done := time.Now()
		snap := jobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: done,
			Duration:    done.Sub(started),
			Status:      jobStatusSucceeded,
		}
		switch {
		case !b.finish(kind, id):
			snap.Status = jobStatusSuperseded
			payload = nil
		case err != nil:
			snap.Status = jobStatusFailed
			snap.Err = err.Error()
		}
		b.logger.Debug("job finished", "id", id, "status", snap.Status, "duration", snap.Duration, "err", err)
		return jobResultEnvelope{Snapshot: snap, Payload: payload}
	}
	return tea.Sequence(signal, run)
}

// CancelAll stops every live job.
func (b *jobBus) CancelAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for kind, live := range b.current {
		live.cancel()
		delete(b.current, kind)
	}
}
