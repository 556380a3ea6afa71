package tui

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

type jobStatus string

const (
	jobKindProbe   jobKind = "probe"
	jobKindConvert jobKind = "convert"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
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

// jobResultEnvelope carries the finished snapshot and the runner's payload,
// which Update dispatches as its own message.
type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
	now     func() time.Time
}

func newJobBus(now func() time.Time) *jobBus {
	if now == nil {
		now = time.Now
	}
	return &jobBus{now: now}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start runs the job off the update loop. Requests are never cancelled, so
// the runner always gets a background context.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := b.now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		payload, err := runner(context.Background())
		snapshot := jobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: b.now(),
		}
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = jobStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		log.Printf("[jobs] %s %s (duration=%s, err=%v)", id, snapshot.Status, snapshot.Duration, err)
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}

// jobBoard tracks jobs between their start signal and their result.
type jobBoard map[string]jobSnapshot

func (b jobBoard) track(s jobSnapshot) {
	if s.Status == jobStatusRunning {
		b[s.ID] = s
		return
	}
	delete(b, s.ID)
}

func (b jobBoard) badges(now time.Time) []string {
	if len(b) == 0 {
		return nil
	}
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		s := b[id]
		out = append(out, fmt.Sprintf("%s %s", s.Kind, now.Sub(s.StartedAt).Truncate(100*time.Millisecond)))
	}
	return out
}
