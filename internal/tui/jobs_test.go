package tui

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

type doneMsg string

func TestJobBusReportsOutcome(t *testing.T) {
	bus := newJobBus(log.New(io.Discard))

	id, ctx := bus.register(jobKindIndex)
	if id != "index-1" || ctx.Err() != nil {
		t.Fatalf("id=%s err=%v", id, ctx.Err())
	}
	if !bus.finish(jobKindIndex, id) {
		t.Fatal("live job should finish")
	}
	if ctx.Err() == nil {
		t.Fatal("finishing should release the context")
	}
	if bus.finish(jobKindIndex, id) {
		t.Fatal("a job finishes once")
	}
}

func TestJobBusSupersedesSameKind(t *testing.T) {
	bus := newJobBus(log.New(io.Discard))

	first, firstCtx := bus.register(jobKindPost)
	second, secondCtx := bus.register(jobKindPost)
	_, indexCtx := bus.register(jobKindIndex)

	if !errors.Is(firstCtx.Err(), context.Canceled) {
		t.Fatal("starting a second post load should cancel the first")
	}
	if secondCtx.Err() != nil || indexCtx.Err() != nil {
		t.Fatal("other jobs must stay live")
	}
	if bus.finish(jobKindPost, first) {
		t.Fatal("superseded job must not finish as live")
	}
	if !bus.finish(jobKindPost, second) {
		t.Fatal("newest job should finish")
	}

	bus.CancelAll()
	if indexCtx.Err() == nil {
		t.Fatal("CancelAll should cancel live jobs")
	}
}

func TestSupersededResultIsDropped(t *testing.T) {
	m := newTestModel(t)
	before := m.viewer.View()

	m.Update(jobResultEnvelope{
		Snapshot: jobSnapshot{Kind: jobKindIndex, Status: jobStatusSuperseded},
		Payload:  doneMsg("ignored"),
	})
	if _, ok := m.jobStatus[jobKindIndex]; ok {
		t.Fatal("superseded jobs should not update the status bar")
	}
	if m.viewer.View() != before {
		t.Fatal("superseded payload must not be applied")
	}
}
