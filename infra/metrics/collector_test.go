package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kochimetro/induction/core/events"
	"github.com/kochimetro/induction/core/induction"
	coremetrics "github.com/kochimetro/induction/core/metrics"
	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/internal/eventbus"
)

type captureSink struct {
	mu     sync.Mutex
	solves []coremetrics.SolveEvent
}

func (c *captureSink) RecordSolve(ev coremetrics.SolveEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.solves = append(c.solves, ev)
	return nil
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.solves)
}

func TestEventCollectorRecordsPlanEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sink := &captureSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartEventCollector(ctx, bus, sink)

	result := &induction.Result{}
	result.Metadata.Status = model.StatusOptimal
	result.Metadata.ObjectiveValue = 9000
	bus.Publish(events.PlanEvent{RunID: "run-1", Result: result})

	deadline := time.After(time.Second)
	for sink.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("collector never recorded the plan event")
		case <-time.After(5 * time.Millisecond):
		}
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.solves[0].Layer != coremetrics.LayerInduction || sink.solves[0].Status != model.StatusOptimal {
		t.Fatalf("unexpected solve event %+v", sink.solves[0])
	}
}
