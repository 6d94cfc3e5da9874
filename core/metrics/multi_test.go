package metrics

import "testing"

// TestMultiSink ensures events are forwarded to all sinks.

type recordSink struct {
	count int
}

func (r *recordSink) RecordSolve(SolveEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordShunting(ShuntingEvent) error {
	r.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordSolve(SolveEvent{}); err != nil {
		t.Fatalf("record solve: %v", err)
	}
	if err := m.RecordShunting(ShuntingEvent{}); err != nil {
		t.Fatalf("record shunting: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("events not forwarded")
	}
}

func TestMultiSinkSkipsUnsupportedRecorders(t *testing.T) {
	s := &recordSink{}
	m := NewMultiSink(s)
	// recordSink does not implement ReadinessRecorder; the event is skipped.
	if err := m.RecordReadiness(nil); err != nil {
		t.Fatalf("record readiness: %v", err)
	}
	if s.count != 0 {
		t.Fatalf("unsupported recorder must not be invoked")
	}
}
