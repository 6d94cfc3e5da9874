package metrics

// MultiSink fans planning events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordSolve(ev SolveEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetPartition forwards partition snapshots to sinks that support them.
func (m *MultiSink) RecordFleetPartition(ev FleetPartitionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FleetPartitionRecorder); ok {
			if err := rec.RecordFleetPartition(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordShunting forwards shunting counts to sinks that support them.
func (m *MultiSink) RecordShunting(ev ShuntingEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ShuntingRecorder); ok {
			if err := rec.RecordShunting(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordReadiness forwards readiness samples to sinks that support them.
func (m *MultiSink) RecordReadiness(samples []ReadinessSample) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ReadinessRecorder); ok {
			if err := rec.RecordReadiness(samples); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSlotAssignment forwards departure assignments to sinks that support
// them.
func (m *MultiSink) RecordSlotAssignment(ev SlotAssignmentEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SlotRecorder); ok {
			if err := rec.RecordSlotAssignment(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
