package world

// SimMetrics is a thread-safe read-only view of key runtime signals. Updated
// from the sim goroutine, read from HTTP handlers and tests.
type SimMetrics struct {
	Tick uint64 `json:"tick"`

	Agents        int `json:"agents"`
	Bandits       int `json:"bandits"`
	TasksInFlight int `json:"tasks_in_flight"`

	Branches map[string]uint64 `json:"branches,omitempty"`

	StepMS float64 `json:"step_ms"`
}

func (s *Sim) Metrics() SimMetrics {
	if s == nil {
		return SimMetrics{}
	}
	v := s.metrics.Load()
	if v == nil {
		return SimMetrics{}
	}
	m, ok := v.(SimMetrics)
	if !ok {
		return SimMetrics{}
	}
	return m
}
