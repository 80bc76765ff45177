package measure

import "time"

// Measure collects runtime metrics for a launch, one Metric per firework.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric records timings for a single firework.
type Metric interface {
	// AddWaitDuration accumulates time spent ready but not launched.
	AddWaitDuration(elapsed time.Duration)
	// AddRunDuration accumulates task execution time.
	AddRunDuration(elapsed time.Duration)
	WaitDuration() time.Duration
	RunDuration() time.Duration
	// SetTotalDuration records when the firework finished relative to the
	// start of the launch.
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
