// Package telemetry provides in-process metrics collection for monitoring
// tool-call traffic and truncation behavior.
package telemetry

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Metric names recorded by the router and the Hudu client.
const (
	// Tool call counts
	MetricToolCalls     = "router.tool_calls"
	MetricToolCallsOK   = "router.tool_calls.success"
	MetricToolCallsFail = "router.tool_calls.failure"

	// Error counts by kind
	MetricErrorsInvalidParams  = "router.errors.invalid_params"
	MetricErrorsMethodNotFound = "router.errors.method_not_found"
	MetricErrorsInternal       = "router.errors.internal"

	// Truncation counts
	MetricResponsesTruncated = "truncate.responses_truncated"

	// Outbound API traffic
	MetricAPICalls    = "hudu.api_calls"
	MetricAPIFailures = "hudu.api_failures"

	// Tool call latency
	MetricToolCallDuration = "router.tool_call_duration"
)

// MetricsCollector is a thread-safe counter and timer registry.
type MetricsCollector struct {
	counters map[string]int64
	timers   map[string][]time.Duration
	mu       sync.RWMutex
}

// NewMetricsCollector creates an empty MetricsCollector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters: make(map[string]int64),
		timers:   make(map[string][]time.Duration),
	}
}

// Increment adds one to the named counter.
func (c *MetricsCollector) Increment(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name]++
}

// RecordDuration appends a timing sample to the named timer.
func (c *MetricsCollector) RecordDuration(name string, d time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers[name] = append(c.timers[name], d)
}

// Counter returns the current value of the named counter.
func (c *MetricsCollector) Counter(name string) int64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[name]
}

// AverageDuration returns the mean of the recorded samples for the named
// timer, or zero when no samples exist.
func (c *MetricsCollector) AverageDuration(name string) time.Duration {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	samples := c.timers[name]
	if len(samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range samples {
		total += d
	}
	return total / time.Duration(len(samples))
}

// Snapshot returns a human-readable dump of all counters, sorted by name.
// Intended for debug logging at shutdown.
func (c *MetricsCollector) Snapshot() []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.counters))
	for name := range c.counters {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s=%d", name, c.counters[name]))
	}
	return lines
}
