// Package monitor holds the request/error counters behind the monitoring
// endpoints. The collector is explicitly owned and injected, never a hidden
// module-level singleton, and has defined reset semantics.
package monitor

import (
	"sort"
	"sync"
	"time"
)

// maxErrorRecords bounds the retained error log; older entries are dropped.
const maxErrorRecords = 100

// EndpointStats aggregates request timings for one method+path pair.
type EndpointStats struct {
	Count       int64         `json:"count"`
	Errors      int64         `json:"errors"`
	TotalTimeMs int64         `json:"total_time_ms"`
	AvgTimeMs   int64         `json:"avg_time_ms"`
	MaxTime     time.Duration `json:"-"`
	MaxTimeMs   int64         `json:"max_time_ms"`
}

// ErrorRecord is one captured error.
type ErrorRecord struct {
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// PerformanceReport is the snapshot served by the performance endpoint.
type PerformanceReport struct {
	StartedAt     time.Time                 `json:"started_at"`
	UptimeSeconds int64                     `json:"uptime_seconds"`
	TotalRequests int64                     `json:"total_requests"`
	Endpoints     map[string]*EndpointStats `json:"endpoints"`
}

// ErrorReport is the snapshot served by the error-log endpoint.
type ErrorReport struct {
	Total  int64         `json:"total"`
	Recent []ErrorRecord `json:"recent"`
}

// Collector accumulates per-endpoint request stats and an error log.
// Safe for concurrent use.
type Collector struct {
	mu          sync.Mutex
	startedAt   time.Time
	total       int64
	endpoints   map[string]*EndpointStats
	errorsTotal int64
	errors      []ErrorRecord
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		startedAt: time.Now().UTC(),
		endpoints: make(map[string]*EndpointStats),
	}
}

// RecordRequest registers one handled request.
func (c *Collector) RecordRequest(method, path string, status int, dur time.Duration) {
	key := method + " " + path

	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	stats, ok := c.endpoints[key]
	if !ok {
		stats = &EndpointStats{}
		c.endpoints[key] = stats
	}
	stats.Count++
	if status >= 500 {
		stats.Errors++
	}
	stats.TotalTimeMs += dur.Milliseconds()
	stats.AvgTimeMs = stats.TotalTimeMs / stats.Count
	if dur > stats.MaxTime {
		stats.MaxTime = dur
		stats.MaxTimeMs = dur.Milliseconds()
	}
}

// RecordError appends to the bounded error log.
func (c *Collector) RecordError(source, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errorsTotal++
	c.errors = append(c.errors, ErrorRecord{
		Source:    source,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
	if len(c.errors) > maxErrorRecords {
		c.errors = c.errors[len(c.errors)-maxErrorRecords:]
	}
}

// Performance returns a copy of the current request stats.
func (c *Collector) Performance() PerformanceReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	endpoints := make(map[string]*EndpointStats, len(c.endpoints))
	for k, v := range c.endpoints {
		copied := *v
		endpoints[k] = &copied
	}
	return PerformanceReport{
		StartedAt:     c.startedAt,
		UptimeSeconds: int64(time.Since(c.startedAt).Seconds()),
		TotalRequests: c.total,
		Endpoints:     endpoints,
	}
}

// Errors returns a copy of the error log, newest last.
func (c *Collector) Errors() ErrorReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	recent := make([]ErrorRecord, len(c.errors))
	copy(recent, c.errors)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.Before(recent[j].Timestamp)
	})
	return ErrorReport{Total: c.errorsTotal, Recent: recent}
}

// Reset clears all counters and the error log and restarts the uptime clock.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startedAt = time.Now().UTC()
	c.total = 0
	c.endpoints = make(map[string]*EndpointStats)
	c.errorsTotal = 0
	c.errors = nil
}
