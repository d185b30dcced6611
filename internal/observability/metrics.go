package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	reportRuns   map[string]int64
	reportTime   map[string]time.Duration
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Requests   map[string]int64 `json:"requests"`
	Errors     map[string]int64 `json:"errors"`
	ReportRuns map[string]int64 `json:"report_runs"`
	// ReportSeconds is the cumulative pipeline time per scope.
	ReportSeconds map[string]float64 `json:"report_seconds"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		reportRuns:   make(map[string]int64),
		reportTime:   make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordReportRun counts a finished pipeline run by scope and final status.
func (m *Metrics) RecordReportRun(scope, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportRuns[scope+"|"+status]++
	m.reportTime[scope] += took
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Requests:      map[string]int64{},
		Errors:        map[string]int64{},
		ReportRuns:    map[string]int64{},
		ReportSeconds: map[string]float64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.reportRuns {
		snap.ReportRuns[k] = v
	}
	for k, v := range m.reportTime {
		snap.ReportSeconds[k] = v.Seconds()
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
