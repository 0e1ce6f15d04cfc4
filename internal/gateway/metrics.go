package gateway

import "sync/atomic"

// MetricID identifies one gateway counter.
type MetricID uint8

const (
	// MetricRequests counts calls entering the gateway.
	MetricRequests MetricID = iota
	// MetricUnauthorized counts 401 responses from the original endpoint.
	MetricUnauthorized
	// MetricRefreshSuccess counts refresh calls that produced a usable token.
	MetricRefreshSuccess
	// MetricRefreshFailure counts refresh calls that cleared the session.
	MetricRefreshFailure
	// MetricRefreshShared counts callers that joined an in-flight refresh
	// instead of starting their own.
	MetricRefreshShared
	// MetricRetries counts one-shot retries after a successful refresh.
	MetricRetries
	// MetricReauthRequired counts calls that ended in the re-auth sentinel.
	MetricReauthRequired
	// MetricNetworkFailure counts transport-level failures.
	MetricNetworkFailure

	metricCount
)

// Metrics is a fixed set of lock-free counters. All methods are safe for
// concurrent use; the zero value is ready.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func (m *Metrics) inc(id MetricID) {
	if m == nil || int(id) >= len(m.counters) {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() map[MetricID]uint64 {
	out := make(map[MetricID]uint64, metricCount)
	if m == nil {
		return out
	}
	for id := MetricID(0); id < metricCount; id++ {
		out[id] = m.counters[id].Load()
	}
	return out
}
