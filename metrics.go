package resdeck

import "github.com/resdeck/resdeck/internal/gateway"

// MetricID identifies one client counter.
type MetricID = gateway.MetricID

const (
	// MetricRequests counts calls entering the request gateway.
	MetricRequests = gateway.MetricRequests
	// MetricUnauthorized counts 401 responses before recovery.
	MetricUnauthorized = gateway.MetricUnauthorized
	// MetricRefreshSuccess counts refreshes that produced a usable token.
	MetricRefreshSuccess = gateway.MetricRefreshSuccess
	// MetricRefreshFailure counts refreshes that ended the session.
	MetricRefreshFailure = gateway.MetricRefreshFailure
	// MetricRefreshShared counts callers that joined an in-flight refresh.
	MetricRefreshShared = gateway.MetricRefreshShared
	// MetricRetries counts one-shot retries after a refresh.
	MetricRetries = gateway.MetricRetries
	// MetricReauthRequired counts calls that ended in ErrReauthenticationRequired.
	MetricReauthRequired = gateway.MetricReauthRequired
	// MetricNetworkFailure counts transport-level failures.
	MetricNetworkFailure = gateway.MetricNetworkFailure
)

// MetricsSnapshot copies the client's request counters. Cheap enough to
// call from a polling exporter.
func (c *Client) MetricsSnapshot() map[MetricID]uint64 {
	return c.gw.MetricsSnapshot()
}
