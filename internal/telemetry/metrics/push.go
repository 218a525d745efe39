package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends the default registry's metrics to a Pushgateway. An empty
// URL is a no-op so callers don't need to guard the call.
func Push(url, job string) error {
	if url == "" {
		return nil
	}

	return push.New(url, job).
		Gatherer(prometheus.DefaultGatherer).
		Push()
}
