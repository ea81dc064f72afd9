package observability

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
)

var (
	httpMetricsOnce sync.Once
	httpMetrics     *fiberprometheus.FiberPrometheus
)

// HTTPMetrics returns the process-wide fiber request metrics. The collectors
// register with the default Prometheus registry, so they are built once.
func HTTPMetrics() *fiberprometheus.FiberPrometheus {
	httpMetricsOnce.Do(func() {
		httpMetrics = fiberprometheus.New("konishi-api")
	})
	return httpMetrics
}
