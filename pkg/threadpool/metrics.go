package threadpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ejgdlyz/threadpool/pkg/metrics"
)

// NewWithMetrics creates a pool whose lifecycle hooks feed a Prometheus
// metrics registry. Hooks already present in conf keep working; the metrics
// hooks wrap them. name labels every metric emitted for this pool.
//
// The metric instances registered with the default registerer are shared;
// passing any other registerer creates fresh instances on it.
func NewWithMetrics(conf Config, name string, metricsConfig metrics.Config) *Pool {
	if !metricsConfig.Enabled {
		return NewWithConfig(conf)
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil && metricsConfig.Registry != prometheus.DefaultRegisterer {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	var p *Pool

	updateGauges := func() {
		registry.PoolWorkers.WithLabelValues(name).Set(float64(p.CurrentWorkers()))
		registry.PoolIdleWorkers.WithLabelValues(name).Set(float64(p.IdleWorkers()))
		registry.PoolQueueDepth.WithLabelValues(name).Set(float64(p.QueueDepth()))
	}

	prevWorkerStart := conf.OnWorkerStart
	conf.OnWorkerStart = func(workerID uint64) {
		updateGauges()
		if prevWorkerStart != nil {
			prevWorkerStart(workerID)
		}
	}

	prevWorkerStop := conf.OnWorkerStop
	conf.OnWorkerStop = func(workerID uint64) {
		updateGauges()
		if prevWorkerStop != nil {
			prevWorkerStop(workerID)
		}
	}

	prevSubmitted := conf.OnSubmitted
	conf.OnSubmitted = func() {
		registry.JobsSubmitted.WithLabelValues(name).Inc()
		updateGauges()
		if prevSubmitted != nil {
			prevSubmitted()
		}
	}

	prevJobComplete := conf.OnJobComplete
	conf.OnJobComplete = func(workerID uint64, duration time.Duration, err error) {
		registry.JobDuration.WithLabelValues(name).Observe(duration.Seconds())
		if err != nil {
			registry.JobsFailed.WithLabelValues(name).Inc()
		} else {
			registry.JobsCompleted.WithLabelValues(name).Inc()
		}
		updateGauges()
		if prevJobComplete != nil {
			prevJobComplete(workerID, duration, err)
		}
	}

	prevRejected := conf.OnRejected
	conf.OnRejected = func() {
		registry.JobsRejected.WithLabelValues(name).Inc()
		if prevRejected != nil {
			prevRejected()
		}
	}

	p = NewWithConfig(conf)
	return p
}
