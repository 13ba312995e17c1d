package monitor

import (
	"context"
	"errors"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/metrics"
	"code.cloudfoundry.org/permstore/pkg/probe"
)

const (
	MetricFailure = 0
	MetricSuccess = 1

	MetricProbeRunsSuccess = "probe.runs.success"
	MetricProbeRunsCorrect = "probe.runs.correct"
	MetricProbeTiming      = "probe.responses.timing"
)

type Prober interface {
	Run(ctx context.Context, logger logx.Logger) error
}

type Monitor struct {
	prober    Prober
	histogram *Histogram
	statter   metrics.Statter
	clock     clock.Clock
}

func NewMonitor(prober Prober, histogram *Histogram, statter metrics.Statter, c clock.Clock) *Monitor {
	return &Monitor{
		prober:    prober,
		histogram: histogram,
		statter:   statter,
		clock:     c,
	}
}

// RunOnce runs the probe and reports its outcome and the current duration
// percentiles as gauges.
func (m *Monitor) RunOnce(ctx context.Context, logger logx.Logger) error {
	logger = logger.WithName("run")
	logger.Debug(starting)
	defer logger.Debug(finished)

	err := m.prober.Run(ctx, logger)
	switch {
	case err == nil:
		m.statter.Gauge(MetricProbeRunsSuccess, MetricSuccess)
		m.statter.Gauge(MetricProbeRunsCorrect, MetricSuccess)
	case errors.Is(err, probe.ErrIncorrectHasPermission):
		m.statter.Gauge(MetricProbeRunsSuccess, MetricFailure)
		m.statter.Gauge(MetricProbeRunsCorrect, MetricFailure)
	default:
		m.statter.Gauge(MetricProbeRunsSuccess, MetricFailure)
	}

	for metric, value := range m.histogram.Collect() {
		m.statter.Gauge(metric, value)
	}

	if err != nil {
		logger.Error(probeFailed, err)
	}

	return err
}

// Run probes immediately and then every frequency until ctx is done. Probe
// failures are reported, not returned.
func (m *Monitor) Run(ctx context.Context, logger logx.Logger, frequency time.Duration) {
	ticker := m.clock.NewTicker(frequency)
	defer ticker.Stop()

	for {
		_ = m.RunOnce(ctx, logger)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
		}
	}
}
