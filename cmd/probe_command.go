package cmd

import (
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/permstore/pkg/monitor"
	"code.cloudfoundry.org/permstore/pkg/probe"
)

type ProbeCommand struct {
	ServiceFlags

	Frequency      time.Duration `long:"frequency" description:"Run the probe repeatedly at this interval; run once when unset"`
	Timeout        time.Duration `long:"timeout" description:"Time after which a single call fails" default:"1s"`
	CleanupTimeout time.Duration `long:"cleanup-timeout" description:"Time allowed for removing the records of a failed run" default:"10s"`
	MaxLatency     time.Duration `long:"max-latency" description:"Calls slower than this fail the run" default:"100ms"`
}

func (cmd ProbeCommand) Execute([]string) error {
	return cmd.withService("probe", func(r serviceRun) error {
		histogram := monitor.NewHistogram(monitor.HistogramOptions{
			Name:        monitor.MetricProbeTiming,
			Quantiles:   []float64{90, 99, 99.9},
			MaxDuration: cmd.Timeout,
		})

		p := probe.NewProbe(r.service,
			probe.WithTimeout(cmd.Timeout),
			probe.WithCleanupTimeout(cmd.CleanupTimeout),
			probe.WithMaxLatency(cmd.MaxLatency),
			probe.WithRecorder(histogram),
		)
		m := monitor.NewMonitor(p, histogram, r.statter, clock.NewClock())

		if cmd.Frequency == 0 {
			return m.RunOnce(r.ctx, r.logger)
		}

		m.Run(r.ctx, r.logger, cmd.Frequency)
		return nil
	})
}
