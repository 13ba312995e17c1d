package metrics

import "time"

// Statter records counters, gauges and timings. Implementations deal with
// their own delivery failures so callers never branch on metrics.
type Statter interface {
	Inc(metric string, value int64)
	Gauge(metric string, value int64)
	TimingDuration(metric string, value time.Duration)
}

// Discard drops every metric.
var Discard Statter = discard{}

type discard struct{}

func (discard) Inc(string, int64) {}

func (discard) Gauge(string, int64) {}

func (discard) TimingDuration(string, time.Duration) {}
