package monitor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
)

type HistogramOptions struct {
	Name        string
	Quantiles   []float64
	MaxDuration time.Duration
}

// Histogram keeps probe durations in milliseconds across two windows. The
// current window rotates once it holds enough samples for the finest
// requested quantile to be meaningful.
type Histogram struct {
	mu sync.Mutex

	name      string
	quantiles []float64

	countBeforeRotation int64
	histogram           *hdrhistogram.WindowedHistogram
}

func NewHistogram(opts HistogramOptions) *Histogram {
	var countBeforeRotation int64 = 1
	for _, q := range opts.Quantiles {
		if count := samplesForQuantile(q); count > countBeforeRotation {
			countBeforeRotation = count
		}
	}

	return &Histogram{
		name:                opts.Name,
		quantiles:           opts.Quantiles,
		countBeforeRotation: countBeforeRotation,
		histogram:           hdrhistogram.NewWindowed(2, 0, milliseconds(opts.MaxDuration), 1),
	}
}

func (h *Histogram) Observe(duration time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.histogram.Current.TotalCount() >= h.countBeforeRotation {
		h.histogram.Rotate()
	}

	return h.histogram.Current.RecordValue(milliseconds(duration))
}

// Collect returns "<name>.max" and "<name>.p<quantile>" values, e.g.
// "probe.timing.p999" for the 99.9th percentile.
func (h *Histogram) Collect() map[string]int64 {
	h.mu.Lock()
	merged := h.histogram.Merge()
	h.mu.Unlock()

	values := map[string]int64{
		fmt.Sprintf("%s.max", h.name): merged.Max(),
	}
	for _, q := range h.quantiles {
		label := strings.ReplaceAll(strconv.FormatFloat(q, 'f', -1, 64), ".", "")
		values[fmt.Sprintf("%s.p%s", h.name, label)] = merged.ValueAtQuantile(q)
	}

	return values
}

func (h *Histogram) CountBeforeRotation() int64 {
	return h.countBeforeRotation
}

// samplesForQuantile is the smallest sample count in which the quantile
// falls on a whole sample: 2 for p50, 100 for p99, 1000 for p99.9.
func samplesForQuantile(q float64) int64 {
	scale := int64(100)
	for q != math.Trunc(q) {
		scale *= 10
		q *= 10
	}

	return scale / gcd(int64(q), scale)
}

func milliseconds(d time.Duration) int64 {
	return int64(d / time.Millisecond)
}

func gcd(x, y int64) int64 {
	for y != 0 {
		x, y = y, x%y
	}

	return x
}
