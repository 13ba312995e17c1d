package probe

import (
	"time"

	"code.cloudfoundry.org/clock"
)

const (
	DefaultTimeout        = time.Second
	DefaultCleanupTimeout = time.Second * 10
	DefaultMaxLatency     = time.Millisecond * 100
)

type Option func(*options)

// WithTimeout bounds each call the probe makes.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

func WithCleanupTimeout(cleanupTimeout time.Duration) Option {
	return func(o *options) {
		o.cleanupTimeout = cleanupTimeout
	}
}

// WithMaxLatency sets the duration above which a successful call still
// fails the run.
func WithMaxLatency(latency time.Duration) Option {
	return func(o *options) {
		o.maxLatency = latency
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func WithRecorder(recorder DurationRecorder) Option {
	return func(o *options) {
		o.recorder = recorder
	}
}

type options struct {
	timeout        time.Duration
	cleanupTimeout time.Duration
	maxLatency     time.Duration
	clock          clock.Clock
	recorder       DurationRecorder
}

func defaultOptions() *options {
	return &options{
		timeout:        DefaultTimeout,
		cleanupTimeout: DefaultCleanupTimeout,
		maxLatency:     DefaultMaxLatency,
		clock:          clock.NewClock(),
		recorder:       discardRecorder{},
	}
}

type discardRecorder struct{}

func (discardRecorder) Observe(time.Duration) error { return nil }
