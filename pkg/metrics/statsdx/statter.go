package statsdx

import (
	"time"

	"code.cloudfoundry.org/permstore/pkg/logx"
	"github.com/cactus/go-statsd-client/v5/statsd"
)

const (
	alwaysSample   = 1
	failureMessage = "failed-to-send-metric"
)

type Statter struct {
	statsdClient statsd.Statter
	logger       logx.Logger
}

func NewStatter(logger logx.Logger, statsdClient statsd.Statter) *Statter {
	return &Statter{
		statsdClient: statsdClient,
		logger:       logger.WithName("statsd"),
	}
}

// NewClient connects to the statsd agent at address. Metrics are buffered
// and flushed on an interval.
func NewClient(address, prefix string) (statsd.Statter, error) {
	return statsd.NewClientWithConfig(&statsd.ClientConfig{
		Address:       address,
		Prefix:        prefix,
		UseBuffered:   true,
		FlushInterval: 300 * time.Millisecond,
	})
}

func (s *Statter) Inc(metric string, value int64) {
	if err := s.statsdClient.Inc(metric, value, alwaysSample); err != nil {
		s.logFailure(err, metric, value)
	}
}

func (s *Statter) Gauge(metric string, value int64) {
	if err := s.statsdClient.Gauge(metric, value, alwaysSample); err != nil {
		s.logFailure(err, metric, value)
	}
}

func (s *Statter) TimingDuration(metric string, value time.Duration) {
	if err := s.statsdClient.TimingDuration(metric, value, alwaysSample); err != nil {
		s.logFailure(err, metric, value)
	}
}

func (s *Statter) logFailure(err error, metric string, value interface{}) {
	s.logger.Error(failureMessage, err, logx.Data{
		Key:   "metric",
		Value: metric,
	}, logx.Data{
		Key:   "value",
		Value: value,
	})
}
