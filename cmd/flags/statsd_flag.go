package flags

import (
	"io"
	"net"
	"strconv"

	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/metrics"
	"code.cloudfoundry.org/permstore/pkg/metrics/statsdx"
)

type StatsDFlag struct {
	Hostname string `long:"hostname" description:"Hostname of the StatsD server; metrics are discarded when unset"`
	Port     int    `long:"port" description:"Port of the StatsD server" default:"8125"`
	Prefix   string `long:"prefix" description:"Prefix added to every metric" default:"permstore"`
}

func (f StatsDFlag) Address() string {
	return net.JoinHostPort(f.Hostname, strconv.Itoa(f.Port))
}

// Statter returns the statter and a closer that flushes it.
func (f StatsDFlag) Statter(logger logx.Logger) (metrics.Statter, io.Closer, error) {
	if f.Hostname == "" {
		return metrics.Discard, nopCloser{}, nil
	}

	client, err := statsdx.NewClient(f.Address(), f.Prefix)
	if err != nil {
		logger.Error(failedToConnectToStatsD, err, logx.Data{Key: "addr", Value: f.Address()})
		return nil, nil, err
	}

	return statsdx.NewStatter(logger, client), client, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
