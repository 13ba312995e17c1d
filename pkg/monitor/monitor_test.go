package monitor_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/v3/lagertest"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/logx/lagerx"
	"code.cloudfoundry.org/permstore/pkg/metrics/testmetrics"
	. "code.cloudfoundry.org/permstore/pkg/monitor"
	"code.cloudfoundry.org/permstore/pkg/probe"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeProber struct {
	err   error
	calls int32
}

func (p *fakeProber) Run(context.Context, logx.Logger) error {
	atomic.AddInt32(&p.calls, 1)
	return p.err
}

func (p *fakeProber) Calls() int {
	return int(atomic.LoadInt32(&p.calls))
}

var _ = Describe("Monitor", func() {
	var (
		prober    *fakeProber
		statter   *testmetrics.Statter
		fakeClock *fakeclock.FakeClock
		logger    logx.Logger

		subject *Monitor
	)

	BeforeEach(func() {
		prober = &fakeProber{}
		statter = testmetrics.NewStatter()
		fakeClock = fakeclock.NewFakeClock(time.Now())
		logger = lagerx.NewLogger(lagertest.NewTestLogger("monitor"))

		histogram := NewHistogram(HistogramOptions{
			Name:        MetricProbeTiming,
			Quantiles:   []float64{99},
			MaxDuration: time.Second,
		})
		subject = NewMonitor(prober, histogram, statter, fakeClock)
	})

	Describe("#RunOnce", func() {
		It("reports a correct run", func() {
			Expect(subject.RunOnce(context.Background(), logger)).To(Succeed())

			Expect(statter.GaugeCalls()).To(ContainElements(
				testmetrics.GaugeCall{Metric: MetricProbeRunsSuccess, Value: MetricSuccess},
				testmetrics.GaugeCall{Metric: MetricProbeRunsCorrect, Value: MetricSuccess},
				testmetrics.GaugeCall{Metric: "probe.responses.timing.max", Value: 0},
				testmetrics.GaugeCall{Metric: "probe.responses.timing.p99", Value: 0},
			))
		})

		It("reports an incorrect run", func() {
			prober.err = probe.ErrIncorrectHasPermission

			Expect(subject.RunOnce(context.Background(), logger)).To(MatchError(probe.ErrIncorrectHasPermission))

			Expect(statter.GaugeCalls()).To(ContainElements(
				testmetrics.GaugeCall{Metric: MetricProbeRunsSuccess, Value: MetricFailure},
				testmetrics.GaugeCall{Metric: MetricProbeRunsCorrect, Value: MetricFailure},
			))
		})

		It("reports a failed run without judging correctness", func() {
			prober.err = errors.New("database unavailable")

			Expect(subject.RunOnce(context.Background(), logger)).To(MatchError("database unavailable"))

			Expect(statter.GaugeCalls()).To(ContainElement(
				testmetrics.GaugeCall{Metric: MetricProbeRunsSuccess, Value: MetricFailure},
			))
			for _, call := range statter.GaugeCalls() {
				Expect(call.Metric).NotTo(Equal(MetricProbeRunsCorrect))
			}
		})
	})

	Describe("#Run", func() {
		It("probes on every tick until cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})

			go func() {
				defer GinkgoRecover()
				defer close(done)

				subject.Run(ctx, logger, time.Minute)
			}()

			Eventually(prober.Calls).Should(Equal(1))

			fakeClock.WaitForWatcherAndIncrement(time.Minute)
			Eventually(prober.Calls).Should(Equal(2))

			cancel()
			Eventually(done).Should(BeClosed())
		})
	})
})
