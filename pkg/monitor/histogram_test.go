package monitor_test

import (
	"time"

	. "code.cloudfoundry.org/permstore/pkg/monitor"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Histogram", func() {
	var opts HistogramOptions

	BeforeEach(func() {
		opts = HistogramOptions{
			Name:        "probe.timing",
			MaxDuration: time.Second,
		}
	})

	DescribeTable("samples kept before rotating",
		func(quantiles []float64, expected int64) {
			opts.Quantiles = quantiles
			Expect(NewHistogram(opts).CountBeforeRotation()).To(Equal(expected))
		},
		Entry("no quantiles", nil, int64(1)),
		Entry("p50", []float64{50}, int64(2)),
		Entry("p25", []float64{25}, int64(4)),
		Entry("p75", []float64{75}, int64(4)),
		Entry("p90", []float64{90}, int64(10)),
		Entry("p95", []float64{95}, int64(20)),
		Entry("p99", []float64{99}, int64(100)),
		Entry("p99.9", []float64{99.9}, int64(1000)),
		Entry("the finest of several", []float64{95, 99, 10, 50}, int64(100)),
	)

	Describe("#Collect", func() {
		It("names the max and every quantile", func() {
			opts.Quantiles = []float64{90, 99.9}
			subject := NewHistogram(opts)

			Expect(subject.Observe(200 * time.Millisecond)).To(Succeed())

			values := subject.Collect()
			Expect(values).To(HaveLen(3))
			Expect(values).To(HaveKey("probe.timing.max"))
			Expect(values).To(HaveKey("probe.timing.p90"))
			Expect(values).To(HaveKey("probe.timing.p999"))
			Expect(values["probe.timing.max"]).To(BeNumerically(">=", 200))
		})

		It("is zero before any observation", func() {
			Expect(NewHistogram(opts).Collect()).To(Equal(map[string]int64{"probe.timing.max": 0}))
		})
	})

	Describe("#Observe", func() {
		It("fails on durations beyond the max", func() {
			Expect(NewHistogram(opts).Observe(time.Hour)).To(HaveOccurred())
		})

		It("forgets the oldest window once two newer windows fill", func() {
			opts.Quantiles = []float64{50}
			subject := NewHistogram(opts)

			Expect(subject.Observe(900 * time.Millisecond)).To(Succeed())
			Expect(subject.Observe(900 * time.Millisecond)).To(Succeed())
			Expect(subject.Observe(10 * time.Millisecond)).To(Succeed())
			Expect(subject.Collect()["probe.timing.max"]).To(BeNumerically(">=", 900))

			Expect(subject.Observe(10 * time.Millisecond)).To(Succeed())
			Expect(subject.Observe(10 * time.Millisecond)).To(Succeed())
			Expect(subject.Collect()["probe.timing.max"]).To(BeNumerically("<", 100))
		})
	})
})
