package flags_test

import (
	"os"
	"path/filepath"

	"code.cloudfoundry.org/lager/v3"
	"code.cloudfoundry.org/permstore/cmd/flags"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LagerFlag", func() {
	DescribeTable("#MinLevel",
		func(level flags.LogLevel, expected lager.LogLevel) {
			Expect(flags.LagerFlag{LogLevel: level}.MinLevel()).To(Equal(expected))
		},
		Entry("debug", flags.LogLevelDebug, lager.DEBUG),
		Entry("info", flags.LogLevelInfo, lager.INFO),
		Entry("error", flags.LogLevelError, lager.ERROR),
		Entry("fatal", flags.LogLevelFatal, lager.FATAL),
	)

	It("panics on an unknown level", func() {
		Expect(func() { flags.LagerFlag{LogLevel: "verbose"}.MinLevel() }).To(Panic())
	})

	Describe("#Logger", func() {
		It("appends logs at or above the level to the log file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "permstore.log")

			logger, err := flags.LagerFlag{LogLevel: flags.LogLevelInfo, LogFile: path}.Logger("permstore")
			Expect(err).NotTo(HaveOccurred())

			logger.Debug("some-debug-message")
			logger.WithName("migrate").Info("some-info-message")

			contents, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(contents)).To(ContainSubstring("permstore.migrate"))
			Expect(string(contents)).To(ContainSubstring("some-info-message"))
			Expect(string(contents)).NotTo(ContainSubstring("some-debug-message"))
		})

		It("fails when the log file cannot be opened", func() {
			path := filepath.Join(GinkgoT().TempDir(), "missing", "permstore.log")

			_, err := flags.LagerFlag{LogLevel: flags.LogLevelInfo, LogFile: path}.Logger("permstore")
			Expect(err).To(HaveOccurred())
		})
	})
})
