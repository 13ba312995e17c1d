package lagerx_test

import (
	"errors"

	"code.cloudfoundry.org/lager/v3"
	"code.cloudfoundry.org/lager/v3/lagertest"
	"code.cloudfoundry.org/permstore/pkg/logx"
	. "code.cloudfoundry.org/permstore/pkg/logx/lagerx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	var (
		testLogger *lagertest.TestLogger
		subject    logx.Logger
	)

	BeforeEach(func() {
		testLogger = lagertest.NewTestLogger("lagerx")
		subject = NewLogger(testLogger)
	})

	It("nests sessions with WithName", func() {
		subject.WithName("create-role").Info("starting")

		logs := testLogger.Logs()
		Expect(logs).To(HaveLen(1))
		Expect(logs[0].Message).To(Equal("lagerx.create-role.starting"))
		Expect(logs[0].LogLevel).To(Equal(lager.INFO))
	})

	It("carries data attached with WithData", func() {
		subject.WithData(logx.Data{Key: "role.name", Value: "Master+app"}).
			Debug("success", logx.Data{Key: "count", Value: 2})

		logs := testLogger.Logs()
		Expect(logs).To(HaveLen(1))
		Expect(logs[0].Data).To(HaveKeyWithValue("role.name", "Master+app"))
		Expect(logs[0].Data).To(HaveKeyWithValue("count", BeNumerically("==", 2)))
	})

	It("records the error", func() {
		subject.Error("failed-to-create-role", errors.New("boom"))

		logs := testLogger.Logs()
		Expect(logs).To(HaveLen(1))
		Expect(logs[0].LogLevel).To(Equal(lager.ERROR))
		Expect(logs[0].Data).To(HaveKeyWithValue("error", "boom"))
	})
})
