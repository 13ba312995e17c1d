package ioutilx_test

import (
	"os"
	"path/filepath"

	. "code.cloudfoundry.org/permstore/pkg/ioutilx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ioutilx", func() {
	Describe("#OpenLogFile", func() {
		var logFilePath string

		BeforeEach(func() {
			logFilePath = filepath.Join(GinkgoT().TempDir(), "permstore.log")
		})

		It("creates a non-existent log file", func() {
			file, err := OpenLogFile(logFilePath)
			Expect(err).NotTo(HaveOccurred())
			defer file.Close()

			fileInfo, err := os.Stat(logFilePath)
			Expect(err).NotTo(HaveOccurred())
			Expect(fileInfo.Mode()).To(Equal(os.FileMode(0600)))
			Expect(fileInfo.Name()).To(Equal("permstore.log"))
		})

		It("appends to an existing log file", func() {
			Expect(os.WriteFile(logFilePath, []byte("logline1\nlogline2\n"), 0600)).To(Succeed())

			logFile, err := OpenLogFile(logFilePath)
			Expect(err).NotTo(HaveOccurred())
			_, err = logFile.Write([]byte("logline3\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(logFile.Close()).To(Succeed())

			contents, err := os.ReadFile(logFilePath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(contents)).To(Equal("logline1\nlogline2\nlogline3\n"))
		})

		It("fails when the directory does not exist", func() {
			_, err := OpenLogFile(filepath.Join(GinkgoT().TempDir(), "missing", "permstore.log"))
			Expect(err).To(MatchError(ContainSubstring("no such file or directory")))
		})
	})
})
