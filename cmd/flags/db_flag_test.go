package flags_test

import (
	"context"
	"path/filepath"

	"code.cloudfoundry.org/lager/v3/lagertest"
	"code.cloudfoundry.org/permstore/cmd/flags"
	"code.cloudfoundry.org/permstore/pkg/cryptox"
	"code.cloudfoundry.org/permstore/pkg/ioutilx"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/logx/lagerx"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DBFlag", func() {
	var (
		ctx    context.Context
		logger logx.Logger

		flag *flags.DBFlag
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = lagerx.NewLogger(lagertest.NewTestLogger("flags"))

		flag = &flags.DBFlag{
			Driver:   sqlx.DBDriverMySQL,
			Host:     "localhost",
			Port:     1234,
			Schema:   "permstore",
			Username: "permstore-user",
			Password: "permstore-password",
		}
	})

	It("rejects unsupported drivers", func() {
		flag.Driver = "postgres"

		_, err := flag.Connect(ctx, logger)
		Expect(err).To(MatchError(sqlx.ErrUnsupportedSQLDriver))
	})

	Describe("a connection to a MySQL database", func() {
		It("requires a host", func() {
			flag.Host = ""

			_, err := flag.Connect(ctx, logger)
			Expect(err).To(MatchError("the required host parameter was not specified; see --help"))
		})

		It("requires a port", func() {
			flag.Port = 0

			_, err := flag.Connect(ctx, logger)
			Expect(err).To(MatchError("the required port parameter was not specified; see --help"))
		})

		It("requires a schema", func() {
			flag.Schema = ""

			_, err := flag.Connect(ctx, logger)
			Expect(err).To(MatchError("the required schema parameter was not specified; see --help"))
		})

		It("requires a username", func() {
			flag.Username = ""

			_, err := flag.Connect(ctx, logger)
			Expect(err).To(MatchError("the required username parameter was not specified; see --help"))
		})

		It("fails on root CAs that are not certificates", func() {
			flag.TLS.RootCAs = []ioutilx.FileOrString{"not a certificate"}

			_, err := flag.Connect(ctx, logger)
			Expect(err).To(MatchError(cryptox.ErrFailedToAppendCertToPool))
		})
	})

	Describe("a connection to a SQLite database", func() {
		BeforeEach(func() {
			flag = &flags.DBFlag{Driver: sqlx.DBDriverSQLite}
		})

		It("requires a path", func() {
			_, err := flag.Connect(ctx, logger)
			Expect(err).To(MatchError("the required path parameter was not specified; see --help"))
		})

		It("opens the database file", func() {
			flag.Path = filepath.Join(GinkgoT().TempDir(), "permstore.db")

			conn, err := flag.Connect(ctx, logger)
			Expect(err).NotTo(HaveOccurred())
			defer conn.Close()

			Expect(conn.Driver()).To(Equal(sqlx.DBDriverSQLite))
			Expect(conn.Flavor()).To(Equal(sqlx.DBFlavorSQLite))
		})
	})
})
