package db_test

import (
	"context"
	"database/sql"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/v3/lagertest"
	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/api/repos/db"
	. "code.cloudfoundry.org/permstore/pkg/api/repos/reposbehaviors"
	"code.cloudfoundry.org/permstore/pkg/logx/lagerx"
	"code.cloudfoundry.org/permstore/pkg/migrations"
	"code.cloudfoundry.org/permstore/pkg/perm"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
	"code.cloudfoundry.org/permstore/pkg/sqlx/testsqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func describeStore(name string, testDB func() testsqlx.TestDB) {
	Describe("Store on "+name, func() {
		var (
			store *db.Store
			conn  *sqlx.DB
			clock *fakeclock.FakeClock
		)

		BeforeEach(func() {
			if testDB() == nil {
				Skip(name + " is not configured")
			}

			var err error
			conn, err = testDB().Connect()
			Expect(err).NotTo(HaveOccurred())

			clock = fakeclock.NewFakeClock(time.Date(2018, 6, 1, 12, 0, 0, 0, time.UTC))
			store = db.NewStore(conn, clock)
		})

		AfterEach(func() {
			if conn == nil {
				return
			}
			Expect(conn.Close()).To(Succeed())
			Expect(testDB().Truncate(migrations.TruncateStatements...)).To(Succeed())
			conn = nil
		})

		BehavesLikeAStore(func() repos.Store { return store })

		It("keeps deleted rows attributed to the operator", func() {
			ctx := context.Background()
			logger := lagerx.NewLogger(lagertest.NewTestLogger("perm-test"))

			var role perm.Role
			err := store.Transact(ctx, logger, func(tx repos.Tx) (err error) {
				role, err = tx.CreateRole(ctx, logger, perm.Role{
					RoleName: "Master+someApp",
					Audit:    perm.Audit{CreatedBy: "creator"},
				})
				return
			})
			Expect(err).NotTo(HaveOccurred())

			clock.Increment(time.Minute)

			err = store.Transact(ctx, logger, func(tx repos.Tx) error {
				return tx.DeleteRoles(ctx, logger, "deleter", role.ID)
			})
			Expect(err).NotTo(HaveOccurred())

			var (
				createdBy      string
				lastModifiedBy string
				lastModifiedAt time.Time
				deletedID      int64
				deletedAt      sql.NullTime
			)
			err = conn.QueryRow(
				`SELECT created_by, last_modified_by, last_modified_at, deleted_id, deleted_at FROM role WHERE id = ?`,
				role.ID,
			).Scan(&createdBy, &lastModifiedBy, &lastModifiedAt, &deletedID, &deletedAt)
			Expect(err).NotTo(HaveOccurred())

			Expect(createdBy).To(Equal("creator"))
			Expect(lastModifiedBy).To(Equal("deleter"))
			Expect(lastModifiedAt).To(BeTemporally("==", clock.Now()))
			Expect(deletedID).To(Equal(role.ID))
			Expect(deletedAt.Valid).To(BeTrue())
			Expect(deletedAt.Time).To(BeTemporally("==", clock.Now()))
		})
	})
}

var _ = Describe("db", func() {
	describeStore("sqlite", func() testsqlx.TestDB { return sqliteDB })
	describeStore("mysql", func() testsqlx.TestDB {
		if mysqlDB == nil {
			return nil
		}
		return mysqlDB
	})
})
