package testsqlx

import (
	"context"

	"code.cloudfoundry.org/lager/v3/lagertest"
	"code.cloudfoundry.org/permstore/pkg/logx/lagerx"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
)

const MigrationsTableName = "migrations"

type TestDB interface {
	Create(migrations ...sqlx.Migration) error
	Connect() (*sqlx.DB, error)
	Truncate(truncateStmts ...string) error
	Drop() error
}

func applyMigrations(conn *sqlx.DB, migrations []sqlx.Migration) error {
	logger := lagerx.NewLogger(lagertest.NewTestLogger("test-db"))

	return sqlx.ApplyMigrations(context.Background(), logger, conn, MigrationsTableName, migrations)
}

func truncate(db TestDB, truncateStmts ...string) error {
	conn, err := db.Connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, stmt := range truncateStmts {
		if _, err = conn.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
