package migrations

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
)

var createRoleTableMySQL = `
CREATE TABLE IF NOT EXISTS role
(
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  uuid BINARY(16) NOT NULL UNIQUE,
  role_name VARCHAR(256) NOT NULL,
  created_by VARCHAR(64) NOT NULL DEFAULT '',
  created_at DATETIME(6) NOT NULL,
  last_modified_by VARCHAR(64) NOT NULL DEFAULT '',
  last_modified_at DATETIME(6) NOT NULL,
  deleted_id BIGINT NOT NULL DEFAULT 0,
  deleted_at DATETIME(6) NULL,
  UNIQUE INDEX unique_role_name (role_name, deleted_id)
)
`

var createRoleTableSQLite = `
CREATE TABLE IF NOT EXISTS role
(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  uuid BLOB NOT NULL UNIQUE,
  role_name VARCHAR(256) NOT NULL,
  created_by VARCHAR(64) NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL,
  last_modified_by VARCHAR(64) NOT NULL DEFAULT '',
  last_modified_at DATETIME NOT NULL,
  deleted_id INTEGER NOT NULL DEFAULT 0,
  deleted_at DATETIME NULL
)
`

var createRoleIndexesSQLite = `CREATE UNIQUE INDEX IF NOT EXISTS unique_role_name ON role (role_name, deleted_id)`

var deleteRoleTable = `DROP TABLE role`

func createRoleTableUp(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-role-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	if tx.Driver() == sqlx.DBDriverMySQL {
		return execAll(ctx, tx, createRoleTableMySQL)
	}

	return execAll(ctx, tx, createRoleTableSQLite, createRoleIndexesSQLite)
}

func createRoleTableDown(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-role-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, deleteRoleTable)

	return err
}
