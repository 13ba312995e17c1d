package migrations

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
)

var createUserRoleTableMySQL = `
CREATE TABLE IF NOT EXISTS user_role
(
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  uuid BINARY(16) NOT NULL UNIQUE,
  user_id VARCHAR(128) NOT NULL,
  role_id BIGINT NOT NULL,
  created_by VARCHAR(64) NOT NULL DEFAULT '',
  created_at DATETIME(6) NOT NULL,
  last_modified_by VARCHAR(64) NOT NULL DEFAULT '',
  last_modified_at DATETIME(6) NOT NULL,
  deleted_id BIGINT NOT NULL DEFAULT 0,
  deleted_at DATETIME(6) NULL,
  UNIQUE INDEX unique_user_role (user_id, role_id, deleted_id),
  INDEX user_role_role_id (role_id)
)
`

var createUserRoleTableSQLite = `
CREATE TABLE IF NOT EXISTS user_role
(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  uuid BLOB NOT NULL UNIQUE,
  user_id VARCHAR(128) NOT NULL,
  role_id INTEGER NOT NULL,
  created_by VARCHAR(64) NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL,
  last_modified_by VARCHAR(64) NOT NULL DEFAULT '',
  last_modified_at DATETIME NOT NULL,
  deleted_id INTEGER NOT NULL DEFAULT 0,
  deleted_at DATETIME NULL
)
`

var createUserRoleIndexesSQLite = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS unique_user_role ON user_role (user_id, role_id, deleted_id)`,
	`CREATE INDEX IF NOT EXISTS user_role_role_id ON user_role (role_id)`,
}

var deleteUserRoleTable = `DROP TABLE user_role`

func createUserRoleTableUp(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-user-role-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	if tx.Driver() == sqlx.DBDriverMySQL {
		return execAll(ctx, tx, createUserRoleTableMySQL)
	}

	return execAll(ctx, tx, append([]string{createUserRoleTableSQLite}, createUserRoleIndexesSQLite...)...)
}

func createUserRoleTableDown(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-user-role-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, deleteUserRoleTable)

	return err
}
