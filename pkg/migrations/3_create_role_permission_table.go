package migrations

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
)

var createRolePermissionTableMySQL = `
CREATE TABLE IF NOT EXISTS role_permission
(
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  uuid BINARY(16) NOT NULL UNIQUE,
  role_id BIGINT NOT NULL,
  permission_id BIGINT NOT NULL,
  created_by VARCHAR(64) NOT NULL DEFAULT '',
  created_at DATETIME(6) NOT NULL,
  last_modified_by VARCHAR(64) NOT NULL DEFAULT '',
  last_modified_at DATETIME(6) NOT NULL,
  deleted_id BIGINT NOT NULL DEFAULT 0,
  deleted_at DATETIME(6) NULL,
  UNIQUE INDEX unique_role_permission (role_id, permission_id, deleted_id),
  INDEX role_permission_permission_id (permission_id)
)
`

var createRolePermissionTableSQLite = `
CREATE TABLE IF NOT EXISTS role_permission
(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  uuid BLOB NOT NULL UNIQUE,
  role_id INTEGER NOT NULL,
  permission_id INTEGER NOT NULL,
  created_by VARCHAR(64) NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL,
  last_modified_by VARCHAR(64) NOT NULL DEFAULT '',
  last_modified_at DATETIME NOT NULL,
  deleted_id INTEGER NOT NULL DEFAULT 0,
  deleted_at DATETIME NULL
)
`

var createRolePermissionIndexesSQLite = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS unique_role_permission ON role_permission (role_id, permission_id, deleted_id)`,
	`CREATE INDEX IF NOT EXISTS role_permission_permission_id ON role_permission (permission_id)`,
}

var deleteRolePermissionTable = `DROP TABLE role_permission`

func createRolePermissionTableUp(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-role-permission-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	if tx.Driver() == sqlx.DBDriverMySQL {
		return execAll(ctx, tx, createRolePermissionTableMySQL)
	}

	return execAll(ctx, tx, append([]string{createRolePermissionTableSQLite}, createRolePermissionIndexesSQLite...)...)
}

func createRolePermissionTableDown(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-role-permission-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, deleteRolePermissionTable)

	return err
}
