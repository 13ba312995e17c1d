package migrations

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
)

var createPermissionTableMySQL = `
CREATE TABLE IF NOT EXISTS permission
(
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  uuid BINARY(16) NOT NULL UNIQUE,
  permission_type VARCHAR(32) NOT NULL,
  target_id VARCHAR(256) NOT NULL,
  created_by VARCHAR(64) NOT NULL DEFAULT '',
  created_at DATETIME(6) NOT NULL,
  last_modified_by VARCHAR(64) NOT NULL DEFAULT '',
  last_modified_at DATETIME(6) NOT NULL,
  deleted_id BIGINT NOT NULL DEFAULT 0,
  deleted_at DATETIME(6) NULL,
  UNIQUE INDEX unique_permission (permission_type, target_id, deleted_id),
  INDEX permission_target_id (target_id)
)
`

var createPermissionTableSQLite = `
CREATE TABLE IF NOT EXISTS permission
(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  uuid BLOB NOT NULL UNIQUE,
  permission_type VARCHAR(32) NOT NULL,
  target_id VARCHAR(256) NOT NULL,
  created_by VARCHAR(64) NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL,
  last_modified_by VARCHAR(64) NOT NULL DEFAULT '',
  last_modified_at DATETIME NOT NULL,
  deleted_id INTEGER NOT NULL DEFAULT 0,
  deleted_at DATETIME NULL
)
`

var createPermissionIndexesSQLite = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS unique_permission ON permission (permission_type, target_id, deleted_id)`,
	`CREATE INDEX IF NOT EXISTS permission_target_id ON permission (target_id)`,
}

var deletePermissionTable = `DROP TABLE permission`

func createPermissionTableUp(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-permission-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	if tx.Driver() == sqlx.DBDriverMySQL {
		return execAll(ctx, tx, createPermissionTableMySQL)
	}

	return execAll(ctx, tx, append([]string{createPermissionTableSQLite}, createPermissionIndexesSQLite...)...)
}

func createPermissionTableDown(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-permission-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, deletePermissionTable)

	return err
}
