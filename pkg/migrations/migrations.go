package migrations

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/sqlx"
)

var TableName = "permstore_migrations"

var Migrations = []sqlx.Migration{
	{
		Name: "create_permission_table",
		Up:   createPermissionTableUp,
		Down: createPermissionTableDown,
	},
	{
		Name: "create_role_table",
		Up:   createRoleTableUp,
		Down: createRoleTableDown,
	},
	{
		Name: "create_role_permission_table",
		Up:   createRolePermissionTableUp,
		Down: createRolePermissionTableDown,
	},
	{
		Name: "create_user_role_table",
		Up:   createUserRoleTableUp,
		Down: createUserRoleTableDown,
	},
}

// TruncateStatements empty every table created by Migrations.
var TruncateStatements = []string{
	"DELETE FROM user_role",
	"DELETE FROM role_permission",
	"DELETE FROM role",
	"DELETE FROM permission",
}

func execAll(ctx context.Context, tx *sqlx.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
