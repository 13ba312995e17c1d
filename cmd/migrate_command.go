package cmd

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/migrations"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
)

type MigrateCommand struct {
	ConnectionFlags
}

func (cmd MigrateCommand) Execute([]string) error {
	ctx := context.Background()

	logger, conn, err := cmd.connect(ctx, "migrate")
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info(starting)
	if err = sqlx.ApplyMigrations(ctx, logger, conn, migrations.TableName, migrations.Migrations); err != nil {
		logger.Error(failedToApplyMigrations, err)
		return err
	}
	logger.Info(finished)

	return nil
}

type RollbackCommand struct {
	ConnectionFlags

	All bool `long:"all" description:"Roll back every applied migration instead of only the latest"`
}

func (cmd RollbackCommand) Execute([]string) error {
	ctx := context.Background()

	logger, conn, err := cmd.connect(ctx, "rollback")
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info(starting)
	if err = sqlx.RollbackMigrations(ctx, logger, conn, migrations.TableName, migrations.Migrations, cmd.All); err != nil {
		logger.Error(failedToRollbackMigrations, err)
		return err
	}
	logger.Info(finished)

	return nil
}
