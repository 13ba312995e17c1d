package cmd

const (
	starting = "starting"
	finished = "finished"

	failedToApplyMigrations    = "failed-to-apply-migrations"
	failedToRollbackMigrations = "failed-to-rollback-migrations"
	failedToVerifyMigrations   = "failed-to-verify-migrations"
	failedToCloseStatter       = "failed-to-close-statter"
)
