package sqlx

import "errors"

var (
	ErrUnsupportedSQLDriver        = errors.New("unsupported sql driver")
	ErrFailedToEstablishConnection = errors.New("failed to establish connection")
	ErrMissingDatabaseFile         = errors.New("sqlite3 driver requires a database file path")

	ErrMigrationsOutOfSync = errors.New("migrations out of sync: not all migrations applied")
)
