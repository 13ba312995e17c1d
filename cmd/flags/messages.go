package flags

const (
	failedToParseTLSCredentials = "failed-to-parse-tls-credentials"

	failedToOpenSQLConnection = "failed-to-open-sql-connection"

	failedToReadFile = "failed-to-read-file"

	failedToOpenLogFile     = "failed-to-open-log-file"
	failedToConnectToStatsD = "failed-to-connect-to-statsd"
)
