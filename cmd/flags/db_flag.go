package flags

import (
	"context"
	"time"

	"code.cloudfoundry.org/permstore/pkg/cryptox"
	"code.cloudfoundry.org/permstore/pkg/ioutilx"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
)

type DBFlag struct {
	Driver   sqlx.DBDriver `long:"driver" description:"Database driver to use for the SQL backend" choice:"mysql" choice:"sqlite3" default:"mysql"`
	Host     string        `long:"host" description:"Host for SQL backend"`
	Port     int           `long:"port" description:"Port for SQL backend"`
	Schema   string        `long:"schema" description:"Database name to use for connecting to SQL backend"`
	Username string        `long:"username" description:"Username to use for connecting to SQL backend"`
	Password string        `long:"password" description:"Password to use for connecting to SQL backend"`
	Path     string        `long:"path" description:"Database file used by the sqlite3 driver"`

	TLS    SQLTLSFlag    `group:"TLS" namespace:"tls"`
	Tuning SQLTuningFlag `group:"Tuning" namespace:"tuning"`
}

type SQLTLSFlag struct {
	RootCAs []ioutilx.FileOrString `long:"root-ca" description:"CA certificate(s) for TLS connection to the SQL backend"`
}

type SQLTuningFlag struct {
	ConnMaxLifetime int `long:"connection-max-lifetime" description:"Limit the lifetime in milliseconds of a SQL connection"`
}

func (o *DBFlag) Connect(ctx context.Context, logger logx.Logger) (*sqlx.DB, error) {
	logger = logger.WithData(
		logx.Data{Key: "db_driver", Value: o.Driver},
		logx.Data{Key: "db_host", Value: o.Host},
		logx.Data{Key: "db_port", Value: o.Port},
		logx.Data{Key: "db_schema", Value: o.Schema},
		logx.Data{Key: "db_username", Value: o.Username},
		logx.Data{Key: "db_path", Value: o.Path},
	)

	if err := o.validate(); err != nil {
		return nil, err
	}

	var dbOpts []sqlx.DBOption
	switch o.Driver {
	case sqlx.DBDriverSQLite:
		dbOpts = append(dbOpts, sqlx.DBFilePath(o.Path))
	default:
		dbOpts = append(dbOpts,
			sqlx.DBUsername(o.Username),
			sqlx.DBPassword(o.Password),
			sqlx.DBDatabaseName(o.Schema),
			sqlx.DBHost(o.Host),
			sqlx.DBPort(o.Port),
		)
	}
	dbOpts = append(dbOpts, sqlx.DBConnectionMaxLifetime(time.Duration(o.Tuning.ConnMaxLifetime)*time.Millisecond))

	if len(o.TLS.RootCAs) != 0 {
		tlsLogger := logger.WithName("create-sql-root-ca-pool")

		var certs [][]byte
		for _, cert := range o.TLS.RootCAs {
			b, bErr := cert.Bytes(ioutilx.OS, ioutilx.IOReader)
			if bErr != nil {
				tlsLogger.Error(failedToReadFile, bErr)
				return nil, bErr
			}

			certs = append(certs, b)
		}

		rootCAPool, err := cryptox.NewCertPool(certs...)
		if err != nil {
			tlsLogger.Error(failedToParseTLSCredentials, err)
			return nil, err
		}

		dbOpts = append(dbOpts, sqlx.DBRootCAPool(rootCAPool))
	}

	conn, err := sqlx.Connect(o.Driver, dbOpts...)
	if err != nil {
		logger.Error(failedToOpenSQLConnection, err)
		return nil, err
	}

	return conn, nil
}

func (o *DBFlag) validate() error {
	switch o.Driver {
	case sqlx.DBDriverMySQL:
		switch {
		case o.Host == "":
			return ErrMissingParameter("host")
		case o.Port == 0:
			return ErrMissingParameter("port")
		case o.Schema == "":
			return ErrMissingParameter("schema")
		case o.Username == "":
			return ErrMissingParameter("username")
		}
	case sqlx.DBDriverSQLite:
		if o.Path == "" {
			return ErrMissingParameter("path")
		}
	default:
		return sqlx.ErrUnsupportedSQLDriver
	}

	return nil
}
