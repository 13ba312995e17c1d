package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"code.cloudfoundry.org/clock"
	cmdflags "code.cloudfoundry.org/permstore/cmd/flags"
	"code.cloudfoundry.org/permstore/pkg/api/repos/db"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/metrics"
	"code.cloudfoundry.org/permstore/pkg/migrations"
	"code.cloudfoundry.org/permstore/pkg/rolepermission"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
)

const component = "permstore"

type ConnectionFlags struct {
	Logger cmdflags.LagerFlag
	DB     cmdflags.DBFlag `group:"DB" namespace:"db"`
}

func (f ConnectionFlags) connect(ctx context.Context, name string) (logx.Logger, *sqlx.DB, error) {
	logger, err := f.Logger.Logger(component)
	if err != nil {
		return nil, nil, err
	}
	logger = logger.WithName(name)

	conn, err := f.DB.Connect(ctx, logger)
	if err != nil {
		return nil, nil, err
	}

	return logger, conn, nil
}

type ServiceFlags struct {
	ConnectionFlags

	StatsD      cmdflags.StatsDFlag `group:"StatsD" namespace:"statsd"`
	SuperAdmins []string            `long:"super-admin" description:"User id that holds every permission; may be repeated"`

	Out io.Writer
}

type serviceRun struct {
	ctx     context.Context
	logger  logx.Logger
	service *rolepermission.Service
	statter metrics.Statter
}

// withService opens the database, refuses to continue unless every
// migration is applied, and hands fn a service backed by the SQL store.
func (f ServiceFlags) withService(name string, fn func(serviceRun) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, conn, err := f.connect(ctx, name)
	if err != nil {
		return err
	}
	defer conn.Close()

	applied, err := sqlx.VerifyAppliedMigrations(ctx, logger, conn, migrations.TableName, migrations.Migrations)
	if err != nil {
		logger.Error(failedToVerifyMigrations, err)
		return err
	}
	if !applied {
		logger.Error(failedToVerifyMigrations, sqlx.ErrMigrationsOutOfSync)
		return sqlx.ErrMigrationsOutOfSync
	}

	statter, closer, err := f.StatsD.Statter(logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closer.Close(); closeErr != nil {
			logger.Error(failedToCloseStatter, closeErr)
		}
	}()

	service := rolepermission.NewService(logger, db.NewStore(conn, clock.NewClock()),
		rolepermission.WithStatter(statter),
		rolepermission.WithSuperAdmins(f.SuperAdmins...),
	)

	return fn(serviceRun{
		ctx:     ctx,
		logger:  logger,
		service: service,
		statter: statter,
	})
}

func (f ServiceFlags) writeJSON(v interface{}) error {
	out := f.Out
	if out == nil {
		out = os.Stdout
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
