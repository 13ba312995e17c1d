package db

import (
	"context"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
	"github.com/Masterminds/squirrel"
)

var columnsAudit = []string{"created_by", "created_at", "last_modified_by", "last_modified_at"}

// liveRows excludes soft-deleted rows. A deleted row carries its own id in
// deleted_id so it never collides with a live row on the unique indexes.
func liveRows(table string) squirrel.Eq {
	return squirrel.Eq{table + ".deleted_id": 0}
}

type Store struct {
	conn  *sqlx.DB
	clock clock.Clock
}

func NewStore(conn *sqlx.DB, clock clock.Clock) *Store {
	return &Store{
		conn:  conn,
		clock: clock,
	}
}

func (s *Store) Transact(
	ctx context.Context,
	logger logx.Logger,
	fn func(repos.Tx) error,
) (err error) {
	logger = logger.WithName("data-service")

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		logger.Error(failedToStartTransaction, err)
		return err
	}

	defer func() {
		err = sqlx.Commit(logger, tx, err)
	}()

	err = fn(&storeTx{conn: tx, clock: s.clock})

	return err
}

type storeTx struct {
	conn  squirrel.BaseRunner
	clock clock.Clock
}

func (t *storeTx) now() time.Time {
	return t.clock.Now().UTC().Truncate(time.Microsecond)
}

func softDelete(
	ctx context.Context,
	conn squirrel.BaseRunner,
	table string,
	operator string,
	now time.Time,
	where squirrel.Sqlizer,
) error {
	_, err := squirrel.Update(table).
		Set("deleted_id", squirrel.Expr("id")).
		Set("deleted_at", now).
		Set("last_modified_by", operator).
		Set("last_modified_at", now).
		Where(where).
		Where(liveRows(table)).
		RunWith(conn).
		ExecContext(ctx)

	return err
}

func withAudit(columns ...string) []string {
	return append(columns, columnsAudit...)
}

func stampAudit(a *perm.Audit, now time.Time) {
	if a.LastModifiedBy == "" {
		a.LastModifiedBy = a.CreatedBy
	}
	a.CreatedAt = now
	a.LastModifiedAt = now
}
