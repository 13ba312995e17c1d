package db

import (
	"context"
	"database/sql"
	"time"

	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
	"github.com/Masterminds/squirrel"
	uuid "github.com/satori/go.uuid"
)

var columnsRole = withAudit("role.id", "role.role_name")

func (t *storeTx) CreateRole(
	ctx context.Context,
	logger logx.Logger,
	role perm.Role,
) (perm.Role, error) {
	return createRole(ctx, logger, t.conn, role, t.now())
}

func (t *storeTx) FindRole(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindRoleQuery,
) (perm.Role, error) {
	return findRole(ctx, logger, t.conn, query)
}

func (t *storeTx) ListRoles(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListRolesQuery,
) ([]perm.Role, error) {
	if query.Empty() {
		return nil, nil
	}

	return listRoles(ctx, logger, t.conn, query)
}

func (t *storeTx) DeleteRoles(
	ctx context.Context,
	logger logx.Logger,
	operator string,
	ids ...int64,
) error {
	if len(ids) == 0 {
		return nil
	}

	logger = logger.WithName("delete-roles").WithData(logx.Data{Key: "role.ids", Value: ids})

	err := softDelete(ctx, t.conn, "role", operator, t.now(), squirrel.Eq{"role.id": ids})
	if err != nil {
		logger.Error(failedToDeleteRole, err)
		return err
	}

	return nil
}

func createRole(
	ctx context.Context,
	logger logx.Logger,
	conn squirrel.BaseRunner,
	role perm.Role,
	now time.Time,
) (perm.Role, error) {
	logger = logger.WithName("create-role").WithData(logx.Data{Key: "role.name", Value: role.RoleName})
	u := uuid.NewV4().Bytes()
	stampAudit(&role.Audit, now)

	result, err := squirrel.Insert("role").
		Columns(withAudit("uuid", "role_name")...).
		Values(u, role.RoleName, role.CreatedBy, role.CreatedAt, role.LastModifiedBy, role.LastModifiedAt).
		RunWith(conn).
		ExecContext(ctx)
	if err != nil {
		if isDuplicateKey(err) {
			logger.Debug(errRoleAlreadyExists)
			return perm.Role{}, perm.ErrRoleAlreadyExists
		}

		logger.Error(failedToCreateRole, err)
		return perm.Role{}, err
	}

	role.ID, err = result.LastInsertId()
	if err != nil {
		logger.Error(failedToRetrieveID, err)
		return perm.Role{}, err
	}

	return role, nil
}

func findRole(
	ctx context.Context,
	logger logx.Logger,
	conn squirrel.BaseRunner,
	query repos.FindRoleQuery,
) (perm.Role, error) {
	logger = logger.WithName("find-role").WithData(logx.Data{Key: "role.name", Value: query.RoleName})

	var role perm.Role
	err := squirrel.Select(columnsRole...).
		From("role").
		Where(squirrel.Eq{"role.role_name": query.RoleName}).
		Where(liveRows("role")).
		RunWith(conn).
		ScanContext(ctx, roleFields(&role)...)

	switch err {
	case nil:
		return role, nil
	case sql.ErrNoRows:
		logger.Debug(errRoleNotFound)
		return perm.Role{}, perm.ErrRoleNotFound
	default:
		logger.Error(failedToFindRole, err)
		return perm.Role{}, err
	}
}

func listRoles(
	ctx context.Context,
	logger logx.Logger,
	conn squirrel.BaseRunner,
	query repos.ListRolesQuery,
) ([]perm.Role, error) {
	logger = logger.WithName("list-roles")

	where := squirrel.Or{}
	if len(query.RoleNames) > 0 {
		where = append(where, squirrel.Eq{"role.role_name": query.RoleNames})
	}
	for _, prefix := range query.RoleNamePrefixes {
		where = append(where, squirrel.Like{"role.role_name": prefix + "%"})
	}

	rows, err := squirrel.Select(columnsRole...).
		From("role").
		Where(where).
		Where(liveRows("role")).
		OrderBy("role.id").
		RunWith(conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToListRoles, err)
		return nil, err
	}
	defer rows.Close()

	var roles []perm.Role
	for rows.Next() {
		var role perm.Role
		if err = rows.Scan(roleFields(&role)...); err != nil {
			logger.Error(failedToScanRow, err)
			return nil, err
		}

		// LIKE is looser than a prefix match
		if query.Matches(role.RoleName) {
			roles = append(roles, role)
		}
	}

	if err = rows.Err(); err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	return roles, nil
}

func roleFields(r *perm.Role) []interface{} {
	return append([]interface{}{&r.ID, &r.RoleName}, auditFields(&r.Audit)...)
}
