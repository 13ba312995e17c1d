package db

import (
	"context"
	"time"

	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
	"github.com/Masterminds/squirrel"
	uuid "github.com/satori/go.uuid"
)

var columnsRolePermission = withAudit("role_permission.id", "role_permission.role_id", "role_permission.permission_id")

func (t *storeTx) CreateRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	rolePermissions ...perm.RolePermission,
) ([]perm.RolePermission, error) {
	now := t.now()

	var created []perm.RolePermission
	for _, rp := range rolePermissions {
		c, err := createRolePermission(ctx, logger, t.conn, rp, now)
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}

	return created, nil
}

func (t *storeTx) ListRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	query repos.RolePermissionQuery,
) ([]perm.RolePermission, error) {
	if query.Empty() {
		return nil, nil
	}

	return listRolePermissions(ctx, logger, t.conn, query)
}

func (t *storeTx) DeleteRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	operator string,
	query repos.RolePermissionQuery,
) error {
	if query.Empty() {
		return nil
	}

	logger = logger.WithName("delete-role-permissions").WithData(
		logx.Data{Key: "role.ids", Value: query.RoleIDs},
		logx.Data{Key: "permission.ids", Value: query.PermissionIDs},
	)

	err := softDelete(ctx, t.conn, "role_permission", operator, t.now(), rolePermissionFilter(query))
	if err != nil {
		logger.Error(failedToDeleteRolePermission, err)
		return err
	}

	return nil
}

func createRolePermission(
	ctx context.Context,
	logger logx.Logger,
	conn squirrel.BaseRunner,
	rp perm.RolePermission,
	now time.Time,
) (perm.RolePermission, error) {
	logger = logger.WithName("create-role-permission").WithData(
		logx.Data{Key: "role.id", Value: rp.RoleID},
		logx.Data{Key: "permission.id", Value: rp.PermissionID},
	)
	u := uuid.NewV4().Bytes()
	stampAudit(&rp.Audit, now)

	result, err := squirrel.Insert("role_permission").
		Columns(withAudit("uuid", "role_id", "permission_id")...).
		Values(u, rp.RoleID, rp.PermissionID, rp.CreatedBy, rp.CreatedAt, rp.LastModifiedBy, rp.LastModifiedAt).
		RunWith(conn).
		ExecContext(ctx)
	if err != nil {
		if isDuplicateKey(err) {
			logger.Debug(errRolePermissionAlreadyExists)
			return perm.RolePermission{}, perm.ErrRolePermissionAlreadyExists
		}

		logger.Error(failedToCreateRolePermission, err)
		return perm.RolePermission{}, err
	}

	rp.ID, err = result.LastInsertId()
	if err != nil {
		logger.Error(failedToRetrieveID, err)
		return perm.RolePermission{}, err
	}

	return rp, nil
}

func listRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	conn squirrel.BaseRunner,
	query repos.RolePermissionQuery,
) ([]perm.RolePermission, error) {
	logger = logger.WithName("list-role-permissions")

	rows, err := squirrel.Select(columnsRolePermission...).
		From("role_permission").
		Where(rolePermissionFilter(query)).
		Where(liveRows("role_permission")).
		OrderBy("role_permission.id").
		RunWith(conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToListRolePermissions, err)
		return nil, err
	}
	defer rows.Close()

	var rolePermissions []perm.RolePermission
	for rows.Next() {
		var rp perm.RolePermission
		err = rows.Scan(append([]interface{}{&rp.ID, &rp.RoleID, &rp.PermissionID}, auditFields(&rp.Audit)...)...)
		if err != nil {
			logger.Error(failedToScanRow, err)
			return nil, err
		}
		rolePermissions = append(rolePermissions, rp)
	}

	if err = rows.Err(); err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	return rolePermissions, nil
}

func rolePermissionFilter(query repos.RolePermissionQuery) squirrel.Eq {
	where := squirrel.Eq{}
	if len(query.RoleIDs) > 0 {
		where["role_permission.role_id"] = query.RoleIDs
	}
	if len(query.PermissionIDs) > 0 {
		where["role_permission.permission_id"] = query.PermissionIDs
	}

	return where
}
