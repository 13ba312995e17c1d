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

var columnsPermission = withAudit("permission.id", "permission.permission_type", "permission.target_id")

func (t *storeTx) CreatePermissions(
	ctx context.Context,
	logger logx.Logger,
	permissions ...perm.Permission,
) ([]perm.Permission, error) {
	now := t.now()

	var created []perm.Permission
	for _, p := range permissions {
		c, err := createPermission(ctx, logger, t.conn, p, now)
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}

	return created, nil
}

func (t *storeTx) FindPermission(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindPermissionQuery,
) (perm.Permission, error) {
	return findPermission(ctx, logger, t.conn, query)
}

func (t *storeTx) ListPermissionsByID(
	ctx context.Context,
	logger logx.Logger,
	ids ...int64,
) ([]perm.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	return listPermissions(ctx, logger.WithName("list-permissions-by-id"), t.conn, squirrel.Eq{"permission.id": ids}, nil)
}

func (t *storeTx) ListPermissionsByTarget(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListPermissionsByTargetQuery,
) ([]perm.Permission, error) {
	if query.Empty() {
		return nil, nil
	}

	where := squirrel.Or{}
	if len(query.TargetIDs) > 0 {
		where = append(where, squirrel.Eq{"permission.target_id": query.TargetIDs})
	}
	for _, prefix := range query.TargetIDPrefixes {
		where = append(where, squirrel.Like{"permission.target_id": prefix + "%"})
	}

	logger = logger.WithName("list-permissions-by-target")

	// LIKE treats wildcards in the prefix and letter case loosely; the exact
	// match is applied to the candidates.
	return listPermissions(ctx, logger, t.conn, where, func(p perm.Permission) bool {
		return query.Matches(p.TargetID)
	})
}

func (t *storeTx) DeletePermissions(
	ctx context.Context,
	logger logx.Logger,
	operator string,
	ids ...int64,
) error {
	if len(ids) == 0 {
		return nil
	}

	logger = logger.WithName("delete-permissions").WithData(logx.Data{Key: "permission.ids", Value: ids})

	err := softDelete(ctx, t.conn, "permission", operator, t.now(), squirrel.Eq{"permission.id": ids})
	if err != nil {
		logger.Error(failedToDeletePermission, err)
		return err
	}

	return nil
}

func (t *storeTx) HasPermission(
	ctx context.Context,
	logger logx.Logger,
	query repos.HasPermissionQuery,
) (bool, error) {
	return hasPermission(ctx, logger, t.conn, query)
}

func createPermission(
	ctx context.Context,
	logger logx.Logger,
	conn squirrel.BaseRunner,
	p perm.Permission,
	now time.Time,
) (perm.Permission, error) {
	logger = logger.WithName("create-permission").WithData(
		logx.Data{Key: "permission.type", Value: p.PermissionType},
		logx.Data{Key: "permission.target_id", Value: p.TargetID},
	)
	u := uuid.NewV4().Bytes()
	stampAudit(&p.Audit, now)

	result, err := squirrel.Insert("permission").
		Columns(withAudit("uuid", "permission_type", "target_id")...).
		Values(u, p.PermissionType, p.TargetID, p.CreatedBy, p.CreatedAt, p.LastModifiedBy, p.LastModifiedAt).
		RunWith(conn).
		ExecContext(ctx)
	if err != nil {
		if isDuplicateKey(err) {
			logger.Debug(errPermissionAlreadyExists)
			return perm.Permission{}, perm.ErrPermissionAlreadyExists
		}

		logger.Error(failedToCreatePermission, err)
		return perm.Permission{}, err
	}

	p.ID, err = result.LastInsertId()
	if err != nil {
		logger.Error(failedToRetrieveID, err)
		return perm.Permission{}, err
	}

	return p, nil
}

func findPermission(
	ctx context.Context,
	logger logx.Logger,
	conn squirrel.BaseRunner,
	query repos.FindPermissionQuery,
) (perm.Permission, error) {
	logger = logger.WithName("find-permission").WithData(
		logx.Data{Key: "permission.type", Value: query.PermissionType},
		logx.Data{Key: "permission.target_id", Value: query.TargetID},
	)

	var p perm.Permission
	err := squirrel.Select(columnsPermission...).
		From("permission").
		Where(squirrel.Eq{
			"permission.permission_type": query.PermissionType,
			"permission.target_id":       query.TargetID,
		}).
		Where(liveRows("permission")).
		RunWith(conn).
		ScanContext(ctx, permissionFields(&p)...)

	switch err {
	case nil:
		return p, nil
	case sql.ErrNoRows:
		logger.Debug(errPermissionNotFound)
		return perm.Permission{}, perm.ErrPermissionNotFound
	default:
		logger.Error(failedToFindPermission, err)
		return perm.Permission{}, err
	}
}

func listPermissions(
	ctx context.Context,
	logger logx.Logger,
	conn squirrel.BaseRunner,
	where squirrel.Sqlizer,
	keep func(perm.Permission) bool,
) ([]perm.Permission, error) {
	rows, err := squirrel.Select(columnsPermission...).
		From("permission").
		Where(where).
		Where(liveRows("permission")).
		OrderBy("permission.id").
		RunWith(conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToListPermissions, err)
		return nil, err
	}
	defer rows.Close()

	var permissions []perm.Permission
	for rows.Next() {
		var p perm.Permission
		if err = rows.Scan(permissionFields(&p)...); err != nil {
			logger.Error(failedToScanRow, err)
			return nil, err
		}

		if keep == nil || keep(p) {
			permissions = append(permissions, p)
		}
	}

	if err = rows.Err(); err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	return permissions, nil
}

func hasPermission(
	ctx context.Context,
	logger logx.Logger,
	conn squirrel.BaseRunner,
	query repos.HasPermissionQuery,
) (bool, error) {
	logger = logger.WithName("has-permission").WithData(
		logx.Data{Key: "user.id", Value: query.UserID},
		logx.Data{Key: "permission.type", Value: query.PermissionType},
		logx.Data{Key: "permission.target_id", Value: query.TargetID},
	)

	var count int

	err := squirrel.Select("COUNT(*)").
		From("user_role").
		Join("role ON role.id = user_role.role_id").
		Join("role_permission ON role_permission.role_id = user_role.role_id").
		Join("permission ON permission.id = role_permission.permission_id").
		Where(squirrel.Eq{
			"user_role.user_id":          query.UserID,
			"permission.permission_type": query.PermissionType,
			"permission.target_id":       query.TargetID,
		}).
		Where(liveRows("user_role")).
		Where(liveRows("role")).
		Where(liveRows("role_permission")).
		Where(liveRows("permission")).
		RunWith(conn).
		ScanContext(ctx, &count)
	if err != nil {
		logger.Error(failedToCheckPermission, err)
		return false, err
	}

	return count > 0, nil
}

func permissionFields(p *perm.Permission) []interface{} {
	return append(
		[]interface{}{&p.ID, &p.PermissionType, &p.TargetID},
		auditFields(&p.Audit)...,
	)
}

func auditFields(a *perm.Audit) []interface{} {
	return []interface{}{&a.CreatedBy, &a.CreatedAt, &a.LastModifiedBy, &a.LastModifiedAt}
}
