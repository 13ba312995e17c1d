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

var columnsUserRole = withAudit("user_role.id", "user_role.user_id", "user_role.role_id")

func (t *storeTx) CreateUserRoles(
	ctx context.Context,
	logger logx.Logger,
	userRoles ...perm.UserRole,
) ([]perm.UserRole, error) {
	now := t.now()

	var created []perm.UserRole
	for _, ur := range userRoles {
		c, err := createUserRole(ctx, logger, t.conn, ur, now)
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}

	return created, nil
}

func (t *storeTx) ListUserRoles(
	ctx context.Context,
	logger logx.Logger,
	query repos.UserRoleQuery,
) ([]perm.UserRole, error) {
	if query.Empty() {
		return nil, nil
	}

	return listUserRoles(ctx, logger, t.conn, query)
}

func (t *storeTx) DeleteUserRoles(
	ctx context.Context,
	logger logx.Logger,
	operator string,
	query repos.UserRoleQuery,
) error {
	if query.Empty() {
		return nil
	}

	logger = logger.WithName("delete-user-roles").WithData(
		logx.Data{Key: "user.ids", Value: query.UserIDs},
		logx.Data{Key: "role.ids", Value: query.RoleIDs},
	)

	err := softDelete(ctx, t.conn, "user_role", operator, t.now(), userRoleFilter(query))
	if err != nil {
		logger.Error(failedToDeleteUserRole, err)
		return err
	}

	return nil
}

func createUserRole(
	ctx context.Context,
	logger logx.Logger,
	conn squirrel.BaseRunner,
	ur perm.UserRole,
	now time.Time,
) (perm.UserRole, error) {
	logger = logger.WithName("create-user-role").WithData(
		logx.Data{Key: "user.id", Value: ur.UserID},
		logx.Data{Key: "role.id", Value: ur.RoleID},
	)
	u := uuid.NewV4().Bytes()
	stampAudit(&ur.Audit, now)

	result, err := squirrel.Insert("user_role").
		Columns(withAudit("uuid", "user_id", "role_id")...).
		Values(u, ur.UserID, ur.RoleID, ur.CreatedBy, ur.CreatedAt, ur.LastModifiedBy, ur.LastModifiedAt).
		RunWith(conn).
		ExecContext(ctx)
	if err != nil {
		if isDuplicateKey(err) {
			logger.Debug(errUserRoleAlreadyExists)
			return perm.UserRole{}, perm.ErrUserRoleAlreadyExists
		}

		logger.Error(failedToCreateUserRole, err)
		return perm.UserRole{}, err
	}

	ur.ID, err = result.LastInsertId()
	if err != nil {
		logger.Error(failedToRetrieveID, err)
		return perm.UserRole{}, err
	}

	return ur, nil
}

func listUserRoles(
	ctx context.Context,
	logger logx.Logger,
	conn squirrel.BaseRunner,
	query repos.UserRoleQuery,
) ([]perm.UserRole, error) {
	logger = logger.WithName("list-user-roles")

	rows, err := squirrel.Select(columnsUserRole...).
		From("user_role").
		Where(userRoleFilter(query)).
		Where(liveRows("user_role")).
		OrderBy("user_role.id").
		RunWith(conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToListUserRoles, err)
		return nil, err
	}
	defer rows.Close()

	var userRoles []perm.UserRole
	for rows.Next() {
		var ur perm.UserRole
		err = rows.Scan(append([]interface{}{&ur.ID, &ur.UserID, &ur.RoleID}, auditFields(&ur.Audit)...)...)
		if err != nil {
			logger.Error(failedToScanRow, err)
			return nil, err
		}
		userRoles = append(userRoles, ur)
	}

	if err = rows.Err(); err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	return userRoles, nil
}

func userRoleFilter(query repos.UserRoleQuery) squirrel.Eq {
	where := squirrel.Eq{}
	if len(query.UserIDs) > 0 {
		where["user_role.user_id"] = query.UserIDs
	}
	if len(query.RoleIDs) > 0 {
		where["user_role.role_id"] = query.RoleIDs
	}

	return where
}
