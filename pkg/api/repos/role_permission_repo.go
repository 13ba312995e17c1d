package repos

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

// RolePermissionQuery restricts by every non-empty field. A query with no
// fields set matches nothing.
type RolePermissionQuery struct {
	RoleIDs       []int64
	PermissionIDs []int64
}

func (q RolePermissionQuery) Empty() bool {
	return len(q.RoleIDs) == 0 && len(q.PermissionIDs) == 0
}

func (q RolePermissionQuery) Matches(rp perm.RolePermission) bool {
	if q.Empty() {
		return false
	}

	return (len(q.RoleIDs) == 0 || containsID(q.RoleIDs, rp.RoleID)) &&
		(len(q.PermissionIDs) == 0 || containsID(q.PermissionIDs, rp.PermissionID))
}

type RolePermissionRepo interface {
	CreateRolePermissions(
		ctx context.Context,
		logger logx.Logger,
		rolePermissions ...perm.RolePermission,
	) ([]perm.RolePermission, error)

	ListRolePermissions(
		ctx context.Context,
		logger logx.Logger,
		query RolePermissionQuery,
	) ([]perm.RolePermission, error)

	DeleteRolePermissions(
		ctx context.Context,
		logger logx.Logger,
		operator string,
		query RolePermissionQuery,
	) error
}

func containsID(ids []int64, id int64) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}

	return false
}
