package repos

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

// UserRoleQuery restricts by every non-empty field. A query with no fields
// set matches nothing.
type UserRoleQuery struct {
	UserIDs []string
	RoleIDs []int64
}

func (q UserRoleQuery) Empty() bool {
	return len(q.UserIDs) == 0 && len(q.RoleIDs) == 0
}

func (q UserRoleQuery) Matches(ur perm.UserRole) bool {
	if q.Empty() {
		return false
	}

	return (len(q.UserIDs) == 0 || matches(ur.UserID, q.UserIDs, nil)) &&
		(len(q.RoleIDs) == 0 || containsID(q.RoleIDs, ur.RoleID))
}

type UserRoleRepo interface {
	CreateUserRoles(
		ctx context.Context,
		logger logx.Logger,
		userRoles ...perm.UserRole,
	) ([]perm.UserRole, error)

	ListUserRoles(
		ctx context.Context,
		logger logx.Logger,
		query UserRoleQuery,
	) ([]perm.UserRole, error)

	DeleteUserRoles(
		ctx context.Context,
		logger logx.Logger,
		operator string,
		query UserRoleQuery,
	) error
}
