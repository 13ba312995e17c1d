package repos

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

type FindRoleQuery struct {
	RoleName string
}

// ListRolesQuery matches roles whose name equals one of RoleNames or starts
// with one of RoleNamePrefixes.
type ListRolesQuery struct {
	RoleNames        []string
	RoleNamePrefixes []string
}

func (q ListRolesQuery) Empty() bool {
	return len(q.RoleNames) == 0 && len(q.RoleNamePrefixes) == 0
}

func (q ListRolesQuery) Matches(roleName string) bool {
	return matches(roleName, q.RoleNames, q.RoleNamePrefixes)
}

type RoleRepo interface {
	CreateRole(
		ctx context.Context,
		logger logx.Logger,
		role perm.Role,
	) (perm.Role, error)

	FindRole(
		ctx context.Context,
		logger logx.Logger,
		query FindRoleQuery,
	) (perm.Role, error)

	ListRoles(
		ctx context.Context,
		logger logx.Logger,
		query ListRolesQuery,
	) ([]perm.Role, error)

	DeleteRoles(
		ctx context.Context,
		logger logx.Logger,
		operator string,
		ids ...int64,
	) error
}
