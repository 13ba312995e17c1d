package inmemory

import (
	"context"
	"maps"
	"slices"

	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

func (t *storeTx) CreateRole(
	ctx context.Context,
	logger logx.Logger,
	role perm.Role,
) (perm.Role, error) {
	if _, err := t.FindRole(ctx, logger, repos.FindRoleQuery{RoleName: role.RoleName}); err == nil {
		return perm.Role{}, perm.ErrRoleAlreadyExists
	}

	role.ID = t.state.nextID()
	stampAudit(&role.Audit, t.now())
	t.state.roles[role.ID] = role

	logger.WithName("create-role").Debug(success, logx.Data{Key: "role.name", Value: role.RoleName})

	return role, nil
}

func (t *storeTx) FindRole(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindRoleQuery,
) (perm.Role, error) {
	for _, role := range t.state.roles {
		if role.RoleName == query.RoleName {
			return role, nil
		}
	}

	return perm.Role{}, perm.ErrRoleNotFound
}

func (t *storeTx) ListRoles(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListRolesQuery,
) ([]perm.Role, error) {
	var roles []perm.Role
	for _, id := range slices.Sorted(maps.Keys(t.state.roles)) {
		role := t.state.roles[id]
		if query.Matches(role.RoleName) {
			roles = append(roles, role)
		}
	}

	return roles, nil
}

func (t *storeTx) DeleteRoles(
	ctx context.Context,
	logger logx.Logger,
	operator string,
	ids ...int64,
) error {
	for _, id := range ids {
		delete(t.state.roles, id)
	}

	return nil
}
