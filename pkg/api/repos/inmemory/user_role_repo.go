package inmemory

import (
	"context"
	"maps"
	"slices"

	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

func (t *storeTx) CreateUserRoles(
	ctx context.Context,
	logger logx.Logger,
	userRoles ...perm.UserRole,
) ([]perm.UserRole, error) {
	now := t.now()

	var created []perm.UserRole
	for _, ur := range userRoles {
		for _, existing := range t.state.userRoles {
			if existing.UserID == ur.UserID && existing.RoleID == ur.RoleID {
				return nil, perm.ErrUserRoleAlreadyExists
			}
		}

		ur.ID = t.state.nextID()
		stampAudit(&ur.Audit, now)
		t.state.userRoles[ur.ID] = ur
		created = append(created, ur)
	}

	return created, nil
}

func (t *storeTx) ListUserRoles(
	ctx context.Context,
	logger logx.Logger,
	query repos.UserRoleQuery,
) ([]perm.UserRole, error) {
	var userRoles []perm.UserRole
	for _, id := range slices.Sorted(maps.Keys(t.state.userRoles)) {
		ur := t.state.userRoles[id]
		if query.Matches(ur) {
			userRoles = append(userRoles, ur)
		}
	}

	return userRoles, nil
}

func (t *storeTx) DeleteUserRoles(
	ctx context.Context,
	logger logx.Logger,
	operator string,
	query repos.UserRoleQuery,
) error {
	maps.DeleteFunc(t.state.userRoles, func(_ int64, ur perm.UserRole) bool {
		return query.Matches(ur)
	})

	return nil
}
