package inmemory

import (
	"context"
	"maps"
	"slices"

	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

func (t *storeTx) CreateRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	rolePermissions ...perm.RolePermission,
) ([]perm.RolePermission, error) {
	now := t.now()

	var created []perm.RolePermission
	for _, rp := range rolePermissions {
		for _, existing := range t.state.rolePermissions {
			if existing.RoleID == rp.RoleID && existing.PermissionID == rp.PermissionID {
				return nil, perm.ErrRolePermissionAlreadyExists
			}
		}

		rp.ID = t.state.nextID()
		stampAudit(&rp.Audit, now)
		t.state.rolePermissions[rp.ID] = rp
		created = append(created, rp)
	}

	return created, nil
}

func (t *storeTx) ListRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	query repos.RolePermissionQuery,
) ([]perm.RolePermission, error) {
	var rolePermissions []perm.RolePermission
	for _, id := range slices.Sorted(maps.Keys(t.state.rolePermissions)) {
		rp := t.state.rolePermissions[id]
		if query.Matches(rp) {
			rolePermissions = append(rolePermissions, rp)
		}
	}

	return rolePermissions, nil
}

func (t *storeTx) DeleteRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	operator string,
	query repos.RolePermissionQuery,
) error {
	maps.DeleteFunc(t.state.rolePermissions, func(_ int64, rp perm.RolePermission) bool {
		return query.Matches(rp)
	})

	return nil
}
