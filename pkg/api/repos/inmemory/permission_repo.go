package inmemory

import (
	"context"
	"maps"
	"slices"

	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

func (t *storeTx) CreatePermissions(
	ctx context.Context,
	logger logx.Logger,
	permissions ...perm.Permission,
) ([]perm.Permission, error) {
	logger = logger.WithName("create-permissions")
	now := t.now()

	var created []perm.Permission
	for _, p := range permissions {
		if _, err := t.FindPermission(ctx, logger, repos.FindPermissionQuery{
			PermissionType: p.PermissionType,
			TargetID:       p.TargetID,
		}); err == nil {
			return nil, perm.ErrPermissionAlreadyExists
		}

		p.ID = t.state.nextID()
		stampAudit(&p.Audit, now)
		t.state.permissions[p.ID] = p
		created = append(created, p)
	}

	logger.Debug(success)

	return created, nil
}

func (t *storeTx) FindPermission(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindPermissionQuery,
) (perm.Permission, error) {
	for _, p := range t.state.permissions {
		if p.PermissionType == query.PermissionType && p.TargetID == query.TargetID {
			return p, nil
		}
	}

	return perm.Permission{}, perm.ErrPermissionNotFound
}

func (t *storeTx) ListPermissionsByID(
	ctx context.Context,
	logger logx.Logger,
	ids ...int64,
) ([]perm.Permission, error) {
	var permissions []perm.Permission
	for _, id := range slices.Sorted(maps.Keys(t.state.permissions)) {
		if slices.Contains(ids, id) {
			permissions = append(permissions, t.state.permissions[id])
		}
	}

	return permissions, nil
}

func (t *storeTx) ListPermissionsByTarget(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListPermissionsByTargetQuery,
) ([]perm.Permission, error) {
	var permissions []perm.Permission
	for _, id := range slices.Sorted(maps.Keys(t.state.permissions)) {
		p := t.state.permissions[id]
		if query.Matches(p.TargetID) {
			permissions = append(permissions, p)
		}
	}

	return permissions, nil
}

func (t *storeTx) DeletePermissions(
	ctx context.Context,
	logger logx.Logger,
	operator string,
	ids ...int64,
) error {
	for _, id := range ids {
		delete(t.state.permissions, id)
	}

	return nil
}

func (t *storeTx) HasPermission(
	ctx context.Context,
	logger logx.Logger,
	query repos.HasPermissionQuery,
) (bool, error) {
	p, err := t.FindPermission(ctx, logger, repos.FindPermissionQuery{
		PermissionType: query.PermissionType,
		TargetID:       query.TargetID,
	})
	if err != nil {
		return false, nil
	}

	for _, ur := range t.state.userRoles {
		if ur.UserID != query.UserID {
			continue
		}
		if _, ok := t.state.roles[ur.RoleID]; !ok {
			continue
		}

		for _, rp := range t.state.rolePermissions {
			if rp.RoleID == ur.RoleID && rp.PermissionID == p.ID {
				return true, nil
			}
		}
	}

	return false, nil
}
