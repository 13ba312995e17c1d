package rolepermission

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

// CreateRoleWithPermissions creates the role and binds it to every listed
// permission on behalf of the role's creator. Every id must reference a
// live permission; otherwise nothing is written.
func (s *Service) CreateRoleWithPermissions(
	ctx context.Context,
	role perm.Role,
	permissionIDs []int64,
) (created perm.Role, err error) {
	logger := s.logger.WithName(createRoleWithPermissionsOp).WithData(
		logx.Data{Key: "role.name", Value: role.RoleName},
		logx.Data{Key: "permission.ids", Value: permissionIDs},
	)
	defer s.observe(logger, createRoleWithPermissionsOp, s.clock.Now(), &err)
	logger.Debug(starting)

	if err = s.validateStruct(role); err != nil {
		return perm.Role{}, err
	}

	ids := dedupeIDs(permissionIDs)

	err = s.store.Transact(ctx, logger, func(tx repos.Tx) error {
		var txErr error
		created, txErr = tx.CreateRole(ctx, logger, role)
		if txErr != nil {
			return txErr
		}

		if len(ids) == 0 {
			return nil
		}

		permissions, txErr := tx.ListPermissionsByID(ctx, logger, ids...)
		if txErr != nil {
			return txErr
		}
		if len(permissions) != len(ids) {
			return perm.ErrPermissionNotFound
		}

		var bindings []perm.RolePermission
		for _, id := range ids {
			bindings = append(bindings, perm.RolePermission{
				RoleID:       created.ID,
				PermissionID: id,
				Audit: perm.Audit{
					CreatedBy:      created.CreatedBy,
					LastModifiedBy: created.LastModifiedBy,
				},
			})
		}

		_, txErr = tx.CreateRolePermissions(ctx, logger, bindings...)
		return txErr
	})
	if err != nil {
		return perm.Role{}, err
	}

	logger.Info(success, logx.Data{Key: "role.id", Value: created.ID})
	return created, nil
}

func (s *Service) FindRoleByRoleName(
	ctx context.Context,
	roleName string,
) (role perm.Role, err error) {
	logger := s.logger.WithName(findRoleByRoleNameOp).WithData(logx.Data{Key: "role.name", Value: roleName})
	defer s.observe(logger, findRoleByRoleNameOp, s.clock.Now(), &err)

	err = s.store.Transact(ctx, logger, func(tx repos.Tx) (txErr error) {
		role, txErr = findRole(ctx, logger, tx, roleName)
		return txErr
	})
	if err != nil {
		return perm.Role{}, err
	}

	return role, nil
}
