package rolepermission

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
	"code.cloudfoundry.org/permstore/pkg/rolenames"
)

// DeleteRolePermissionsByAppID removes every permission targeting the app
// and every role named after it, along with all of their bindings.
func (s *Service) DeleteRolePermissionsByAppID(
	ctx context.Context,
	appID string,
	operator string,
) (err error) {
	logger := s.logger.WithName(deleteByAppIDOp).WithData(
		logx.Data{Key: "app.id", Value: appID},
		logx.Data{Key: "operator", Value: operator},
	)
	defer s.observe(logger, deleteByAppIDOp, s.clock.Now(), &err)
	logger.Debug(starting)

	if err = s.requireNotBlank(appID, perm.ErrAppIDEmpty); err != nil {
		return err
	}
	if err = s.requireNotBlank(operator, perm.ErrOperatorEmpty); err != nil {
		return err
	}

	err = s.deleteRolePermissions(ctx, logger, operator,
		repos.ListPermissionsByTargetQuery{
			TargetIDs:        []string{appID},
			TargetIDPrefixes: []string{rolenames.AppTargetIDPrefix(appID)},
		},
		repos.ListRolesQuery{
			RoleNames:        rolenames.AppRoleNames(appID),
			RoleNamePrefixes: rolenames.AppRoleNamePrefixes(appID),
		},
	)
	if err != nil {
		return err
	}

	logger.Info(success)
	return nil
}

// DeleteRolePermissionsByAppIDAndNamespace is DeleteRolePermissionsByAppID
// restricted to one namespace of the app, in every environment.
func (s *Service) DeleteRolePermissionsByAppIDAndNamespace(
	ctx context.Context,
	appID string,
	namespace string,
	operator string,
) (err error) {
	logger := s.logger.WithName(deleteByAppIDAndNamespaceOp).WithData(
		logx.Data{Key: "app.id", Value: appID},
		logx.Data{Key: "namespace", Value: namespace},
		logx.Data{Key: "operator", Value: operator},
	)
	defer s.observe(logger, deleteByAppIDAndNamespaceOp, s.clock.Now(), &err)
	logger.Debug(starting)

	if err = s.requireNotBlank(appID, perm.ErrAppIDEmpty); err != nil {
		return err
	}
	if err = s.requireNotBlank(namespace, perm.ErrNamespaceEmpty); err != nil {
		return err
	}
	if err = s.requireNotBlank(operator, perm.ErrOperatorEmpty); err != nil {
		return err
	}

	err = s.deleteRolePermissions(ctx, logger, operator,
		repos.ListPermissionsByTargetQuery{
			TargetIDs:        []string{rolenames.NamespaceTargetID(appID, namespace)},
			TargetIDPrefixes: []string{rolenames.NamespaceTargetIDPrefix(appID, namespace)},
		},
		repos.ListRolesQuery{
			RoleNames:        rolenames.NamespaceRoleNames(appID, namespace),
			RoleNamePrefixes: rolenames.NamespaceRoleNamePrefixes(appID, namespace),
		},
	)
	if err != nil {
		return err
	}

	logger.Info(success)
	return nil
}

func (s *Service) deleteRolePermissions(
	ctx context.Context,
	logger logx.Logger,
	operator string,
	permissionQuery repos.ListPermissionsByTargetQuery,
	roleQuery repos.ListRolesQuery,
) error {
	return s.store.Transact(ctx, logger, func(tx repos.Tx) error {
		permissions, err := tx.ListPermissionsByTarget(ctx, logger, permissionQuery)
		if err != nil {
			return err
		}

		roles, err := tx.ListRoles(ctx, logger, roleQuery)
		if err != nil {
			return err
		}

		logger.Debug(deleting,
			logx.Data{Key: "permissions", Value: len(permissions)},
			logx.Data{Key: "roles", Value: len(roles)},
		)

		if ids := permissionIDs(permissions); len(ids) > 0 {
			err = tx.DeleteRolePermissions(ctx, logger, operator, repos.RolePermissionQuery{PermissionIDs: ids})
			if err != nil {
				return err
			}

			if err = tx.DeletePermissions(ctx, logger, operator, ids...); err != nil {
				return err
			}
		}

		if ids := roleIDs(roles); len(ids) > 0 {
			err = tx.DeleteRolePermissions(ctx, logger, operator, repos.RolePermissionQuery{RoleIDs: ids})
			if err != nil {
				return err
			}

			err = tx.DeleteUserRoles(ctx, logger, operator, repos.UserRoleQuery{RoleIDs: ids})
			if err != nil {
				return err
			}

			if err = tx.DeleteRoles(ctx, logger, operator, ids...); err != nil {
				return err
			}
		}

		return nil
	})
}
