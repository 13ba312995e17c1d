package rolepermission

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

func (s *Service) CreatePermission(
	ctx context.Context,
	permission perm.Permission,
) (created perm.Permission, err error) {
	logger := s.logger.WithName(createPermissionOp).WithData(
		logx.Data{Key: "permission.type", Value: permission.PermissionType},
		logx.Data{Key: "permission.target_id", Value: permission.TargetID},
	)
	defer s.observe(logger, createPermissionOp, s.clock.Now(), &err)
	logger.Debug(starting)

	if err = s.validateStruct(permission); err != nil {
		return perm.Permission{}, err
	}

	err = s.store.Transact(ctx, logger, func(tx repos.Tx) error {
		permissions, txErr := tx.CreatePermissions(ctx, logger, permission)
		if txErr != nil {
			return txErr
		}

		created = permissions[0]
		return nil
	})
	if err != nil {
		return perm.Permission{}, err
	}

	logger.Info(success, logx.Data{Key: "permission.id", Value: created.ID})
	return created, nil
}

// CreatePermissions stores the whole batch or nothing. A collision with an
// existing permission or within the batch fails it.
func (s *Service) CreatePermissions(
	ctx context.Context,
	permissions []perm.Permission,
) (created []perm.Permission, err error) {
	logger := s.logger.WithName(createPermissionsOp).WithData(logx.Data{Key: "count", Value: len(permissions)})
	defer s.observe(logger, createPermissionsOp, s.clock.Now(), &err)
	logger.Debug(starting)

	for _, p := range permissions {
		if err = s.validateStruct(p); err != nil {
			return nil, err
		}
	}

	if len(permissions) == 0 {
		return nil, nil
	}

	err = s.store.Transact(ctx, logger, func(tx repos.Tx) (txErr error) {
		created, txErr = tx.CreatePermissions(ctx, logger, permissions...)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	logger.Info(success)
	return created, nil
}
