package rolepermission

import (
	"context"
	"errors"

	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

// QueryUsersWithRole lists the distinct users bound to the role. An unknown
// role has no users. Users the directory does not know are left out.
func (s *Service) QueryUsersWithRole(
	ctx context.Context,
	roleName string,
) (users []perm.UserInfo, err error) {
	logger := s.logger.WithName(queryUsersWithRoleOp).WithData(logx.Data{Key: "role.name", Value: roleName})
	defer s.observe(logger, queryUsersWithRoleOp, s.clock.Now(), &err)

	var userIDs []string
	err = s.store.Transact(ctx, logger, func(tx repos.Tx) error {
		role, txErr := findRole(ctx, logger, tx, roleName)
		if errors.Is(txErr, perm.ErrRoleNotFound) {
			return nil
		}
		if txErr != nil {
			return txErr
		}

		userRoles, txErr := tx.ListUserRoles(ctx, logger, repos.UserRoleQuery{RoleIDs: []int64{role.ID}})
		if txErr != nil {
			return txErr
		}

		for _, ur := range userRoles {
			userIDs = append(userIDs, ur.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	users = []perm.UserInfo{}
	for _, userID := range dedupeStrings(userIDs) {
		info, findErr := s.users.FindUser(ctx, userID)
		if errors.Is(findErr, perm.ErrUserNotFound) {
			logger.Debug(skippedUnknownUser, logx.Data{Key: "user.id", Value: userID})
			continue
		}
		if findErr != nil {
			return nil, findErr
		}

		users = append(users, info)
	}

	return users, nil
}

// UserHasPermission reports whether some role connects the user to the
// permission. Super admins hold every permission. Unknown users and
// permissions are not errors.
func (s *Service) UserHasPermission(
	ctx context.Context,
	userID string,
	permissionType string,
	targetID string,
) (ok bool, err error) {
	logger := s.logger.WithName(userHasPermissionOp).WithData(
		logx.Data{Key: "user.id", Value: userID},
		logx.Data{Key: "permission.type", Value: permissionType},
		logx.Data{Key: "permission.target_id", Value: targetID},
	)
	defer s.observe(logger, userHasPermissionOp, s.clock.Now(), &err)

	if s.IsSuperAdmin(userID) {
		logger.Debug(superAdmin)
		return true, nil
	}

	err = s.store.Transact(ctx, logger, func(tx repos.Tx) (txErr error) {
		ok, txErr = tx.HasPermission(ctx, logger, repos.HasPermissionQuery{
			UserID:         userID,
			PermissionType: permissionType,
			TargetID:       targetID,
		})
		return txErr
	})
	if err != nil {
		return false, err
	}

	return ok, nil
}
