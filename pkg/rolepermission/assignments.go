package rolepermission

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

// AssignRoleToUsers binds each user not yet bound to the role and returns
// only the new bindings. Existing bindings keep their audit fields.
func (s *Service) AssignRoleToUsers(
	ctx context.Context,
	roleName string,
	userIDs []string,
	operator string,
) (created []perm.UserRole, err error) {
	logger := s.logger.WithName(assignRoleToUsersOp).WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "user.ids", Value: userIDs},
		logx.Data{Key: "operator", Value: operator},
	)
	defer s.observe(logger, assignRoleToUsersOp, s.clock.Now(), &err)
	logger.Debug(starting)

	if err = s.validateUsers(userIDs, operator); err != nil {
		return nil, err
	}
	users := dedupeStrings(userIDs)

	err = s.store.Transact(ctx, logger, func(tx repos.Tx) error {
		role, txErr := findRole(ctx, logger, tx, roleName)
		if txErr != nil {
			return txErr
		}

		if len(users) == 0 {
			return nil
		}

		existing, txErr := tx.ListUserRoles(ctx, logger, repos.UserRoleQuery{
			UserIDs: users,
			RoleIDs: []int64{role.ID},
		})
		if txErr != nil {
			return txErr
		}

		bound := make(map[string]struct{}, len(existing))
		for _, ur := range existing {
			bound[ur.UserID] = struct{}{}
		}

		var bindings []perm.UserRole
		for _, userID := range users {
			if _, ok := bound[userID]; ok {
				continue
			}

			bindings = append(bindings, perm.UserRole{
				UserID: userID,
				RoleID: role.ID,
				Audit: perm.Audit{
					CreatedBy:      operator,
					LastModifiedBy: operator,
				},
			})
		}

		if len(bindings) == 0 {
			return nil
		}

		created, txErr = tx.CreateUserRoles(ctx, logger, bindings...)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	logger.Info(success, logx.Data{Key: "created", Value: len(created)})
	return created, nil
}

// RemoveRoleFromUsers unbinds the users from the role. Users that are not
// bound are ignored.
func (s *Service) RemoveRoleFromUsers(
	ctx context.Context,
	roleName string,
	userIDs []string,
	operator string,
) (err error) {
	logger := s.logger.WithName(removeRoleFromUsersOp).WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "user.ids", Value: userIDs},
		logx.Data{Key: "operator", Value: operator},
	)
	defer s.observe(logger, removeRoleFromUsersOp, s.clock.Now(), &err)
	logger.Debug(starting)

	if err = s.validateUsers(userIDs, operator); err != nil {
		return err
	}
	users := dedupeStrings(userIDs)

	err = s.store.Transact(ctx, logger, func(tx repos.Tx) error {
		role, txErr := findRole(ctx, logger, tx, roleName)
		if txErr != nil {
			return txErr
		}

		// an empty user list must not widen the delete to the whole role
		if len(users) == 0 {
			return nil
		}

		return tx.DeleteUserRoles(ctx, logger, operator, repos.UserRoleQuery{
			UserIDs: users,
			RoleIDs: []int64{role.ID},
		})
	})
	if err != nil {
		return err
	}

	logger.Info(success)
	return nil
}

func (s *Service) FindUserRoles(
	ctx context.Context,
	userID string,
) (userRoles []perm.UserRole, err error) {
	logger := s.logger.WithName(findUserRolesOp).WithData(logx.Data{Key: "user.id", Value: userID})
	defer s.observe(logger, findUserRolesOp, s.clock.Now(), &err)

	if err = s.requireNotBlank(userID, perm.ErrUserIDEmpty); err != nil {
		return nil, err
	}

	err = s.store.Transact(ctx, logger, func(tx repos.Tx) (txErr error) {
		userRoles, txErr = tx.ListUserRoles(ctx, logger, repos.UserRoleQuery{UserIDs: []string{userID}})
		return txErr
	})
	if err != nil {
		return nil, err
	}

	return userRoles, nil
}

func (s *Service) validateUsers(userIDs []string, operator string) error {
	if err := s.requireNotBlank(operator, perm.ErrOperatorEmpty); err != nil {
		return err
	}

	for _, userID := range userIDs {
		if err := s.requireNotBlank(userID, perm.ErrUserIDEmpty); err != nil {
			return err
		}
	}

	return nil
}
