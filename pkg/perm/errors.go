package perm

import (
	"code.cloudfoundry.org/permstore/pkg/api/errdefs"
)

var (
	ErrPermissionNotFound      = errdefs.NewErrNotFound("permission")
	ErrPermissionAlreadyExists = errdefs.NewErrAlreadyExists("permission")

	ErrRoleNotFound      = errdefs.NewErrNotFound("role")
	ErrRoleAlreadyExists = errdefs.NewErrAlreadyExists("role")

	ErrRolePermissionAlreadyExists = errdefs.NewErrAlreadyExists("role permission")
	ErrUserRoleAlreadyExists       = errdefs.NewErrAlreadyExists("user role")

	ErrUserNotFound = errdefs.NewErrNotFound("user")

	ErrOperatorEmpty  = errdefs.NewErrCannotBeEmpty("operator")
	ErrAppIDEmpty     = errdefs.NewErrCannotBeEmpty("app id")
	ErrUserIDEmpty    = errdefs.NewErrCannotBeEmpty("user id")
	ErrNamespaceEmpty = errdefs.NewErrCannotBeEmpty("namespace")
)
