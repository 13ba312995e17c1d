package repos

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/logx"
)

// Store runs fn against all four repos in a single atomic unit. When fn
// returns an error nothing it wrote is kept and the error is returned
// unchanged.
type Store interface {
	Transact(
		ctx context.Context,
		logger logx.Logger,
		fn func(Tx) error,
	) error
}

type Tx interface {
	PermissionRepo
	RoleRepo
	RolePermissionRepo
	UserRoleRepo
}
