package repos

import (
	"context"
	"strings"

	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

type FindPermissionQuery struct {
	PermissionType string
	TargetID       string
}

// ListPermissionsByTargetQuery matches permissions whose target equals one
// of TargetIDs or starts with one of TargetIDPrefixes.
type ListPermissionsByTargetQuery struct {
	TargetIDs        []string
	TargetIDPrefixes []string
}

func (q ListPermissionsByTargetQuery) Empty() bool {
	return len(q.TargetIDs) == 0 && len(q.TargetIDPrefixes) == 0
}

func (q ListPermissionsByTargetQuery) Matches(targetID string) bool {
	return matches(targetID, q.TargetIDs, q.TargetIDPrefixes)
}

type HasPermissionQuery struct {
	UserID         string
	PermissionType string
	TargetID       string
}

type PermissionRepo interface {
	// CreatePermissions stores every permission or none of them.
	CreatePermissions(
		ctx context.Context,
		logger logx.Logger,
		permissions ...perm.Permission,
	) ([]perm.Permission, error)

	FindPermission(
		ctx context.Context,
		logger logx.Logger,
		query FindPermissionQuery,
	) (perm.Permission, error)

	ListPermissionsByID(
		ctx context.Context,
		logger logx.Logger,
		ids ...int64,
	) ([]perm.Permission, error)

	ListPermissionsByTarget(
		ctx context.Context,
		logger logx.Logger,
		query ListPermissionsByTargetQuery,
	) ([]perm.Permission, error)

	DeletePermissions(
		ctx context.Context,
		logger logx.Logger,
		operator string,
		ids ...int64,
	) error

	HasPermission(
		ctx context.Context,
		logger logx.Logger,
		query HasPermissionQuery,
	) (bool, error)
}

func matches(s string, exact, prefixes []string) bool {
	for _, e := range exact {
		if s == e {
			return true
		}
	}

	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}
