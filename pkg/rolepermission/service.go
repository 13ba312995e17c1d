// Package rolepermission owns every write to the authorization stores. Each
// operation runs in a single store transaction.
package rolepermission

import (
	"context"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/permstore/pkg/api/errdefs"
	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/metrics"
	"code.cloudfoundry.org/permstore/pkg/perm"
	"github.com/go-playground/validator/v10"
)

type Service struct {
	logger logx.Logger
	store  repos.Store

	validate    *validator.Validate
	users       UserDirectory
	superAdmins map[string]struct{}
	statter     metrics.Statter
	clock       clock.Clock
}

func NewService(logger logx.Logger, store repos.Store, opts ...Option) *Service {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Service{
		logger:      logger.WithName("role-permission-service"),
		store:       store,
		validate:    newValidator(),
		users:       o.users,
		superAdmins: o.superAdmins,
		statter:     o.statter,
		clock:       o.clock,
	}
}

func (s *Service) IsSuperAdmin(userID string) bool {
	_, ok := s.superAdmins[userID]
	return ok
}

// observe is deferred by every operation with a pointer to its named error.
func (s *Service) observe(logger logx.Logger, op string, start time.Time, err *error) {
	s.statter.TimingDuration(metricPrefix+"."+op+".duration", s.clock.Since(start))

	if *err == nil {
		return
	}

	s.statter.Inc(metricPrefix+"."+op+".failure", 1)

	if errdefs.IsNotFound(*err) || errdefs.IsAlreadyExists(*err) || errdefs.IsCannotBeEmpty(*err) {
		logger.Debug(failed, logx.Data{Key: "reason", Value: (*err).Error()})
		return
	}
	logger.Error(failed, *err)
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))

	var unique []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	return unique
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))

	var unique []int64
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	return unique
}

func roleIDs(roles []perm.Role) []int64 {
	var ids []int64
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	return ids
}

func permissionIDs(permissions []perm.Permission) []int64 {
	var ids []int64
	for _, p := range permissions {
		ids = append(ids, p.ID)
	}
	return ids
}

func findRole(ctx context.Context, logger logx.Logger, tx repos.Tx, roleName string) (perm.Role, error) {
	return tx.FindRole(ctx, logger, repos.FindRoleQuery{RoleName: roleName})
}
