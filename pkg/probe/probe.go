package probe

import (
	"context"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
	"code.cloudfoundry.org/permstore/pkg/rolenames"
	uuid "github.com/satori/go.uuid"
)

const (
	AppIDPrefix = "probe-"
	Namespace   = "probe"
	Operator    = "probe"

	AssignedUser   = "probe.user-with-role"
	UnassignedUser = "probe.user-without-role"
)

type Client interface {
	CreatePermission(ctx context.Context, permission perm.Permission) (perm.Permission, error)
	CreateRoleWithPermissions(ctx context.Context, role perm.Role, permissionIDs []int64) (perm.Role, error)
	AssignRoleToUsers(ctx context.Context, roleName string, userIDs []string, operator string) ([]perm.UserRole, error)
	RemoveRoleFromUsers(ctx context.Context, roleName string, userIDs []string, operator string) error
	UserHasPermission(ctx context.Context, userID, permissionType, targetID string) (bool, error)
	DeleteRolePermissionsByAppID(ctx context.Context, appID, operator string) error
}

type DurationRecorder interface {
	Observe(duration time.Duration) error
}

type Probe struct {
	client         Client
	clock          clock.Clock
	recorder       DurationRecorder
	timeout        time.Duration
	cleanupTimeout time.Duration
	maxLatency     time.Duration
}

func NewProbe(client Client, opts ...Option) *Probe {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Probe{
		client:         client,
		clock:          o.clock,
		recorder:       o.recorder,
		timeout:        o.timeout,
		cleanupTimeout: o.cleanupTimeout,
		maxLatency:     o.maxLatency,
	}
}

// Run walks a throwaway app through the whole permission lifecycle and
// checks both sides of UserHasPermission. A failed run removes whatever it
// created before returning.
func (p *Probe) Run(ctx context.Context, logger logx.Logger) (err error) {
	appID := AppIDPrefix + uuid.NewV4().String()
	targetID := rolenames.NamespaceTargetID(appID, Namespace)
	roleName := rolenames.ModifyNamespaceRoleName(appID, Namespace)

	logger = logger.WithName("probe").WithData(logx.Data{Key: "app.id", Value: appID})
	logger.Debug(starting)
	defer logger.Debug(finished)

	defer func() {
		if err == nil {
			return
		}

		cleanupCtx, cancel := context.WithTimeout(context.Background(), p.cleanupTimeout)
		defer cancel()

		if cleanupErr := p.client.DeleteRolePermissionsByAppID(cleanupCtx, appID, Operator); cleanupErr != nil {
			logger.Error(failedToCleanup, cleanupErr)
		}
	}()

	var (
		slow       bool
		permission perm.Permission
	)

	steps := []struct {
		name string
		call func(context.Context) error
	}{
		{"create-permission", func(ctx context.Context) (stepErr error) {
			permission, stepErr = p.client.CreatePermission(ctx, perm.Permission{
				PermissionType: rolenames.ModifyNamespace,
				TargetID:       targetID,
				Audit:          perm.Audit{CreatedBy: Operator, LastModifiedBy: Operator},
			})
			return
		}},
		{"create-role", func(ctx context.Context) error {
			_, stepErr := p.client.CreateRoleWithPermissions(ctx, perm.Role{
				RoleName: roleName,
				Audit:    perm.Audit{CreatedBy: Operator, LastModifiedBy: Operator},
			}, []int64{permission.ID})
			return stepErr
		}},
		{"assign-role", func(ctx context.Context) error {
			_, stepErr := p.client.AssignRoleToUsers(ctx, roleName, []string{AssignedUser}, Operator)
			return stepErr
		}},
		{"has-assigned-permission", func(ctx context.Context) error {
			return p.expectPermission(ctx, logger, AssignedUser, targetID, true)
		}},
		{"has-unassigned-permission", func(ctx context.Context) error {
			return p.expectPermission(ctx, logger, UnassignedUser, targetID, false)
		}},
		{"remove-role", func(ctx context.Context) error {
			return p.client.RemoveRoleFromUsers(ctx, roleName, []string{AssignedUser}, Operator)
		}},
		{"delete-app", func(ctx context.Context) error {
			return p.client.DeleteRolePermissionsByAppID(ctx, appID, Operator)
		}},
	}

	for _, step := range steps {
		if err = p.call(ctx, logger.WithName(step.name), &slow, step.call); err != nil {
			return err
		}
	}

	if slow {
		return ErrExceededMaxLatency
	}

	return nil
}

func (p *Probe) expectPermission(ctx context.Context, logger logx.Logger, userID, targetID string, expected bool) error {
	ok, err := p.client.UserHasPermission(ctx, userID, rolenames.ModifyNamespace, targetID)
	if err != nil {
		return err
	}

	if ok != expected {
		logger.Info(incorrectResponse,
			logx.Data{Key: "user.id", Value: userID},
			logx.Data{Key: "expected", Value: expected},
		)
		return ErrIncorrectHasPermission
	}

	return nil
}

func (p *Probe) call(ctx context.Context, logger logx.Logger, slow *bool, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := p.clock.Now()
	err := fn(ctx)
	duration := p.clock.Since(start)

	if err != nil {
		logger.Error(failedStep, err)
		return err
	}

	if duration > p.maxLatency {
		logger.Info(exceededMaxLatency, logx.Data{Key: "duration", Value: duration.String()})
		*slow = true
	}

	if err = p.recorder.Observe(duration); err != nil {
		logger.Error(failedToObserveDuration, err)
	}

	return nil
}
