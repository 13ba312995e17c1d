package probe_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/v3/lagertest"
	"code.cloudfoundry.org/permstore/pkg/api/repos/inmemory"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/logx/lagerx"
	"code.cloudfoundry.org/permstore/pkg/perm"
	. "code.cloudfoundry.org/permstore/pkg/probe"
	"code.cloudfoundry.org/permstore/pkg/rolenames"
	"code.cloudfoundry.org/permstore/pkg/rolepermission"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type spyClient struct {
	*rolepermission.Service

	clock *fakeclock.FakeClock

	checkDelay     time.Duration
	flipAssigned   bool
	flipUnassigned bool
	assignErr      error

	appID    string
	deadline time.Time
}

func (c *spyClient) CreatePermission(ctx context.Context, p perm.Permission) (perm.Permission, error) {
	c.appID = strings.TrimSuffix(p.TargetID, rolenames.Separator+Namespace)
	c.deadline, _ = ctx.Deadline()
	return c.Service.CreatePermission(ctx, p)
}

func (c *spyClient) AssignRoleToUsers(ctx context.Context, roleName string, userIDs []string, operator string) ([]perm.UserRole, error) {
	if c.assignErr != nil {
		return nil, c.assignErr
	}
	return c.Service.AssignRoleToUsers(ctx, roleName, userIDs, operator)
}

func (c *spyClient) UserHasPermission(ctx context.Context, userID, permissionType, targetID string) (bool, error) {
	c.clock.Increment(c.checkDelay)

	ok, err := c.Service.UserHasPermission(ctx, userID, permissionType, targetID)
	if (userID == AssignedUser && c.flipAssigned) || (userID == UnassignedUser && c.flipUnassigned) {
		ok = !ok
	}
	return ok, err
}

type spyRecorder struct {
	mu        sync.Mutex
	durations []time.Duration
}

func (r *spyRecorder) Observe(d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.durations = append(r.durations, d)
	return nil
}

func (r *spyRecorder) Durations() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.durations
}

var _ = Describe("Probe", func() {
	var (
		fakeClock *fakeclock.FakeClock
		service   *rolepermission.Service
		client    *spyClient
		recorder  *spyRecorder

		ctx    context.Context
		logger logx.Logger
	)

	BeforeEach(func() {
		fakeClock = fakeclock.NewFakeClock(time.Now())
		logger = lagerx.NewLogger(lagertest.NewTestLogger("probe"))
		ctx = context.Background()

		service = rolepermission.NewService(logger, inmemory.NewStore(fakeClock), rolepermission.WithClock(fakeClock))
		client = &spyClient{Service: service, clock: fakeClock}
		recorder = &spyRecorder{}
	})

	expectCleanedUp := func() {
		Expect(client.appID).To(HavePrefix(AppIDPrefix))

		_, err := service.FindRoleByRoleName(ctx, rolenames.ModifyNamespaceRoleName(client.appID, Namespace))
		Expect(err).To(MatchError(perm.ErrRoleNotFound))

		roles, err := service.FindUserRoles(ctx, AssignedUser)
		Expect(err).NotTo(HaveOccurred())
		Expect(roles).To(BeEmpty())
	}

	It("passes and removes what it created", func() {
		subject := NewProbe(client, WithClock(fakeClock), WithRecorder(recorder))

		Expect(subject.Run(ctx, logger)).To(Succeed())

		expectCleanedUp()
		Expect(recorder.Durations()).To(HaveLen(7))
	})

	It("uses a fresh app for every run", func() {
		subject := NewProbe(client, WithClock(fakeClock))

		Expect(subject.Run(ctx, logger)).To(Succeed())
		first := client.appID

		Expect(subject.Run(ctx, logger)).To(Succeed())
		Expect(client.appID).NotTo(Equal(first))
	})

	It("fails when the assigned user lacks the permission", func() {
		client.flipAssigned = true
		subject := NewProbe(client, WithClock(fakeClock))

		Expect(subject.Run(ctx, logger)).To(MatchError(ErrIncorrectHasPermission))
		expectCleanedUp()
	})

	It("fails when the unassigned user holds the permission", func() {
		client.flipUnassigned = true
		subject := NewProbe(client, WithClock(fakeClock))

		Expect(subject.Run(ctx, logger)).To(MatchError(ErrIncorrectHasPermission))
		expectCleanedUp()
	})

	It("cleans up when a step fails", func() {
		client.assignErr = errors.New("assign failed")
		subject := NewProbe(client, WithClock(fakeClock), WithRecorder(recorder))

		Expect(subject.Run(ctx, logger)).To(MatchError("assign failed"))
		expectCleanedUp()
		Expect(recorder.Durations()).To(HaveLen(2))
	})

	Describe("latency", func() {
		BeforeEach(func() {
			client.checkDelay = time.Second
		})

		It("fails a run with a call slower than the default max latency", func() {
			subject := NewProbe(client, WithClock(fakeClock), WithRecorder(recorder))

			Expect(subject.Run(ctx, logger)).To(MatchError(ErrExceededMaxLatency))
			expectCleanedUp()
			Expect(recorder.Durations()).To(ContainElement(time.Second))
		})

		It("honours a configured max latency", func() {
			subject := NewProbe(client, WithClock(fakeClock), WithMaxLatency(time.Minute))

			Expect(subject.Run(ctx, logger)).To(Succeed())
		})
	})

	Describe("timeouts", func() {
		It("bounds each call by the default timeout", func() {
			Expect(NewProbe(client, WithClock(fakeClock)).Run(ctx, logger)).To(Succeed())
			Expect(time.Until(client.deadline)).To(BeNumerically("<=", DefaultTimeout))
		})

		It("bounds each call by a configured timeout", func() {
			Expect(NewProbe(client, WithClock(fakeClock), WithTimeout(time.Hour)).Run(ctx, logger)).To(Succeed())
			Expect(time.Until(client.deadline)).To(BeNumerically(">", time.Minute))
		})
	})
})
