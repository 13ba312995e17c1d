package inmemory

import (
	"context"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/perm"
)

// Store keeps every record in maps. Transactions are serialised and each one
// works on a copy that replaces the committed state only when it succeeds.
// Deleted records are dropped rather than marked.
type Store struct {
	mu    sync.Mutex
	clock clock.Clock
	state *state
}

type state struct {
	lastID int64

	permissions     map[int64]perm.Permission
	roles           map[int64]perm.Role
	rolePermissions map[int64]perm.RolePermission
	userRoles       map[int64]perm.UserRole
}

func NewStore(clock clock.Clock) *Store {
	return &Store{
		clock: clock,
		state: &state{
			permissions:     make(map[int64]perm.Permission),
			roles:           make(map[int64]perm.Role),
			rolePermissions: make(map[int64]perm.RolePermission),
			userRoles:       make(map[int64]perm.UserRole),
		},
	}
}

func (s *Store) Transact(
	ctx context.Context,
	logger logx.Logger,
	fn func(repos.Tx) error,
) error {
	logger = logger.WithName("in-memory-store")

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(&storeTx{state: working, clock: s.clock}); err != nil {
		logger.Debug(discarded)
		return err
	}

	s.state = working
	logger.Debug(committed)

	return nil
}

func (s *state) clone() *state {
	c := &state{
		lastID:          s.lastID,
		permissions:     make(map[int64]perm.Permission, len(s.permissions)),
		roles:           make(map[int64]perm.Role, len(s.roles)),
		rolePermissions: make(map[int64]perm.RolePermission, len(s.rolePermissions)),
		userRoles:       make(map[int64]perm.UserRole, len(s.userRoles)),
	}

	for id, p := range s.permissions {
		c.permissions[id] = p
	}
	for id, r := range s.roles {
		c.roles[id] = r
	}
	for id, rp := range s.rolePermissions {
		c.rolePermissions[id] = rp
	}
	for id, ur := range s.userRoles {
		c.userRoles[id] = ur
	}

	return c
}

func (s *state) nextID() int64 {
	s.lastID++
	return s.lastID
}

type storeTx struct {
	state *state
	clock clock.Clock
}

func (t *storeTx) now() time.Time {
	return t.clock.Now().UTC().Truncate(time.Microsecond)
}

func stampAudit(a *perm.Audit, now time.Time) {
	if a.LastModifiedBy == "" {
		a.LastModifiedBy = a.CreatedBy
	}
	a.CreatedAt = now
	a.LastModifiedAt = now
}
