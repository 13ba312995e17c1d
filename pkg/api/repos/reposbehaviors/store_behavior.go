package reposbehaviors

import (
	"context"
	"errors"
	"time"

	"code.cloudfoundry.org/lager/v3/lagertest"
	"code.cloudfoundry.org/permstore/pkg/api/repos"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/logx/lagerx"
	"code.cloudfoundry.org/permstore/pkg/perm"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	uuid "github.com/satori/go.uuid"
)

var errAbort = errors.New("abort")

func BehavesLikeAStore(subjectCreator func() repos.Store) {
	var (
		subject repos.Store

		ctx    context.Context
		logger logx.Logger

		cancelFunc context.CancelFunc
	)

	BeforeEach(func() {
		subject = subjectCreator()

		ctx, cancelFunc = context.WithTimeout(context.Background(), 5*time.Second)
		logger = lagerx.NewLogger(lagertest.NewTestLogger("perm-test"))
	})

	AfterEach(func() {
		cancelFunc()
	})

	transact := func(fn func(repos.Tx) error) error {
		return subject.Transact(ctx, logger, fn)
	}

	createPermission := func(permissionType, targetID string) perm.Permission {
		var created []perm.Permission
		err := transact(func(tx repos.Tx) (err error) {
			created, err = tx.CreatePermissions(ctx, logger, perm.Permission{
				PermissionType: permissionType,
				TargetID:       targetID,
				Audit:          perm.Audit{CreatedBy: "creator"},
			})
			return
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(HaveLen(1))
		return created[0]
	}

	createRole := func(roleName string) perm.Role {
		var created perm.Role
		err := transact(func(tx repos.Tx) (err error) {
			created, err = tx.CreateRole(ctx, logger, perm.Role{
				RoleName: roleName,
				Audit:    perm.Audit{CreatedBy: "creator"},
			})
			return
		})
		Expect(err).NotTo(HaveOccurred())
		return created
	}

	bindPermission := func(role perm.Role, p perm.Permission) {
		err := transact(func(tx repos.Tx) error {
			_, err := tx.CreateRolePermissions(ctx, logger, perm.RolePermission{
				RoleID:       role.ID,
				PermissionID: p.ID,
				Audit:        perm.Audit{CreatedBy: "creator"},
			})
			return err
		})
		Expect(err).NotTo(HaveOccurred())
	}

	assignUser := func(role perm.Role, userID string) {
		err := transact(func(tx repos.Tx) error {
			_, err := tx.CreateUserRoles(ctx, logger, perm.UserRole{
				UserID: userID,
				RoleID: role.ID,
				Audit:  perm.Audit{CreatedBy: "operator"},
			})
			return err
		})
		Expect(err).NotTo(HaveOccurred())
	}

	findRole := func(roleName string) (role perm.Role, err error) {
		_ = transact(func(tx repos.Tx) error {
			role, err = tx.FindRole(ctx, logger, repos.FindRoleQuery{RoleName: roleName})
			return nil
		})
		return
	}

	findPermission := func(permissionType, targetID string) (p perm.Permission, err error) {
		_ = transact(func(tx repos.Tx) error {
			p, err = tx.FindPermission(ctx, logger, repos.FindPermissionQuery{
				PermissionType: permissionType,
				TargetID:       targetID,
			})
			return nil
		})
		return
	}

	hasPermission := func(userID, permissionType, targetID string) bool {
		var ok bool
		err := transact(func(tx repos.Tx) (err error) {
			ok, err = tx.HasPermission(ctx, logger, repos.HasPermissionQuery{
				UserID:         userID,
				PermissionType: permissionType,
				TargetID:       targetID,
			})
			return
		})
		Expect(err).NotTo(HaveOccurred())
		return ok
	}

	listUserRoles := func(query repos.UserRoleQuery) []perm.UserRole {
		var userRoles []perm.UserRole
		err := transact(func(tx repos.Tx) (err error) {
			userRoles, err = tx.ListUserRoles(ctx, logger, query)
			return
		})
		Expect(err).NotTo(HaveOccurred())
		return userRoles
	}

	listRolePermissions := func(query repos.RolePermissionQuery) []perm.RolePermission {
		var rolePermissions []perm.RolePermission
		err := transact(func(tx repos.Tx) (err error) {
			rolePermissions, err = tx.ListRolePermissions(ctx, logger, query)
			return
		})
		Expect(err).NotTo(HaveOccurred())
		return rolePermissions
	}

	Describe("#Transact", func() {
		It("discards every write when the function fails", func() {
			roleName := uuid.NewV4().String()

			err := transact(func(tx repos.Tx) error {
				_, err := tx.CreateRole(ctx, logger, perm.Role{RoleName: roleName})
				Expect(err).NotTo(HaveOccurred())

				return errAbort
			})
			Expect(err).To(MatchError(errAbort))

			_, err = findRole(roleName)
			Expect(err).To(MatchError(perm.ErrRoleNotFound))
		})

		It("sees its own writes", func() {
			roleName := uuid.NewV4().String()

			err := transact(func(tx repos.Tx) error {
				created, err := tx.CreateRole(ctx, logger, perm.Role{RoleName: roleName})
				Expect(err).NotTo(HaveOccurred())

				found, err := tx.FindRole(ctx, logger, repos.FindRoleQuery{RoleName: roleName})
				Expect(err).NotTo(HaveOccurred())
				Expect(found.ID).To(Equal(created.ID))

				return nil
			})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("#CreatePermissions", func() {
		It("saves the permission with an id and audit fields", func() {
			targetID := uuid.NewV4().String()

			p := createPermission("CreateCluster", targetID)

			Expect(p.ID).NotTo(BeZero())
			Expect(p.PermissionType).To(Equal("CreateCluster"))
			Expect(p.TargetID).To(Equal(targetID))
			Expect(p.CreatedBy).To(Equal("creator"))
			Expect(p.LastModifiedBy).To(Equal("creator"))
			Expect(p.CreatedAt).NotTo(BeZero())
			Expect(p.LastModifiedAt).To(BeTemporally("==", p.CreatedAt))

			found, err := findPermission("CreateCluster", targetID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(p.ID))
			Expect(found.CreatedBy).To(Equal("creator"))
			Expect(found.CreatedAt).To(BeTemporally("==", p.CreatedAt))
		})

		It("fails if a permission with the type and target already exists", func() {
			targetID := uuid.NewV4().String()
			createPermission("CreateCluster", targetID)

			err := transact(func(tx repos.Tx) error {
				_, err := tx.CreatePermissions(ctx, logger, perm.Permission{PermissionType: "CreateCluster", TargetID: targetID})
				return err
			})
			Expect(err).To(MatchError(perm.ErrPermissionAlreadyExists))
		})

		It("allows the same target with another type", func() {
			targetID := uuid.NewV4().String()
			createPermission("CreateCluster", targetID)
			createPermission("CreateNamespace", targetID)
		})

		It("persists nothing when a sibling collides", func() {
			targetID := uuid.NewV4().String()
			otherTargetID := uuid.NewV4().String()

			err := transact(func(tx repos.Tx) error {
				_, err := tx.CreatePermissions(ctx, logger,
					perm.Permission{PermissionType: "CreateCluster", TargetID: otherTargetID},
					perm.Permission{PermissionType: "CreateCluster", TargetID: targetID},
					perm.Permission{PermissionType: "CreateCluster", TargetID: targetID},
				)
				return err
			})
			Expect(err).To(MatchError(perm.ErrPermissionAlreadyExists))

			_, err = findPermission("CreateCluster", otherTargetID)
			Expect(err).To(MatchError(perm.ErrPermissionNotFound))
			_, err = findPermission("CreateCluster", targetID)
			Expect(err).To(MatchError(perm.ErrPermissionNotFound))
		})
	})

	Describe("#FindPermission", func() {
		It("fails if the permission does not exist", func() {
			_, err := findPermission("CreateCluster", uuid.NewV4().String())
			Expect(err).To(MatchError(perm.ErrPermissionNotFound))
		})
	})

	Describe("#ListPermissionsByID", func() {
		It("returns the live permissions with the ids", func() {
			p1 := createPermission("CreateCluster", uuid.NewV4().String())
			p2 := createPermission("CreateCluster", uuid.NewV4().String())
			createPermission("CreateCluster", uuid.NewV4().String())

			var permissions []perm.Permission
			err := transact(func(tx repos.Tx) (err error) {
				permissions, err = tx.ListPermissionsByID(ctx, logger, p1.ID, p2.ID, -1)
				return
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(permissions).To(HaveLen(2))
			Expect(permissions[0].ID).To(Equal(p1.ID))
			Expect(permissions[1].ID).To(Equal(p2.ID))
		})
	})

	Describe("#ListPermissionsByTarget", func() {
		listByTarget := func(query repos.ListPermissionsByTargetQuery) []string {
			var targets []string
			err := transact(func(tx repos.Tx) error {
				permissions, err := tx.ListPermissionsByTarget(ctx, logger, query)
				for _, p := range permissions {
					targets = append(targets, p.TargetID)
				}
				return err
			})
			Expect(err).NotTo(HaveOccurred())
			return targets
		}

		It("matches exact targets and prefixes only", func() {
			app := uuid.NewV4().String()
			createPermission("CreateCluster", app)
			createPermission("ModifyNamespace", app+"+application")
			createPermission("ReleaseNamespace", app+"+application+DEV")
			createPermission("CreateCluster", app+"2")
			createPermission("ModifyNamespace", app+"2+application")

			targets := listByTarget(repos.ListPermissionsByTargetQuery{
				TargetIDs:        []string{app},
				TargetIDPrefixes: []string{app + "+"},
			})
			Expect(targets).To(ConsistOf(app, app+"+application", app+"+application+DEV"))
		})

		It("treats wildcard characters in prefixes literally", func() {
			suffix := uuid.NewV4().String()
			createPermission("ModifyNamespace", "some_pp+"+suffix)
			createPermission("ModifyNamespace", "someApp+"+suffix)
			createPermission("ModifyNamespace", "so%App+"+suffix)

			Expect(listByTarget(repos.ListPermissionsByTargetQuery{
				TargetIDPrefixes: []string{"some_pp+"},
			})).To(ConsistOf("some_pp+" + suffix))

			Expect(listByTarget(repos.ListPermissionsByTargetQuery{
				TargetIDPrefixes: []string{"so%App+"},
			})).To(ConsistOf("so%App+" + suffix))
		})

		It("matches nothing for an empty query", func() {
			createPermission("CreateCluster", uuid.NewV4().String())

			Expect(listByTarget(repos.ListPermissionsByTargetQuery{})).To(BeEmpty())
		})
	})

	Describe("#DeletePermissions", func() {
		It("hides the permission and allows it to be recreated", func() {
			targetID := uuid.NewV4().String()
			p := createPermission("CreateCluster", targetID)

			err := transact(func(tx repos.Tx) error {
				return tx.DeletePermissions(ctx, logger, "deleter", p.ID)
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = findPermission("CreateCluster", targetID)
			Expect(err).To(MatchError(perm.ErrPermissionNotFound))

			recreated := createPermission("CreateCluster", targetID)
			Expect(recreated.ID).NotTo(Equal(p.ID))
		})

		It("does nothing without ids", func() {
			targetID := uuid.NewV4().String()
			createPermission("CreateCluster", targetID)

			err := transact(func(tx repos.Tx) error {
				return tx.DeletePermissions(ctx, logger, "deleter")
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = findPermission("CreateCluster", targetID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("#CreateRole", func() {
		It("saves the role", func() {
			roleName := uuid.NewV4().String()

			role := createRole(roleName)
			Expect(role.ID).NotTo(BeZero())
			Expect(role.RoleName).To(Equal(roleName))
			Expect(role.CreatedBy).To(Equal("creator"))
			Expect(role.LastModifiedBy).To(Equal("creator"))

			found, err := findRole(roleName)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(role.ID))
			Expect(found.RoleName).To(Equal(roleName))
		})

		It("fails if a role with the name already exists", func() {
			roleName := uuid.NewV4().String()
			createRole(roleName)

			err := transact(func(tx repos.Tx) error {
				_, err := tx.CreateRole(ctx, logger, perm.Role{RoleName: roleName})
				return err
			})
			Expect(err).To(MatchError(perm.ErrRoleAlreadyExists))
		})
	})

	Describe("#FindRole", func() {
		It("fails if the role does not exist", func() {
			_, err := findRole(uuid.NewV4().String())
			Expect(err).To(MatchError(perm.ErrRoleNotFound))
		})
	})

	Describe("#ListRoles", func() {
		listRoles := func(query repos.ListRolesQuery) []string {
			var names []string
			err := transact(func(tx repos.Tx) error {
				roles, err := tx.ListRoles(ctx, logger, query)
				for _, r := range roles {
					names = append(names, r.RoleName)
				}
				return err
			})
			Expect(err).NotTo(HaveOccurred())
			return names
		}

		It("matches exact names and prefixes only", func() {
			app := uuid.NewV4().String()
			createRole("Master+" + app)
			createRole("ModifyNamespace+" + app + "+application")
			createRole("Master+" + app + "2")
			createRole("ModifyNamespace+" + app + "2+application")

			names := listRoles(repos.ListRolesQuery{
				RoleNames:        []string{"Master+" + app},
				RoleNamePrefixes: []string{"ModifyNamespace+" + app + "+"},
			})
			Expect(names).To(ConsistOf("Master+"+app, "ModifyNamespace+"+app+"+application"))
		})

		It("matches nothing for an empty query", func() {
			createRole(uuid.NewV4().String())

			Expect(listRoles(repos.ListRolesQuery{})).To(BeEmpty())
		})
	})

	Describe("#DeleteRoles", func() {
		It("hides the role and allows it to be recreated", func() {
			roleName := uuid.NewV4().String()
			role := createRole(roleName)

			err := transact(func(tx repos.Tx) error {
				return tx.DeleteRoles(ctx, logger, "deleter", role.ID)
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = findRole(roleName)
			Expect(err).To(MatchError(perm.ErrRoleNotFound))

			recreated := createRole(roleName)
			Expect(recreated.ID).NotTo(Equal(role.ID))
		})
	})

	Describe("#CreateRolePermissions", func() {
		It("binds the permission to the role once", func() {
			role := createRole(uuid.NewV4().String())
			p := createPermission("CreateCluster", uuid.NewV4().String())
			bindPermission(role, p)

			err := transact(func(tx repos.Tx) error {
				_, err := tx.CreateRolePermissions(ctx, logger, perm.RolePermission{RoleID: role.ID, PermissionID: p.ID})
				return err
			})
			Expect(err).To(MatchError(perm.ErrRolePermissionAlreadyExists))

			rolePermissions := listRolePermissions(repos.RolePermissionQuery{RoleIDs: []int64{role.ID}})
			Expect(rolePermissions).To(HaveLen(1))
			Expect(rolePermissions[0].PermissionID).To(Equal(p.ID))
			Expect(rolePermissions[0].CreatedBy).To(Equal("creator"))
		})
	})

	Describe("#ListRolePermissions", func() {
		It("restricts by every given field", func() {
			role1 := createRole(uuid.NewV4().String())
			role2 := createRole(uuid.NewV4().String())
			p1 := createPermission("CreateCluster", uuid.NewV4().String())
			p2 := createPermission("CreateCluster", uuid.NewV4().String())
			bindPermission(role1, p1)
			bindPermission(role1, p2)
			bindPermission(role2, p1)

			Expect(listRolePermissions(repos.RolePermissionQuery{RoleIDs: []int64{role1.ID}})).To(HaveLen(2))
			Expect(listRolePermissions(repos.RolePermissionQuery{PermissionIDs: []int64{p1.ID}})).To(HaveLen(2))
			Expect(listRolePermissions(repos.RolePermissionQuery{
				RoleIDs:       []int64{role1.ID},
				PermissionIDs: []int64{p1.ID},
			})).To(HaveLen(1))
			Expect(listRolePermissions(repos.RolePermissionQuery{})).To(BeEmpty())
		})
	})

	Describe("#DeleteRolePermissions", func() {
		It("removes only the matching bindings and allows them to be recreated", func() {
			role1 := createRole(uuid.NewV4().String())
			role2 := createRole(uuid.NewV4().String())
			p := createPermission("CreateCluster", uuid.NewV4().String())
			bindPermission(role1, p)
			bindPermission(role2, p)

			err := transact(func(tx repos.Tx) error {
				return tx.DeleteRolePermissions(ctx, logger, "deleter", repos.RolePermissionQuery{RoleIDs: []int64{role1.ID}})
			})
			Expect(err).NotTo(HaveOccurred())

			remaining := listRolePermissions(repos.RolePermissionQuery{PermissionIDs: []int64{p.ID}})
			Expect(remaining).To(HaveLen(1))
			Expect(remaining[0].RoleID).To(Equal(role2.ID))

			bindPermission(role1, p)
		})
	})

	Describe("#CreateUserRoles", func() {
		It("binds the user to the role once", func() {
			role := createRole(uuid.NewV4().String())
			assignUser(role, "user1")

			err := transact(func(tx repos.Tx) error {
				_, err := tx.CreateUserRoles(ctx, logger, perm.UserRole{UserID: "user1", RoleID: role.ID})
				return err
			})
			Expect(err).To(MatchError(perm.ErrUserRoleAlreadyExists))

			userRoles := listUserRoles(repos.UserRoleQuery{RoleIDs: []int64{role.ID}})
			Expect(userRoles).To(HaveLen(1))
			Expect(userRoles[0].UserID).To(Equal("user1"))
			Expect(userRoles[0].CreatedBy).To(Equal("operator"))
			Expect(userRoles[0].LastModifiedBy).To(Equal("operator"))
		})
	})

	Describe("#ListUserRoles", func() {
		It("restricts by every given field", func() {
			role1 := createRole(uuid.NewV4().String())
			role2 := createRole(uuid.NewV4().String())
			user := uuid.NewV4().String()
			assignUser(role1, user)
			assignUser(role2, user)
			assignUser(role1, "someone-else")

			Expect(listUserRoles(repos.UserRoleQuery{UserIDs: []string{user}})).To(HaveLen(2))
			Expect(listUserRoles(repos.UserRoleQuery{RoleIDs: []int64{role1.ID}})).To(HaveLen(2))
			Expect(listUserRoles(repos.UserRoleQuery{
				UserIDs: []string{user},
				RoleIDs: []int64{role1.ID},
			})).To(HaveLen(1))
			Expect(listUserRoles(repos.UserRoleQuery{})).To(BeEmpty())
		})
	})

	Describe("#DeleteUserRoles", func() {
		It("removes only the matching bindings", func() {
			role := createRole(uuid.NewV4().String())
			assignUser(role, "user1")
			assignUser(role, "user2")

			err := transact(func(tx repos.Tx) error {
				return tx.DeleteUserRoles(ctx, logger, "deleter", repos.UserRoleQuery{
					RoleIDs: []int64{role.ID},
					UserIDs: []string{"user1"},
				})
			})
			Expect(err).NotTo(HaveOccurred())

			remaining := listUserRoles(repos.UserRoleQuery{RoleIDs: []int64{role.ID}})
			Expect(remaining).To(HaveLen(1))
			Expect(remaining[0].UserID).To(Equal("user2"))

			assignUser(role, "user1")
		})

		It("does nothing for an empty query", func() {
			role := createRole(uuid.NewV4().String())
			assignUser(role, "user1")

			err := transact(func(tx repos.Tx) error {
				return tx.DeleteUserRoles(ctx, logger, "deleter", repos.UserRoleQuery{})
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(listUserRoles(repos.UserRoleQuery{RoleIDs: []int64{role.ID}})).To(HaveLen(1))
		})
	})

	Describe("#HasPermission", func() {
		var (
			user     string
			targetID string
			role     perm.Role
		)

		BeforeEach(func() {
			user = uuid.NewV4().String()
			targetID = uuid.NewV4().String()

			role = createRole(uuid.NewV4().String())
			p := createPermission("ModifyNamespace", targetID)
			bindPermission(role, p)
			assignUser(role, user)
		})

		It("is true when a role connects the user and the permission", func() {
			Expect(hasPermission(user, "ModifyNamespace", targetID)).To(BeTrue())
		})

		It("is false for other users, types and targets", func() {
			Expect(hasPermission("someone-else", "ModifyNamespace", targetID)).To(BeFalse())
			Expect(hasPermission(user, "ReleaseNamespace", targetID)).To(BeFalse())
			Expect(hasPermission(user, "ModifyNamespace", uuid.NewV4().String())).To(BeFalse())
		})

		It("is false once the user is removed from the role", func() {
			err := transact(func(tx repos.Tx) error {
				return tx.DeleteUserRoles(ctx, logger, "deleter", repos.UserRoleQuery{UserIDs: []string{user}})
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(hasPermission(user, "ModifyNamespace", targetID)).To(BeFalse())
		})

		It("is false once the role is deleted", func() {
			err := transact(func(tx repos.Tx) error {
				return tx.DeleteRoles(ctx, logger, "deleter", role.ID)
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(hasPermission(user, "ModifyNamespace", targetID)).To(BeFalse())
		})
	})
}
