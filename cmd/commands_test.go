package cmd_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	"code.cloudfoundry.org/permstore/cmd"
	cmdflags "code.cloudfoundry.org/permstore/cmd/flags"
	"code.cloudfoundry.org/permstore/pkg/perm"
	"code.cloudfoundry.org/permstore/pkg/rolenames"
	"code.cloudfoundry.org/permstore/pkg/sqlx"
	flags "github.com/jessevdk/go-flags"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const cmdTimeout = time.Second

var _ = Describe("Commands", func() {
	var (
		dbPath     string
		connection cmd.ConnectionFlags
		out        *bytes.Buffer
		service    cmd.ServiceFlags
	)

	decode := func(v interface{}) {
		Expect(json.Unmarshal(out.Bytes(), v)).To(Succeed())
		out.Reset()
	}

	createPermission := func(permissionType, targetID string) perm.Permission {
		err := cmd.CreatePermissionCommand{
			ServiceFlags:   service,
			PermissionType: permissionType,
			TargetID:       targetID,
			Operator:       "apollo",
		}.Execute(nil)
		Expect(err).NotTo(HaveOccurred())

		var created perm.Permission
		decode(&created)
		return created
	}

	createRole := func(roleName string, permissionIDs ...int64) error {
		err := cmd.CreateRoleCommand{
			ServiceFlags:  service,
			RoleName:      roleName,
			PermissionIDs: permissionIDs,
			Operator:      "apollo",
		}.Execute(nil)
		out.Reset()
		return err
	}

	hasPermission := func(userID, permissionType, targetID string) bool {
		err := cmd.HasPermissionCommand{
			ServiceFlags:   service,
			UserID:         userID,
			PermissionType: permissionType,
			TargetID:       targetID,
		}.Execute(nil)
		Expect(err).NotTo(HaveOccurred())

		var ok bool
		decode(&ok)
		return ok
	}

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "permstore.db")
		connection = cmd.ConnectionFlags{
			Logger: cmdflags.LagerFlag{LogLevel: cmdflags.LogLevelFatal},
			DB: cmdflags.DBFlag{
				Driver: sqlx.DBDriverSQLite,
				Path:   dbPath,
			},
		}
		out = &bytes.Buffer{}
		service = cmd.ServiceFlags{
			ConnectionFlags: connection,
			SuperAdmins:     []string{"apollo"},
			Out:             out,
		}
	})

	It("refuses to run service commands before migrating", func() {
		err := cmd.UsersWithRoleCommand{ServiceFlags: service, RoleName: "someRole"}.Execute(nil)
		Expect(err).To(HaveOccurred())
	})

	Context("when migrated", func() {
		BeforeEach(func() {
			Expect(cmd.MigrateCommand{ConnectionFlags: connection}.Execute(nil)).To(Succeed())
		})

		It("is idempotent", func() {
			Expect(cmd.MigrateCommand{ConnectionFlags: connection}.Execute(nil)).To(Succeed())
		})

		It("creates, assigns, checks and removes roles", func() {
			permission := createPermission(rolenames.ModifyNamespace, "someAppId+application")
			Expect(permission.ID).NotTo(BeZero())
			Expect(permission.CreatedBy).To(Equal("apollo"))

			roleName := rolenames.ModifyNamespaceRoleName("someAppId", "application")
			Expect(createRole(roleName, permission.ID)).To(Succeed())

			err := cmd.AssignRoleCommand{
				ServiceFlags: service,
				RoleName:     roleName,
				UserIDs:      []string{"someUser", "someOtherUser"},
				Operator:     "apollo",
			}.Execute(nil)
			Expect(err).NotTo(HaveOccurred())

			var assigned []perm.UserRole
			decode(&assigned)
			Expect(assigned).To(HaveLen(2))

			Expect(hasPermission("someUser", rolenames.ModifyNamespace, "someAppId+application")).To(BeTrue())
			Expect(hasPermission("someUser", rolenames.ReleaseNamespace, "someAppId+application")).To(BeFalse())
			Expect(hasPermission("apollo", rolenames.ReleaseNamespace, "anything")).To(BeTrue())

			err = cmd.UsersWithRoleCommand{ServiceFlags: service, RoleName: roleName}.Execute(nil)
			Expect(err).NotTo(HaveOccurred())

			var users []perm.UserInfo
			decode(&users)
			Expect(users).To(ConsistOf(
				perm.UserInfo{UserID: "someUser", Name: "someUser", Enabled: true},
				perm.UserInfo{UserID: "someOtherUser", Name: "someOtherUser", Enabled: true},
			))

			err = cmd.RemoveRoleCommand{
				ServiceFlags: service,
				RoleName:     roleName,
				UserIDs:      []string{"someUser"},
				Operator:     "apollo",
			}.Execute(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(hasPermission("someUser", rolenames.ModifyNamespace, "someAppId+application")).To(BeFalse())
			Expect(hasPermission("someOtherUser", rolenames.ModifyNamespace, "someAppId+application")).To(BeTrue())
		})

		It("reports conflicts", func() {
			createPermission(rolenames.ModifyNamespace, "someAppId+application")

			err := cmd.CreatePermissionCommand{
				ServiceFlags:   service,
				PermissionType: rolenames.ModifyNamespace,
				TargetID:       "someAppId+application",
				Operator:       "apollo",
			}.Execute(nil)
			Expect(err).To(MatchError(perm.ErrPermissionAlreadyExists))
		})

		It("deletes the roles and permissions of an app", func() {
			permission := createPermission(rolenames.ModifyNamespace, "someAppId+application")
			roleName := rolenames.ModifyNamespaceRoleName("someAppId", "application")
			Expect(createRole(roleName, permission.ID)).To(Succeed())
			Expect(createRole(rolenames.MasterRoleName("someAppId"))).To(Succeed())
			Expect(createRole(rolenames.MasterRoleName("someAppId2"))).To(Succeed())

			err := cmd.DeleteAppCommand{
				ServiceFlags: service,
				AppID:        "someAppId",
				Operator:     "apollo",
			}.Execute(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(createRole(roleName)).To(Succeed())
			Expect(createRole(rolenames.MasterRoleName("someAppId"))).To(Succeed())
			Expect(createRole(rolenames.MasterRoleName("someAppId2"))).To(MatchError(perm.ErrRoleAlreadyExists))

			recreated := createPermission(rolenames.ModifyNamespace, "someAppId+application")
			Expect(recreated.ID).NotTo(Equal(permission.ID))
		})

		It("deletes only one namespace when asked", func() {
			Expect(createRole(rolenames.ModifyNamespaceRoleName("someAppId", "application"))).To(Succeed())
			Expect(createRole(rolenames.ModifyNamespaceRoleName("someAppId", "other"))).To(Succeed())

			err := cmd.DeleteAppCommand{
				ServiceFlags: service,
				AppID:        "someAppId",
				Namespace:    "application",
				Operator:     "apollo",
			}.Execute(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(createRole(rolenames.ModifyNamespaceRoleName("someAppId", "application"))).To(Succeed())
			Expect(createRole(rolenames.ModifyNamespaceRoleName("someAppId", "other"))).To(MatchError(perm.ErrRoleAlreadyExists))
		})

		It("runs the probe once", func() {
			err := cmd.ProbeCommand{
				ServiceFlags:   service,
				Timeout:        cmdTimeout,
				CleanupTimeout: cmdTimeout,
				MaxLatency:     cmdTimeout,
			}.Execute(nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("refuses to run service commands once a migration is rolled back", func() {
			Expect(cmd.RollbackCommand{ConnectionFlags: connection}.Execute(nil)).To(Succeed())

			err := cmd.UsersWithRoleCommand{ServiceFlags: service, RoleName: "someRole"}.Execute(nil)
			Expect(err).To(MatchError(sqlx.ErrMigrationsOutOfSync))
		})

		It("rolls back every migration with --all", func() {
			Expect(cmd.RollbackCommand{ConnectionFlags: connection, All: true}.Execute(nil)).To(Succeed())

			err := cmd.UsersWithRoleCommand{ServiceFlags: service, RoleName: "someRole"}.Execute(nil)
			Expect(err).To(MatchError(sqlx.ErrMigrationsOutOfSync))

			Expect(cmd.MigrateCommand{ConnectionFlags: connection}.Execute(nil)).To(Succeed())
			Expect(cmd.UsersWithRoleCommand{ServiceFlags: service, RoleName: "someRole"}.Execute(nil)).To(Succeed())
		})
	})

	Describe("NewParser", func() {
		It("runs commands with namespaced flags", func() {
			var opts cmd.Options
			parser := cmd.NewParser(&opts)

			_, err := parser.ParseArgs([]string{
				"migrate",
				"--log-level", "fatal",
				"--db-driver", "sqlite3",
				"--db-path", dbPath,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(opts.Migrate.DB.Driver).To(Equal(sqlx.DBDriverSQLite))
			Expect(opts.Migrate.DB.Path).To(Equal(dbPath))
			Expect(cmd.UsersWithRoleCommand{ServiceFlags: service, RoleName: "someRole"}.Execute(nil)).To(Succeed())
		})

		It("applies defaults", func() {
			Expect(cmd.MigrateCommand{ConnectionFlags: connection}.Execute(nil)).To(Succeed())

			var opts cmd.Options
			parser := cmd.NewParser(&opts)

			_, err := parser.ParseArgs([]string{"rollback", "--db-driver", "sqlite3", "--db-path", dbPath, "--all"})
			Expect(err).NotTo(HaveOccurred())

			Expect(opts.Rollback.All).To(BeTrue())
			Expect(opts.Rollback.Logger.LogLevel).To(Equal(cmdflags.LogLevelInfo))
		})

		It("requires command flags", func() {
			var opts cmd.Options
			parser := cmd.NewParser(&opts)
			parser.Options = flags.None

			_, err := parser.ParseArgs([]string{"has-permission", "--type", "ModifyNamespace", "--target-id", "someAppId"})

			var flagsErr *flags.Error
			Expect(errors.As(err, &flagsErr)).To(BeTrue())
			Expect(flagsErr.Type).To(Equal(flags.ErrRequired))
			Expect(err.Error()).To(ContainSubstring("--user"))
		})
	})
})
