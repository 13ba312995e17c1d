package cmd

import (
	flags "github.com/jessevdk/go-flags"
)

type Options struct {
	Migrate  MigrateCommand  `command:"migrate" description:"Apply pending database migrations"`
	Rollback RollbackCommand `command:"rollback" description:"Roll back the latest database migration"`

	CreatePermission CreatePermissionCommand `command:"create-permission" description:"Create a permission"`
	CreateRole       CreateRoleCommand       `command:"create-role" description:"Create a role bound to existing permissions"`
	AssignRole       AssignRoleCommand       `command:"assign-role" description:"Bind users to a role"`
	RemoveRole       RemoveRoleCommand       `command:"remove-role" description:"Unbind users from a role"`
	HasPermission    HasPermissionCommand    `command:"has-permission" description:"Check whether a user holds a permission"`
	UsersWithRole    UsersWithRoleCommand    `command:"users-with-role" description:"List the users bound to a role"`
	DeleteApp        DeleteAppCommand        `command:"delete-app" description:"Remove the roles and permissions of an app"`

	Probe ProbeCommand `command:"probe" description:"Exercise the permission lifecycle and report timings to StatsD"`
}

func NewParser(opts *Options) *flags.Parser {
	parser := flags.NewParser(opts, flags.Default)
	parser.NamespaceDelimiter = "-"

	return parser
}
