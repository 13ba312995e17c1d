package rolepermission

const (
	starting = "starting"
	success  = "success"
	failed   = "failed"

	deleting           = "deleting"
	skippedUnknownUser = "skipped-unknown-user"
	superAdmin         = "super-admin"
)

const metricPrefix = "rolepermission"

const (
	createPermissionOp          = "create-permission"
	createPermissionsOp         = "create-permissions"
	createRoleWithPermissionsOp = "create-role-with-permissions"
	findRoleByRoleNameOp        = "find-role-by-role-name"
	assignRoleToUsersOp         = "assign-role-to-users"
	removeRoleFromUsersOp       = "remove-role-from-users"
	findUserRolesOp             = "find-user-roles"
	queryUsersWithRoleOp        = "query-users-with-role"
	userHasPermissionOp         = "user-has-permission"
	deleteByAppIDOp             = "delete-role-permissions-by-app-id"
	deleteByAppIDAndNamespaceOp = "delete-role-permissions-by-app-id-and-namespace"
)
