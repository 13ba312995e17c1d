package db

const (
	failedToStartTransaction = "failed-to-start-transaction"

	failedToRetrieveID      = "failed-to-retrieve-id"
	failedToScanRow         = "failed-to-scan-row"
	failedToIterateOverRows = "failed-to-iterate-over-rows"

	errPermissionAlreadyExists = "permission-already-exists"
	errPermissionNotFound      = "permission-not-found"

	failedToCreatePermission = "failed-to-create-permission"
	failedToFindPermission   = "failed-to-find-permission"
	failedToListPermissions  = "failed-to-list-permissions"
	failedToDeletePermission = "failed-to-delete-permission"
	failedToCheckPermission  = "failed-to-check-permission"

	errRoleAlreadyExists = "role-already-exists"
	errRoleNotFound      = "role-not-found"

	failedToCreateRole = "failed-to-create-role"
	failedToFindRole   = "failed-to-find-role"
	failedToListRoles  = "failed-to-list-roles"
	failedToDeleteRole = "failed-to-delete-role"

	errRolePermissionAlreadyExists = "role-permission-already-exists"

	failedToCreateRolePermission = "failed-to-create-role-permission"
	failedToListRolePermissions  = "failed-to-list-role-permissions"
	failedToDeleteRolePermission = "failed-to-delete-role-permission"

	errUserRoleAlreadyExists = "user-role-already-exists"

	failedToCreateUserRole = "failed-to-create-user-role"
	failedToListUserRoles  = "failed-to-list-user-roles"
	failedToDeleteUserRole = "failed-to-delete-user-role"
)
