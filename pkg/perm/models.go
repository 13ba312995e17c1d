package perm

import "time"

// Audit records who created and last touched a record. Soft deletion
// overwrites the LastModified pair with the deleting operator.
type Audit struct {
	CreatedBy      string
	CreatedAt      time.Time
	LastModifiedBy string
	LastModifiedAt time.Time
}

type Permission struct {
	ID             int64
	PermissionType string `validate:"notblank" label:"permission type"`
	TargetID       string `validate:"notblank" label:"target id"`

	Audit
}

type Role struct {
	ID       int64
	RoleName string `validate:"notblank" label:"role name"`

	Audit
}

type RolePermission struct {
	ID           int64
	RoleID       int64
	PermissionID int64

	Audit
}

type UserRole struct {
	ID     int64
	UserID string
	RoleID int64

	Audit
}

type UserInfo struct {
	UserID  string
	Name    string
	Email   string
	Enabled bool
}
