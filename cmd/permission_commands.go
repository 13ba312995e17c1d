package cmd

import (
	"code.cloudfoundry.org/permstore/pkg/perm"
)

type CreatePermissionCommand struct {
	ServiceFlags

	PermissionType string `long:"type" description:"Permission type, e.g. ModifyNamespace" required:"true"`
	TargetID       string `long:"target-id" description:"Target the permission applies to, e.g. app+namespace" required:"true"`
	Operator       string `long:"operator" description:"User recorded as creator" required:"true"`
}

func (cmd CreatePermissionCommand) Execute([]string) error {
	return cmd.withService("create-permission", func(r serviceRun) error {
		created, err := r.service.CreatePermission(r.ctx, perm.Permission{
			PermissionType: cmd.PermissionType,
			TargetID:       cmd.TargetID,
			Audit:          perm.Audit{CreatedBy: cmd.Operator, LastModifiedBy: cmd.Operator},
		})
		if err != nil {
			return err
		}

		return cmd.writeJSON(created)
	})
}

type CreateRoleCommand struct {
	ServiceFlags

	RoleName      string  `long:"name" description:"Role name, e.g. ModifyNamespace+app+namespace" required:"true"`
	PermissionIDs []int64 `long:"permission-id" description:"Permission bound to the role; may be repeated"`
	Operator      string  `long:"operator" description:"User recorded as creator" required:"true"`
}

func (cmd CreateRoleCommand) Execute([]string) error {
	return cmd.withService("create-role", func(r serviceRun) error {
		created, err := r.service.CreateRoleWithPermissions(r.ctx, perm.Role{
			RoleName: cmd.RoleName,
			Audit:    perm.Audit{CreatedBy: cmd.Operator, LastModifiedBy: cmd.Operator},
		}, cmd.PermissionIDs)
		if err != nil {
			return err
		}

		return cmd.writeJSON(created)
	})
}
