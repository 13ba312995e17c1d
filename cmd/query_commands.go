package cmd

type HasPermissionCommand struct {
	ServiceFlags

	UserID         string `long:"user" description:"User to check" required:"true"`
	PermissionType string `long:"type" description:"Permission type" required:"true"`
	TargetID       string `long:"target-id" description:"Permission target" required:"true"`
}

func (cmd HasPermissionCommand) Execute([]string) error {
	return cmd.withService("has-permission", func(r serviceRun) error {
		ok, err := r.service.UserHasPermission(r.ctx, cmd.UserID, cmd.PermissionType, cmd.TargetID)
		if err != nil {
			return err
		}

		return cmd.writeJSON(ok)
	})
}

type UsersWithRoleCommand struct {
	ServiceFlags

	RoleName string `long:"role" description:"Role whose users are listed" required:"true"`
}

func (cmd UsersWithRoleCommand) Execute([]string) error {
	return cmd.withService("users-with-role", func(r serviceRun) error {
		users, err := r.service.QueryUsersWithRole(r.ctx, cmd.RoleName)
		if err != nil {
			return err
		}

		return cmd.writeJSON(users)
	})
}
