package cmd

type AssignRoleCommand struct {
	ServiceFlags

	RoleName string   `long:"role" description:"Role to assign" required:"true"`
	UserIDs  []string `long:"user" description:"User to bind to the role; may be repeated" required:"true"`
	Operator string   `long:"operator" description:"User recorded on the new bindings" required:"true"`
}

func (cmd AssignRoleCommand) Execute([]string) error {
	return cmd.withService("assign-role", func(r serviceRun) error {
		created, err := r.service.AssignRoleToUsers(r.ctx, cmd.RoleName, cmd.UserIDs, cmd.Operator)
		if err != nil {
			return err
		}

		return cmd.writeJSON(created)
	})
}

type RemoveRoleCommand struct {
	ServiceFlags

	RoleName string   `long:"role" description:"Role to remove" required:"true"`
	UserIDs  []string `long:"user" description:"User to unbind from the role; may be repeated" required:"true"`
	Operator string   `long:"operator" description:"User recorded on the removed bindings" required:"true"`
}

func (cmd RemoveRoleCommand) Execute([]string) error {
	return cmd.withService("remove-role", func(r serviceRun) error {
		return r.service.RemoveRoleFromUsers(r.ctx, cmd.RoleName, cmd.UserIDs, cmd.Operator)
	})
}
