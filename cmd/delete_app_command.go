package cmd

type DeleteAppCommand struct {
	ServiceFlags

	AppID     string `long:"app-id" description:"App whose roles and permissions are removed" required:"true"`
	Namespace string `long:"namespace" description:"Only remove the roles and permissions of this namespace"`
	Operator  string `long:"operator" description:"User recorded on the removed records" required:"true"`
}

func (cmd DeleteAppCommand) Execute([]string) error {
	return cmd.withService("delete-app", func(r serviceRun) error {
		if cmd.Namespace != "" {
			return r.service.DeleteRolePermissionsByAppIDAndNamespace(r.ctx, cmd.AppID, cmd.Namespace, cmd.Operator)
		}

		return r.service.DeleteRolePermissionsByAppID(r.ctx, cmd.AppID, cmd.Operator)
	})
}
