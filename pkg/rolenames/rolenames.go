// Package rolenames builds the role names and permission targets that tie
// roles to an application, its namespaces and its clusters. The names are a
// stored contract: application cleanup finds roles by them.
package rolenames

import "strings"

const Separator = "+"

const (
	CreateNamespace            = "CreateNamespace"
	CreateCluster              = "CreateCluster"
	AssignRole                 = "AssignRole"
	ManageAppMaster            = "ManageAppMaster"
	ModifyNamespace            = "ModifyNamespace"
	ReleaseNamespace           = "ReleaseNamespace"
	ModifyNamespacesInCluster  = "ModifyNamespacesInCluster"
	ReleaseNamespacesInCluster = "ReleaseNamespacesInCluster"
)

const (
	MasterRoleType = "Master"
)

func join(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return strings.Join(nonEmpty, Separator)
}

func AppRoleName(appID, roleType string) string {
	return join(roleType, appID)
}

func MasterRoleName(appID string) string {
	return AppRoleName(appID, MasterRoleType)
}

func ManageAppMasterRoleName(appID string) string {
	return AppRoleName(appID, ManageAppMaster)
}

// ModifyNamespaceRoleName takes an optional env; without it the role covers
// the namespace in every environment.
func ModifyNamespaceRoleName(appID, namespace string, env ...string) string {
	return join(ModifyNamespace, NamespaceTargetID(appID, namespace, env...))
}

func ReleaseNamespaceRoleName(appID, namespace string, env ...string) string {
	return join(ReleaseNamespace, NamespaceTargetID(appID, namespace, env...))
}

func ModifyNamespacesInClusterRoleName(appID, env, cluster string) string {
	return join(ModifyNamespacesInCluster, ClusterTargetID(appID, env, cluster))
}

func ReleaseNamespacesInClusterRoleName(appID, env, cluster string) string {
	return join(ReleaseNamespacesInCluster, ClusterTargetID(appID, env, cluster))
}

func NamespaceTargetID(appID, namespace string, env ...string) string {
	parts := []string{appID, namespace}
	if len(env) > 0 {
		parts = append(parts, env[0])
	}

	return join(parts...)
}

func ClusterTargetID(appID, env, cluster string) string {
	return join(appID, env, cluster)
}

// AppRoleNames are the exact names of the app-wide roles.
func AppRoleNames(appID string) []string {
	return []string{
		MasterRoleName(appID),
		ManageAppMasterRoleName(appID),
	}
}

// AppRoleNamePrefixes match every namespace and cluster role of the app.
func AppRoleNamePrefixes(appID string) []string {
	return []string{
		join(ModifyNamespace, appID) + Separator,
		join(ReleaseNamespace, appID) + Separator,
		join(ModifyNamespacesInCluster, appID) + Separator,
		join(ReleaseNamespacesInCluster, appID) + Separator,
	}
}

// AppTargetIDPrefix matches every namespace and cluster target of the app.
func AppTargetIDPrefix(appID string) string {
	return appID + Separator
}

func NamespaceRoleNames(appID, namespace string) []string {
	return []string{
		ModifyNamespaceRoleName(appID, namespace),
		ReleaseNamespaceRoleName(appID, namespace),
	}
}

// NamespaceRoleNamePrefixes match the env-scoped roles of one namespace.
func NamespaceRoleNamePrefixes(appID, namespace string) []string {
	return []string{
		ModifyNamespaceRoleName(appID, namespace) + Separator,
		ReleaseNamespaceRoleName(appID, namespace) + Separator,
	}
}

func NamespaceTargetIDPrefix(appID, namespace string) string {
	return NamespaceTargetID(appID, namespace) + Separator
}

func BelongsToApp(roleName, appID string) bool {
	return matches(roleName, AppRoleNames(appID), AppRoleNamePrefixes(appID))
}

func TargetBelongsToApp(targetID, appID string) bool {
	return matches(targetID, []string{appID}, []string{AppTargetIDPrefix(appID)})
}

func BelongsToNamespace(roleName, appID, namespace string) bool {
	return matches(roleName, NamespaceRoleNames(appID, namespace), NamespaceRoleNamePrefixes(appID, namespace))
}

func TargetBelongsToNamespace(targetID, appID, namespace string) bool {
	return matches(targetID,
		[]string{NamespaceTargetID(appID, namespace)},
		[]string{NamespaceTargetIDPrefix(appID, namespace)},
	)
}

// Matches reports whether s equals one of names or starts with one of
// prefixes.
func Matches(s string, names, prefixes []string) bool {
	return matches(s, names, prefixes)
}

func matches(s string, names, prefixes []string) bool {
	for _, name := range names {
		if s == name {
			return true
		}
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}
