package auth

import "freight_routes/internal/models"

// Actions gated by the authorization policy.
const (
	ActionManageUsers = "manage_users"
	ActionEditRoutes  = "edit_routes"
	ActionViewRoutes  = "view_routes"
)

var rolePermissions = map[string]map[string]bool{
	models.RoleAdmin: {
		ActionManageUsers: true,
		ActionEditRoutes:  true,
		ActionViewRoutes:  true,
	},
	models.RoleDispatcher: {
		ActionEditRoutes: true,
		ActionViewRoutes: true,
	},
	models.RoleViewer: {
		ActionViewRoutes: true,
	},
}

// Can is the single authorization decision point: it reports whether the
// given role may perform the given action.
func Can(role, action string) bool {
	return rolePermissions[role][action]
}
