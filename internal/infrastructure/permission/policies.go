package permission

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

const (
	readActions  = "GET"
	writeActions = "(POST)|(PUT)|(PATCH)|(DELETE)"
	anyAction    = "(GET)|(POST)|(PUT)|(PATCH)|(DELETE)"
)

// rolePolicies are {role, route pattern, method pattern}. Super admins inherit everything
// granted to admins; the finer super-only checks live in the admin usecases.
var rolePolicies = [][]string{
	{RoleAdmin, "/api/v1/subscriptions", writeActions},
	{RoleAdmin, "/api/v1/subscriptions/:invoice_id", readActions},
	{RoleAdmin, "/api/v1/subscriptions/:invoice_id/fail", writeActions},
	{RoleAdmin, "/api/v1/users/:user_id/resubscribe", readActions},

	{RoleAdmin, "/api/v1/memberships", readActions},
	{RoleAdmin, "/api/v1/memberships/apply", writeActions},
	{RoleAdmin, "/api/v1/memberships/delete", writeActions},
	{RoleAdmin, "/api/v1/memberships/ban", writeActions},
	{RoleAdmin, "/api/v1/memberships/:user_id", readActions},
	{RoleAdmin, "/api/v1/memberships/:user_id/logs", readActions},

	{RoleAdmin, "/api/v1/settings/enforcement", "(GET)|(PUT)"},

	{RoleAdmin, "/api/v1/channels", anyAction},
	{RoleAdmin, "/api/v1/channels/:id", anyAction},
	{RoleAdmin, "/api/v1/kicks", readActions},

	{RoleAdmin, "/api/v1/admins", anyAction},
	{RoleAdmin, "/api/v1/admins/:user_id", anyAction},
}

var roleInheritance = [][]string{
	{RoleSuperAdmin, RoleAdmin},
}
