package shared

// Roles assigned by the identity boundary.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
