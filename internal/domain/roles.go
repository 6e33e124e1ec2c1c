package domain

type Role string

const (
	// User owns their profile and the listings they created.
	RoleUser Role = "user"
	// Admin can manage any user or listing.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RoleAdmin)
}

func IsAdmin(r string) bool {
	return r == string(RoleAdmin)
}
