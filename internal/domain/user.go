package domain

// Roles carried in access tokens issued by the external identity
// provider. Admin unlocks the status-override endpoint only.
const (
	RoleTraveler = "traveler"
	RoleAdmin    = "admin"
)
