package domain

const (
	RoleAdmin   = "ADMIN"
	RoleGeneral = "GENERAL"
)

// Principal is the acting employee resolved from the access token.
type Principal struct {
	Code string
	Role string
}

func (p Principal) IsZero() bool {
	return p.Code == ""
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleGeneral
}
