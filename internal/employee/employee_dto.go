package employee

import "time"

// Name and password rules are checked by the service so that each
// violation reports its own kind.
type RegisterEmployeeRequest struct {
	Code     string `json:"code" binding:"required,max=10"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"required,oneof=ADMIN GENERAL"`
}

// An empty Password keeps the stored one.
type UpdateEmployeeRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"required,oneof=ADMIN GENERAL"`
}

type EmployeeResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Deleted   bool      `json:"deleted"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
