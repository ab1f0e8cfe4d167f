package auth

type LoginRequest struct {
	Code     string `json:"code" binding:"required,max=10"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Role string `json:"role"`
}
