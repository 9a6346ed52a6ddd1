package dtos

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SessionResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	UserID    uint   `json:"user_id"`
	ExpiresAt string `json:"expires_at"`
}
