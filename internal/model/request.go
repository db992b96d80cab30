package model

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutRequest struct {
	SessionID string `json:"session_id"`
}

type ForgotPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}
