package types

import "time"

// RegisterRequest 注册请求.
type RegisterRequest struct {
	Username string `json:"username" rule:"required,min=3,max=150"`
	Password string `json:"password" rule:"required,min=6,max=128"`
	Email    string `json:"email"    rule:"omitempty,email,max=254"`
}

// LoginRequest 登录请求.
type LoginRequest struct {
	Username string `json:"username" rule:"required,max=150"`
	Password string `json:"password" rule:"required,max=128"`
}

// AuthResponse 注册或登录成功后返回的令牌.
type AuthResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	UserID    uint      `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidateResponse 令牌校验结果.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username"`
	UserID   uint   `json:"user_id"`
}
