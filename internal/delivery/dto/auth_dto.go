package dto

import "time"

// Request DTOs

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,min=10,max=13"` // RFC
	Password   string `json:"password" validate:"required,min=5"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required,min=8"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}

type CreateUserRequest struct {
	Identifier           string `json:"identifier" validate:"required,rfc"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	Privilege            int    `json:"privilege" validate:"required,oneof=1 2"`
}

type UpdatePrivilegeRequest struct {
	Privilege int `json:"privilege" validate:"required,oneof=1 2"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type CredentialResponse struct {
	ID         int64     `json:"id"`
	Identifier string    `json:"identifier"`
	Privilege  int       `json:"privilege"`
	Elevated   bool      `json:"elevated"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CredentialListResponse struct {
	Users []CredentialResponse `json:"users"`
	Total int                  `json:"total"`
}
