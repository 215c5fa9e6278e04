package dto

import "github.com/golang-jwt/jwt/v5"

// LoginRequest
// @Description Username is the phone or email for students and the email for teachers
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// ProfileResponse describes the logged-in account.
type ProfileResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	ClassID   *int64 `json:"class_id,omitempty"`
	ClassName string `json:"class_name,omitempty"`
}

// AuthResponse is returned by login and refresh.
type AuthResponse struct {
	AccessToken        string          `json:"access_token"`
	RefreshToken       string          `json:"refresh_token"`
	TokenType          string          `json:"token_type"`
	ExpiresIn          int64           `json:"expires_in"`
	Role               string          `json:"role"`
	MustChangePassword bool            `json:"must_change_password"`
	Profile            ProfileResponse `json:"profile"`
}

// AuthClaims is the JWT payload. UserID is the teacher or student profile id,
// AccountID the users row id.
type AuthClaims struct {
	UserID    int64  `json:"uid"`
	AccountID int64  `json:"aid"`
	Role      string `json:"role"`
	ClassID   *int64 `json:"cid,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}
