package dto

import (
	"time"

	"jobtrack/internal/domain/user"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	AvatarURL *string   `json:"avatar_url"`
	Provider  string    `json:"provider"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      optional(u.Name),
		AvatarURL: optional(u.AvatarURL),
		Provider:  u.Provider,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
	}
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

func NewTokenResponse(token string, u user.User) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer", User: NewUserResponse(u)}
}

// AdminUserResponse is the admin user-management view.
type AdminUserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAdminUserResponse(u user.User) AdminUserResponse {
	return AdminUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      optional(u.Name),
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func NewAdminUserResponses(users []user.User) []AdminUserResponse {
	out := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewAdminUserResponse(u))
	}
	return out
}
