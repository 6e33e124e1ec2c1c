package dto

import (
	"time"

	"github.com/deskhive/deskhive/internal/domain"
)

// UserView is the sanitized user payload. The password hash and the
// reset-challenge fields never appear here.
type UserView struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	UserType        string    `json:"userType"`
	Image           string    `json:"image,omitempty"`
	Verified        bool      `json:"verified"`
	SavedWorkspaces []string  `json:"savedWorkspaces"`
	CreatedAt       time.Time `json:"createdAt"`
}

func ToUserView(u domain.User) UserView {
	saved := u.SavedWorkspaces
	if saved == nil {
		saved = []string{}
	}
	return UserView{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
		UserType:        u.UserType,
		Image:           u.Image,
		Verified:        u.Verified,
		SavedWorkspaces: saved,
		CreatedAt:       u.CreatedAt,
	}
}

func ToUserViews(users []domain.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserView(u))
	}
	return out
}

// LoginResponse is returned by login; the token itself travels in the
// Set-Cookie header, ExpiresIn mirrors its lifetime in seconds.
type LoginResponse struct {
	User      UserView `json:"user"`
	ExpiresIn int64    `json:"expiresIn"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}

type InitiateResetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type VerifyCodeResponse struct {
	Success bool `json:"success"`
}

type ResetPasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type DeleteUserResponse struct {
	Success bool `json:"success"`
}
