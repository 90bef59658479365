package handler

import (
	"time"

	"github.com/lostfound/board-api/internal/core/domain"
)

// ── Requests ────────────────────────────────────────────────────────────────

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ── Responses ───────────────────────────────────────────────────────────────

// userResponse is the public view of an account; it never carries credentials.
type userResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type authResponse struct {
	User   userResponse `json:"user"`
	Access string       `json:"access"`
}

type accessResponse struct {
	Access string `json:"access"`
}

type meResponse struct {
	User userResponse `json:"user"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}
