package model

import "time"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyRequest struct {
	Token string `json:"token"`
}

type CreateFeedbackPageRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ExpiresAt   *time.Time `json:"expires_at"`
	ExpiresIn   string     `json:"expires_in"`
}

type UpdateFeedbackPageRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	ExpiresAt      *time.Time `json:"expires_at"`
	ClearExpiresAt bool       `json:"clear_expires_at"`
}

func (r UpdateFeedbackPageRequest) Patch() FeedbackPagePatch {
	return FeedbackPagePatch{
		Title:          r.Title,
		Description:    r.Description,
		ExpiresAt:      r.ExpiresAt,
		ClearExpiresAt: r.ClearExpiresAt,
	}
}
