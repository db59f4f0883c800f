package model

import "time"

type FeedbackPage struct {
	ID          string     `json:"id"`
	URLToken    string     `json:"url_token"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ExpiresAt   *time.Time `json:"expires_at"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ExpiredAt reports whether the page is closed at now. A page without an
// expiry never expires; one expiring exactly at now is still open.
func (p FeedbackPage) ExpiredAt(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// Public strips ownership before the page is shown to anonymous visitors.
func (p FeedbackPage) Public() PublicFeedbackPage {
	return PublicFeedbackPage{
		URLToken:    p.URLToken,
		Title:       p.Title,
		Description: p.Description,
		ExpiresAt:   p.ExpiresAt,
	}
}

type PublicFeedbackPage struct {
	URLToken    string     `json:"url_token"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// FeedbackPagePatch is a partial update: nil fields keep their stored value.
type FeedbackPagePatch struct {
	Title          *string
	Description    *string
	ExpiresAt      *time.Time
	ClearExpiresAt bool
}

func (p FeedbackPagePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.ExpiresAt == nil && !p.ClearExpiresAt
}

type NewFeedbackPage struct {
	Title       string
	Description string
	ExpiresAt   *time.Time
	ExpiresIn   string
}
