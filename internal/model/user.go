package model

import "time"

const DefaultRoleID int32 = 1

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       *int32    `json:"role_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public is the projection handed to clients; it never includes the hash.
func (u User) Public() AuthUser {
	return AuthUser{ID: u.ID, Username: u.Username, Email: u.Email, RoleID: u.RoleID}
}

type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleID   *int32 `json:"role_id,omitempty"`
}

// VerifiedUser is what /auth/verify reports back.
type VerifiedUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleID   *int32 `json:"role_id"`
}

// Identity is the claim set embedded in every token.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type AuthClaims struct {
	Identity
	Type      TokenKind `json:"typ"`
	TokenID   string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

type TokenPair struct {
	User         AuthUser  `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	AccessExp    time.Time `json:"-"`
	RefreshExp   time.Time `json:"-"`
}
