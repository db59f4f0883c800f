package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-feedback-gate/internal/model"
	"go-feedback-gate/internal/security"
	"go-feedback-gate/pkg/apierror"
)

type credentialHasher interface {
	security.PasswordHasher
	Dummy(password string)
}

type tokenCodec interface {
	Issue(identity model.Identity, kind model.TokenKind, ttl time.Duration) (string, time.Time, error)
	Verify(token string, kind model.TokenKind) (model.AuthClaims, error)
}

type AuthOptions struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// UniformLoginErrors answers an unknown email with the same 401 as a
	// wrong password instead of 404.
	UniformLoginErrors bool
}

// AuthService is stateless: a session is nothing more than a valid access
// token held by the client.
type AuthService struct {
	users    UserStore
	hasher   credentialHasher
	tokens   tokenCodec
	opts     AuthOptions
	recorder Recorder
	now      func() time.Time
}

func NewAuthService(users UserStore, hasher credentialHasher, tokens tokenCodec, opts AuthOptions, recorder Recorder) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		opts:     opts,
		recorder: recorderOrNop(recorder),
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (user model.AuthUser, err error) {
	defer func() { s.recorder.RecordAuth("register", outcomeOf(err)) }()

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return model.AuthUser{}, apierror.BadRequest("username, email and password are required", "")
	}
	if !model.StorableText(username, model.MaxUsernameLength) {
		return model.AuthUser{}, apierror.BadRequest("invalid username", fmt.Sprintf("at most %d characters, no NUL bytes", model.MaxUsernameLength))
	}
	if !model.StorableText(email, model.MaxEmailLength) || !validEmail(email) {
		return model.AuthUser{}, apierror.BadRequest("invalid email address", "")
	}

	// Fast path only; the unique index decides races.
	_, err = s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return model.AuthUser{}, apierror.Conflict("email already registered", email)
	case !errors.Is(err, model.ErrUserNotFound):
		return model.AuthUser{}, apierror.Internal(err)
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return model.AuthUser{}, apierror.BadRequest("password is too long", "maximum is 72 bytes")
	}
	if err != nil {
		return model.AuthUser{}, apierror.Internal(err)
	}

	role := model.DefaultRoleID
	now := s.now().UTC()
	created := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleID:       &role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.users.Insert(ctx, created)
	if errors.Is(err, model.ErrUserAlreadyExists) {
		return model.AuthUser{}, apierror.Conflict("email already registered", email)
	}
	if errors.Is(err, model.ErrInvalidText) {
		return model.AuthUser{}, apierror.BadRequest("username or email cannot be stored", "")
	}
	if err != nil {
		return model.AuthUser{}, apierror.Internal(err)
	}

	return created.Public(), nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (pair model.TokenPair, err error) {
	defer func() { s.recorder.RecordAuth("login", outcomeOf(err)) }()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return model.TokenPair{}, apierror.BadRequest("email and password are required", "")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		if s.opts.UniformLoginErrors {
			s.hasher.Dummy(password)
			return model.TokenPair{}, apierror.Unauthorized("invalid credentials")
		}
		return model.TokenPair{}, apierror.NotFound("user not found", email)
	}
	if err != nil {
		return model.TokenPair{}, apierror.Internal(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return model.TokenPair{}, apierror.Unauthorized("invalid credentials")
	}

	return s.issueTokenPair(user)
}

// VerifyUser re-resolves the token's owner so deleted accounts stop verifying
// even while their tokens are still within expiry.
func (s *AuthService) VerifyUser(ctx context.Context, token string) (verified model.VerifiedUser, err error) {
	defer func() { s.recorder.RecordAuth("verify", outcomeOf(err)) }()

	claims, err := s.tokens.Verify(token, model.TokenKindAccess)
	if err != nil {
		return model.VerifiedUser{}, apierror.Unauthorized("invalid or expired token")
	}

	user, err := s.users.FindByID(ctx, claims.ID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.VerifiedUser{}, apierror.NotFound("user not found", "")
	}
	if err != nil {
		return model.VerifiedUser{}, apierror.Internal(err)
	}

	return model.VerifiedUser{Username: user.Username, Email: user.Email, RoleID: user.RoleID}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (pair model.TokenPair, err error) {
	defer func() { s.recorder.RecordAuth("refresh", outcomeOf(err)) }()

	claims, err := s.tokens.Verify(refreshToken, model.TokenKindRefresh)
	if err != nil {
		return model.TokenPair{}, apierror.Unauthorized("refresh token is invalid")
	}

	user, err := s.users.FindByID(ctx, claims.ID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.TokenPair{}, apierror.Unauthorized("user no longer exists")
	}
	if err != nil {
		return model.TokenPair{}, apierror.Internal(err)
	}

	return s.issueTokenPair(user)
}

// ValidateToken backs the auth middleware.
func (s *AuthService) ValidateToken(token string) (model.AuthClaims, error) {
	claims, err := s.tokens.Verify(token, model.TokenKindAccess)
	if err != nil {
		return model.AuthClaims{}, apierror.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthUser{}, apierror.NotFound("user not found", "")
	}
	if err != nil {
		return model.AuthUser{}, apierror.Internal(err)
	}
	return user.Public(), nil
}

// Logout has nothing to revoke. Tokens already handed out stay valid until
// their exp; callers only stop presenting them (the handler clears cookies).
func (s *AuthService) Logout() {
	s.recorder.RecordAuth("logout", outcomeOf(nil))
}

func (s *AuthService) issueTokenPair(user model.User) (model.TokenPair, error) {
	identity := model.Identity{ID: user.ID, Username: user.Username, Email: user.Email}

	accessToken, accessExp, err := s.tokens.Issue(identity, model.TokenKindAccess, s.opts.AccessTTL)
	if err != nil {
		return model.TokenPair{}, apierror.Internal(err)
	}

	refreshToken, refreshExp, err := s.tokens.Issue(identity, model.TokenKindRefresh, s.opts.RefreshTTL)
	if err != nil {
		return model.TokenPair{}, apierror.Internal(err)
	}

	return model.TokenPair{
		User:         user.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.opts.AccessTTL.Seconds()),
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
