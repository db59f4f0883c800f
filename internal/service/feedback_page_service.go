package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-feedback-gate/internal/model"
	"go-feedback-gate/internal/security"
	"go-feedback-gate/pkg/apierror"
)

const maxURLTokenAttempts = 3

type FeedbackPageService struct {
	pages    FeedbackPageStore
	newToken func() (string, error)
	now      func() time.Time
}

func NewFeedbackPageService(pages FeedbackPageStore) *FeedbackPageService {
	return &FeedbackPageService{
		pages:    pages,
		newToken: security.NewURLToken,
		now:      time.Now,
	}
}

// Create accepts either an absolute expiry or a relative one, never both. An
// expiry already in the past is allowed; the page is simply born closed.
func (s *FeedbackPageService) Create(ctx context.Context, ownerID string, input model.NewFeedbackPage) (model.FeedbackPage, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.FeedbackPage{}, apierror.BadRequest("title is required", "")
	}
	if err := checkPageText(&title, &input.Description); err != nil {
		return model.FeedbackPage{}, err
	}

	now := s.now().UTC()
	expiresAt, err := resolveExpiry(input, now)
	if err != nil {
		return model.FeedbackPage{}, err
	}

	page := model.FeedbackPage{
		ID:          uuid.NewString(),
		Title:       title,
		Description: input.Description,
		ExpiresAt:   expiresAt,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for range maxURLTokenAttempts {
		page.URLToken, err = s.newToken()
		if err != nil {
			return model.FeedbackPage{}, apierror.Internal(err)
		}

		err = s.pages.Create(ctx, page)
		switch {
		case err == nil:
			return page, nil
		case errors.Is(err, model.ErrURLTokenTaken):
			continue
		case errors.Is(err, model.ErrUserNotFound):
			return model.FeedbackPage{}, apierror.Unauthorized("user no longer exists")
		case errors.Is(err, model.ErrInvalidText):
			return model.FeedbackPage{}, invalidPageText()
		default:
			return model.FeedbackPage{}, apierror.Internal(err)
		}
	}

	return model.FeedbackPage{}, apierror.Internal(fmt.Errorf("url token collided %d times", maxURLTokenAttempts))
}

func resolveExpiry(input model.NewFeedbackPage, now time.Time) (*time.Time, error) {
	expiresIn := strings.TrimSpace(input.ExpiresIn)

	switch {
	case input.ExpiresAt != nil && expiresIn != "":
		return nil, apierror.BadRequest("expires_at and expires_in are mutually exclusive", "")
	case input.ExpiresAt != nil:
		at := input.ExpiresAt.UTC()
		return &at, nil
	case expiresIn != "":
		d, err := time.ParseDuration(expiresIn)
		if err != nil || d <= 0 {
			return nil, apierror.BadRequest("expires_in must be a positive duration", expiresIn)
		}
		at := now.Add(d)
		return &at, nil
	default:
		return nil, nil
	}
}

func (s *FeedbackPageService) Get(ctx context.Context, ownerID string, id string) (model.FeedbackPage, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.FeedbackPage{}, apierror.NotFound("feedback page not found", id)
	}

	page, err := s.pages.GetByID(ctx, id, ownerID)
	if err != nil {
		return model.FeedbackPage{}, pageError(err, id)
	}
	return page, nil
}

func (s *FeedbackPageService) List(ctx context.Context, ownerID string) ([]model.FeedbackPage, error) {
	pages, err := s.pages.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	return pages, nil
}

// Update only touches the fields present in patch. An empty patch is a read.
func (s *FeedbackPageService) Update(ctx context.Context, ownerID string, id string, patch model.FeedbackPagePatch) (model.FeedbackPage, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return model.FeedbackPage{}, apierror.BadRequest("title cannot be empty", "")
		}
		patch.Title = &title
	}
	if err := checkPageText(patch.Title, patch.Description); err != nil {
		return model.FeedbackPage{}, err
	}
	if patch.ClearExpiresAt && patch.ExpiresAt != nil {
		return model.FeedbackPage{}, apierror.BadRequest("expires_at and clear_expires_at are mutually exclusive", "")
	}
	if patch.ExpiresAt != nil {
		at := patch.ExpiresAt.UTC()
		patch.ExpiresAt = &at
	}

	if patch.Empty() {
		return s.Get(ctx, ownerID, id)
	}

	if _, err := uuid.Parse(id); err != nil {
		return model.FeedbackPage{}, apierror.NotFound("feedback page not found", id)
	}

	page, err := s.pages.Update(ctx, id, ownerID, patch, s.now().UTC())
	if err != nil {
		return model.FeedbackPage{}, pageError(err, id)
	}
	return page, nil
}

func (s *FeedbackPageService) Delete(ctx context.Context, ownerID string, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apierror.NotFound("feedback page not found", id)
	}

	if err := s.pages.Delete(ctx, id, ownerID); err != nil {
		return pageError(err, id)
	}
	return nil
}

// IsExpired is false for unknown tokens; use AccessGate to tell those apart.
func (s *FeedbackPageService) IsExpired(ctx context.Context, urlToken string) (bool, error) {
	expired, err := s.pages.IsExpired(ctx, strings.TrimSpace(urlToken), s.now().UTC())
	if err != nil {
		return false, apierror.Internal(err)
	}
	return expired, nil
}

func pageError(err error, id string) error {
	switch {
	case errors.Is(err, model.ErrFeedbackPageNotFound):
		return apierror.NotFound("feedback page not found", id)
	case errors.Is(err, model.ErrInvalidText):
		return invalidPageText()
	default:
		return apierror.Internal(err)
	}
}

// checkPageText validates whichever of title and description are set.
func checkPageText(title *string, description *string) error {
	if title != nil && !model.StorableText(*title, model.MaxTitleLength) {
		return apierror.BadRequest("invalid title", fmt.Sprintf("at most %d characters, no NUL bytes", model.MaxTitleLength))
	}
	if description != nil && !model.StorableText(*description, 0) {
		return apierror.BadRequest("invalid description", "no NUL bytes")
	}
	return nil
}

func invalidPageText() error {
	return apierror.BadRequest("title or description cannot be stored", "")
}
