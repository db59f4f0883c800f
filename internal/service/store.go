package service

import (
	"context"
	"errors"
	"time"

	"go-feedback-gate/internal/metrics"
	"go-feedback-gate/internal/model"
	"go-feedback-gate/pkg/apierror"
)

// UserStore is implemented by repository.UserRepository.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Insert(ctx context.Context, u model.User) error
}

// FeedbackPageStore is implemented by repository.FeedbackPageRepository.
type FeedbackPageStore interface {
	Create(ctx context.Context, p model.FeedbackPage) error
	GetByID(ctx context.Context, id string, ownerID string) (model.FeedbackPage, error)
	GetByToken(ctx context.Context, urlToken string) (model.FeedbackPage, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.FeedbackPage, error)
	Update(ctx context.Context, id string, ownerID string, patch model.FeedbackPagePatch, now time.Time) (model.FeedbackPage, error)
	Delete(ctx context.Context, id string, ownerID string) error
	IsExpired(ctx context.Context, urlToken string, now time.Time) (bool, error)
}

// Recorder receives operation outcomes; *metrics.Metrics satisfies it.
type Recorder interface {
	RecordAuth(operation string, outcome string)
	RecordGate(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAuth(string, string) {}
func (nopRecorder) RecordGate(string)         {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}

	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		return metrics.OutcomeError
	}

	switch apiErr.Code {
	case apierror.CodeBadRequest:
		return metrics.OutcomeBadRequest
	case apierror.CodeUnauthorized:
		return metrics.OutcomeUnauthorized
	case apierror.CodeNotFound:
		return metrics.OutcomeNotFound
	case apierror.CodeAlreadyExists:
		return metrics.OutcomeConflict
	case apierror.CodeGone:
		return metrics.OutcomeGone
	default:
		return metrics.OutcomeError
	}
}
