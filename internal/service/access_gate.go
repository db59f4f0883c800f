package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-feedback-gate/internal/model"
	"go-feedback-gate/pkg/apierror"
)

// AccessGate decides whether an anonymous holder of a url token may see the
// page behind it: not found, gone, or the page itself.
type AccessGate struct {
	pages    FeedbackPageStore
	recorder Recorder
	now      func() time.Time
}

func NewAccessGate(pages FeedbackPageStore, recorder Recorder) *AccessGate {
	return &AccessGate{pages: pages, recorder: recorderOrNop(recorder), now: time.Now}
}

func (g *AccessGate) Resolve(ctx context.Context, urlToken string) (page model.FeedbackPage, err error) {
	defer func() { g.recorder.RecordGate(outcomeOf(err)) }()

	urlToken = strings.TrimSpace(urlToken)
	if urlToken == "" {
		return model.FeedbackPage{}, apierror.BadRequest("url token is required", "")
	}

	page, err = g.pages.GetByToken(ctx, urlToken)
	if errors.Is(err, model.ErrFeedbackPageNotFound) {
		return model.FeedbackPage{}, apierror.NotFound("feedback page not found", "")
	}
	if err != nil {
		return model.FeedbackPage{}, apierror.Internal(err)
	}

	if page.ExpiredAt(g.now()) {
		return model.FeedbackPage{}, apierror.Gone("feedback page has expired", page.ExpiresAt.UTC().Format(time.RFC3339))
	}

	return page, nil
}
