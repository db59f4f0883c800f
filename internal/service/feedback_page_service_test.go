package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-feedback-gate/internal/model"
	"go-feedback-gate/pkg/apierror"
)

const (
	ownerID = "6f1c1f7e-4d61-4c55-9a51-0d4a1c1e7a10"
	pageID  = "0b9a9a3e-8c1b-4d7e-9f60-2f1c3f5d6e7a"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newPageService(t *testing.T, tokens ...string) (*FeedbackPageService, *mockPageStore) {
	t.Helper()
	store := new(mockPageStore)
	svc := NewFeedbackPageService(store)
	svc.now = func() time.Time { return fixedNow }

	if len(tokens) > 0 {
		i := 0
		svc.newToken = func() (string, error) {
			tok := tokens[i%len(tokens)]
			i++
			return tok, nil
		}
	}
	return svc, store
}

func strPtr(s string) *string { return &s }

func TestFeedbackPageService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("no expiry", func(t *testing.T) {
		svc, store := newPageService(t, "tok-1")
		store.On("Create", ctx, mock.MatchedBy(func(p model.FeedbackPage) bool {
			return p.URLToken == "tok-1" && p.Title == "Launch survey" && p.ExpiresAt == nil && p.UserID == ownerID
		})).Return(nil)

		page, err := svc.Create(ctx, ownerID, model.NewFeedbackPage{Title: "  Launch survey  ", Description: "tell us"})

		require.NoError(t, err)
		assert.Equal(t, "Launch survey", page.Title)
		assert.Equal(t, "tell us", page.Description)
		assert.Equal(t, fixedNow, page.CreatedAt)
		assert.Nil(t, page.ExpiresAt)
		store.AssertExpectations(t)
	})

	t.Run("relative expiry", func(t *testing.T) {
		svc, store := newPageService(t, "tok-1")
		store.On("Create", ctx, mock.Anything).Return(nil)

		page, err := svc.Create(ctx, ownerID, model.NewFeedbackPage{Title: "T", ExpiresIn: "48h"})

		require.NoError(t, err)
		require.NotNil(t, page.ExpiresAt)
		assert.Equal(t, fixedNow.Add(48*time.Hour), *page.ExpiresAt)
	})

	t.Run("past absolute expiry is accepted", func(t *testing.T) {
		svc, store := newPageService(t, "tok-1")
		store.On("Create", ctx, mock.Anything).Return(nil)
		past := fixedNow.Add(-time.Hour)

		page, err := svc.Create(ctx, ownerID, model.NewFeedbackPage{Title: "T", ExpiresAt: &past})

		require.NoError(t, err)
		assert.True(t, page.ExpiredAt(fixedNow))
	})

	t.Run("invalid input", func(t *testing.T) {
		at := fixedNow.Add(time.Hour)
		tests := []struct {
			name  string
			input model.NewFeedbackPage
		}{
			{"missing title", model.NewFeedbackPage{Title: "   "}},
			{"both expiry forms", model.NewFeedbackPage{Title: "T", ExpiresAt: &at, ExpiresIn: "1h"}},
			{"unparsable duration", model.NewFeedbackPage{Title: "T", ExpiresIn: "soon"}},
			{"negative duration", model.NewFeedbackPage{Title: "T", ExpiresIn: "-1h"}},
			{"title over column width", model.NewFeedbackPage{Title: strings.Repeat("t", model.MaxTitleLength+1)}},
			{"title with NUL", model.NewFeedbackPage{Title: "T\x00"}},
			{"description with NUL", model.NewFeedbackPage{Title: "T", Description: "a\x00b"}},
			{"title not UTF-8", model.NewFeedbackPage{Title: "T\xff"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, store := newPageService(t, "tok")
				_, err := svc.Create(ctx, ownerID, tt.input)
				requireAPIError(t, err, apierror.CodeBadRequest, http.StatusBadRequest)
				store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("title at column width is accepted", func(t *testing.T) {
		svc, store := newPageService(t, "tok-1")
		store.On("Create", ctx, mock.Anything).Return(nil)
		title := strings.Repeat("é", model.MaxTitleLength)

		page, err := svc.Create(ctx, ownerID, model.NewFeedbackPage{Title: title, Description: strings.Repeat("d", 10000)})

		require.NoError(t, err)
		assert.Equal(t, title, page.Title)
	})

	t.Run("text rejected by the store is a bad request", func(t *testing.T) {
		svc, store := newPageService(t, "tok-1")
		store.On("Create", ctx, mock.Anything).Return(model.ErrInvalidText).Once()

		_, err := svc.Create(ctx, ownerID, model.NewFeedbackPage{Title: "T"})

		requireAPIError(t, err, apierror.CodeBadRequest, http.StatusBadRequest)
		store.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("regenerates token on collision", func(t *testing.T) {
		svc, store := newPageService(t, "taken", "fresh")
		store.On("Create", ctx, mock.MatchedBy(func(p model.FeedbackPage) bool { return p.URLToken == "taken" })).
			Return(model.ErrURLTokenTaken).Once()
		store.On("Create", ctx, mock.MatchedBy(func(p model.FeedbackPage) bool { return p.URLToken == "fresh" })).
			Return(nil).Once()

		page, err := svc.Create(ctx, ownerID, model.NewFeedbackPage{Title: "T"})

		require.NoError(t, err)
		assert.Equal(t, "fresh", page.URLToken)
		store.AssertExpectations(t)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		svc, store := newPageService(t, "taken")
		store.On("Create", ctx, mock.Anything).Return(model.ErrURLTokenTaken)

		_, err := svc.Create(ctx, ownerID, model.NewFeedbackPage{Title: "T"})

		requireAPIError(t, err, apierror.CodeInternal, http.StatusInternalServerError)
		store.AssertNumberOfCalls(t, "Create", maxURLTokenAttempts)
	})

	t.Run("token generator failure", func(t *testing.T) {
		svc, store := newPageService(t)
		svc.newToken = func() (string, error) { return "", errors.New("entropy exhausted") }

		_, err := svc.Create(ctx, ownerID, model.NewFeedbackPage{Title: "T"})

		requireAPIError(t, err, apierror.CodeInternal, http.StatusInternalServerError)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestFeedbackPageService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed id is not found without a query", func(t *testing.T) {
		svc, store := newPageService(t)
		_, err := svc.Get(ctx, ownerID, "not-a-uuid")
		requireAPIError(t, err, apierror.CodeNotFound, http.StatusNotFound)
		store.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("someone else's page is not found", func(t *testing.T) {
		svc, store := newPageService(t)
		store.On("GetByID", ctx, pageID, "intruder").Return(model.FeedbackPage{}, model.ErrFeedbackPageNotFound)

		_, err := svc.Get(ctx, "intruder", pageID)
		requireAPIError(t, err, apierror.CodeNotFound, http.StatusNotFound)
	})

	t.Run("owner gets page", func(t *testing.T) {
		svc, store := newPageService(t)
		want := model.FeedbackPage{ID: pageID, Title: "A", UserID: ownerID}
		store.On("GetByID", ctx, pageID, ownerID).Return(want, nil)

		got, err := svc.Get(ctx, ownerID, pageID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestFeedbackPageService_List(t *testing.T) {
	ctx := context.Background()
	svc, store := newPageService(t)
	pages := []model.FeedbackPage{{ID: "b"}, {ID: "a"}}
	store.On("ListByOwner", ctx, ownerID).Return(pages, nil).Once()
	store.On("ListByOwner", ctx, "broken").Return(nil, errors.New("db down")).Once()

	got, err := svc.List(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, pages, got)

	_, err = svc.List(ctx, "broken")
	requireAPIError(t, err, apierror.CodeInternal, http.StatusInternalServerError)
}

func TestFeedbackPageService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("passes only provided fields", func(t *testing.T) {
		svc, store := newPageService(t)
		expires := fixedNow.Add(time.Hour)
		stored := model.FeedbackPage{ID: pageID, Title: "A", Description: "new", ExpiresAt: &expires, UserID: ownerID}
		patch := model.FeedbackPagePatch{Description: strPtr("new")}
		store.On("Update", ctx, pageID, ownerID, patch, fixedNow).Return(stored, nil)

		got, err := svc.Update(ctx, ownerID, pageID, patch)

		require.NoError(t, err)
		assert.Equal(t, "A", got.Title)
		assert.Equal(t, &expires, got.ExpiresAt)
		store.AssertExpectations(t)
	})

	t.Run("trims title", func(t *testing.T) {
		svc, store := newPageService(t)
		store.On("Update", ctx, pageID, ownerID, model.FeedbackPagePatch{Title: strPtr("C")}, fixedNow).
			Return(model.FeedbackPage{ID: pageID, Title: "C"}, nil)

		got, err := svc.Update(ctx, ownerID, pageID, model.FeedbackPagePatch{Title: strPtr("  C ")})
		require.NoError(t, err)
		assert.Equal(t, "C", got.Title)
	})

	t.Run("empty patch reads current page", func(t *testing.T) {
		svc, store := newPageService(t)
		store.On("GetByID", ctx, pageID, ownerID).Return(model.FeedbackPage{ID: pageID, Title: "A"}, nil)

		got, err := svc.Update(ctx, ownerID, pageID, model.FeedbackPagePatch{})
		require.NoError(t, err)
		assert.Equal(t, "A", got.Title)
		store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid patches", func(t *testing.T) {
		at := fixedNow
		for name, patch := range map[string]model.FeedbackPagePatch{
			"blank title":          {Title: strPtr("  ")},
			"set and clear expiry": {ExpiresAt: &at, ClearExpiresAt: true},
			"title over width":     {Title: strPtr(strings.Repeat("t", model.MaxTitleLength+1))},
			"description with NUL": {Description: strPtr("a\x00b")},
		} {
			t.Run(name, func(t *testing.T) {
				svc, _ := newPageService(t)
				_, err := svc.Update(ctx, ownerID, pageID, patch)
				requireAPIError(t, err, apierror.CodeBadRequest, http.StatusBadRequest)
			})
		}
	})

	t.Run("text rejected by the store is a bad request", func(t *testing.T) {
		svc, store := newPageService(t)
		patch := model.FeedbackPagePatch{Description: strPtr("d")}
		store.On("Update", ctx, pageID, ownerID, patch, fixedNow).Return(model.FeedbackPage{}, model.ErrInvalidText)

		_, err := svc.Update(ctx, ownerID, pageID, patch)
		requireAPIError(t, err, apierror.CodeBadRequest, http.StatusBadRequest)
	})

	t.Run("foreign or missing page", func(t *testing.T) {
		svc, store := newPageService(t)
		patch := model.FeedbackPagePatch{ClearExpiresAt: true}
		store.On("Update", ctx, pageID, "intruder", patch, fixedNow).Return(model.FeedbackPage{}, model.ErrFeedbackPageNotFound)

		_, err := svc.Update(ctx, "intruder", pageID, patch)
		requireAPIError(t, err, apierror.CodeNotFound, http.StatusNotFound)
	})
}

func TestFeedbackPageService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, store := newPageService(t)
	store.On("Delete", ctx, pageID, ownerID).Return(nil).Once()
	store.On("Delete", ctx, pageID, "intruder").Return(model.ErrFeedbackPageNotFound).Once()

	require.NoError(t, svc.Delete(ctx, ownerID, pageID))

	err := svc.Delete(ctx, "intruder", pageID)
	requireAPIError(t, err, apierror.CodeNotFound, http.StatusNotFound)

	err = svc.Delete(ctx, ownerID, "../etc")
	requireAPIError(t, err, apierror.CodeNotFound, http.StatusNotFound)
	store.AssertExpectations(t)
}

func TestFeedbackPageService_IsExpired(t *testing.T) {
	ctx := context.Background()
	svc, store := newPageService(t)
	store.On("IsExpired", ctx, "tok", fixedNow).Return(true, nil)
	store.On("IsExpired", ctx, "broken", fixedNow).Return(false, errors.New("db down"))

	expired, err := svc.IsExpired(ctx, " tok ")
	require.NoError(t, err)
	assert.True(t, expired)

	_, err = svc.IsExpired(ctx, "broken")
	requireAPIError(t, err, apierror.CodeInternal, http.StatusInternalServerError)
}
