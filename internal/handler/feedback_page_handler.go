package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-feedback-gate/internal/middleware"
	"go-feedback-gate/internal/model"
	"go-feedback-gate/pkg/apierror"
)

type feedbackPageService interface {
	Create(ctx context.Context, ownerID string, input model.NewFeedbackPage) (model.FeedbackPage, error)
	Get(ctx context.Context, ownerID string, id string) (model.FeedbackPage, error)
	List(ctx context.Context, ownerID string) ([]model.FeedbackPage, error)
	Update(ctx context.Context, ownerID string, id string, patch model.FeedbackPagePatch) (model.FeedbackPage, error)
	Delete(ctx context.Context, ownerID string, id string) error
}

type FeedbackPageHandler struct {
	pages feedbackPageService
}

func NewFeedbackPageHandler(pages feedbackPageService) *FeedbackPageHandler {
	return &FeedbackPageHandler{pages: pages}
}

func ownerFrom(r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.ID == "" {
		return "", false
	}
	return claims.ID, true
}

func (h *FeedbackPageHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFrom(r)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.CreateFeedbackPageRequest
	if err := decodeJSON(w, r, &payload, false); err != nil {
		writeError(w, err)
		return
	}

	page, err := h.pages.Create(r.Context(), ownerID, model.NewFeedbackPage{
		Title:       payload.Title,
		Description: payload.Description,
		ExpiresAt:   payload.ExpiresAt,
		ExpiresIn:   payload.ExpiresIn,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, page)
}

func (h *FeedbackPageHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFrom(r)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	pages, err := h.pages.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.FeedbackPageListData{FeedbackPages: pages})
}

func (h *FeedbackPageHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFrom(r)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	page, err := h.pages.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page)
}

func (h *FeedbackPageHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFrom(r)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.UpdateFeedbackPageRequest
	if err := decodeJSON(w, r, &payload, false); err != nil {
		writeError(w, err)
		return
	}

	page, err := h.pages.Update(r.Context(), ownerID, chi.URLParam(r, "id"), payload.Patch())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page)
}

func (h *FeedbackPageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFrom(r)
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	if err := h.pages.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true})
}
