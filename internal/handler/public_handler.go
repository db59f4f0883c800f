package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-feedback-gate/internal/model"
)

type accessGate interface {
	Resolve(ctx context.Context, urlToken string) (model.FeedbackPage, error)
}

type expiryChecker interface {
	IsExpired(ctx context.Context, urlToken string) (bool, error)
}

// PublicHandler serves anonymous holders of a url token.
type PublicHandler struct {
	gate   accessGate
	expiry expiryChecker
}

func NewPublicHandler(gate accessGate, expiry expiryChecker) *PublicHandler {
	return &PublicHandler{gate: gate, expiry: expiry}
}

func (h *PublicHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	page, err := h.gate.Resolve(r.Context(), chi.URLParam(r, "urlToken"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page.Public())
}

func (h *PublicHandler) Expired(w http.ResponseWriter, r *http.Request) {
	expired, err := h.expiry.IsExpired(r.Context(), chi.URLParam(r, "urlToken"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ExpiryData{Expired: expired})
}
