package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"go-feedback-gate/internal/model"
	"go-feedback-gate/pkg/apierror"
)

const maxBodyBytes = 1 << 20

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError reflects classified errors verbatim. Anything else is reported
// as a generic internal error and its cause goes to the log only.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierror.Internal(err)
	}

	if apiErr.HTTPStatus >= http.StatusInternalServerError {
		logInternal(apiErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
}

func logInternal(apiErr *apierror.APIError) {
	cause := errors.Unwrap(apiErr)
	if cause == nil {
		slog.Error("internal error", "error", apiErr.Error())
		return
	}

	attrs := []any{"error", cause.Error()}
	if oopsErr, ok := oops.AsOops(cause); ok {
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	}
	slog.Error("internal error", attrs...)
}

// decodeJSON treats an empty body as an empty object when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	defer r.Body.Close()

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		return apierror.BadRequest("invalid JSON body", "")
	}
	return nil
}
