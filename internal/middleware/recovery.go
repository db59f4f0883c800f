package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go-feedback-gate/pkg/apierror"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}

			slog.Error("panic recovered",
				"error", fmt.Sprintf("%v", recovered),
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			writeAPIError(w, apierror.Internal(fmt.Errorf("panic: %v", recovered)))
		}()

		next.ServeHTTP(w, r)
	})
}
