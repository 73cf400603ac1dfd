package httpapi

import (
	"fmt"
	"net/http"

	crerr "github.com/cockroachdb/errors"

	"github.com/cloud206/api-footballStreaming/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigin string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigin, recoverPanic(logger, handler.exposeStack, mux))))
}

func recoverPanic(logger *logging.Logger, exposeStack bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if ok {
				err = crerr.Wrap(err, "panic")
			} else {
				err = crerr.Newf("panic: %s", fmt.Sprint(rec))
			}
			logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "path", r.URL.Path)
			writeInternalError(w, err, exposeStack)
		}()
		next.ServeHTTP(w, r)
	})
}
