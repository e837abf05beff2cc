package graceful_shutdown

import (
	"context"
	"net/http"
	"sync/atomic"

	"dispatch/internal/apperr"
)

// Middleware после начала остановки отвечает 503, провайдер повторит вебхук позже.
func Middleware(isShuttingDown *atomic.Bool, ongoingCtx context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ongoingCtx.Err() != nil && isShuttingDown.Load() {
				w.Header().Set("Connection", "close")
				_ = apperr.Write(w, http.StatusServiceUnavailable, apperr.New(apperr.LabelShuttingDown, "service is shutting down"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
