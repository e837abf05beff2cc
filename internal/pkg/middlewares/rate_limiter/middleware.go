package rate_limiter

import (
	"net/http"
	"strconv"

	"dispatch/internal/apperr"
	"dispatch/internal/pkg/middlewares/metrics"
	"dispatch/pkg/logger"
)

// Middleware отклоняет запросы сверх лимита с 429. Вебхуки провайдеров
// при 429 повторяют доставку сами.
func Middleware(log handlerLogger, qps int, limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			route := metrics.RouteTemplate(r)
			RateLimitExceededTotal.WithLabelValues(r.Method, route).Inc()
			log.Warn("rate limit exceeded",
				logger.NewField("method", r.Method),
				logger.NewField("route", route),
				logger.NewField("remote_addr", r.RemoteAddr),
			)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(qps))
			w.Header().Set("Retry-After", "1")
			err := apperr.Write(w, http.StatusTooManyRequests, apperr.New(apperr.LabelRateLimited, "rate limit exceeded, try again later"))
			if err != nil {
				log.Error("failed to write rate limit response",
					logger.NewField("error", err),
					logger.NewField("path", r.URL.Path),
				)
			}
		})
	}
}
