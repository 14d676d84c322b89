package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

// RateLimitMiddleware rejects requests from clients over budget with 429.
// It keys on r.RemoteAddr, so mount it after middleware.RealIP.
func RateLimitMiddleware(limiter *RateLimiter, logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientKey(r.RemoteAddr)

			ok, retryAfter := limiter.Allow(client)
			if !ok {
				logger.WithField("client", client).Warn("rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				respondError(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
