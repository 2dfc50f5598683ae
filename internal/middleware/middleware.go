package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MuseumTrail/MT-Backend/internal/metrics"
	"github.com/MuseumTrail/MT-Backend/internal/utils"
	"github.com/MuseumTrail/MT-Backend/internal/web"
)

const (
	SessionCookieName = "session_id"
	loginRequiredMsg  = "You need to log in first."
)

type SessionFetcher interface {
	FindSessionByID(id string) (utils.SessionData, error)
}

// SessionMiddleware guards pages that need a logged-in user. Requests without a
// live session are sent to /login with a notice.
func SessionMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				web.RedirectWithFlash(w, r, "/login", web.FlashError, loginRequiredMsg)
				return
			}

			session, err := fetcher.FindSessionByID(cookie.Value)
			if err != nil {
				web.RedirectWithFlash(w, r, "/login", web.FlashError, loginRequiredMsg)
				return
			}

			if session.ExpiresAt.Before(time.Now()) {
				web.RedirectWithFlash(w, r, "/login", web.FlashError, loginRequiredMsg)
				return
			}

			ctx := utils.WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Metrics records request counts and latency labelled by the matched chi route
// pattern, so that museum keys do not blow up label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.Method
		metrics.RequestInProgress.WithLabelValues(method).Inc()
		defer metrics.RequestInProgress.WithLabelValues(method).Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)

		metrics.RequestCounter.WithLabelValues(code, method, route).Inc()
		metrics.RequestDuration.WithLabelValues(code, method, route).Observe(time.Since(start).Seconds())
	})
}
