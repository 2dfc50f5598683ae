package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"

	"github.com/MuseumTrail/MT-Backend/internal/metrics"
	"github.com/MuseumTrail/MT-Backend/internal/middleware"
	"github.com/MuseumTrail/MT-Backend/internal/utils"
)

// mockFetcher implements middleware.SessionFetcher without any database dependency.
type mockFetcher struct {
	session utils.SessionData
	err     error
}

func (m mockFetcher) FindSessionByID(id string) (utils.SessionData, error) {
	return m.session, m.err
}

// callWithCookie wraps a simple 200-OK inner handler in the provided middleware,
// optionally setting one cookie on the request, and returns the recorded response.
func callWithCookie(t *testing.T, mw func(http.Handler) http.Handler, cookieName, cookieValue string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw(inner)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if cookieName != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func assertLoginRedirect(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
	var flashed bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" && c.Value != "" {
			flashed = true
		}
	}
	if !flashed {
		t.Error("expected a flash cookie on the redirect")
	}
}

func TestSessionMiddleware_MissingCookie(t *testing.T) {
	mw := middleware.SessionMiddleware(mockFetcher{})

	rec := callWithCookie(t, mw, "", "")

	assertLoginRedirect(t, rec)
}

func TestSessionMiddleware_ExpiredSession(t *testing.T) {
	fetcher := mockFetcher{
		session: utils.SessionData{
			SessionID: "expired-session-id",
			Username:  "asha",
			ExpiresAt: time.Now().Add(-1 * time.Hour),
		},
	}
	mw := middleware.SessionMiddleware(fetcher)

	rec := callWithCookie(t, mw, middleware.SessionCookieName, "expired-session-id")

	assertLoginRedirect(t, rec)
}

// A fetcher error (e.g. session not found) is treated like a missing session.
func TestSessionMiddleware_FetcherError(t *testing.T) {
	fetcher := mockFetcher{err: errors.New("session not found")}
	mw := middleware.SessionMiddleware(fetcher)

	rec := callWithCookie(t, mw, middleware.SessionCookieName, "nonexistent-session-id")

	assertLoginRedirect(t, rec)
}

func TestSessionMiddleware_ValidSession(t *testing.T) {
	const wantUsername = "asha"
	const wantSessionID = "valid-session-id"

	fetcher := mockFetcher{
		session: utils.SessionData{
			SessionID: wantSessionID,
			Username:  wantUsername,
			ExpiresAt: time.Now().Add(1 * time.Hour),
		},
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := utils.GetUsernameFromContext(r.Context())
		if !ok || username != wantUsername {
			http.Error(w, "wrong username in context: "+username, http.StatusInternalServerError)
			return
		}
		sessionID, ok := utils.GetSessionIDFromContext(r.Context())
		if !ok || sessionID != wantSessionID {
			http.Error(w, "wrong session id in context: "+sessionID, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.SessionMiddleware(fetcher)(inner)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: wantSessionID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Metrics)
	r.Get("/museum/{key}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.RequestCounter.WithLabelValues("418", http.MethodGet, "/museum/{key}")
	before := counterValue(t, counter)

	for _, key := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/museum/"+key, nil))
	}

	if got := counterValue(t, counter) - before; got != 2 {
		t.Errorf("expected 2 requests under the route pattern, got %v", got)
	}
}
