package quiz

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MuseumTrail/MT-Backend/internal/catalog"
	"github.com/MuseumTrail/MT-Backend/internal/utils"
	"github.com/MuseumTrail/MT-Backend/internal/web"
)

func newQuizRouter(t *testing.T) http.Handler {
	t.Helper()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	h := &Handler{
		Catalog:  cat,
		Manager:  NewManager(nil, NewMemoryStore(), time.Hour),
		Renderer: renderer,
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := utils.WithSession(r.Context(), utils.SessionData{SessionID: "sess-1", Username: "asha"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	h.SetupRoutes(r)
	return r
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postAnswers(key string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/quiz/"+key, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestQuizPage_RendersAndScores(t *testing.T) {
	h := newQuizRouter(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/quiz/bihar_museum_patna", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Generating a new AI Quiz for Bihar Museum...", "Fallback Quiz on Bihar Museum", `name="q_4"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in quiz page", want)
		}
	}

	rec = serve(h, postAnswers("bihar_museum_patna", url.Values{
		"q_0": {"Patna"},
		"q_1": {"Education and Preservation"},
		"q_2": {"Asia"},
		"q_3": {"Egyptian"},
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Your score: 3 / 5") {
		t.Errorf("expected score 3/5 in body")
	}
}

func TestSubmitQuiz_WithoutQuiz(t *testing.T) {
	h := newQuizRouter(t)

	rec := serve(h, postAnswers("bihar_museum_patna", url.Values{"q_0": {"Patna"}}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/quiz_selection" {
		t.Errorf("expected redirect to /quiz_selection, got %q", loc)
	}
}

func TestSubmitQuiz_MismatchedMuseum(t *testing.T) {
	h := newQuizRouter(t)

	serve(h, httptest.NewRequest(http.MethodGet, "/quiz/bihar_museum_patna", nil))
	rec := serve(h, postAnswers("indian_museum_kolkata", url.Values{}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/quiz_selection" {
		t.Fatalf("expected redirect to /quiz_selection, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	// The mismatch consumed the stored quiz.
	rec = serve(h, postAnswers("bihar_museum_patna", url.Values{}))
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected the quiz to be gone, got %d", rec.Code)
	}
}

func TestQuiz_UnknownMuseum(t *testing.T) {
	h := newQuizRouter(t)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/quiz/louvre_paris", nil),
		postAnswers("louvre_paris", url.Values{}),
	} {
		rec := serve(h, req)
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/quiz_selection" {
			t.Errorf("%s: expected redirect to /quiz_selection, got %d %q", req.Method, rec.Code, rec.Header().Get("Location"))
		}
	}
}
