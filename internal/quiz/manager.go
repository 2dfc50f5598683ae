package quiz

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/MuseumTrail/MT-Backend/internal/catalog"
	"github.com/MuseumTrail/MT-Backend/internal/generator"
	"github.com/MuseumTrail/MT-Backend/internal/metrics"
)

// Result is the scored view of one question.
type Result struct {
	Question      string
	UserAnswer    string
	Answered      bool
	CorrectAnswer string
	IsCorrect     bool
	Options       []string
}

type Outcome struct {
	Title   string
	Score   int
	Total   int
	Results []Result
}

// Answers maps form fields (q_0 .. q_4) to submitted option text. A missing
// field means the question was left blank.
type Answers map[string]string

// Manager drives the per-session quiz lifecycle: generate, hold, score, discard.
type Manager struct {
	gen   generator.Generator
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager returns a Manager. gen may be nil, in which case every quiz is
// the fallback quiz.
func NewManager(gen generator.Generator, store Store, ttl time.Duration) *Manager {
	return &Manager{gen: gen, store: store, ttl: ttl, now: time.Now}
}

// Generate produces a quiz for m and stores it under sessionID, replacing any
// quiz the session held. Generator failures are absorbed by serving the
// fallback quiz; only a store failure is returned.
func (mg *Manager) Generate(ctx context.Context, sessionID string, m catalog.Museum) (*Quiz, error) {
	q, source := mg.generate(ctx, m)
	metrics.QuizzesGenerated.WithLabelValues(source).Inc()

	attempt := Attempt{Quiz: q, MuseumKey: m.Key}
	if mg.ttl > 0 {
		attempt.ExpiresAt = mg.now().Add(mg.ttl)
	}
	if err := mg.store.Put(ctx, sessionID, attempt); err != nil {
		return nil, fmt.Errorf("store quiz: %w", err)
	}
	return &q, nil
}

func (mg *Manager) generate(ctx context.Context, m catalog.Museum) (Quiz, string) {
	if mg.gen == nil {
		return Fallback(m.Name, m.City), "fallback"
	}

	raw, err := mg.gen.GenerateQuiz(ctx, m.Name, m.City)
	if err != nil {
		log.Printf("[quiz] generator failed for %s, using fallback: %v", m.Key, err)
		return Fallback(m.Name, m.City), "fallback"
	}
	q, err := Parse(raw)
	if err != nil {
		log.Printf("[quiz] rejected generated quiz for %s, using fallback: %v", m.Key, err)
		return Fallback(m.Name, m.City), "fallback"
	}
	return q, "generator"
}

// Score grades answers against the quiz the session holds for museumKey. The
// stored quiz is removed before anything is checked, so a mismatched or failed
// submission still consumes it.
func (mg *Manager) Score(ctx context.Context, sessionID, museumKey string, answers Answers) (*Outcome, error) {
	attempt, err := mg.store.Take(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if attempt == nil || attempt.Expired(mg.now()) || attempt.MuseumKey != museumKey {
		metrics.QuizzesScored.WithLabelValues("mismatch").Inc()
		return nil, ErrSessionMismatch
	}

	out := &Outcome{
		Title:   attempt.Quiz.Title,
		Total:   len(attempt.Quiz.Questions),
		Results: make([]Result, 0, len(attempt.Quiz.Questions)),
	}
	for i, q := range attempt.Quiz.Questions {
		given, answered := answers[AnswerField(i)]
		correct := answered && given == q.Answer
		if correct {
			out.Score++
		}
		out.Results = append(out.Results, Result{
			Question:      q.Question,
			UserAnswer:    given,
			Answered:      answered,
			CorrectAnswer: q.Answer,
			IsCorrect:     correct,
			Options:       q.Options,
		})
	}

	metrics.QuizzesScored.WithLabelValues("scored").Inc()
	return out, nil
}
