// Package quiz holds at most one generated quiz per login session, from
// generation until it is scored.
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MuseumTrail/MT-Backend/internal/generator"
)

var (
	ErrInvalidQuiz     = errors.New("invalid quiz content")
	ErrSessionMismatch = errors.New("no quiz stored for this session and museum")
)

type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type Quiz struct {
	Title     string     `json:"quiz_title"`
	Questions []Question `json:"questions"`
}

// Attempt is a quiz held for one session, bound to the museum it was made for.
type Attempt struct {
	Quiz      Quiz      `json:"quiz"`
	MuseumKey string    `json:"museum_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (a Attempt) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}

// Validate checks the shape every served quiz must have: a title and exactly
// five questions, each with four options one of which is the answer.
func (q Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidQuiz)
	}
	if len(q.Questions) != generator.QuizQuestions {
		return fmt.Errorf("%w: %d questions, want %d", ErrInvalidQuiz, len(q.Questions), generator.QuizQuestions)
	}
	for i, question := range q.Questions {
		if strings.TrimSpace(question.Question) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidQuiz, i)
		}
		if len(question.Options) != generator.QuizOptions {
			return fmt.Errorf("%w: question %d has %d options, want %d", ErrInvalidQuiz, i, len(question.Options), generator.QuizOptions)
		}
		found := false
		for _, opt := range question.Options {
			if opt == question.Answer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: question %d answer %q is not an option", ErrInvalidQuiz, i, question.Answer)
		}
	}
	return nil
}

// Parse decodes generator output and validates it.
func Parse(raw []byte) (Quiz, error) {
	var q Quiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return Quiz{}, fmt.Errorf("%w: %v", ErrInvalidQuiz, err)
	}
	if err := q.Validate(); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

// AnswerField is the form field carrying the answer to question i.
func AnswerField(i int) string {
	return fmt.Sprintf("q_%d", i)
}

var cityDistractors = []string{"Mumbai", "Kolkata", "Delhi", "Chennai"}

// Fallback is served whenever the generator cannot produce a usable quiz.
func Fallback(name, city string) Quiz {
	cityOptions := []string{city}
	for _, d := range cityDistractors {
		if len(cityOptions) == generator.QuizOptions {
			break
		}
		if !strings.EqualFold(d, city) {
			cityOptions = append(cityOptions, d)
		}
	}

	return Quiz{
		Title: "Fallback Quiz on " + name,
		Questions: []Question{
			{
				Question: fmt.Sprintf("Which city is the %s located in?", name),
				Options:  cityOptions,
				Answer:   city,
			},
			{
				Question: "What is the primary purpose of a museum?",
				Options:  []string{"Entertainment", "Education and Preservation", "Shopping", "Sports"},
				Answer:   "Education and Preservation",
			},
			{
				Question: "In which continent is India located?",
				Options:  []string{"Europe", "Africa", "Asia", "South America"},
				Answer:   "Asia",
			},
			{
				Question: "The famous 'Dancing Girl' statuette belongs to which civilization?",
				Options:  []string{"Egyptian", "Mesopotamian", "Indus Valley", "Roman"},
				Answer:   "Indus Valley",
			},
			{
				Question: "The term 'Mughal' refers to a dynasty from which country?",
				Options:  []string{"China", "India", "Turkey", "Mongolia"},
				Answer:   "Mongolia",
			},
		},
	}
}
