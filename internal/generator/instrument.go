package generator

import (
	"context"
	"time"

	"github.com/MuseumTrail/MT-Backend/internal/metrics"
)

type instrumented struct {
	next Generator
}

// Instrument records call latency and outcome for every call made through g.
func Instrument(g Generator) Generator {
	if _, ok := g.(instrumented); ok {
		return g
	}
	return instrumented{next: g}
}

func (i instrumented) Name() string { return i.next.Name() }

func (i instrumented) Summarize(ctx context.Context, name, city string) (string, error) {
	start := time.Now()
	text, err := i.next.Summarize(ctx, name, city)
	metrics.RecordGeneratorCall(i.next.Name(), "summary", err, start)
	return text, err
}

func (i instrumented) GenerateQuiz(ctx context.Context, name, city string) ([]byte, error) {
	start := time.Now()
	raw, err := i.next.GenerateQuiz(ctx, name, city)
	metrics.RecordGeneratorCall(i.next.Name(), "quiz", err, start)
	return raw, err
}
