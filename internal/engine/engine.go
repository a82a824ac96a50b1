// Package engine is the single entry point for answering questions.
package engine

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"fundfaq/internal/domain"
)

// Retriever returns the k best-matching records for a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string, k int) ([]domain.ScoredRecord, error)
}

// Composer turns retrieved records into a final answer.
type Composer interface {
	Compose(ctx context.Context, question string, results []domain.ScoredRecord) domain.Answer
}

// Engine orchestrates retrieval and composition. Query is a total
// function: every failure path resolves to an Answer with
// Success=false and a human-readable reason, so the service layer
// needs no error translation of its own.
type Engine struct {
	retriever Retriever
	composer  Composer
	topK      int
}

// New constructs an Engine with the configured default top-k.
func New(retriever Retriever, composer Composer, topK int) (*Engine, error) {
	if retriever == nil {
		return nil, errors.New("retriever must not be nil")
	}
	if composer == nil {
		return nil, errors.New("composer must not be nil")
	}
	if topK < 1 {
		topK = 3
	}
	return &Engine{retriever: retriever, composer: composer, topK: topK}, nil
}

// Query answers a question. It never returns an error to its caller.
func (e *Engine) Query(ctx context.Context, question string) domain.Answer {
	results, err := e.retriever.Retrieve(ctx, question, e.topK)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return domain.Answer{Question: question, Success: false, Reason: "Question cannot be empty"}
		case errors.Is(err, domain.ErrConsistency):
			// A build defect, not a bad question. Logged for the
			// operator; not retried.
			slog.Error("retrieval consistency failure", "error", err)
			return domain.Answer{Question: question, Success: false, Reason: "The index and document store are out of sync. Please rebuild the index."}
		default:
			slog.Error("retrieval failed", "error", err)
			return domain.Answer{Question: question, Success: false, Reason: "Something went wrong while answering your question. Please try again."}
		}
	}
	return e.composer.Compose(ctx, question, results)
}
