// Package composer turns retrieved passages into the final answer.
package composer

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"fundfaq/internal/domain"
)

// Composition modes.
const (
	ModeExtractive = "extractive"
	ModeGenerative = "generative"
)

// notFoundReason is the polite outcome when nothing clears the
// similarity threshold. It is a normal result, not an error.
const notFoundReason = "I could not find a factual snippet for that question."

// Composer produces an Answer from a ranked retrieval result. In
// extractive mode the top passage above the threshold is returned
// verbatim; in generative mode the passages are handed to the language
// model collaborator, falling back to extractive when it fails.
type Composer struct {
	mode      string
	threshold float32
	generator domain.Generator
}

// New constructs a Composer. Generative mode requires a generator.
func New(mode string, threshold float32, generator domain.Generator) (*Composer, error) {
	switch mode {
	case "", ModeExtractive:
		mode = ModeExtractive
	case ModeGenerative:
		if generator == nil {
			return nil, errors.New("generative mode requires a generator")
		}
	default:
		return nil, errors.Errorf("unknown composer mode %q", mode)
	}
	return &Composer{mode: mode, threshold: threshold, generator: generator}, nil
}

// Compose is total: it always returns an Answer, never an error. The
// source URL is only ever copied from a retrieved record.
func (c *Composer) Compose(ctx context.Context, question string, results []domain.ScoredRecord) domain.Answer {
	if len(results) == 0 {
		return domain.Answer{Question: question, Success: false, Reason: notFoundReason}
	}
	if c.mode == ModeGenerative {
		if answer, ok := c.generate(ctx, question, results); ok {
			return answer
		}
		// Collaborator unreachable or errored: degrade to extractive
		// rather than failing the request.
	}
	return c.extract(question, results)
}

func (c *Composer) extract(question string, results []domain.ScoredRecord) domain.Answer {
	top := results[0]
	if top.Score < c.threshold {
		return domain.Answer{Question: question, Success: false, Reason: notFoundReason}
	}
	return domain.Answer{
		Question:  question,
		Text:      top.Record.Text,
		SourceURL: top.Record.SourceURL,
		Success:   true,
	}
}

func (c *Composer) generate(ctx context.Context, question string, results []domain.ScoredRecord) (domain.Answer, bool) {
	text, err := c.generator.Generate(ctx, question, results)
	if err != nil {
		slog.Warn("generative composer failed, falling back to extractive",
			"error", err,
		)
		return domain.Answer{}, false
	}
	return domain.Answer{
		Question:  question,
		Text:      text,
		SourceURL: results[0].Record.SourceURL,
		Success:   true,
	}, true
}
