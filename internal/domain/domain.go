package domain

import (
	"context"
	"errors"
)

// RecordKind classifies where a record came from.
type RecordKind string

const (
	// KindSchemeFact is a single fact about a mutual fund scheme.
	KindSchemeFact RecordKind = "scheme_fact"
	// KindGuide is a how-to snippet from an investor guide page.
	KindGuide RecordKind = "guide"
)

// Record is one immutable text passage with its provenance.
// Records are produced by ingestion, never mutated, and replaced
// wholesale when the index is rebuilt.
type Record struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	SourceURL string     `json:"source_url"`
	FundName  string     `json:"fund_name,omitempty"`
	Kind      RecordKind `json:"kind"`
}

// ScoredRecord is a retrieved record with its similarity score.
type ScoredRecord struct {
	Record Record
	Score  float32
}

// Answer is the outcome of one query. It is the only thing the
// service layer ever sees: failures are carried in Success/Reason,
// never as an error value.
type Answer struct {
	Question  string `json:"question"`
	Text      string `json:"answer,omitempty"`
	SourceURL string `json:"source,omitempty"`
	Success   bool   `json:"success"`
	Reason    string `json:"error,omitempty"`
}

// Embedder converts free text into a fixed-dimension vector.
// Implementations must be safe for concurrent use after construction.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator is the optional language-model collaborator used by the
// composer's generative mode.
type Generator interface {
	Generate(ctx context.Context, question string, passages []ScoredRecord) (string, error)
}

var (
	// ErrInvalidInput marks an empty or malformed question.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConsistency marks an index/store misalignment: a search hit
	// whose position has no backing record. It indicates a corrupted
	// rebuild and is never silently dropped.
	ErrConsistency = errors.New("index and document store are out of sync")
)
