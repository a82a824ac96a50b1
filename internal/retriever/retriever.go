// Package retriever orchestrates the embedder, the vector index and
// the document store to answer top-k similarity lookups.
package retriever

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"fundfaq/internal/domain"
	"fundfaq/internal/vectorindex"
)

// Index is the search-facing subset of the vector index.
type Index interface {
	Search(query []float32, k int) ([]vectorindex.Hit, error)
	Len() int
}

// Store hydrates record ids into full records.
type Store interface {
	Get(id string) (domain.Record, bool)
}

// Retriever embeds a question and returns the best-matching records
// with their similarity scores.
type Retriever struct {
	embedder domain.Embedder
	index    Index
	store    Store
}

// New constructs a Retriever from its three collaborators.
func New(embedder domain.Embedder, index Index, store Store) (*Retriever, error) {
	if embedder == nil {
		return nil, errors.New("embedder must not be nil")
	}
	if index == nil {
		return nil, errors.New("index must not be nil")
	}
	if store == nil {
		return nil, errors.New("store must not be nil")
	}
	return &Retriever{embedder: embedder, index: index, store: store}, nil
}

// Retrieve returns up to k records ranked by descending similarity,
// ties broken by index position. An empty index yields an empty
// result, not an error; a search hit with no backing record is a
// consistency failure and is surfaced, never dropped.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]domain.ScoredRecord, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "empty question")
	}
	if k < 1 {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "k must be >= 1, got %d", k)
	}
	if r.index.Len() == 0 {
		return nil, nil
	}
	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, errors.Wrap(err, "embed question")
	}
	hits, err := r.index.Search(vec, k)
	if err != nil {
		return nil, errors.Wrap(err, "search index")
	}
	results := make([]domain.ScoredRecord, 0, len(hits))
	for _, h := range hits {
		rec, ok := r.store.Get(h.ID)
		if !ok {
			return nil, errors.Wrapf(domain.ErrConsistency, "position %d references unknown record %q", h.Position, h.ID)
		}
		results = append(results, domain.ScoredRecord{Record: rec, Score: h.Score})
	}
	return results, nil
}
