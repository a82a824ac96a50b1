// Package vectorindex implements the flat nearest-neighbour index the
// engine serves from. The index is built offline, written as a single
// JSON artifact, and loaded read-only at process start; a rebuild
// replaces the file and requires a full reload.
package vectorindex

import (
	"encoding/json"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"

	"fundfaq/internal/domain"
)

// MetricCosine is the only similarity metric this index supports.
// The metric is recorded in the artifact and validated on load so a
// query can never silently run against an index built with another
// metric.
const MetricCosine = "cosine"

// Hit is one search result: a dense position into the corpus, the
// record id stored at that position, and the similarity score.
type Hit struct {
	Position int
	ID       string
	Score    float32
}

type artifact struct {
	Metric        string          `json:"metric"`
	Dimension     int             `json:"dimension"`
	Embedder      string          `json:"embedder"`
	EmbedderState json.RawMessage `json:"embedder_state,omitempty"`
	IDs           []string        `json:"ids"`
	Vectors       [][]float32     `json:"vectors"`
}

// Index is an immutable cosine-similarity index over the corpus
// embeddings. Positions are dense (0..N-1) in index-build order and
// the IDs slice is the sole bridge from a position back to a record.
type Index struct {
	metric        string
	dimension     int
	embedderName  string
	embedderState json.RawMessage
	ids           []string
	vectors       [][]float32
}

// Load reads and validates an index artifact.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read index artifact")
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(err, "decode index artifact")
	}
	if a.Metric != MetricCosine {
		return nil, errors.Errorf("index metric %q not supported, want %q", a.Metric, MetricCosine)
	}
	if a.Dimension <= 0 {
		return nil, errors.Errorf("index has invalid dimension %d", a.Dimension)
	}
	if len(a.IDs) != len(a.Vectors) {
		return nil, errors.Errorf("index has %d ids but %d vectors", len(a.IDs), len(a.Vectors))
	}
	for i, v := range a.Vectors {
		if len(v) != a.Dimension {
			return nil, errors.Errorf("vector at position %d has dimension %d, want %d", i, len(v), a.Dimension)
		}
	}
	return &Index{
		metric:        a.Metric,
		dimension:     a.Dimension,
		embedderName:  a.Embedder,
		embedderState: a.EmbedderState,
		ids:           a.IDs,
		vectors:       a.Vectors,
	}, nil
}

// ValidateEmbedder checks that the serving embedder matches the one
// the index was built with. A mismatch is a fatal configuration error.
func (ix *Index) ValidateEmbedder(e domain.Embedder) error {
	if e.Name() != ix.embedderName {
		return errors.Errorf("index built with embedder %q, serving with %q", ix.embedderName, e.Name())
	}
	if d := e.Dimension(); d != 0 && d != ix.dimension {
		return errors.Errorf("index dimension %d does not match embedder dimension %d", ix.dimension, d)
	}
	return nil
}

// Search returns the top-k positions by cosine similarity, scores
// descending, ties broken by ascending position. It returns fewer
// than k hits only when the index holds fewer than k vectors.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if k < 1 {
		return nil, errors.Errorf("k must be >= 1, got %d", k)
	}
	if len(query) != ix.dimension {
		return nil, errors.Errorf("query vector has dimension %d, index expects %d", len(query), ix.dimension)
	}
	q := normalized(query)
	hits := make([]Hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = Hit{Position: i, ID: ix.ids[i], Score: dot(v, q)}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Position < hits[j].Position
	})
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Len reports the number of indexed vectors.
func (ix *Index) Len() int { return len(ix.vectors) }

// Dimension reports the vector dimensionality of the index.
func (ix *Index) Dimension() int { return ix.dimension }

// EmbedderName reports the name of the embedder the index was built with.
func (ix *Index) EmbedderName() string { return ix.embedderName }

// EmbedderState returns the opaque embedder state persisted at build
// time (the TF-IDF vocabulary, for the local embedder). Nil for
// embedders that need no state.
func (ix *Index) EmbedderState() json.RawMessage { return ix.embedderState }

// IDAt returns the record id stored at a position.
func (ix *Index) IDAt(position int) (string, bool) {
	if position < 0 || position >= len(ix.ids) {
		return "", false
	}
	return ix.ids[position], true
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func normalized(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
