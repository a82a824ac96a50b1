package vectorindex

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Builder accumulates embeddings in corpus order and writes the index
// artifact. Positions are assigned densely in the order Add is called,
// so the builder must walk the document store in store order.
type Builder struct {
	dimension     int
	embedderName  string
	embedderState json.RawMessage
	ids           []string
	vectors       [][]float32
}

// NewBuilder creates a builder for the given embedder name and vector
// dimensionality.
func NewBuilder(embedderName string, dimension int) (*Builder, error) {
	if dimension <= 0 {
		return nil, errors.Errorf("invalid dimension %d", dimension)
	}
	return &Builder{dimension: dimension, embedderName: embedderName}, nil
}

// Add appends a record embedding at the next position. Vectors are
// L2-normalized so search can score with a plain dot product.
func (b *Builder) Add(id string, vector []float32) error {
	if id == "" {
		return errors.New("record id must not be empty")
	}
	if len(vector) != b.dimension {
		return errors.Errorf("vector for %q has dimension %d, want %d", id, len(vector), b.dimension)
	}
	b.ids = append(b.ids, id)
	b.vectors = append(b.vectors, normalized(vector))
	return nil
}

// SetEmbedderState attaches opaque embedder state to the artifact so
// the serving side can reconstruct the exact embedder the index was
// built with.
func (b *Builder) SetEmbedderState(state json.RawMessage) {
	b.embedderState = state
}

// Len reports the number of vectors added so far.
func (b *Builder) Len() int { return len(b.vectors) }

// Save writes the index artifact, creating directories as needed.
func (b *Builder) Save(path string) error {
	a := artifact{
		Metric:        MetricCosine,
		Dimension:     b.dimension,
		Embedder:      b.embedderName,
		EmbedderState: b.embedderState,
		IDs:           b.ids,
		Vectors:       b.vectors,
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
