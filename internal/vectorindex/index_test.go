package vectorindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T, ids []string, vectors [][]float32) *Index {
	t.Helper()
	b, err := NewBuilder("tfidf", len(vectors[0]))
	require.NoError(t, err)
	for i, id := range ids {
		require.NoError(t, b.Add(id, vectors[i]))
	}
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, b.Save(path))
	ix, err := Load(path)
	require.NoError(t, err)
	return ix
}

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	ix := buildIndex(t,
		[]string{"a", "b", "c"},
		[][]float32{
			{1, 0, 0},
			{0, 1, 0},
			{0.9, 0.1, 0},
		},
	)

	hits, err := ix.Search([]float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "c", hits[1].ID)
	assert.Equal(t, "b", hits[2].ID)
	assert.InDelta(t, 1.0, float64(hits[0].Score), 1e-6)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i].Score, hits[i-1].Score)
	}
}

func TestSearch_TiesBrokenByAscendingPosition(t *testing.T) {
	ix := buildIndex(t,
		[]string{"first", "second", "third"},
		[][]float32{
			{0, 1, 0},
			{1, 0, 0},
			{1, 0, 0},
		},
	)

	hits, err := ix.Search([]float32{1, 0, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, "second", hits[0].ID)
	assert.Equal(t, "third", hits[1].ID)
	assert.Equal(t, 1, hits[0].Position)
	assert.Equal(t, 2, hits[1].Position)
}

func TestSearch_LargeKReturnsAllWithoutError(t *testing.T) {
	ix := buildIndex(t, []string{"a", "b"}, [][]float32{{1, 0}, {0, 1}})

	hits, err := ix.Search([]float32{1, 0}, 100)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearch_EmptyIndexReturnsNoHits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	artifact := `{"metric":"cosine","dimension":2,"embedder":"tfidf","ids":[],"vectors":[]}`
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))

	ix, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, ix.Len())

	hits, err := ix.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_InvalidK(t *testing.T) {
	ix := buildIndex(t, []string{"a"}, [][]float32{{1, 0}})
	_, err := ix.Search([]float32{1, 0}, 0)
	require.Error(t, err)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	ix := buildIndex(t, []string{"a"}, [][]float32{{1, 0}})
	_, err := ix.Search([]float32{1, 0, 0}, 1)
	require.Error(t, err)
}

func TestSearch_NormalizesQuery(t *testing.T) {
	ix := buildIndex(t, []string{"a"}, [][]float32{{3, 4}})

	hits, err := ix.Search([]float32{30, 40}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, float64(hits[0].Score), 1e-6)
}

func TestLoad_RejectsUnknownMetric(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	artifact := `{"metric":"l2","dimension":2,"embedder":"tfidf","ids":["a"],"vectors":[[1,0]]}`
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metric")
}

func TestLoad_RejectsMisalignedIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	artifact := `{"metric":"cosine","dimension":2,"embedder":"tfidf","ids":["a","b"],"vectors":[[1,0]]}`
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsWrongVectorDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	artifact := `{"metric":"cosine","dimension":3,"embedder":"tfidf","ids":["a"],"vectors":[[1,0]]}`
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateEmbedder(t *testing.T) {
	ix := buildIndex(t, []string{"a"}, [][]float32{{1, 0}})

	require.NoError(t, ix.ValidateEmbedder(stubEmbedder{name: "tfidf", dim: 2}))
	require.NoError(t, ix.ValidateEmbedder(stubEmbedder{name: "tfidf", dim: 0}))
	require.Error(t, ix.ValidateEmbedder(stubEmbedder{name: "openai", dim: 2}))
	require.Error(t, ix.ValidateEmbedder(stubEmbedder{name: "tfidf", dim: 5}))
}

func TestIDAt(t *testing.T) {
	ix := buildIndex(t, []string{"a", "b"}, [][]float32{{1, 0}, {0, 1}})

	id, ok := ix.IDAt(1)
	assert.True(t, ok)
	assert.Equal(t, "b", id)
	_, ok = ix.IDAt(2)
	assert.False(t, ok)
	_, ok = ix.IDAt(-1)
	assert.False(t, ok)
}

func TestBuilder_RejectsBadInput(t *testing.T) {
	_, err := NewBuilder("tfidf", 0)
	require.Error(t, err)

	b, err := NewBuilder("tfidf", 2)
	require.NoError(t, err)
	require.Error(t, b.Add("", []float32{1, 0}))
	require.Error(t, b.Add("a", []float32{1, 0, 0}))
}

type stubEmbedder struct {
	name string
	dim  int
}

func (s stubEmbedder) Name() string   { return s.name }
func (s stubEmbedder) Dimension() int { return s.dim }
func (s stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, nil
}
