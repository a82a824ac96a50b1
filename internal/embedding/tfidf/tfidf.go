// Package tfidf implements a local TF-IDF embedder. The vocabulary is
// trained once over the corpus at index-build time and persisted inside
// the index artifact, so query-time embedding is fully offline and
// deterministic for a given index.
package tfidf

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"fundfaq/internal/domain"
)

// Name identifies this embedder in index metadata.
const Name = "tfidf"

// Vocabulary is the serializable trained state: terms in stable sorted
// order with their smoothed IDF values. Term order fixes the vector
// component order, so it must round-trip unchanged.
type Vocabulary struct {
	Terms []string  `json:"terms"`
	IDF   []float64 `json:"idf"`
}

// Embedder maps text to an L2-normalized TF-IDF vector.
type Embedder struct {
	vocabulary   map[string]int
	idf          []float64
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// Train builds an embedder from the corpus texts.
func Train(corpus []string) (*Embedder, error) {
	if len(corpus) == 0 {
		return nil, errors.New("empty corpus")
	}
	e := newEmbedder()
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return nil, errors.New("no tokens found in corpus; ensure tokenizer supports your language")
	}
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return e, nil
}

// NewFromVocabulary reconstructs a trained embedder from persisted state.
func NewFromVocabulary(v Vocabulary) (*Embedder, error) {
	if len(v.Terms) == 0 {
		return nil, errors.New("empty vocabulary")
	}
	if len(v.Terms) != len(v.IDF) {
		return nil, errors.Errorf("vocabulary has %d terms but %d idf values", len(v.Terms), len(v.IDF))
	}
	e := newEmbedder()
	e.vocabulary = make(map[string]int, len(v.Terms))
	e.idf = make([]float64, len(v.Terms))
	for i, term := range v.Terms {
		e.vocabulary[term] = i
		e.idf[i] = v.IDF[i]
	}
	return e, nil
}

// NewFromState reconstructs an embedder from the opaque state blob
// stored in the index artifact.
func NewFromState(state json.RawMessage) (*Embedder, error) {
	if len(state) == 0 {
		return nil, errors.New("index carries no tfidf vocabulary")
	}
	var v Vocabulary
	if err := json.Unmarshal(state, &v); err != nil {
		return nil, errors.Wrap(err, "decode tfidf vocabulary")
	}
	return NewFromVocabulary(v)
}

// State serializes the vocabulary for embedding into the index artifact.
func (e *Embedder) State() (json.RawMessage, error) {
	terms := make([]string, len(e.idf))
	for term, i := range e.vocabulary {
		terms[i] = term
	}
	return json.Marshal(Vocabulary{Terms: terms, IDF: e.idf})
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return Name }

// Dimension returns the dimensionality of the produced vectors.
func (e *Embedder) Dimension() int { return len(e.idf) }

// Embed computes the TF-IDF embedding for the given text. Empty or
// whitespace-only input is rejected.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "empty text")
	}
	vec := make([]float32, len(e.idf))
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		tfv := float64(count) / float64(total)
		vec[idx] = float32(tfv * e.idf[idx])
	}
	normalize(vec)
	return vec, nil
}

func (e *Embedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}

func newEmbedder() *Embedder {
	return &Embedder{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+(?:[.,]\p{N}+)*%?`),
		stopwords:    defaultStopwords(),
	}
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
