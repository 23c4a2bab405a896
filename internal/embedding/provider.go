// Package embedding defines the embedding provider contract used by the vectorizer
// and ships Gemini and OpenAI-compatible implementations.
package embedding

import (
	"context"
	"fmt"
	"math"
)

// Provider maps texts to fixed-dimension vectors.
//
// Embed must return exactly one row per input text, in input order, each of
// length Dimension(). Output should be L2-normalized so that cosine similarity
// reduces to a dot product; the built-in providers normalize client side.
// Implementations must be safe for concurrent use.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// EmbeddingError is returned when the provider fails or returns malformed output
type EmbeddingError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *EmbeddingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding failed (%s): %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding failed (%s): %s", e.Provider, e.Message)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Cause
}

// Normalize scales v to unit L2 norm in place. Zero vectors are left untouched.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}

// checkShape verifies the provider returned one row of the right width per text
func checkShape(name string, rows [][]float32, texts []string, dim int) error {
	if len(rows) != len(texts) {
		return &EmbeddingError{
			Provider: name,
			Message:  fmt.Sprintf("got %d embeddings for %d texts", len(rows), len(texts)),
		}
	}
	for i, row := range rows {
		if dim > 0 && len(row) != dim {
			return &EmbeddingError{
				Provider: name,
				Message:  fmt.Sprintf("embedding %d has dimension %d, want %d", i, len(row), dim),
			}
		}
	}
	return nil
}
