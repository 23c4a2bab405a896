package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyProvider struct {
	failures int32
	calls    atomic.Int32
	err      error
}

func (f *flakyProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	n := f.calls.Add(1)
	if n <= f.failures {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (f *flakyProvider) Dimension() int { return 2 }

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, zero)
}

func TestCheckShape(t *testing.T) {
	err := checkShape("test", [][]float32{{1, 0}}, []string{"a", "b"}, 2)
	var embErr *EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.Contains(t, embErr.Error(), "got 1 embeddings for 2 texts")

	err = checkShape("test", [][]float32{{1, 0, 0}}, []string{"a"}, 2)
	require.ErrorAs(t, err, &embErr)

	assert.NoError(t, checkShape("test", [][]float32{{1, 0}}, []string{"a"}, 2))
}

func TestEmbeddingError_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &EmbeddingError{Provider: "gemini", Message: "request failed", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gemini")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestThrottled_RetriesThenSucceeds(t *testing.T) {
	inner := &flakyProvider{failures: 2, err: errors.New("503")}
	p := NewThrottled(inner, ThrottleOptions{MaxRetries: 3, InitialBackoff: time.Millisecond}, nil)

	rows, err := p.Embed(context.Background(), []string{"go"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int32(3), inner.calls.Load())
	assert.Equal(t, 2, p.Dimension())
}

func TestThrottled_GivesUpAsEmbeddingError(t *testing.T) {
	cause := errors.New("boom")
	inner := &flakyProvider{failures: 10, err: cause}
	p := NewThrottled(inner, ThrottleOptions{MaxRetries: 1, InitialBackoff: time.Millisecond}, nil)

	_, err := p.Embed(context.Background(), []string{"go"})
	var embErr *EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestThrottled_StopsOnCancelledContext(t *testing.T) {
	inner := &flakyProvider{failures: 10, err: errors.New("boom")}
	p := NewThrottled(inner, ThrottleOptions{MaxRetries: 5, InitialBackoff: time.Hour}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Embed(ctx, []string{"go"})
	require.Error(t, err)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestThrottled_RateLimit(t *testing.T) {
	inner := &flakyProvider{}
	p := NewThrottled(inner, ThrottleOptions{RequestsPerSecond: 1000, Burst: 2}, nil)
	require.NotNil(t, p.limiter)
	assert.Equal(t, 2, p.limiter.Burst())

	for i := 0; i < 3; i++ {
		_, err := p.Embed(context.Background(), []string{"go"})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), inner.calls.Load())
}

func TestThrottled_RateLimitHonoursContext(t *testing.T) {
	inner := &flakyProvider{}
	// one request per minute: the second call must wait far past the deadline
	p := NewThrottled(inner, ThrottleOptions{RequestsPerSecond: 1.0 / 60, Burst: 1}, nil)

	_, err := p.Embed(context.Background(), []string{"go"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Embed(ctx, []string{"go"})
	require.Error(t, err)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestThrottled_NoLimiterWhenRateIsZero(t *testing.T) {
	p := NewThrottled(&flakyProvider{}, ThrottleOptions{}, nil)
	assert.Nil(t, p.limiter)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "cohere"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown embedding provider")
}

func TestNewGemini_RequiresAPIKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "", 0)
	require.Error(t, err)
}

func TestOpenAI_EmbedAgainstCompatibleServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		// Return rows out of order to check index handling
		data := []map[string]any{}
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float64{float64(i + 1), 0, 0},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
			"usage":  map[string]any{"prompt_tokens": 2, "total_tokens": 2},
		})
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", srv.URL+"/", "local-embedder", 3)
	rows, err := p.Embed(context.Background(), []string{"go", "rust"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, row := range rows {
		var norm float64
		for _, x := range row {
			norm += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
	}
	assert.Equal(t, 3, p.Dimension())
}
