package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	prompts          []string
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

func (m *MockLLMClient) Close() error {
	return nil
}

func sampleResume() *types.StructuredResume {
	return &types.StructuredResume{
		WorkExperiences: []types.WorkExperience{
			{Company: "Acme", JobTitle: "Engineer", Date: "January 2020 - January 2022"},
		},
		Educations: []types.Education{
			{School: "State University", Degree: "B.Tech Computer Science"},
		},
	}
}

func TestResolution_Or(t *testing.T) {
	assert.Equal(t, 3.5, Resolved(3.5).Or(0))
	assert.Equal(t, 0.0, Unavailable[float64]("boom").Or(0))
	assert.Equal(t, "boom", Unavailable[string]("boom").Reason)
}

func TestDeterministic(t *testing.T) {
	d := NewDeterministic(config.DefaultWeights())
	d.Now = func() time.Time { return fixedNow }

	years := d.YearsExperience(context.Background(), sampleResume())
	require.True(t, years.Resolved)
	assert.Equal(t, 2.0, years.Value)

	degree := d.DegreeLevel(context.Background(), sampleResume())
	require.True(t, degree.Resolved)
	assert.Equal(t, types.DegreeBachelors, degree.Value)
}

func TestLLMResolver_YearsExperience(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mock := &MockLLMClient{
			GenerateJSONFunc: func(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
				assert.Equal(t, llm.TierStandard, tier)
				return "```json\n{\"years_experience\": 2.04, \"reasoning\": \"24 months\"}\n```", nil
			},
		}
		r := NewLLMResolver(mock)
		r.now = func() time.Time { return fixedNow }

		got := r.YearsExperience(context.Background(), sampleResume())
		require.True(t, got.Resolved)
		assert.Equal(t, 2.0, got.Value)

		require.Len(t, mock.prompts, 1)
		assert.Contains(t, mock.prompts[0], "June 2024")
		assert.NotContains(t, mock.prompts[0], "{{.Today}}")
		assert.Contains(t, mock.prompts[0], "Engineer | Acme | January 2020 - January 2022")
	})

	t.Run("generation error", func(t *testing.T) {
		mock := &MockLLMClient{
			GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
				return "", errors.New("quota exceeded")
			},
		}
		got := NewLLMResolver(mock).YearsExperience(context.Background(), sampleResume())
		assert.False(t, got.Resolved)
		assert.Contains(t, got.Reason, "quota exceeded")
		assert.Equal(t, 0.0, got.Or(0))
	})

	t.Run("invalid json", func(t *testing.T) {
		mock := &MockLLMClient{
			GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
				return "not json at all", nil
			},
		}
		got := NewLLMResolver(mock).YearsExperience(context.Background(), sampleResume())
		assert.False(t, got.Resolved)
	})

	t.Run("missing field", func(t *testing.T) {
		mock := &MockLLMClient{
			GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
				return `{"reasoning": "unsure"}`, nil
			},
		}
		got := NewLLMResolver(mock).YearsExperience(context.Background(), sampleResume())
		assert.False(t, got.Resolved)
	})

	t.Run("no experience skips the call", func(t *testing.T) {
		mock := &MockLLMClient{}
		got := NewLLMResolver(mock).YearsExperience(context.Background(), &types.StructuredResume{})
		require.True(t, got.Resolved)
		assert.Equal(t, 0.0, got.Value)
		assert.Empty(t, mock.prompts)
	})
}

func TestLLMResolver_DegreeLevel(t *testing.T) {
	t.Run("success normalises case", func(t *testing.T) {
		mock := &MockLLMClient{
			GenerateJSONFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
				assert.Equal(t, llm.TierLite, tier)
				assert.True(t, strings.Contains(prompt, "B.Tech Computer Science"))
				return `{"degree_level": " Bachelors "}`, nil
			},
		}
		got := NewLLMResolver(mock).DegreeLevel(context.Background(), sampleResume())
		require.True(t, got.Resolved)
		assert.Equal(t, types.DegreeBachelors, got.Value)
	})

	t.Run("unrecognised level", func(t *testing.T) {
		mock := &MockLLMClient{
			GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
				return `{"degree_level": "associate"}`, nil
			},
		}
		got := NewLLMResolver(mock).DegreeLevel(context.Background(), sampleResume())
		assert.False(t, got.Resolved)
		assert.Equal(t, types.DegreeNone, got.Or(types.DegreeNone))
	})

	t.Run("no education", func(t *testing.T) {
		mock := &MockLLMClient{}
		got := NewLLMResolver(mock).DegreeLevel(context.Background(), &types.StructuredResume{})
		require.True(t, got.Resolved)
		assert.Equal(t, types.DegreeNone, got.Value)
		assert.Empty(t, mock.prompts)
	})
}
