// Package vectorize turns structured resume and job description records into
// the embedding features consumed by the scorer.
package vectorize

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonathan/resume-matcher/internal/embedding"
	"github.com/jonathan/resume-matcher/internal/payload"
	"github.com/jonathan/resume-matcher/internal/resolve"
	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
)

// Vectorizer embeds payload texts and attaches the resolved structured signals.
// It is safe for concurrent use as long as the provider is.
type Vectorizer struct {
	provider embedding.Provider
	resolver resolve.Resolver
	logger   *zap.Logger

	dimOnce sync.Once
	dim     int
}

// New creates a Vectorizer. A nil logger is replaced with a no-op logger.
func New(provider embedding.Provider, resolver resolve.Resolver, logger *zap.Logger) *Vectorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Vectorizer{
		provider: provider,
		resolver: resolver,
		logger:   logger,
	}
}

// Dimension returns the provider dimension, queried once
func (v *Vectorizer) Dimension() int {
	v.dimOnce.Do(func() {
		v.dim = v.provider.Dimension()
	})
	return v.dim
}

// Embed returns one row per text. An empty input returns an empty matrix
// without calling the provider.
func (v *Vectorizer) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	rows, err := v.provider.Embed(ctx, texts)
	if err != nil {
		var embErr *embedding.EmbeddingError
		if errors.As(err, &embErr) {
			return nil, err
		}
		return nil, &embedding.EmbeddingError{Provider: "vectorizer", Message: "provider call failed", Cause: err}
	}

	dim := v.Dimension()
	if len(rows) != len(texts) {
		return nil, &embedding.EmbeddingError{
			Provider: "vectorizer",
			Message:  fmt.Sprintf("provider returned %d rows for %d texts", len(rows), len(texts)),
		}
	}
	for i, row := range rows {
		if len(row) != dim {
			return nil, &embedding.EmbeddingError{
				Provider: "vectorizer",
				Message:  fmt.Sprintf("row %d has dimension %d, want %d", i, len(row), dim),
			}
		}
	}
	return rows, nil
}

// MeanPool averages the rows of matrix. An empty matrix pools to the zero vector of dim.
func MeanPool(matrix [][]float32, dim int) []float32 {
	out := make([]float32, dim)
	if len(matrix) == 0 {
		return out
	}
	for _, row := range matrix {
		for i := 0; i < dim && i < len(row); i++ {
			out[i] += row[i]
		}
	}
	n := float32(len(matrix))
	for i := range out {
		out[i] /= n
	}
	return out
}

// Feature embeds texts and pools them into a FeatureVector
func (v *Vectorizer) Feature(ctx context.Context, texts []string) (*types.FeatureVector, error) {
	matrix, err := v.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	return &types.FeatureVector{Matrix: matrix, Aggregate: MeanPool(matrix, v.Dimension())}, nil
}

// embedGroups embeds skills and bullets in a single provider call and splits the result
func (v *Vectorizer) embedGroups(ctx context.Context, skills, bullets []string) (*types.FeatureVector, *types.FeatureVector, error) {
	all := make([]string, 0, len(skills)+len(bullets))
	all = append(all, skills...)
	all = append(all, bullets...)

	rows, err := v.Embed(ctx, all)
	if err != nil {
		return nil, nil, err
	}

	dim := v.Dimension()
	skillRows := rows[:len(skills):len(skills)]
	bulletRows := rows[len(skills):]

	return &types.FeatureVector{Matrix: skillRows, Aggregate: MeanPool(skillRows, dim)},
		&types.FeatureVector{Matrix: bulletRows, Aggregate: MeanPool(bulletRows, dim)},
		nil
}

// VectorizeResume builds the resume features. The sentence matrix holds work
// bullets followed by project bullets. Unresolvable years fall back to 0 and
// unresolvable degrees to none.
func (v *Vectorizer) VectorizeResume(ctx context.Context, resume *types.StructuredResume) (*types.ResumeFeatures, error) {
	p := payload.ExtractResume(resume)

	skills, bullets, err := v.embedGroups(ctx, p.SkillTexts, p.BulletTexts())
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize resume: %w", err)
	}

	years := v.resolver.YearsExperience(ctx, resume)
	if !years.Resolved {
		v.logger.Warn("years of experience unavailable, using 0", zap.String("reason", years.Reason))
	}
	degree := v.resolver.DegreeLevel(ctx, resume)
	if !degree.Resolved {
		v.logger.Warn("degree level unavailable, using none", zap.String("reason", degree.Reason))
	}

	return &types.ResumeFeatures{
		SkillTexts:      p.SkillTexts,
		SkillVecs:       skills.Matrix,
		SkillVec:        skills.Aggregate,
		ExpVec:          bullets.Aggregate,
		SentenceVecs:    bullets.Matrix,
		YearsExperience: years.Or(0),
		DegreeLevel:     degree.Or(types.DegreeNone),
	}, nil
}

// VectorizeJD builds the job description features
func (v *Vectorizer) VectorizeJD(ctx context.Context, jd *types.StructuredJD) (*types.JDFeatures, error) {
	p := payload.ExtractJD(jd)

	skills, bullets, err := v.embedGroups(ctx, p.SkillTexts, p.BulletTexts)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize job description: %w", err)
	}

	return &types.JDFeatures{
		SkillTexts:     p.SkillTexts,
		SkillVecs:      skills.Matrix,
		SkillVec:       skills.Aggregate,
		ExpVec:         bullets.Aggregate,
		SentenceVecs:   bullets.Matrix,
		YearsRequired:  resolve.ParseRequiredYears(jd),
		DegreeRequired: resolve.RequiredDegree(jd),
	}, nil
}
