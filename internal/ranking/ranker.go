package ranking

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/jonathan/resume-matcher/internal/vectorize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent candidate vectorization
const DefaultWorkers = 4

// Ranker scores a candidate pool against one job description.
//
// Failure policy: a candidate whose vectorization fails is logged and excluded
// from Ranked, and reported in RankedList.Failed. It never aborts the rest of
// the pool. A job description that cannot be vectorized fails the whole call.
type Ranker struct {
	vectorizer *vectorize.Vectorizer
	scorer     *Scorer
	workers    int
	logger     *zap.Logger
}

// NewRanker creates a Ranker. workers <= 0 uses DefaultWorkers.
func NewRanker(vectorizer *vectorize.Vectorizer, scorer *Scorer, workers int, logger *zap.Logger) *Ranker {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{
		vectorizer: vectorizer,
		scorer:     scorer,
		workers:    workers,
		logger:     logger,
	}
}

// ScoreRecords vectorizes a single resume and job description and scores them
func (r *Ranker) ScoreRecords(ctx context.Context, resume *types.StructuredResume, jd *types.StructuredJD) (*types.ScoreBreakdown, *types.ResumeFeatures, error) {
	jdFeatures, err := r.vectorizer.VectorizeJD(ctx, jd)
	if err != nil {
		return nil, nil, err
	}
	resumeFeatures, err := r.vectorizer.VectorizeResume(ctx, resume)
	if err != nil {
		return nil, nil, err
	}
	breakdown := r.scorer.Score(resumeFeatures, jdFeatures)
	return &breakdown, resumeFeatures, nil
}

type slot struct {
	features *types.ResumeFeatures
	err      error
}

// Rank vectorizes the job description once, then vectorizes and scores every
// candidate with at most r.workers in flight.
func (r *Ranker) Rank(ctx context.Context, candidates []types.Candidate, jd *types.StructuredJD) (*types.RankedList, error) {
	jdFeatures, err := r.vectorizer.VectorizeJD(ctx, jd)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize job description: %w", err)
	}

	slots := make([]slot, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				slots[i].err = err
				return nil
			}
			features, err := r.vectorizer.VectorizeResume(gCtx, &candidates[i].Resume)
			slots[i] = slot{features: features, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ranking cancelled: %w", err)
	}

	features := make([]types.CandidateFeatures, len(candidates))
	list := &types.RankedList{Ranked: []types.RankedResume{}}
	for i, s := range slots {
		if s.err != nil {
			r.logger.Warn("excluding candidate from ranking",
				zap.String("identifier", candidates[i].Identifier),
				zap.Int("index", i),
				zap.Error(s.err))
			list.Failed = append(list.Failed, types.FailedCandidate{
				Identifier: candidates[i].Identifier,
				Index:      i,
				Error:      s.err.Error(),
			})
			continue
		}
		features[i] = types.CandidateFeatures{Identifier: candidates[i].Identifier, Features: s.features}
	}

	list.Ranked = r.rank(features, jdFeatures)
	r.logger.Info("ranked candidates",
		zap.Int("ranked", len(list.Ranked)),
		zap.Int("failed", len(list.Failed)))
	return list, nil
}

// RankFeatures ranks candidates that were vectorized earlier, e.g. loaded from the vector store
func (r *Ranker) RankFeatures(candidates []types.CandidateFeatures, jd *types.JDFeatures) []types.RankedResume {
	return r.rank(candidates, jd)
}

// rank scores every candidate with non-nil features and sorts by score
// descending. Ties keep input order.
func (r *Ranker) rank(candidates []types.CandidateFeatures, jd *types.JDFeatures) []types.RankedResume {
	ranked := make([]types.RankedResume, 0, len(candidates))
	for i, c := range candidates {
		if c.Features == nil {
			continue
		}
		b := r.scorer.Score(c.Features, jd)
		ranked = append(ranked, types.RankedResume{
			Identifier:      c.Identifier,
			Index:           i,
			Score:           b.Score,
			Breakdown:       b,
			YearsExperience: c.Features.YearsExperience,
			DegreeLevel:     c.Features.DegreeLevel,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// MergeRejected folds candidates that were rejected before ranking (undecodable
// records) into list. positions maps each index of the ranked pool back to its
// position in the submitted batch. Failed ends up ordered by batch position.
func MergeRejected(list *types.RankedList, positions []int, rejected []types.FailedCandidate) {
	for i := range list.Ranked {
		list.Ranked[i].Index = positions[list.Ranked[i].Index]
	}
	for i := range list.Failed {
		list.Failed[i].Index = positions[list.Failed[i].Index]
	}
	list.Failed = append(list.Failed, rejected...)
	sort.SliceStable(list.Failed, func(i, j int) bool {
		return list.Failed[i].Index < list.Failed[j].Index
	})
}
