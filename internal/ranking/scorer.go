// Package ranking scores resumes against a job description and ranks candidate pools.
package ranking

import (
	"math"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/resolve"
	"github.com/jonathan/resume-matcher/internal/similarity"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Scorer combines the similarity signals into a single weighted score.
// Weights come from a WeightStore, so a store reload reaches the next Score
// call. Each call reads one consistent snapshot.
type Scorer struct {
	weights *config.WeightStore
	topK    int
}

// NewScorer creates a Scorer with fixed weights. A nil config disables every term.
func NewScorer(weights *config.WeightConfig) *Scorer {
	if weights == nil {
		weights = &config.WeightConfig{}
	}
	return NewStoreScorer(config.NewStaticWeightStore(weights))
}

// NewStoreScorer creates a Scorer that follows store
func NewStoreScorer(store *config.WeightStore) *Scorer {
	return &Scorer{weights: store, topK: similarity.DefaultTopK}
}

// Weights returns the configuration currently in effect
func (s *Scorer) Weights() *config.WeightConfig {
	return s.weights.Current()
}

// Score computes
//
//	skill_similarity    * coverage(jd skills, resume skills)
//	+ exp_similarity      * cosine(resume exp, jd exp)
//	+ education_match     * [resume degree >= jd degree]
//	+ sentence_similarity * topk_mean(jd bullets, resume bullets)
//	+ lacking_years       * max(0, years required - years experience)
//
// rounded to four decimals. Absent weights and penalties contribute 0.
func (s *Scorer) Score(resume *types.ResumeFeatures, jd *types.JDFeatures) types.ScoreBreakdown {
	if resume == nil {
		resume = &types.ResumeFeatures{}
	}
	if jd == nil {
		jd = &types.JDFeatures{}
	}

	w := s.Weights()
	b := types.ScoreBreakdown{
		SkillCoverage:      similarity.Coverage(jd.SkillVecs, resume.SkillVecs),
		ExperienceCosine:   similarity.Cosine(resume.ExpVec, jd.ExpVec),
		SentenceSimilarity: similarity.TopKMean(jd.SentenceVecs, resume.SentenceVecs, s.topK),
		YearGap:            math.Max(0, float64(jd.YearsRequired)-resume.YearsExperience),
	}
	if resolve.MeetsDegreeRequirement(degreeOrNone(resume.DegreeLevel), degreeOrNone(jd.DegreeRequired), w) {
		b.EducationMatch = 1.0
	}

	final := w.Weight(config.WeightSkillSimilarity)*b.SkillCoverage +
		w.Weight(config.WeightExpSimilarity)*b.ExperienceCosine +
		w.Weight(config.WeightEducationMatch)*b.EducationMatch +
		w.Weight(config.WeightSentenceSimilarity)*b.SentenceSimilarity +
		w.Penalty(config.PenaltyLackingYears)*b.YearGap

	b.Score = round4(final)
	b.SkillCoverage = round4(b.SkillCoverage)
	b.ExperienceCosine = round4(b.ExperienceCosine)
	b.SentenceSimilarity = round4(b.SentenceSimilarity)
	b.YearGap = round4(b.YearGap)
	return b
}

func degreeOrNone(level string) string {
	if level == "" {
		return types.DegreeNone
	}
	return level
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
