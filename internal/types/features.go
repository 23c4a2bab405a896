// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Degree levels recognised by the education resolver
const (
	DegreePhD       = "phd"
	DegreeMasters   = "masters"
	DegreeBachelors = "bachelors"
	DegreeDiploma   = "diploma"
	DegreeNone      = "none"
)

// TextPayload holds the grouped texts of a record, ready for embedding
type TextPayload struct {
	SkillTexts  []string `json:"skill_texts"`
	BulletTexts []string `json:"bullet_texts"`
}

// ResumePayload is the resume flavour of TextPayload. Work and project bullets
// are kept apart so the sentence matrix can stack them in order.
type ResumePayload struct {
	SkillTexts        []string `json:"skill_texts"`
	ExperienceBullets []string `json:"exp_bullets"`
	ProjectBullets    []string `json:"proj_bullets"`
	SummaryTexts      []string `json:"summary_texts"`
}

// BulletTexts returns work bullets followed by project bullets
func (p *ResumePayload) BulletTexts() []string {
	out := make([]string, 0, len(p.ExperienceBullets)+len(p.ProjectBullets))
	out = append(out, p.ExperienceBullets...)
	return append(out, p.ProjectBullets...)
}

// FeatureVector is a per-item embedding matrix plus its mean-pooled aggregate.
// Aggregate is the zero vector of the provider dimension when Matrix is empty.
type FeatureVector struct {
	Matrix    [][]float32 `json:"matrix"`
	Aggregate []float32   `json:"aggregate"`
}

// ResumeFeatures is everything the scorer needs to know about a resume
type ResumeFeatures struct {
	SkillTexts      []string    `json:"skill_texts"`
	SkillVecs       [][]float32 `json:"skill_vecs"`
	SkillVec        []float32   `json:"skill_vec"`
	ExpVec          []float32   `json:"exp_vec"`
	SentenceVecs    [][]float32 `json:"sentence_vecs"`
	YearsExperience float64     `json:"years_experience"`
	DegreeLevel     string      `json:"degree_level"`
}

// JDFeatures is everything the scorer needs to know about a job description
type JDFeatures struct {
	SkillTexts     []string    `json:"skill_texts"`
	SkillVecs      [][]float32 `json:"skill_vecs"`
	SkillVec       []float32   `json:"skill_vec"`
	ExpVec         []float32   `json:"exp_vec"`
	SentenceVecs   [][]float32 `json:"sentence_vecs"`
	YearsRequired  int         `json:"years_required"`
	DegreeRequired string      `json:"degree_required"`
}
