// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Candidate is a resume submitted for ranking together with its caller-side identifier
type Candidate struct {
	Identifier string           `json:"identifier"`
	Resume     StructuredResume `json:"resume"`
}

// CandidateFeatures is a pre-vectorized candidate, e.g. loaded back from the vector store
type CandidateFeatures struct {
	Identifier string          `json:"identifier"`
	Features   *ResumeFeatures `json:"features"`
}

// ScoreBreakdown is the final score of one (resume, JD) pair and the signals behind it
type ScoreBreakdown struct {
	Score              float64 `json:"score"`
	SkillCoverage      float64 `json:"skill_coverage"`
	ExperienceCosine   float64 `json:"experience_cosine"`
	EducationMatch     float64 `json:"education_match"`
	SentenceSimilarity float64 `json:"sentence_similarity"`
	YearGap            float64 `json:"year_gap"`
}

// RankedResume is a single entry of a ranked list
type RankedResume struct {
	Identifier      string         `json:"identifier"`
	Index           int            `json:"index"`
	Score           float64        `json:"score"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	YearsExperience float64        `json:"years_experience"`
	DegreeLevel     string         `json:"degree_level"`
}

// FailedCandidate records a candidate that could not be scored
type FailedCandidate struct {
	Identifier string `json:"identifier"`
	Index      int    `json:"index"`
	Error      string `json:"error"`
}

// RankedList is the ranker output: scored candidates sorted by score descending,
// ties kept in input order. Candidates that failed are listed separately.
type RankedList struct {
	Ranked []RankedResume    `json:"ranked"`
	Failed []FailedCandidate `json:"failed,omitempty"`
}
