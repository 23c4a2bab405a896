package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Retrieval defaults
const (
	DefaultCandidateLimit = 1000
	DefaultMinSimilarity  = 0.1
)

// ResumeMeta is the JSONB metadata stored with every resume
type ResumeMeta struct {
	Resume          types.StructuredResume `json:"resume"`
	YearsExperience float64                `json:"years_experience"`
	DegreeLevel     string                 `json:"degree_level"`
}

// ResumeInput is everything StoreResume persists for one resume
type ResumeInput struct {
	Identifier string
	Meta       ResumeMeta
	Features   *types.ResumeFeatures
}

// StoredResume is a resume row
type StoredResume struct {
	ID         uuid.UUID  `json:"id"`
	Identifier string     `json:"identifier"`
	Meta       ResumeMeta `json:"meta"`
	SkillVec   []float32  `json:"skill_vec,omitempty"`
	ExpVec     []float32  `json:"exp_vec,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Candidate is a nearest-neighbour hit from FindCandidates
type Candidate struct {
	ID         uuid.UUID  `json:"id"`
	Identifier string     `json:"identifier"`
	Similarity float64    `json:"similarity"`
	Meta       ResumeMeta `json:"meta"`
}

// SkillVector is one stored per-skill embedding
type SkillVector struct {
	Text string    `json:"skill_text"`
	Vec  []float32 `json:"skill_vec"`
}

// StoreError is returned when a vector store operation fails
type StoreError struct {
	Op      string
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("store %s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
