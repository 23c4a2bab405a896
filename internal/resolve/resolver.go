package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Resolution is either a resolved value or an explicit "unavailable" marker.
// Callers choose the fallback; resolvers never invent one.
type Resolution[T any] struct {
	Value    T
	Resolved bool
	Reason   string
}

// Resolved wraps a known value
func Resolved[T any](v T) Resolution[T] {
	return Resolution[T]{Value: v, Resolved: true}
}

// Unavailable marks a signal that could not be derived
func Unavailable[T any](reason string) Resolution[T] {
	return Resolution[T]{Reason: reason}
}

// Or returns the value when resolved, fallback otherwise
func (r Resolution[T]) Or(fallback T) T {
	if r.Resolved {
		return r.Value
	}
	return fallback
}

// Resolver derives the resume-side structured signals
type Resolver interface {
	YearsExperience(ctx context.Context, resume *types.StructuredResume) Resolution[float64]
	DegreeLevel(ctx context.Context, resume *types.StructuredResume) Resolution[string]
}

// Deterministic resolves years from date ranges and degrees from keywords. It never fails.
type Deterministic struct {
	Hierarchy Hierarchy
	Now       func() time.Time
}

// NewDeterministic creates a deterministic resolver using the wall clock
func NewDeterministic(hierarchy Hierarchy) *Deterministic {
	return &Deterministic{Hierarchy: hierarchy, Now: time.Now}
}

// YearsExperience implements Resolver
func (d *Deterministic) YearsExperience(_ context.Context, resume *types.StructuredResume) Resolution[float64] {
	return Resolved(EstimateYearsExperience(resume, d.Now()))
}

// DegreeLevel implements Resolver
func (d *Deterministic) DegreeLevel(_ context.Context, resume *types.StructuredResume) Resolution[string] {
	return Resolved(HighestDegree(resume, d.Hierarchy))
}

// LLMResolver asks an LLM for years of experience (with overlap merging and
// internship weighting) and the highest degree. Any failure yields Unavailable.
type LLMResolver struct {
	client llm.Client
	now    func() time.Time
}

// NewLLMResolver creates an LLM-backed resolver
func NewLLMResolver(client llm.Client) *LLMResolver {
	return &LLMResolver{client: client, now: time.Now}
}

type yearsResponse struct {
	YearsExperience *float64 `json:"years_experience"`
	Reasoning       string   `json:"reasoning"`
}

type degreeResponse struct {
	DegreeLevel string `json:"degree_level"`
}

// YearsExperience implements Resolver
func (r *LLMResolver) YearsExperience(ctx context.Context, resume *types.StructuredResume) Resolution[float64] {
	if resume == nil || len(resume.WorkExperiences) == 0 {
		return Resolved(0.0)
	}

	var lines []string
	for _, exp := range resume.WorkExperiences {
		lines = append(lines, fmt.Sprintf("- %s | %s | %s", exp.JobTitle, exp.Company, exp.Date))
	}

	schema := llm.ExperienceSchema()
	schema.Description = strings.ReplaceAll(schema.Description, "{{.Today}}", r.now().Format("January 2006"))
	prompt := llm.BuildExtractionPrompt(schema, strings.Join(lines, "\n"))

	resp, err := r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return Unavailable[float64](fmt.Sprintf("LLM generation failed: %v", err))
	}

	var parsed yearsResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), &parsed); err != nil {
		return Unavailable[float64](fmt.Sprintf("failed to parse LLM response: %v", err))
	}
	if parsed.YearsExperience == nil || *parsed.YearsExperience < 0 {
		return Unavailable[float64]("LLM response has no valid years_experience")
	}

	return Resolved(roundTo(*parsed.YearsExperience, 1))
}

// DegreeLevel implements Resolver
func (r *LLMResolver) DegreeLevel(ctx context.Context, resume *types.StructuredResume) Resolution[string] {
	if resume == nil || len(resume.Educations) == 0 {
		return Resolved(types.DegreeNone)
	}

	var lines []string
	for _, edu := range resume.Educations {
		lines = append(lines, fmt.Sprintf("- %s | %s", edu.Degree, edu.School))
	}
	prompt := llm.BuildExtractionPrompt(llm.DegreeSchema(), strings.Join(lines, "\n"))

	resp, err := r.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return Unavailable[string](fmt.Sprintf("LLM generation failed: %v", err))
	}

	var parsed degreeResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), &parsed); err != nil {
		return Unavailable[string](fmt.Sprintf("failed to parse LLM response: %v", err))
	}

	level := strings.ToLower(strings.TrimSpace(parsed.DegreeLevel))
	switch level {
	case types.DegreePhD, types.DegreeMasters, types.DegreeBachelors, types.DegreeDiploma, types.DegreeNone:
		return Resolved(level)
	default:
		return Unavailable[string](fmt.Sprintf("unrecognised degree level %q", parsed.DegreeLevel))
	}
}
