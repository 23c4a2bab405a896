// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// StructuredJD is the record produced by the job description parser
type StructuredJD struct {
	BasicInfo              BasicInfo              `json:"basic_info"`
	TechnicalSkills        TechnicalSkills        `json:"technical_skills"`
	TechnologyStack        map[string][]string    `json:"technology_stack,omitempty"`
	KeyResponsibilities    []string               `json:"key_responsibilities"`
	ExperienceRequirements ExperienceRequirements `json:"experience_requirements"`
}

// BasicInfo holds the headline facts of a posting
type BasicInfo struct {
	JobRole            string `json:"job_role"`
	Location           string `json:"location"`
	EmploymentType     string `json:"employment_type,omitempty"`
	ExperienceRequired string `json:"experience_required"`
	WorkMode           string `json:"work_mode"`
}

// TechnicalSkills lists required (primary) and nice-to-have (secondary) skills
type TechnicalSkills struct {
	PrimarySkills    []string          `json:"primary_skills"`
	SecondarySkills  []string          `json:"secondary_skills"`
	SkillProficiency map[string]string `json:"skill_proficiency,omitempty"`
}

// ExperienceRequirements describes the total and per-technology experience asked for
type ExperienceRequirements struct {
	TotalYears                   string            `json:"total_years"`
	TechnologySpecificExperience map[string]string `json:"technology_specific_experience,omitempty"`
}
