// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// StructuredResume is the record produced by the resume extractor.
// Every field is optional; absent fields decode to their zero values.
type StructuredResume struct {
	Profile         Profile          `json:"profile"`
	WorkExperiences []WorkExperience `json:"workExperiences"`
	Educations      []Education      `json:"educations"`
	Skills          ResumeSkills     `json:"skills"`
	Projects        []Project        `json:"projects"`
}

// Profile holds the candidate's contact details and free-text summary
type Profile struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// WorkExperience is a single job entry. Date holds the raw range, e.g. "January 2020 - Present".
type WorkExperience struct {
	Company      string   `json:"company,omitempty"`
	JobTitle     string   `json:"jobTitle,omitempty"`
	Date         string   `json:"date"`
	Descriptions []string `json:"descriptions"`
}

// Education is a single education entry
type Education struct {
	School string `json:"school,omitempty"`
	Degree string `json:"degree"`
	Date   string `json:"date,omitempty"`
}

// ResumeSkills groups skills by category
type ResumeSkills struct {
	Technical []string `json:"technical"`
	Other     []string `json:"other"`
}

// Project is a side project or academic project with bullet descriptions
type Project struct {
	Name         string   `json:"name,omitempty"`
	Descriptions []string `json:"descriptions"`
}
