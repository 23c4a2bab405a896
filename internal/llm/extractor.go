// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "YearsExperience", "DegreeLevel")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Base the answer only on the text, do not invent facts.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// ExperienceSchema returns the extraction schema for estimating total professional
// experience from a resume's work history.
func ExperienceSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "YearsOfExperience",
		Description: `You are an expert technical recruiter. Estimate the candidate's total professional experience in years.
Rules:
- Use the date range of every work experience entry. "Present" or "Current" means today ({{.Today}}).
- Merge overlapping periods so no month is counted twice.
- Count internships, trainee and apprenticeship roles at half weight (0.5).
- Ignore education, projects and volunteering.
- Round to one decimal place.`,
		Fields: []SchemaField{
			{
				Name:        "years_experience",
				Type:        "number",
				Description: "Total professional years after merging overlaps and weighting internships",
				Required:    true,
			},
			{
				Name:        "reasoning",
				Type:        "\"string\"",
				Description: "One sentence explaining the estimate",
				Required:    false,
			},
		},
	}
}

// DegreeSchema returns the extraction schema for classifying the highest degree on a resume.
func DegreeSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "DegreeLevel",
		Description: `You are an expert technical recruiter. Classify the highest completed degree listed in the education section.
Answer with exactly one of: "phd", "masters", "bachelors", "diploma", "none".`,
		Fields: []SchemaField{
			{
				Name:        "degree_level",
				Type:        "\"string\"",
				Description: "One of phd, masters, bachelors, diploma, none",
				Required:    true,
			},
		},
	}
}
