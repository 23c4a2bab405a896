// Package schemas embeds the JSON Schemas of the structured resume and job description records.
package schemas

import _ "embed"

// Resume is the JSON Schema of a structured resume record
//
//go:embed resume.schema.json
var Resume []byte

// JobDescription is the JSON Schema of a structured job description record
//
//go:embed job_description.schema.json
var JobDescription []byte
