package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

// readResume loads a structured resume. Null fields count as absent and schema
// violations are reported as warnings; only unreadable or malformed JSON is fatal.
func readResume(path string) (*types.StructuredResume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	if data, err = schemas.DropNulls(data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume %s: %w", path, err)
	}
	if err := schemas.ValidateResume(data); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s does not match the resume schema: %v\n", path, err)
	}

	var resume types.StructuredResume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume %s: %w", path, err)
	}
	return &resume, nil
}

// readJD loads a structured job description, with the same warning policy as readResume
func readJD(path string) (*types.StructuredJD, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job description file: %w", err)
	}
	if data, err = schemas.DropNulls(data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job description %s: %w", path, err)
	}
	if err := schemas.ValidateJobDescription(data); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s does not match the job description schema: %v\n", path, err)
	}

	var jd types.StructuredJD
	if err := json.Unmarshal(data, &jd); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job description %s: %w", path, err)
	}
	return &jd, nil
}

// collectJSONFiles expands directories into their *.json files. Files named
// directly are kept as given. The result is sorted and free of duplicates.
func collectJSONFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
				continue
			}
			add(filepath.Join(p, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// identifierFor derives a candidate identifier from a file name
func identifierFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if path == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
