// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func joinLimited(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(items[:limit], ", "), len(items)-limit)
}

// PrintJDFeatures outputs the signals derived from the job description.
func (p *Printer) PrintJDFeatures(f *types.JDFeatures) {
	if f == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Years required:  %d\n", f.YearsRequired))
	sb.WriteString(fmt.Sprintf("Degree required: %s\n", f.DegreeRequired))
	sb.WriteString(fmt.Sprintf("Skills (%d):     %s\n", len(f.SkillTexts), joinLimited(f.SkillTexts, maxItemsToShow)))
	sb.WriteString(fmt.Sprintf("Bullets:         %d", len(f.SentenceVecs)))

	p.printBox("JOB DESCRIPTION FEATURES", sb.String())
}

// PrintScoreBreakdown outputs each weighted signal of a single score.
func (p *Printer) PrintScoreBreakdown(identifier string, b *types.ScoreBreakdown) {
	if b == nil {
		return
	}

	var sb strings.Builder
	if identifier != "" {
		sb.WriteString(fmt.Sprintf("Resume: %s\n\n", identifier))
	}
	sb.WriteString(fmt.Sprintf("Score:               %.4f\n", b.Score))
	sb.WriteString(fmt.Sprintf("Skill coverage:      %.4f\n", b.SkillCoverage))
	sb.WriteString(fmt.Sprintf("Experience cosine:   %.4f\n", b.ExperienceCosine))
	sb.WriteString(fmt.Sprintf("Education match:     %.0f\n", b.EducationMatch))
	sb.WriteString(fmt.Sprintf("Sentence similarity: %.4f\n", b.SentenceSimilarity))
	sb.WriteString(fmt.Sprintf("Year gap:            %.1f", b.YearGap))

	p.printBox("SCORE BREAKDOWN", sb.String())
}

// PrintRankedList outputs the top of a ranking and any excluded candidates.
func (p *Printer) PrintRankedList(list *types.RankedList) {
	if list == nil || (len(list.Ranked) == 0 && len(list.Failed) == 0) {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total resumes ranked: %d\n\n", len(list.Ranked)))

	count := min(len(list.Ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := list.Ranked[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, r.Identifier))
		sb.WriteString(fmt.Sprintf("    Score: %.4f  (%.1f yrs, %s)\n", r.Score, r.YearsExperience, r.DegreeLevel))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(list.Ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more resumes", len(list.Ranked)-maxItemsToShow))
	}

	if len(list.Failed) > 0 {
		sb.WriteString(fmt.Sprintf("\nExcluded (%d):\n", len(list.Failed)))
		for _, f := range list.Failed {
			sb.WriteString(fmt.Sprintf("  ✗ %s: %s\n", f.Identifier, f.Error))
		}
	}

	p.printBox("TOP RANKED RESUMES", strings.TrimRight(sb.String(), "\n"))
}

// PrintCandidates outputs nearest-neighbour hits from the vector store.
func (p *Printer) PrintCandidates(candidates []db.Candidate) {
	if len(candidates) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates retrieved: %d\n", len(candidates)))

	count := min(len(candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("\n  • %s (similarity %.3f)", candidates[i].Identifier, candidates[i].Similarity))
	}
	if len(candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n\n... and %d more", len(candidates)-maxItemsToShow))
	}

	p.printBox("VECTOR STORE CANDIDATES", sb.String())
}
