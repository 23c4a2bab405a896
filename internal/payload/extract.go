// Package payload turns structured resume and job description records into
// grouped text lists ready for embedding.
package payload

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// proficiencyPattern matches a trailing proficiency marker written as its own
// token, such as "90%" in "Java 90%" or "(3)" in "Python (3)". Digits inside a
// skill name ("S3", "EC2", "K8s") are left alone.
var proficiencyPattern = regexp.MustCompile(`(?:^|\s)\(?\d+(?:\.\d+)?\s*%?\)?\s*$`)

// NormalizeText trims the text and collapses internal whitespace runs
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// CleanSkill strips proficiency markers, normalizes whitespace and lower-cases
func CleanSkill(skill string) string {
	skill = proficiencyPattern.ReplaceAllString(skill, "")
	return strings.ToLower(NormalizeText(skill))
}

// ExtractResume builds the embedding payload for a resume.
// A nil resume yields an empty payload.
func ExtractResume(resume *types.StructuredResume) *types.ResumePayload {
	p := &types.ResumePayload{
		SkillTexts:        []string{},
		ExperienceBullets: []string{},
		ProjectBullets:    []string{},
		SummaryTexts:      []string{},
	}
	if resume == nil {
		return p
	}

	p.SkillTexts = cleanSkills(resume.Skills.Technical, resume.Skills.Other)

	for _, exp := range resume.WorkExperiences {
		p.ExperienceBullets = appendBullets(p.ExperienceBullets, exp.Descriptions)
	}
	for _, proj := range resume.Projects {
		p.ProjectBullets = appendBullets(p.ProjectBullets, proj.Descriptions)
	}

	if summary := NormalizeText(resume.Profile.Summary); summary != "" {
		p.SummaryTexts = append(p.SummaryTexts, summary)
	}

	return p
}

// ExtractJD builds the embedding payload for a job description.
// A nil JD yields an empty payload.
func ExtractJD(jd *types.StructuredJD) *types.TextPayload {
	p := &types.TextPayload{
		SkillTexts:  []string{},
		BulletTexts: []string{},
	}
	if jd == nil {
		return p
	}

	p.SkillTexts = cleanSkills(jd.TechnicalSkills.PrimarySkills, jd.TechnicalSkills.SecondarySkills)
	p.BulletTexts = appendBullets(p.BulletTexts, jd.KeyResponsibilities)

	return p
}

// cleanSkills merges the skill groups into a deduplicated, sorted set.
// Skills that are empty after cleaning are dropped.
func cleanSkills(groups ...[]string) []string {
	seen := make(map[string]bool)
	for _, group := range groups {
		for _, skill := range group {
			cleaned := CleanSkill(skill)
			if cleaned == "" {
				continue
			}
			seen[cleaned] = true
		}
	}

	out := make([]string, 0, len(seen))
	for skill := range seen {
		out = append(out, skill)
	}
	sort.Strings(out)
	return out
}

func appendBullets(dst []string, lines []string) []string {
	for _, line := range lines {
		if normalized := NormalizeText(line); normalized != "" {
			dst = append(dst, normalized)
		}
	}
	return dst
}
