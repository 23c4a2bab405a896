// Package resolve derives structured signals from resume and job description
// records: years of experience, required years, and degree levels.
package resolve

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-matcher/internal/types"
)

// durationPattern matches "5 years", "3+ yrs", "10 year"
var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:years|yrs|year)`)

var monthNames = map[string]time.Month{
	"january":   time.January,
	"jan":       time.January,
	"february":  time.February,
	"feb":       time.February,
	"march":     time.March,
	"mar":       time.March,
	"april":     time.April,
	"apr":       time.April,
	"may":       time.May,
	"june":      time.June,
	"jun":       time.June,
	"july":      time.July,
	"jul":       time.July,
	"august":    time.August,
	"aug":       time.August,
	"september": time.September,
	"sep":       time.September,
	"sept":      time.September,
	"october":   time.October,
	"oct":       time.October,
	"november":  time.November,
	"nov":       time.November,
	"december":  time.December,
	"dec":       time.December,
}

// numericLayouts are tried in order for dates without a month name
var numericLayouts = []string{
	"01/2006",
	"1/2006",
	"2006/01",
	"2006-01",
	"01/02/2006",
	"2006.01",
	"01.2006",
	"2006",
}

// ParseDate parses one side of a date range. "present", "current" and "now"
// resolve to now. The day is always normalised to the first of the month.
func ParseDate(text string, now time.Time) (time.Time, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	switch text {
	case "":
		return time.Time{}, false
	case "present", "current", "now", "till date", "to date", "ongoing":
		return monthStart(now.Year(), now.Month()), true
	}

	cleaned := strings.NewReplacer(".", " ", ",", " ", "'", " ").Replace(text)
	fields := strings.Fields(cleaned)

	// "january 2020", "jan 5 2020", "5 jan 2020"
	var month time.Month
	var year int
	for _, f := range fields {
		if m, ok := monthNames[f]; ok && month == 0 {
			month = m
			continue
		}
		if len(f) == 4 {
			if y, err := strconv.Atoi(f); err == nil {
				year = y
			}
		}
	}
	if month != 0 && year != 0 {
		return monthStart(year, month), true
	}

	for _, layout := range numericLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return monthStart(t.Year(), t.Month()), true
		}
	}

	return time.Time{}, false
}

func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// SplitRange splits a date range on a hyphen or en-dash. The second return
// value is false unless the range has exactly two parts.
func SplitRange(dateRange string) (string, string, bool) {
	parts := strings.Split(strings.ReplaceAll(dateRange, "–", "-"), "-")
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// monthsBetween returns whole calendar months from start to end
func monthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

// rangeMonths parses a date range. ok is false when the range is skipped or invalid.
func rangeMonths(dateRange string, now time.Time) (time.Time, time.Time, bool) {
	left, right, ok := SplitRange(dateRange)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, okStart := ParseDate(left, now)
	end, okEnd := ParseDate(right, now)
	if !okStart || !okEnd || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// EstimateYearsExperience sums the whole months of every valid work experience
// date range and returns years rounded to one decimal. Ranges that do not split
// into exactly two parts, fail to parse, or run backwards contribute nothing.
// Overlapping ranges are counted twice.
func EstimateYearsExperience(resume *types.StructuredResume, now time.Time) float64 {
	if resume == nil {
		return 0.0
	}

	total := 0
	for _, exp := range resume.WorkExperiences {
		start, end, ok := rangeMonths(exp.Date, now)
		if !ok {
			continue
		}
		total += max(0, monthsBetween(start, end))
	}
	return roundTo(float64(total)/12.0, 1)
}

// MergeOptions tunes EstimateYearsMerged
type MergeOptions struct {
	// InternshipWeight scales months spent in roles whose title mentions "intern"
	InternshipWeight float64
}

// DefaultMergeOptions counts internships at half weight
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{InternshipWeight: 0.5}
}

// EstimateYearsMerged is an alternative to EstimateYearsExperience that never
// counts a calendar month twice. Each month takes the highest weight of any role
// covering it: 1 for regular roles, InternshipWeight for internships.
func EstimateYearsMerged(resume *types.StructuredResume, now time.Time, opts MergeOptions) float64 {
	if resume == nil {
		return 0.0
	}

	covered := make(map[int]float64)
	for _, exp := range resume.WorkExperiences {
		start, end, ok := rangeMonths(exp.Date, now)
		if !ok {
			continue
		}
		weight := 1.0
		if isInternship(exp.JobTitle) {
			weight = opts.InternshipWeight
		}

		first := start.Year()*12 + int(start.Month()) - 1
		n := monthsBetween(start, end)
		for m := first; m < first+n; m++ {
			if weight > covered[m] {
				covered[m] = weight
			}
		}
	}

	var total float64
	for _, w := range covered {
		total += w
	}
	return roundTo(total/12.0, 1)
}

func isInternship(title string) bool {
	return strings.Contains(strings.ToLower(title), "intern")
}

func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// ParseRequiredYears returns the years of experience a job asks for.
// The structured experience_required and total_years fields are tried first,
// then every string in the record in a fixed order. Returns 0 when nothing matches.
func ParseRequiredYears(jd *types.StructuredJD) int {
	if jd == nil {
		return 0
	}

	for _, field := range []string{jd.BasicInfo.ExperienceRequired, jd.ExperienceRequirements.TotalYears} {
		if years, ok := matchYears(field); ok {
			return years
		}
	}

	for _, s := range jdStrings(jd) {
		if years, ok := matchYears(s); ok {
			return years
		}
	}
	return 0
}

func matchYears(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return years, true
}

// jdStrings returns every string leaf of the record: fields in declaration
// order, map entries sorted by key.
func jdStrings(jd *types.StructuredJD) []string {
	out := []string{
		jd.BasicInfo.JobRole,
		jd.BasicInfo.Location,
		jd.BasicInfo.EmploymentType,
		jd.BasicInfo.ExperienceRequired,
		jd.BasicInfo.WorkMode,
	}
	out = append(out, jd.TechnicalSkills.PrimarySkills...)
	out = append(out, jd.TechnicalSkills.SecondarySkills...)
	for _, k := range sortedKeys(jd.TechnicalSkills.SkillProficiency) {
		out = append(out, k, jd.TechnicalSkills.SkillProficiency[k])
	}
	for _, k := range sortedKeys(jd.TechnologyStack) {
		out = append(out, jd.TechnologyStack[k]...)
	}
	out = append(out, jd.KeyResponsibilities...)
	out = append(out, jd.ExperienceRequirements.TotalYears)
	for _, k := range sortedKeys(jd.ExperienceRequirements.TechnologySpecificExperience) {
		out = append(out, k, jd.ExperienceRequirements.TechnologySpecificExperience[k])
	}

	nonEmpty := out[:0]
	for _, s := range out {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return nonEmpty
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
