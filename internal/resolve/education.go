package resolve

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Hierarchy ranks degree levels; unknown levels rank 0.
// *config.WeightConfig satisfies it.
type Hierarchy interface {
	Rank(level string) int
}

type degreePattern struct {
	level   string
	pattern *regexp.Regexp
}

// degreePatterns are checked in priority order; the first match wins.
// Short abbreviations must stand alone as words so that "ms" does not
// match "systems" and "bs" does not match "jobs".
var degreePatterns = []degreePattern{
	{types.DegreePhD, regexp.MustCompile(`(?i)\bph\.?\s?d\b|doctor of philosophy|\bdoctorate\b`)},
	{types.DegreeMasters, regexp.MustCompile(`(?i)\bmaster|\bm\.sc?\b|\bm\.s\.|\bmsc?\b|\bm\.?tech\b|\bmba\b`)},
	{types.DegreeBachelors, regexp.MustCompile(`(?i)\bbachelor|\bb\.sc?\b|\bb\.s\.|\bbsc?\b|\bb\.?tech\b|\bb\.e\.|\bundergraduate degree\b`)},
	{types.DegreeDiploma, regexp.MustCompile(`(?i)\bdiploma\b`)},
}

// DetectLevel classifies free text into phd, masters, bachelors, diploma or none
func DetectLevel(text string) string {
	for _, dp := range degreePatterns {
		if dp.pattern.MatchString(text) {
			return dp.level
		}
	}
	return types.DegreeNone
}

// HighestDegree returns the highest-ranked level among the resume's education
// entries, or none when there are no entries or nothing is recognised.
func HighestDegree(resume *types.StructuredResume, hierarchy Hierarchy) string {
	best := types.DegreeNone
	if resume == nil {
		return best
	}

	for _, edu := range resume.Educations {
		if edu.Degree == "" {
			continue
		}
		level := DetectLevel(edu.Degree)
		if hierarchy.Rank(level) > hierarchy.Rank(best) {
			best = level
		}
	}
	return best
}

// RequiredDegree classifies the concatenation of every value in the job
// description. Returns none if no degree keyword appears.
func RequiredDegree(jd *types.StructuredJD) string {
	if jd == nil {
		return types.DegreeNone
	}
	return DetectLevel(strings.Join(jdStrings(jd), " "))
}

// MeetsDegreeRequirement reports whether the resume's level ranks at least as
// high as the job's. Unknown levels rank 0.
func MeetsDegreeRequirement(resumeLevel, jdLevel string, hierarchy Hierarchy) bool {
	return hierarchy.Rank(resumeLevel) >= hierarchy.Rank(jdLevel)
}
