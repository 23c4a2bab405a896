package payload

import (
	"strings"
	"testing"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanSkill(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"percent marker", "Java 90%", "java"},
		{"bare digits", "Python 3", "python"},
		{"whitespace runs", "  Machine   Learning  ", "machine learning"},
		{"tabs and newlines", "Data\tScience\n", "data science"},
		{"only marker", "85%", ""},
		{"spaced percent", "Go 80 %", "go"},
		{"parenthesised marker", "Python (90%)", "python"},
		{"decimal marker", "Rust 7.5", "rust"},
		{"digits inside name", "AWS S3", "aws s3"},
		{"ec2", "EC2", "ec2"},
		{"k8s", "K8s", "k8s"},
		{"es6", "ES6", "es6"},
		{"web3", "Web3", "web3"},
		{"marker after digit name", "EC2 70%", "ec2"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanSkill(tt.input))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "built a service", NormalizeText("  built   a\n service "))
	assert.Equal(t, "", NormalizeText(" \t\n "))
}

func TestExtractResume_SkillsDeduplicatedCaseInsensitive(t *testing.T) {
	resume := &types.StructuredResume{
		Skills: types.ResumeSkills{
			Technical: []string{"Go", "go", "GO 80%", "Kubernetes"},
			Other:     []string{"kubernetes", "Leadership", ""},
		},
	}

	p := ExtractResume(resume)
	assert.ElementsMatch(t, []string{"go", "kubernetes", "leadership"}, p.SkillTexts)

	seen := map[string]bool{}
	for _, s := range p.SkillTexts {
		key := strings.ToLower(s)
		assert.False(t, seen[key], "duplicate skill %q", s)
		seen[key] = true
	}
}

func TestExtractResume_IdempotentSkills(t *testing.T) {
	resume := &types.StructuredResume{
		Skills: types.ResumeSkills{
			Technical: []string{"Rust", "SQL 70%", "Docker"},
			Other:     []string{"Communication"},
		},
	}

	first := ExtractResume(resume)
	second := ExtractResume(resume)
	assert.Equal(t, first.SkillTexts, second.SkillTexts)
}

func TestExtractResume_Bullets(t *testing.T) {
	resume := &types.StructuredResume{
		WorkExperiences: []types.WorkExperience{
			{Descriptions: []string{"Built   APIs", "   ", "Led team"}},
			{Descriptions: []string{"Migrated DB"}},
		},
		Projects: []types.Project{
			{Descriptions: []string{"Wrote a compiler\n"}},
		},
		Profile: types.Profile{Summary: "  Backend   engineer "},
	}

	p := ExtractResume(resume)
	assert.Equal(t, []string{"Built APIs", "Led team", "Migrated DB"}, p.ExperienceBullets)
	assert.Equal(t, []string{"Wrote a compiler"}, p.ProjectBullets)
	assert.Equal(t, []string{"Backend engineer"}, p.SummaryTexts)
	assert.Equal(t, []string{"Built APIs", "Led team", "Migrated DB", "Wrote a compiler"}, p.BulletTexts())
}

func TestExtractResume_EmptyAndNil(t *testing.T) {
	for _, resume := range []*types.StructuredResume{nil, {}} {
		p := ExtractResume(resume)
		require.NotNil(t, p)
		assert.Empty(t, p.SkillTexts)
		assert.Empty(t, p.ExperienceBullets)
		assert.Empty(t, p.ProjectBullets)
		assert.Empty(t, p.SummaryTexts)
	}
}

func TestExtractJD(t *testing.T) {
	jd := &types.StructuredJD{
		TechnicalSkills: types.TechnicalSkills{
			PrimarySkills:   []string{"Go", "PostgreSQL"},
			SecondarySkills: []string{"go", "Terraform 60%"},
		},
		KeyResponsibilities: []string{"Design   services", "", "Mentor engineers"},
	}

	p := ExtractJD(jd)
	assert.Equal(t, []string{"go", "postgresql", "terraform"}, p.SkillTexts)
	assert.Equal(t, []string{"Design services", "Mentor engineers"}, p.BulletTexts)
}

func TestExtractJD_Nil(t *testing.T) {
	p := ExtractJD(nil)
	require.NotNil(t, p)
	assert.Empty(t, p.SkillTexts)
	assert.Empty(t, p.BulletTexts)
}
