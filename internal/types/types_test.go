package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumePayload_BulletTexts(t *testing.T) {
	p := &ResumePayload{
		ExperienceBullets: []string{"Built APIs", "Led team"},
		ProjectBullets:    []string{"Wrote a compiler"},
	}
	assert.Equal(t, []string{"Built APIs", "Led team", "Wrote a compiler"}, p.BulletTexts())

	empty := &ResumePayload{}
	assert.Empty(t, empty.BulletTexts())
}

func TestResumePayload_BulletTextsDoesNotAlias(t *testing.T) {
	p := &ResumePayload{ExperienceBullets: make([]string, 1, 4), ProjectBullets: []string{"b"}}
	p.ExperienceBullets[0] = "a"

	out := p.BulletTexts()
	out[0] = "changed"
	assert.Equal(t, "a", p.ExperienceBullets[0])
}

func TestStructuredResume_PartialDocument(t *testing.T) {
	data := `{"skills": {"technical": ["Go"]}, "educations": [{"degree": "PhD in Physics"}]}`

	var r StructuredResume
	require.NoError(t, json.Unmarshal([]byte(data), &r))
	assert.Equal(t, []string{"Go"}, r.Skills.Technical)
	assert.Nil(t, r.Skills.Other)
	assert.Empty(t, r.WorkExperiences)
	require.Len(t, r.Educations, 1)
	assert.Equal(t, "PhD in Physics", r.Educations[0].Degree)
}

func TestStructuredJD_Decode(t *testing.T) {
	data := `{
		"basic_info": {"job_role": "Data Engineer", "experience_required": "5+ years"},
		"technical_skills": {"primary_skills": ["Spark"], "secondary_skills": ["Airflow"]},
		"technology_stack": {"cloud": ["AWS"]},
		"key_responsibilities": ["Own pipelines"],
		"experience_requirements": {"total_years": "5"}
	}`

	var jd StructuredJD
	require.NoError(t, json.Unmarshal([]byte(data), &jd))
	assert.Equal(t, "5+ years", jd.BasicInfo.ExperienceRequired)
	assert.Equal(t, []string{"AWS"}, jd.TechnologyStack["cloud"])
	assert.Equal(t, []string{"Own pipelines"}, jd.KeyResponsibilities)
	assert.Equal(t, "5", jd.ExperienceRequirements.TotalYears)
}

func TestRankedList_FailedOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(RankedList{Ranked: []RankedResume{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ranked": []}`, string(data))
}
