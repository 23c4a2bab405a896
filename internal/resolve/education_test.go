package resolve

import (
	"testing"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDetectLevel(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Ph.D. in Computer Science", types.DegreePhD},
		{"Doctor of Philosophy", types.DegreePhD},
		{"Master of Science", types.DegreeMasters},
		{"M.Sc. Data Science", types.DegreeMasters},
		{"MBA", types.DegreeMasters},
		{"Bachelor of Engineering", types.DegreeBachelors},
		{"B.Tech Computer Science", types.DegreeBachelors},
		{"BS in Mathematics", types.DegreeBachelors},
		{"Diploma in Electronics", types.DegreeDiploma},
		{"High School", types.DegreeNone},
		{"Distributed systems and jobs", types.DegreeNone},
		{"", types.DegreeNone},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLevel(tt.text))
		})
	}
}

func TestHighestDegree(t *testing.T) {
	h := config.DefaultWeights()

	r := &types.StructuredResume{Educations: []types.Education{
		{Degree: "Bachelor of Science"},
		{Degree: "Master of Science"},
		{Degree: ""},
	}}
	assert.Equal(t, types.DegreeMasters, HighestDegree(r, h))

	assert.Equal(t, types.DegreeNone, HighestDegree(&types.StructuredResume{}, h))
	assert.Equal(t, types.DegreeNone, HighestDegree(nil, h))
}

func TestRequiredDegree(t *testing.T) {
	jd := &types.StructuredJD{KeyResponsibilities: []string{"Bachelor's degree in CS or equivalent"}}
	assert.Equal(t, types.DegreeBachelors, RequiredDegree(jd))

	assert.Equal(t, types.DegreeNone, RequiredDegree(&types.StructuredJD{}))
	assert.Equal(t, types.DegreeNone, RequiredDegree(nil))
}

func TestMeetsDegreeRequirement(t *testing.T) {
	h := config.DefaultWeights()

	assert.True(t, MeetsDegreeRequirement(types.DegreeMasters, types.DegreeBachelors, h))
	assert.True(t, MeetsDegreeRequirement(types.DegreeBachelors, types.DegreeBachelors, h))
	assert.False(t, MeetsDegreeRequirement(types.DegreeNone, types.DegreeBachelors, h))
	assert.True(t, MeetsDegreeRequirement(types.DegreeNone, types.DegreeNone, h))
	assert.True(t, MeetsDegreeRequirement("unknown", "also-unknown", h))
}
