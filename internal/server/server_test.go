package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/resolve"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/jonathan/resume-matcher/internal/vectorize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider embeds "go" and "cobol" on different axes and everything else on a third
type fakeProvider struct{}

func (fakeProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		switch t {
		case "go":
			out[i] = []float32{1, 0, 0}
		case "cobol":
			out[i] = []float32{0, 1, 0}
		default:
			out[i] = []float32{0, 0, 1}
		}
	}
	return out, nil
}

func (fakeProvider) Dimension() int { return 3 }

// mockStore implements CandidateStore in memory
type mockStore struct {
	hits     []db.Candidate
	features map[string]*types.ResumeFeatures
	findErr  error
	lastMin  float64
	lastLim  int
}

func (m *mockStore) FindCandidates(_ context.Context, _ []float32, limit int, minSimilarity float64) ([]db.Candidate, error) {
	m.lastLim = limit
	m.lastMin = minSimilarity
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.hits, nil
}

func (m *mockStore) LoadFeatures(_ context.Context, c db.Candidate, _ int) (*types.ResumeFeatures, error) {
	f, ok := m.features[c.Identifier]
	if !ok {
		return nil, &db.StoreError{Op: "load features", Message: "not found"}
	}
	return f, nil
}

func newTestServer(store CandidateStore) *Server {
	d := resolve.NewDeterministic(config.DefaultWeights())
	d.Now = func() time.Time { return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC) }
	v := vectorize.New(fakeProvider{}, d, nil)
	r := ranking.NewRanker(v, ranking.NewScorer(config.DefaultWeights()), 2, nil)
	return New(Config{Port: 0, CandidateLimit: 50, MinSimilarity: 0.1}, v, r, store, nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

const goJD = `{"technical_skills": {"primary_skills": ["Go"]}, "basic_info": {"experience_required": "2 years"}}`

func TestHealthEndpoint(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestCORSPreflight(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodOptions, "/score", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestScoreEndpoint(t *testing.T) {
	body := `{
		"resume": {
			"skills": {"technical": ["Go"]},
			"workExperiences": [{"date": "January 2020 - January 2023", "descriptions": []}]
		},
		"job_description": ` + goJD + `
	}`

	w := do(t, newTestServer(nil), http.MethodPost, "/score", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Breakdown.SkillCoverage)
	assert.Equal(t, 0.0, resp.Breakdown.YearGap)
	assert.Equal(t, 3.0, resp.YearsExperience)
	assert.Equal(t, types.DegreeNone, resp.DegreeLevel)
	// 0.4 coverage + 0.1 education
	assert.InDelta(t, 0.5, resp.Score, 1e-9)
}

func TestScoreEndpoint_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"invalid body", `{not json`, "body"},
		{"missing resume", `{"job_description": {}}`, "resume"},
		{"missing jd", `{"resume": {}}`, "job_description"},
		{"schema violation", `{"resume": {"skills": {"technical": "Go"}}, "job_description": {}}`, "resume.skills.technical"},
	}

	s := newTestServer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/score", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp["error"], tt.field)
		})
	}
}

func TestRankEndpoint(t *testing.T) {
	body := `{
		"job_description": ` + goJD + `,
		"candidates": [
			{"identifier": "cobol.pdf", "resume": {"skills": {"technical": ["COBOL"]}}},
			{"identifier": "go.pdf", "resume": {"skills": {"technical": ["Go"]}}},
			{"resume": {"skills": {"technical": ["Go"]}}}
		]
	}`

	w := do(t, newTestServer(nil), http.MethodPost, "/rank", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list types.RankedList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Ranked, 3)
	assert.Equal(t, "go.pdf", list.Ranked[0].Identifier)
	assert.Equal(t, "candidate-2", list.Ranked[1].Identifier)
	assert.Equal(t, "cobol.pdf", list.Ranked[2].Identifier)
}

func TestRankEndpoint_NullFieldsAreMissing(t *testing.T) {
	body := `{
		"job_description": ` + goJD + `,
		"candidates": [
			{"identifier": "good", "resume": {"skills": {"technical": ["Go"]}}},
			{"identifier": "nulls", "resume": {
				"skills": {"technical": ["Go", null], "other": null},
				"workExperiences": [{"date": null, "descriptions": ["Built APIs"]}]
			}}
		]
	}`

	w := do(t, newTestServer(nil), http.MethodPost, "/rank", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list types.RankedList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Ranked, 2)
	assert.Empty(t, list.Failed)
}

func TestRankEndpoint_InvalidCandidateDoesNotBlockBatch(t *testing.T) {
	body := `{
		"job_description": ` + goJD + `,
		"candidates": [
			{"identifier": "bad", "resume": {"skills": {"technical": "Go"}}},
			{"identifier": "missing"},
			{"identifier": "good", "resume": {"skills": {"technical": ["Go"]}}}
		]
	}`

	w := do(t, newTestServer(nil), http.MethodPost, "/rank", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list types.RankedList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Ranked, 1)
	assert.Equal(t, "good", list.Ranked[0].Identifier)
	assert.Equal(t, 2, list.Ranked[0].Index)

	require.Len(t, list.Failed, 2)
	assert.Equal(t, "bad", list.Failed[0].Identifier)
	assert.Equal(t, 0, list.Failed[0].Index)
	assert.Contains(t, list.Failed[0].Error, "candidates[0].resume.skills.technical")
	assert.Equal(t, "missing", list.Failed[1].Identifier)
	assert.Equal(t, 1, list.Failed[1].Index)
}

func TestScoreEndpoint_NullFields(t *testing.T) {
	body := `{
		"resume": {"profile": {"summary": null}, "skills": {"technical": ["Go"]}, "educations": [{"degree": null}]},
		"job_description": {"technical_skills": {"primary_skills": ["Go"], "secondary_skills": null}, "basic_info": null}
	}`

	w := do(t, newTestServer(nil), http.MethodPost, "/score", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Breakdown.SkillCoverage)
}

func TestRankEndpoint_NoCandidates(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodPost, "/rank", `{"job_description": {}, "candidates": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCandidatesEndpoint_NoStore(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodPost, "/candidates", `{"job_description": {}}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCandidatesEndpoint(t *testing.T) {
	store := &mockStore{
		hits: []db.Candidate{
			{Identifier: "weak.pdf", Similarity: 0.4},
			{Identifier: "missing.pdf", Similarity: 0.3},
			{Identifier: "strong.pdf", Similarity: 0.9},
		},
		features: map[string]*types.ResumeFeatures{
			"weak.pdf":   {SkillVecs: [][]float32{{0, 1, 0}}, YearsExperience: 5, DegreeLevel: types.DegreeNone},
			"strong.pdf": {SkillVecs: [][]float32{{1, 0, 0}}, YearsExperience: 5, DegreeLevel: types.DegreeNone},
		},
	}
	s := newTestServer(store)

	w := do(t, s, http.MethodPost, "/candidates", `{"job_description": `+goJD+`, "limit": 500, "min_similarity": 0.25}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp CandidatesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Candidates, 3)
	require.Len(t, resp.Ranked, 2)
	assert.Equal(t, "strong.pdf", resp.Ranked[0].Identifier)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, "missing.pdf", resp.Failed[0].Identifier)

	assert.Equal(t, 50, store.lastLim)
	assert.Equal(t, 0.25, store.lastMin)
}

func TestCandidatesEndpoint_StoreError(t *testing.T) {
	store := &mockStore{findErr: &db.StoreError{Op: "find candidates", Message: "query failed", Cause: errors.New("timeout")}}

	w := do(t, newTestServer(store), http.MethodPost, "/candidates", `{"job_description": `+goJD+`}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 0.1, store.lastMin)
}

func TestReloadWeightsEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yml")
	require.NoError(t, os.WriteFile(path, []byte("weights:\n  skill_similarity: 0.4\n"), 0644))

	store := config.NewWeightStore(path)
	d := resolve.NewDeterministic(store)
	v := vectorize.New(fakeProvider{}, d, nil)
	r := ranking.NewRanker(v, ranking.NewStoreScorer(store), 2, nil)
	s := New(Config{Weights: store}, v, r, nil, nil)

	score := func() float64 {
		w := do(t, s, http.MethodPost, "/score", `{"resume": {"skills": {"technical": ["Go"]}}, "job_description": `+goJD+`}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp ScoreResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Score
	}
	assert.InDelta(t, 0.4, score(), 1e-9)

	require.NoError(t, os.WriteFile(path, []byte("weights:\n  skill_similarity: 0.8\n"), 0644))
	w := do(t, s, http.MethodPost, "/weights/reload", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp WeightsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "reloaded", resp.Status)
	assert.Equal(t, 0.8, resp.Weights.Weight(config.WeightSkillSimilarity))
	assert.InDelta(t, 0.8, score(), 1e-9)

	// a broken file keeps the previous weights
	require.NoError(t, os.WriteFile(path, []byte("weights: [unclosed\n"), 0644))
	w = do(t, s, http.MethodPost, "/weights/reload", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.InDelta(t, 0.8, score(), 1e-9)
}

func TestReloadWeightsEndpoint_NoStore(t *testing.T) {
	w := do(t, newTestServer(nil), http.MethodPost, "/weights/reload", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
