package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
)

// ScoreRequest represents the request body for POST /score
type ScoreRequest struct {
	Resume         json.RawMessage `json:"resume"`
	JobDescription json.RawMessage `json:"job_description"`
}

// ScoreResponse represents the response for POST /score
type ScoreResponse struct {
	Score           float64              `json:"score"`
	Breakdown       types.ScoreBreakdown `json:"breakdown"`
	YearsExperience float64              `json:"years_experience"`
	DegreeLevel     string               `json:"degree_level"`
}

// RankCandidate is one resume of a rank request
type RankCandidate struct {
	Identifier string          `json:"identifier"`
	Resume     json.RawMessage `json:"resume"`
}

// RankRequest represents the request body for POST /rank
type RankRequest struct {
	JobDescription json.RawMessage `json:"job_description"`
	Candidates     []RankCandidate `json:"candidates"`
}

// CandidatesRequest represents the request body for POST /candidates
type CandidatesRequest struct {
	JobDescription json.RawMessage `json:"job_description"`
	Limit          int             `json:"limit,omitempty"`
	MinSimilarity  *float64        `json:"min_similarity,omitempty"`
}

// CandidatesResponse represents the response for POST /candidates
type CandidatesResponse struct {
	Candidates []db.Candidate          `json:"candidates"`
	Ranked     []types.RankedResume    `json:"ranked"`
	Failed     []types.FailedCandidate `json:"failed,omitempty"`
}

func isMissing(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// decodeRecord validates raw against a record schema and unmarshals it into out
func decodeRecord(field string, raw json.RawMessage, validate func([]byte) error, out any) error {
	if isMissing(raw) {
		return &ErrValidation{Field: field, Message: "is required"}
	}
	raw, err := schemas.DropNulls(raw)
	if err != nil {
		return &ErrValidation{Field: field, Message: err.Error()}
	}
	if err := validate(raw); err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) && len(schemaErr.Errors) > 0 {
			first := schemaErr.Errors[0]
			return &ErrValidation{Field: field + "." + first.Field, Message: first.Message}
		}
		return &ErrValidation{Field: field, Message: err.Error()}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ErrValidation{Field: field, Message: err.Error()}
	}
	return nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	return nil
}

// handleScore scores one resume against one job description
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	var resume types.StructuredResume
	if err := decodeRecord("resume", req.Resume, schemas.ValidateResume, &resume); err != nil {
		s.handleError(w, err)
		return
	}
	var jd types.StructuredJD
	if err := decodeRecord("job_description", req.JobDescription, schemas.ValidateJobDescription, &jd); err != nil {
		s.handleError(w, err)
		return
	}

	breakdown, features, err := s.ranker.ScoreRecords(r.Context(), &resume, &jd)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ScoreResponse{
		Score:           breakdown.Score,
		Breakdown:       *breakdown,
		YearsExperience: features.YearsExperience,
		DegreeLevel:     features.DegreeLevel,
	})
}

// handleRank ranks the submitted resumes against one job description
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	var jd types.StructuredJD
	if err := decodeRecord("job_description", req.JobDescription, schemas.ValidateJobDescription, &jd); err != nil {
		s.handleError(w, err)
		return
	}
	if len(req.Candidates) == 0 {
		s.handleError(w, &ErrValidation{Field: "candidates", Message: "at least one candidate is required"})
		return
	}

	// a candidate whose record cannot be decoded is reported, not fatal
	candidates := make([]types.Candidate, 0, len(req.Candidates))
	positions := make([]int, 0, len(req.Candidates))
	var rejected []types.FailedCandidate
	for i, c := range req.Candidates {
		identifier := c.Identifier
		if identifier == "" {
			identifier = fmt.Sprintf("candidate-%d", i)
		}
		var resume types.StructuredResume
		field := fmt.Sprintf("candidates[%d].resume", i)
		if err := decodeRecord(field, c.Resume, schemas.ValidateResume, &resume); err != nil {
			s.logger.Warn("rejecting candidate", zap.String("identifier", identifier), zap.Error(err))
			rejected = append(rejected, types.FailedCandidate{Identifier: identifier, Index: i, Error: err.Error()})
			continue
		}
		candidates = append(candidates, types.Candidate{Identifier: identifier, Resume: resume})
		positions = append(positions, i)
	}

	list, err := s.ranker.Rank(r.Context(), candidates, &jd)
	if err != nil {
		s.handleError(w, err)
		return
	}
	ranking.MergeRejected(list, positions, rejected)
	s.jsonResponse(w, http.StatusOK, list)
}

// handleCandidates retrieves stored resumes near the job description and ranks them
func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.handleError(w, &ErrStoreUnavailable{})
		return
	}

	var req CandidatesRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	var jd types.StructuredJD
	if err := decodeRecord("job_description", req.JobDescription, schemas.ValidateJobDescription, &jd); err != nil {
		s.handleError(w, err)
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > s.candidateLimit {
		limit = s.candidateLimit
	}
	minSimilarity := s.minSimilarity
	if req.MinSimilarity != nil {
		minSimilarity = *req.MinSimilarity
	}

	jdFeatures, err := s.vectorizer.VectorizeJD(r.Context(), &jd)
	if err != nil {
		s.handleError(w, err)
		return
	}

	hits, err := s.store.FindCandidates(r.Context(), jdFeatures.SkillVec, limit, minSimilarity)
	if err != nil {
		s.handleError(w, err)
		return
	}

	resp := CandidatesResponse{Candidates: hits}
	features := make([]types.CandidateFeatures, len(hits))
	for i, hit := range hits {
		f, err := s.store.LoadFeatures(r.Context(), hit, s.vectorizer.Dimension())
		if err != nil {
			s.logger.Warn("excluding candidate from ranking",
				zap.String("identifier", hit.Identifier), zap.Error(err))
			resp.Failed = append(resp.Failed, types.FailedCandidate{Identifier: hit.Identifier, Index: i, Error: err.Error()})
			continue
		}
		features[i] = types.CandidateFeatures{Identifier: hit.Identifier, Features: f}
	}
	resp.Ranked = s.ranker.RankFeatures(features, jdFeatures)

	s.jsonResponse(w, http.StatusOK, resp)
}

// WeightsResponse represents the response for POST /weights/reload
type WeightsResponse struct {
	Status  string               `json:"status"`
	Weights *config.WeightConfig `json:"weights"`
}

func (s *Server) reloadWeights() (*config.WeightConfig, error) {
	if s.weights == nil {
		return nil, &ErrWeightsUnavailable{}
	}
	cfg, err := s.weights.Reload()
	if err != nil {
		return nil, err
	}
	s.logger.Info("weights reloaded", zap.Int("weights", len(cfg.Weights)), zap.Int("penalties", len(cfg.Penalties)))
	return cfg, nil
}

// handleReloadWeights re-reads the weight configuration; the next score uses it
func (s *Server) handleReloadWeights(w http.ResponseWriter, _ *http.Request) {
	cfg, err := s.reloadWeights()
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, WeightsResponse{Status: "reloaded", Weights: cfg})
}
