package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-matcher/internal/similarity"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/pgvector/pgvector-go"
)

// nullableVector stores all-zero aggregates as NULL. A zero vector has no
// cosine distance and must never match a similarity query.
func nullableVector(v []float32) any {
	if len(v) == 0 || similarity.IsZero(v) {
		return nil
	}
	return pgvector.NewVector(v)
}

func vectorSlice(v *pgvector.Vector) []float32 {
	if v == nil {
		return nil
	}
	return v.Slice()
}

// StoreResume persists a vectorized resume with its per-skill and per-sentence
// vectors in one transaction. When skipIfExists is set and the identifier is
// already stored, nothing is written and stored is false. Otherwise an
// existing row is replaced.
func (db *DB) StoreResume(ctx context.Context, in *ResumeInput, skipIfExists bool) (id uuid.UUID, stored bool, err error) {
	if in == nil || in.Identifier == "" {
		return uuid.Nil, false, &StoreError{Op: "store resume", Message: "identifier is required"}
	}
	features := in.Features
	if features == nil {
		features = &types.ResumeFeatures{}
	}
	if len(features.SkillTexts) != len(features.SkillVecs) {
		return uuid.Nil, false, &StoreError{
			Op:      "store resume",
			Message: fmt.Sprintf("%d skill texts for %d skill vectors", len(features.SkillTexts), len(features.SkillVecs)),
		}
	}

	metaJSON, err := json.Marshal(in.Meta)
	if err != nil {
		return uuid.Nil, false, &StoreError{Op: "store resume", Message: "failed to marshal meta", Cause: err}
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, false, &StoreError{Op: "store resume", Message: "failed to begin transaction", Cause: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM resumes WHERE identifier = $1 FOR UPDATE`, in.Identifier).Scan(&existing)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		id = uuid.New()
		_, err = tx.Exec(ctx,
			`INSERT INTO resumes (id, identifier, meta, skill_vec, exp_vec)
			 VALUES ($1, $2, $3, $4, $5)`,
			id, in.Identifier, metaJSON, nullableVector(features.SkillVec), nullableVector(features.ExpVec),
		)
	case err != nil:
		return uuid.Nil, false, &StoreError{Op: "store resume", Message: "failed to look up identifier", Cause: err}
	case skipIfExists:
		return existing, false, nil
	default:
		id = existing
		_, err = tx.Exec(ctx,
			`UPDATE resumes SET meta = $2, skill_vec = $3, exp_vec = $4, created_at = NOW() WHERE id = $1`,
			id, metaJSON, nullableVector(features.SkillVec), nullableVector(features.ExpVec),
		)
		if err == nil {
			_, err = tx.Exec(ctx, `DELETE FROM resume_skill_vectors WHERE resume_id = $1`, id)
		}
		if err == nil {
			_, err = tx.Exec(ctx, `DELETE FROM resume_sentence_vectors WHERE resume_id = $1`, id)
		}
	}
	if err != nil {
		return uuid.Nil, false, &StoreError{Op: "store resume", Message: "failed to write resume row", Cause: err}
	}

	batch := &pgx.Batch{}
	for i, text := range features.SkillTexts {
		batch.Queue(
			`INSERT INTO resume_skill_vectors (resume_id, skill_text, skill_vec) VALUES ($1, $2, $3)
			 ON CONFLICT (resume_id, skill_text) DO NOTHING`,
			id, text, pgvector.NewVector(features.SkillVecs[i]),
		)
	}
	for i, vec := range features.SentenceVecs {
		batch.Queue(
			`INSERT INTO resume_sentence_vectors (resume_id, position, sentence_vec) VALUES ($1, $2, $3)`,
			id, i, pgvector.NewVector(vec),
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return uuid.Nil, false, &StoreError{Op: "store resume", Message: "failed to write vectors", Cause: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, false, &StoreError{Op: "store resume", Message: "failed to commit", Cause: err}
	}
	return id, true, nil
}

// GetResumeByIdentifier returns the stored resume, or nil if not found
func (db *DB) GetResumeByIdentifier(ctx context.Context, identifier string) (*StoredResume, error) {
	var r StoredResume
	var metaJSON []byte
	var skillVec, expVec *pgvector.Vector

	err := db.pool.QueryRow(ctx,
		`SELECT id, identifier, meta, skill_vec, exp_vec, created_at
		 FROM resumes WHERE identifier = $1`,
		identifier,
	).Scan(&r.ID, &r.Identifier, &metaJSON, &skillVec, &expVec, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &StoreError{Op: "get resume", Message: identifier, Cause: err}
	}

	if err := json.Unmarshal(metaJSON, &r.Meta); err != nil {
		return nil, &StoreError{Op: "get resume", Message: "failed to parse meta", Cause: err}
	}
	r.SkillVec = vectorSlice(skillVec)
	r.ExpVec = vectorSlice(expVec)
	return &r, nil
}

// DeleteResume removes a resume and its vectors. Returns false if nothing was deleted.
func (db *DB) DeleteResume(ctx context.Context, identifier string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE identifier = $1`, identifier)
	if err != nil {
		return false, &StoreError{Op: "delete resume", Message: identifier, Cause: err}
	}
	return tag.RowsAffected() > 0, nil
}

// findCandidatesSQL orders by the raw distance expression so the planner can
// walk resumes_skill_vec_idx. Ascending distance is descending similarity.
const findCandidatesSQL = `SELECT id, identifier, meta, 1 - (skill_vec <=> $1) AS similarity
	FROM resumes
	WHERE skill_vec IS NOT NULL AND 1 - (skill_vec <=> $1) > $2
	ORDER BY skill_vec <=> $1 ASC, identifier
	LIMIT $3`

// FindCandidates returns resumes whose aggregate skill vector has cosine
// similarity above minSimilarity with queryVec, most similar first.
// limit <= 0 uses DefaultCandidateLimit.
func (db *DB) FindCandidates(ctx context.Context, queryVec []float32, limit int, minSimilarity float64) ([]Candidate, error) {
	if len(queryVec) == 0 || similarity.IsZero(queryVec) {
		return []Candidate{}, nil
	}
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	rows, err := db.pool.Query(ctx, findCandidatesSQL, pgvector.NewVector(queryVec), minSimilarity, limit)
	if err != nil {
		return nil, &StoreError{Op: "find candidates", Message: "query failed", Cause: err}
	}
	defer rows.Close()

	candidates := []Candidate{}
	for rows.Next() {
		var c Candidate
		var metaJSON []byte
		if err := rows.Scan(&c.ID, &c.Identifier, &metaJSON, &c.Similarity); err != nil {
			return nil, &StoreError{Op: "find candidates", Message: "failed to scan row", Cause: err}
		}
		if err := json.Unmarshal(metaJSON, &c.Meta); err != nil {
			return nil, &StoreError{Op: "find candidates", Message: "failed to parse meta", Cause: err}
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "find candidates", Message: "row iteration failed", Cause: err}
	}
	return candidates, nil
}

// GetSkillVectors returns the per-skill vectors of a resume ordered by skill text
func (db *DB) GetSkillVectors(ctx context.Context, resumeID uuid.UUID) ([]SkillVector, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_text, skill_vec FROM resume_skill_vectors
		 WHERE resume_id = $1 ORDER BY skill_text`,
		resumeID,
	)
	if err != nil {
		return nil, &StoreError{Op: "get skill vectors", Message: "query failed", Cause: err}
	}
	defer rows.Close()

	out := []SkillVector{}
	for rows.Next() {
		var text string
		var vec pgvector.Vector
		if err := rows.Scan(&text, &vec); err != nil {
			return nil, &StoreError{Op: "get skill vectors", Message: "failed to scan row", Cause: err}
		}
		out = append(out, SkillVector{Text: text, Vec: vec.Slice()})
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "get skill vectors", Message: "row iteration failed", Cause: err}
	}
	return out, nil
}

// GetSentenceVectors returns the per-bullet vectors of a resume in stored order
func (db *DB) GetSentenceVectors(ctx context.Context, resumeID uuid.UUID) ([][]float32, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT sentence_vec FROM resume_sentence_vectors
		 WHERE resume_id = $1 ORDER BY position`,
		resumeID,
	)
	if err != nil {
		return nil, &StoreError{Op: "get sentence vectors", Message: "query failed", Cause: err}
	}
	defer rows.Close()

	out := [][]float32{}
	for rows.Next() {
		var vec pgvector.Vector
		if err := rows.Scan(&vec); err != nil {
			return nil, &StoreError{Op: "get sentence vectors", Message: "failed to scan row", Cause: err}
		}
		out = append(out, vec.Slice())
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "get sentence vectors", Message: "row iteration failed", Cause: err}
	}
	return out, nil
}

// LoadFeatures rebuilds the scorer features of a stored candidate without
// calling the embedding provider. dim sizes the zero aggregates of resumes
// stored without skills or bullets.
func (db *DB) LoadFeatures(ctx context.Context, c Candidate, dim int) (*types.ResumeFeatures, error) {
	stored, err := db.GetResumeByIdentifier(ctx, c.Identifier)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, &StoreError{Op: "load features", Message: fmt.Sprintf("resume %q not found", c.Identifier)}
	}

	skills, err := db.GetSkillVectors(ctx, stored.ID)
	if err != nil {
		return nil, err
	}
	sentences, err := db.GetSentenceVectors(ctx, stored.ID)
	if err != nil {
		return nil, err
	}

	return assembleFeatures(stored, skills, sentences, dim), nil
}

func assembleFeatures(stored *StoredResume, skills []SkillVector, sentences [][]float32, dim int) *types.ResumeFeatures {
	f := &types.ResumeFeatures{
		SkillTexts:      make([]string, 0, len(skills)),
		SkillVecs:       make([][]float32, 0, len(skills)),
		SkillVec:        stored.SkillVec,
		ExpVec:          stored.ExpVec,
		SentenceVecs:    sentences,
		YearsExperience: stored.Meta.YearsExperience,
		DegreeLevel:     stored.Meta.DegreeLevel,
	}
	for _, s := range skills {
		f.SkillTexts = append(f.SkillTexts, s.Text)
		f.SkillVecs = append(f.SkillVecs, s.Vec)
	}
	if f.SkillVec == nil {
		f.SkillVec = make([]float32, dim)
	}
	if f.ExpVec == nil {
		f.ExpVec = make([]float32, dim)
	}
	if f.DegreeLevel == "" {
		f.DegreeLevel = types.DegreeNone
	}
	return f
}
