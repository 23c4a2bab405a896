// Package db provides PostgreSQL + pgvector storage for vectorized resumes.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema enables the vector extension and creates the resume tables for
// embeddings of the given dimension. It is idempotent.
func (db *DB) EnsureSchema(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return &StoreError{Op: "ensure schema", Message: fmt.Sprintf("invalid dimension %d", dimension)}
	}
	for _, stmt := range schemaStatements(dimension) {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return &StoreError{Op: "ensure schema", Message: "statement failed", Cause: err}
		}
	}
	return nil
}

func schemaStatements(dimension int) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(sqlCreateResumes, dimension, dimension),
		fmt.Sprintf(sqlCreateSkillVectors, dimension),
		fmt.Sprintf(sqlCreateSentenceVectors, dimension),
		sqlCreateSkillIndex,
	}
}

const (
	sqlCreateResumes = `
		CREATE TABLE IF NOT EXISTS resumes (
			id         UUID PRIMARY KEY,
			identifier TEXT NOT NULL UNIQUE,
			meta       JSONB NOT NULL,
			skill_vec  vector(%d),
			exp_vec    vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`

	sqlCreateSkillVectors = `
		CREATE TABLE IF NOT EXISTS resume_skill_vectors (
			resume_id  UUID NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			skill_text TEXT NOT NULL,
			skill_vec  vector(%d) NOT NULL,
			PRIMARY KEY (resume_id, skill_text)
		)`

	sqlCreateSentenceVectors = `
		CREATE TABLE IF NOT EXISTS resume_sentence_vectors (
			resume_id    UUID NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			position     INT NOT NULL,
			sentence_vec vector(%d) NOT NULL,
			PRIMARY KEY (resume_id, position)
		)`

	sqlCreateSkillIndex = `
		CREATE INDEX IF NOT EXISTS resumes_skill_vec_idx ON resumes USING hnsw (skill_vec vector_cosine_ops)`
)
