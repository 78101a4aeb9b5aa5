package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"vibehouse/internal/model"
)

// PostgresRepository stores pipeline runs and artifacts in PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Migrate creates tables and indexes when missing
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// SaveRun writes the run and all of its artifacts in one transaction. Artifacts get
// the next version number of their project.
func (r *PostgresRepository) SaveRun(ctx context.Context, run *model.PipelineRun) error {
	if err := validateRun(run); err != nil {
		return err
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Serialize version assignment per project
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, run.ProjectID); err != nil {
		return fmt.Errorf("failed to lock project: %w", err)
	}

	var current int
	if err := tx.GetContext(ctx, &current,
		`SELECT COALESCE(MAX(version), 0) FROM design_artifacts WHERE project_id = $1`, run.ProjectID); err != nil {
		return fmt.Errorf("failed to read current version: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vibe_runs (id, project_id, vibe_text, location, requirements, requirement_vector, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ID, run.ProjectID, run.VibeText, run.Location, run.Requirements,
		pgvector.NewVector(run.Requirements.FeatureVector()), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i := range run.Artifacts {
		run.Artifacts[i].Version = current + 1
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO design_artifacts (`+artifactColumns+`, created_at)
			VALUES (:id, :project_id, :run_id, :artifact_type, :version, :title, :description,
				:file_url, :metadata, :is_selected, :sequence, :created_at)
		`, run.Artifacts[i])
		if err != nil {
			return fmt.Errorf("failed to insert artifact %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListArtifacts returns a project's artifacts, optionally restricted to one type
func (r *PostgresRepository) ListArtifacts(ctx context.Context, projectID string, artifactType model.ArtifactType) ([]model.Artifact, error) {
	whereClauses := []string{"project_id = $1"}
	args := []interface{}{projectID}
	if artifactType != "" {
		whereClauses = append(whereClauses, "artifact_type = $2")
		args = append(args, artifactType)
	}

	query := fmt.Sprintf(`
		SELECT %s, created_at
		FROM design_artifacts
		WHERE %s
		ORDER BY artifact_type, version, sequence
	`, artifactColumns, strings.Join(whereClauses, " AND "))

	artifacts := []model.Artifact{}
	if err := r.db.SelectContext(ctx, &artifacts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return artifacts, nil
}

// GetArtifact retrieves one artifact of a project
func (r *PostgresRepository) GetArtifact(ctx context.Context, projectID, artifactID string) (*model.Artifact, error) {
	return r.getArtifact(ctx, r.db, projectID, artifactID)
}

func (r *PostgresRepository) getArtifact(ctx context.Context, q sqlx.QueryerContext, projectID, artifactID string) (*model.Artifact, error) {
	var artifact model.Artifact
	query := `SELECT ` + artifactColumns + `, created_at FROM design_artifacts WHERE id::text = $1 AND project_id = $2`
	if err := sqlx.GetContext(ctx, q, &artifact, query, artifactID, projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	return &artifact, nil
}

// SelectFloorPlan marks a floor plan as selected and deselects the project's others
func (r *PostgresRepository) SelectFloorPlan(ctx context.Context, projectID, artifactID string) (*model.Artifact, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	artifact, err := r.getArtifact(ctx, tx, projectID, artifactID)
	if err != nil {
		return nil, err
	}
	if artifact.ArtifactType != model.ArtifactFloorPlan {
		return nil, ErrNotFloorPlan
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE design_artifacts
		SET is_selected = (id::text = $1)
		WHERE project_id = $2 AND artifact_type = $3
	`, artifactID, projectID, model.ArtifactFloorPlan)
	if err != nil {
		return nil, fmt.Errorf("failed to update selection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit selection: %w", err)
	}

	artifact.IsSelected = true
	return artifact, nil
}

// SimilarRuns finds previous runs whose requirement vectors are nearest to vector
func (r *PostgresRepository) SimilarRuns(ctx context.Context, vector []float32, limit int) ([]model.SimilarRun, error) {
	if err := checkVector(vector); err != nil {
		return nil, err
	}
	query := `
		SELECT id, project_id, vibe_text, requirements, created_at,
			requirement_vector <-> $1 AS distance
		FROM vibe_runs
		WHERE requirement_vector IS NOT NULL
		ORDER BY distance, created_at DESC
		LIMIT $2
	`
	runs := []model.SimilarRun{}
	if err := r.db.SelectContext(ctx, &runs, query, pgvector.NewVector(vector), limit); err != nil {
		return nil, fmt.Errorf("failed to search similar runs: %w", err)
	}
	return runs, nil
}
