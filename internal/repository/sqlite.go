package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"vibehouse/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteRepository stores pipeline runs and artifacts in an embedded SQLite file
type SQLiteRepository struct {
	db *sqlx.DB
}

// sqliteArtifactRow carries the text timestamp SQLite hands back
type sqliteArtifactRow struct {
	model.Artifact
	CreatedText string `db:"created_text"`
}

func (row sqliteArtifactRow) toArtifact() (model.Artifact, error) {
	created, err := time.Parse(sqliteTimeLayout, row.CreatedText)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("invalid created_at %q: %w", row.CreatedText, err)
	}
	artifact := row.Artifact
	artifact.CreatedAt = created
	return artifact, nil
}

type sqliteRunRow struct {
	RunID        string                         `db:"id"`
	ProjectID    string                         `db:"project_id"`
	VibeText     string                         `db:"vibe_text"`
	Requirements model.RequirementSpecification `db:"requirements"`
	Vector       string                         `db:"requirement_vector"`
	CreatedText  string                         `db:"created_text"`
}

// NewSQLiteRepository opens (or creates) the database file at path and migrates it
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := "file:" + path +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_txlock=immediate"
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if _, err := db.Exec(SQLiteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite db: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping checks the database connection
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// SaveRun writes the run and all of its artifacts in one transaction. Artifacts get
// the next version number of their project.
func (r *SQLiteRepository) SaveRun(ctx context.Context, run *model.PipelineRun) error {
	if err := validateRun(run); err != nil {
		return err
	}
	vector, err := json.Marshal(run.Requirements.FeatureVector())
	if err != nil {
		return fmt.Errorf("encode requirement vector: %w", err)
	}
	created := run.CreatedAt.UTC().Format(sqliteTimeLayout)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current int
	if err := tx.GetContext(ctx, &current,
		`SELECT COALESCE(MAX(version), 0) FROM design_artifacts WHERE project_id = ?`, run.ProjectID); err != nil {
		return fmt.Errorf("read current version: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO vibe_runs (id, project_id, vibe_text, location, requirements, requirement_vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ProjectID, run.VibeText, run.Location, run.Requirements, string(vector), created,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i := range run.Artifacts {
		a := &run.Artifacts[i]
		a.Version = current + 1
		_, err := tx.ExecContext(ctx,
			`INSERT INTO design_artifacts (`+artifactColumns+`, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.ProjectID, a.RunID, string(a.ArtifactType), a.Version, a.Title, a.Description,
			a.FileURL, a.Metadata, a.IsSelected, a.Sequence, a.CreatedAt.UTC().Format(sqliteTimeLayout),
		)
		if err != nil {
			return fmt.Errorf("insert artifact %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListArtifacts returns a project's artifacts, optionally restricted to one type
func (r *SQLiteRepository) ListArtifacts(ctx context.Context, projectID string, artifactType model.ArtifactType) ([]model.Artifact, error) {
	whereClauses := []string{"project_id = ?"}
	args := []interface{}{projectID}
	if artifactType != "" {
		whereClauses = append(whereClauses, "artifact_type = ?")
		args = append(args, string(artifactType))
	}

	query := fmt.Sprintf(
		`SELECT %s, created_at AS created_text FROM design_artifacts WHERE %s ORDER BY artifact_type, version, sequence`,
		artifactColumns, strings.Join(whereClauses, " AND "),
	)

	var rows []sqliteArtifactRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	artifacts := make([]model.Artifact, 0, len(rows))
	for _, row := range rows {
		artifact, err := row.toArtifact()
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// GetArtifact retrieves one artifact of a project
func (r *SQLiteRepository) GetArtifact(ctx context.Context, projectID, artifactID string) (*model.Artifact, error) {
	return r.getArtifact(ctx, r.db, projectID, artifactID)
}

func (r *SQLiteRepository) getArtifact(ctx context.Context, q sqlx.QueryerContext, projectID, artifactID string) (*model.Artifact, error) {
	var row sqliteArtifactRow
	query := `SELECT ` + artifactColumns + `, created_at AS created_text FROM design_artifacts WHERE id = ? AND project_id = ?`
	if err := sqlx.GetContext(ctx, q, &row, query, artifactID, projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get artifact: %w", err)
	}

	artifact, err := row.toArtifact()
	if err != nil {
		return nil, err
	}
	return &artifact, nil
}

// SelectFloorPlan marks a floor plan as selected and deselects the project's others
func (r *SQLiteRepository) SelectFloorPlan(ctx context.Context, projectID, artifactID string) (*model.Artifact, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	artifact, err := r.getArtifact(ctx, tx, projectID, artifactID)
	if err != nil {
		return nil, err
	}
	if artifact.ArtifactType != model.ArtifactFloorPlan {
		return nil, ErrNotFloorPlan
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE design_artifacts SET is_selected = (id = ?) WHERE project_id = ? AND artifact_type = ?`,
		artifactID, projectID, string(model.ArtifactFloorPlan),
	)
	if err != nil {
		return nil, fmt.Errorf("update selection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit selection: %w", err)
	}

	artifact.IsSelected = true
	return artifact, nil
}

// SimilarRuns ranks stored runs by Euclidean distance between requirement vectors
func (r *SQLiteRepository) SimilarRuns(ctx context.Context, vector []float32, limit int) ([]model.SimilarRun, error) {
	if err := checkVector(vector); err != nil {
		return nil, err
	}
	var rows []sqliteRunRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, project_id, vibe_text, requirements, requirement_vector, created_at AS created_text FROM vibe_runs`)
	if err != nil {
		return nil, fmt.Errorf("load runs: %w", err)
	}

	runs := make([]model.SimilarRun, 0, len(rows))
	for _, row := range rows {
		var stored []float32
		if err := json.Unmarshal([]byte(row.Vector), &stored); err != nil {
			return nil, fmt.Errorf("decode vector of run %s: %w", row.RunID, err)
		}
		created, err := time.Parse(sqliteTimeLayout, row.CreatedText)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", row.CreatedText, err)
		}
		runs = append(runs, model.SimilarRun{
			RunID:        row.RunID,
			ProjectID:    row.ProjectID,
			VibeText:     row.VibeText,
			Requirements: row.Requirements,
			Distance:     l2Distance(vector, stored),
			CreatedAt:    created,
		})
	}

	return sortSimilar(runs, limit), nil
}
