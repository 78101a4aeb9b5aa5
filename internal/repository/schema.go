package repository

import (
	"fmt"

	"vibehouse/internal/model"
)

// PostgresSchema creates the run and artifact tables on PostgreSQL with pgvector
var PostgresSchema = fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS vibe_runs (
    id                 UUID PRIMARY KEY,
    project_id         TEXT NOT NULL,
    vibe_text          TEXT NOT NULL,
    location           TEXT NOT NULL DEFAULT '',
    requirements       JSONB NOT NULL,
    requirement_vector vector(%d),
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_vibe_runs_project ON vibe_runs(project_id);

CREATE TABLE IF NOT EXISTS design_artifacts (
    id            UUID PRIMARY KEY,
    project_id    TEXT NOT NULL,
    run_id        UUID NOT NULL REFERENCES vibe_runs(id) ON DELETE CASCADE,
    artifact_type TEXT NOT NULL
                  CHECK (artifact_type IN ('floor_plan', 'structural', 'mep', 'cost_estimate')),
    version       INTEGER NOT NULL,
    title         TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    file_url      TEXT NULL,
    metadata      JSONB NOT NULL,
    is_selected   BOOLEAN NOT NULL DEFAULT FALSE,
    sequence      INTEGER NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_design_artifacts_project ON design_artifacts(project_id, artifact_type);
CREATE INDEX IF NOT EXISTS idx_design_artifacts_run ON design_artifacts(run_id);
`, model.FeatureVectorDimensions)

// SQLiteSchema is the embedded-database equivalent; vectors are stored as JSON text
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS vibe_runs (
    id                 TEXT PRIMARY KEY,
    project_id         TEXT NOT NULL,
    vibe_text          TEXT NOT NULL,
    location           TEXT NOT NULL DEFAULT '',
    requirements       TEXT NOT NULL,
    requirement_vector TEXT NOT NULL DEFAULT '[]',
    created_at         TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_vibe_runs_project ON vibe_runs(project_id);

CREATE TABLE IF NOT EXISTS design_artifacts (
    id            TEXT PRIMARY KEY,
    project_id    TEXT NOT NULL,
    run_id        TEXT NOT NULL REFERENCES vibe_runs(id) ON DELETE CASCADE,
    artifact_type TEXT NOT NULL
                  CHECK (artifact_type IN ('floor_plan', 'structural', 'mep', 'cost_estimate')),
    version       INTEGER NOT NULL,
    title         TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    file_url      TEXT NULL,
    metadata      TEXT NOT NULL,
    is_selected   INTEGER NOT NULL DEFAULT 0,
    sequence      INTEGER NOT NULL,
    created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_design_artifacts_project ON design_artifacts(project_id, artifact_type);
CREATE INDEX IF NOT EXISTS idx_design_artifacts_run ON design_artifacts(run_id);
`
