package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vibehouse/internal/model"
)

var (
	// ErrEmptyVibe is returned when a vibe description is blank
	ErrEmptyVibe = errors.New("vibe description is empty")
	// ErrMissingProject is returned when no project ID is given
	ErrMissingProject = errors.New("project id is required")
)

const maxSimilarLimit = 50

// DesignRepository is the storage the design service reads and writes
type DesignRepository interface {
	ArtifactStore
	ListArtifacts(ctx context.Context, projectID string, artifactType model.ArtifactType) ([]model.Artifact, error)
	GetArtifact(ctx context.Context, projectID, artifactID string) (*model.Artifact, error)
	SelectFloorPlan(ctx context.Context, projectID, artifactID string) (*model.Artifact, error)
	SimilarRuns(ctx context.Context, vector []float32, limit int) ([]model.SimilarRun, error)
}

// RetryPolicy controls how often a failed submission is retried
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DesignService handles design generation and selection for projects
type DesignService struct {
	repo         DesignRepository
	pipeline     *PipelineOrchestrator
	retry        RetryPolicy
	similarLimit int
	logger       *slog.Logger
}

// NewDesignService creates a new design service
func NewDesignService(
	repo DesignRepository,
	pipeline *PipelineOrchestrator,
	retry RetryPolicy,
	similarLimit int,
	logger *slog.Logger,
) *DesignService {
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	if similarLimit <= 0 {
		similarLimit = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DesignService{
		repo:         repo,
		pipeline:     pipeline,
		retry:        retry,
		similarLimit: similarLimit,
		logger:       logger,
	}
}

// Submit runs the pipeline for a project and persists the artifacts, retrying
// failed attempts according to the retry policy
func (s *DesignService) Submit(ctx context.Context, req *model.VibeRequest) (*model.VibeResponse, error) {
	if err := validateVibeRequest(req); err != nil {
		return nil, err
	}
	startTime := time.Now()

	var lastErr error
	for attempt := 1; attempt <= s.retry.Attempts; attempt++ {
		artifacts, err := s.pipeline.ProcessAt(ctx, req.ProjectID, req.VibeDescription, s.location(req.Location))
		if err == nil {
			return newVibeResponse(req.ProjectID, artifacts, attempt, startTime), nil
		}

		lastErr = err
		s.logger.Warn("design generation attempt failed",
			"project_id", req.ProjectID, "attempt", attempt, "max_attempts", s.retry.Attempts, "error", err)

		if attempt < s.retry.Attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retry.Delay):
			}
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", s.retry.Attempts, lastErr)
}

// SubmitStream runs the pipeline while streaming progress events. It is not retried,
// since events may already have reached the client.
func (s *DesignService) SubmitStream(ctx context.Context, req *model.VibeRequest, callback PipelineEventCallback) (*model.VibeResponse, error) {
	if err := validateVibeRequest(req); err != nil {
		return nil, err
	}
	startTime := time.Now()

	artifacts, err := s.pipeline.ProcessStream(ctx, req.ProjectID, req.VibeDescription, s.location(req.Location), callback)
	if err != nil {
		return nil, err
	}
	return newVibeResponse(req.ProjectID, artifacts, 1, startTime), nil
}

// ListDesigns returns the stored artifacts of a project
func (s *DesignService) ListDesigns(ctx context.Context, projectID string, artifactType model.ArtifactType) (*model.DesignListResponse, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, ErrMissingProject
	}
	artifacts, err := s.repo.ListArtifacts(ctx, projectID, artifactType)
	if err != nil {
		return nil, err
	}
	return &model.DesignListResponse{Designs: artifacts, Total: len(artifacts)}, nil
}

// GetDesign retrieves one artifact of a project
func (s *DesignService) GetDesign(ctx context.Context, projectID, designID string) (*model.Artifact, error) {
	return s.repo.GetArtifact(ctx, projectID, designID)
}

// SelectDesign marks a floor plan as the project's chosen design
func (s *DesignService) SelectDesign(ctx context.Context, projectID, designID string) (*model.Artifact, error) {
	artifact, err := s.repo.SelectFloorPlan(ctx, projectID, designID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("floor plan selected",
		"project_id", projectID, "design_id", designID, "option_id", artifact.OptionID())
	return artifact, nil
}

// Preview runs the pipeline without persisting anything
func (s *DesignService) Preview(req *model.PreviewRequest) (*model.PreviewResponse, error) {
	if strings.TrimSpace(req.VibeDescription) == "" {
		return nil, ErrEmptyVibe
	}
	startTime := time.Now()

	spec, bundles := s.pipeline.Evaluate(req.VibeDescription, s.location(req.Location))
	return &model.PreviewResponse{
		Requirements: spec,
		Options:      bundles,
		Took:         time.Since(startTime).Milliseconds(),
	}, nil
}

// ParseVibe extracts requirements only
func (s *DesignService) ParseVibe(text string) *model.ParseResponse {
	return &model.ParseResponse{Requirements: s.pipeline.Parser().Parse(text)}
}

// SimilarProjects finds earlier runs whose parsed requirements are closest to text
func (s *DesignService) SimilarProjects(ctx context.Context, req *model.SimilarRequest) (*model.SimilarResponse, error) {
	if strings.TrimSpace(req.VibeDescription) == "" {
		return nil, ErrEmptyVibe
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.similarLimit
	}
	limit = min(limit, maxSimilarLimit)

	spec := s.pipeline.Parser().Parse(req.VibeDescription)
	runs, err := s.repo.SimilarRuns(ctx, spec.FeatureVector(), limit)
	if err != nil {
		return nil, err
	}

	return &model.SimilarResponse{
		Requirements: spec,
		Results:      runs,
		Total:        len(runs),
	}, nil
}

func (s *DesignService) location(requested string) string {
	if loc := strings.TrimSpace(requested); loc != "" {
		return loc
	}
	return s.pipeline.defaultLocation
}

func validateVibeRequest(req *model.VibeRequest) error {
	if strings.TrimSpace(req.ProjectID) == "" {
		return ErrMissingProject
	}
	if strings.TrimSpace(req.VibeDescription) == "" {
		return ErrEmptyVibe
	}
	return nil
}

func newVibeResponse(projectID string, artifacts []model.Artifact, attempts int, startTime time.Time) *model.VibeResponse {
	resp := &model.VibeResponse{
		ProjectID: projectID,
		Artifacts: artifacts,
		Total:     len(artifacts),
		Attempts:  attempts,
		Took:      time.Since(startTime).Milliseconds(),
	}
	if len(artifacts) > 0 {
		resp.RunID = artifacts[0].RunID
	}
	return resp
}
