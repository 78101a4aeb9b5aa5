package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vibehouse/internal/model"
)

// memoryRepo is an in-memory DesignRepository that can fail the first saves
type memoryRepo struct {
	mu        sync.Mutex
	failFirst int
	saveCalls int
	artifacts []model.Artifact
	runs      []*model.PipelineRun
}

var errFlaky = errors.New("temporary storage failure")
var errNotFound = errors.New("not found")

func (r *memoryRepo) SaveRun(ctx context.Context, run *model.PipelineRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveCalls <= r.failFirst {
		return errFlaky
	}
	r.runs = append(r.runs, run)
	r.artifacts = append(r.artifacts, run.Artifacts...)
	return nil
}

func (r *memoryRepo) ListArtifacts(ctx context.Context, projectID string, artifactType model.ArtifactType) ([]model.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Artifact{}
	for _, a := range r.artifacts {
		if a.ProjectID == projectID && (artifactType == "" || a.ArtifactType == artifactType) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetArtifact(ctx context.Context, projectID, artifactID string) (*model.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.artifacts {
		if a.ProjectID == projectID && a.ID == artifactID {
			found := a
			return &found, nil
		}
	}
	return nil, errNotFound
}

func (r *memoryRepo) SelectFloorPlan(ctx context.Context, projectID, artifactID string) (*model.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var selected *model.Artifact
	for i := range r.artifacts {
		a := &r.artifacts[i]
		if a.ProjectID != projectID || a.ArtifactType != model.ArtifactFloorPlan {
			continue
		}
		a.IsSelected = a.ID == artifactID
		if a.IsSelected {
			found := *a
			selected = &found
		}
	}
	if selected == nil {
		return nil, errNotFound
	}
	return selected, nil
}

func (r *memoryRepo) SimilarRuns(ctx context.Context, vector []float32, limit int) ([]model.SimilarRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.SimilarRun{}
	for _, run := range r.runs {
		if len(out) == limit {
			break
		}
		out = append(out, model.SimilarRun{RunID: run.ID, ProjectID: run.ProjectID, Requirements: run.Requirements})
	}
	return out, nil
}

func newTestDesignService(repo *memoryRepo, attempts int) *DesignService {
	pipeline := NewPipelineOrchestrator(repo, nil, "Dallas", discardLogger())
	return NewDesignService(repo, pipeline, RetryPolicy{Attempts: attempts, Delay: time.Millisecond}, 3, discardLogger())
}

func TestDesignService_Submit(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestDesignService(repo, 3)

	resp, err := svc.Submit(context.Background(), &model.VibeRequest{ProjectID: "p1", VibeDescription: sampleVibe})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if resp.Total != 12 || len(resp.Artifacts) != 12 {
		t.Errorf("Total = %d, want 12", resp.Total)
	}
	if resp.Attempts != 1 || resp.RunID == "" || resp.ProjectID != "p1" {
		t.Errorf("unexpected response header: %+v", resp)
	}

	cost := resp.Artifacts[3].Metadata.CostEstimate
	if cost.Location != "Dallas" || cost.LocationMultiplier != 1.0 {
		t.Errorf("default location not applied: %q x%v", cost.Location, cost.LocationMultiplier)
	}
}

func TestDesignService_SubmitRetries(t *testing.T) {
	tests := []struct {
		name      string
		failFirst int
		attempts  int
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", 0, 3, false, 1},
		{"succeeds on third attempt", 2, 3, false, 3},
		{"gives up after all attempts", 5, 3, true, 3},
		{"single attempt policy", 1, 1, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepo{failFirst: tt.failFirst}
			svc := newTestDesignService(repo, tt.attempts)

			resp, err := svc.Submit(context.Background(), &model.VibeRequest{ProjectID: "p1", VibeDescription: sampleVibe})
			if tt.wantErr {
				if !errors.Is(err, errFlaky) {
					t.Errorf("err = %v, want wrapped storage failure", err)
				}
			} else {
				if err != nil {
					t.Fatalf("Submit: %v", err)
				}
				if resp.Attempts != tt.wantCalls {
					t.Errorf("Attempts = %d, want %d", resp.Attempts, tt.wantCalls)
				}
			}
			if repo.saveCalls != tt.wantCalls {
				t.Errorf("SaveRun called %d times, want %d", repo.saveCalls, tt.wantCalls)
			}
		})
	}
}

func TestDesignService_SubmitCancelledDuringBackoff(t *testing.T) {
	repo := &memoryRepo{failFirst: 10}
	pipeline := NewPipelineOrchestrator(repo, nil, "", discardLogger())
	svc := NewDesignService(repo, pipeline, RetryPolicy{Attempts: 3, Delay: time.Hour}, 3, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Submit(ctx, &model.VibeRequest{ProjectID: "p1", VibeDescription: sampleVibe})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if repo.saveCalls != 1 {
		t.Errorf("SaveRun called %d times, want 1", repo.saveCalls)
	}
}

func TestDesignService_Validation(t *testing.T) {
	svc := newTestDesignService(&memoryRepo{}, 1)

	tests := []struct {
		name string
		req  model.VibeRequest
		want error
	}{
		{"missing project", model.VibeRequest{VibeDescription: sampleVibe}, ErrMissingProject},
		{"blank vibe", model.VibeRequest{ProjectID: "p1", VibeDescription: "   "}, ErrEmptyVibe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := svc.Submit(context.Background(), &req); !errors.Is(err, tt.want) {
				t.Errorf("Submit err = %v, want %v", err, tt.want)
			}
			if _, err := svc.SubmitStream(context.Background(), &req, func(string, any) error { return nil }); !errors.Is(err, tt.want) {
				t.Errorf("SubmitStream err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := svc.Preview(&model.PreviewRequest{}); !errors.Is(err, ErrEmptyVibe) {
		t.Errorf("Preview err = %v, want ErrEmptyVibe", err)
	}
	if _, err := svc.ListDesigns(context.Background(), "", ""); !errors.Is(err, ErrMissingProject) {
		t.Errorf("ListDesigns err = %v, want ErrMissingProject", err)
	}
}

func TestDesignService_ListAndSelect(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestDesignService(repo, 1)
	ctx := context.Background()

	resp, err := svc.Submit(ctx, &model.VibeRequest{ProjectID: "p1", VibeDescription: sampleVibe})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	list, err := svc.ListDesigns(ctx, "p1", model.ArtifactFloorPlan)
	if err != nil {
		t.Fatalf("ListDesigns: %v", err)
	}
	if list.Total != 3 {
		t.Errorf("floor plans = %d, want 3", list.Total)
	}

	target := resp.Artifacts[4]
	selected, err := svc.SelectDesign(ctx, "p1", target.ID)
	if err != nil {
		t.Fatalf("SelectDesign: %v", err)
	}
	if !selected.IsSelected || selected.ID != target.ID {
		t.Errorf("selected = %+v", selected)
	}

	got, err := svc.GetDesign(ctx, "p1", target.ID)
	if err != nil {
		t.Fatalf("GetDesign: %v", err)
	}
	if !got.IsSelected {
		t.Error("stored artifact not marked selected")
	}
}

func TestDesignService_Preview(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestDesignService(repo, 1)

	resp, err := svc.Preview(&model.PreviewRequest{VibeDescription: sampleVibe, Location: "Seattle"})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(resp.Options) != 3 {
		t.Fatalf("got %d options, want 3", len(resp.Options))
	}
	if resp.Options[0].Cost.LocationMultiplier != 1.20 {
		t.Errorf("multiplier = %v, want 1.20", resp.Options[0].Cost.LocationMultiplier)
	}
	if repo.saveCalls != 0 {
		t.Errorf("Preview saved %d runs", repo.saveCalls)
	}
}

func TestDesignService_SimilarProjects(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestDesignService(repo, 1)
	ctx := context.Background()

	for _, project := range []string{"p1", "p2", "p3", "p4"} {
		if _, err := svc.Submit(ctx, &model.VibeRequest{ProjectID: project, VibeDescription: sampleVibe}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	resp, err := svc.SimilarProjects(ctx, &model.SimilarRequest{VibeDescription: "4 bedroom modern"})
	if err != nil {
		t.Fatalf("SimilarProjects: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("Total = %d, want default limit 3", resp.Total)
	}
	if resp.Requirements.Bedrooms != 4 {
		t.Errorf("parsed bedrooms = %d, want 4", resp.Requirements.Bedrooms)
	}
}

func TestDesignService_ParseVibe(t *testing.T) {
	svc := newTestDesignService(&memoryRepo{}, 1)
	if got := svc.ParseVibe("Budget is 400-550k").Requirements.BudgetRange; got.Low != 400000 || got.High != 550000 {
		t.Errorf("BudgetRange = %+v", got)
	}
}
