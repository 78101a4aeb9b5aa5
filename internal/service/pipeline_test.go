package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"vibehouse/internal/model"
)

type fakeStore struct {
	mu   sync.Mutex
	runs []*model.PipelineRun
	err  error
}

func (s *fakeStore) SaveRun(ctx context.Context, run *model.PipelineRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.runs = append(s.runs, run)
	return nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(store ArtifactStore) *PipelineOrchestrator {
	return NewPipelineOrchestrator(store, NewBudgetRanker(0.6, 0.25, 0.15), "", discardLogger())
}

const sampleVibe = "I want a modern 4-bedroom home with 3 bathrooms, two stories, a home office and a budget of 600-800k"

func TestPipeline_RunProducesTwelveArtifacts(t *testing.T) {
	run := newTestPipeline(nil).Run("project-1", sampleVibe, "")

	if len(run.Artifacts) != 12 {
		t.Fatalf("got %d artifacts, want 12", len(run.Artifacts))
	}
	if len(run.Options) != 3 {
		t.Fatalf("got %d options, want 3", len(run.Options))
	}

	order := []model.ArtifactType{model.ArtifactFloorPlan, model.ArtifactStructural, model.ArtifactMEP, model.ArtifactCostEstimate}
	counts := map[model.ArtifactType]int{}
	for i, a := range run.Artifacts {
		if a.ArtifactType != order[i%4] {
			t.Errorf("artifact %d type = %s, want %s", i, a.ArtifactType, order[i%4])
		}
		if a.Sequence != i {
			t.Errorf("artifact %d sequence = %d", i, a.Sequence)
		}
		if a.Version != 1 || a.IsSelected || a.FileURL != nil {
			t.Errorf("artifact %d: version %d, selected %v, file_url %v", i, a.Version, a.IsSelected, a.FileURL)
		}
		if a.ProjectID != "project-1" || a.RunID != run.ID {
			t.Errorf("artifact %d not linked to its project/run", i)
		}
		if err := a.Metadata.Validate(); err != nil {
			t.Errorf("artifact %d metadata: %v", i, err)
		}
		if a.Metadata.Kind != a.ArtifactType {
			t.Errorf("artifact %d metadata kind %s != %s", i, a.Metadata.Kind, a.ArtifactType)
		}
		counts[a.ArtifactType]++
	}
	for _, kind := range order {
		if counts[kind] != 3 {
			t.Errorf("%s count = %d, want 3", kind, counts[kind])
		}
	}
}

func TestPipeline_ArtifactsClusterByOption(t *testing.T) {
	run := newTestPipeline(nil).Run("project-1", sampleVibe, "Austin")

	clusters := map[string]int{}
	for _, a := range run.Artifacts {
		clusters[a.OptionID()]++
	}
	if len(clusters) != 3 {
		t.Fatalf("got %d option clusters, want 3", len(clusters))
	}
	for id, n := range clusters {
		if n != 4 {
			t.Errorf("option %s has %d artifacts, want 4", id, n)
		}
	}

	for i, opt := range run.Options {
		floorPlan := run.Artifacts[i*4]
		if floorPlan.Title != "Floor Plan - "+opt.Title {
			t.Errorf("title = %q", floorPlan.Title)
		}
		meta := floorPlan.Metadata.FloorPlan
		if meta.OptionID != opt.OptionID || meta.TotalSqft != opt.TotalSqft || meta.EstimatedCost != opt.EstimatedCost {
			t.Errorf("floor plan metadata does not mirror option %s", opt.OptionID)
		}
		if meta.Requirements.Bedrooms != 4 {
			t.Errorf("requirements snapshot bedrooms = %d, want 4", meta.Requirements.Bedrooms)
		}

		cost := run.Artifacts[i*4+3]
		if cost.Metadata.CostEstimate.LocationMultiplier != 1.05 {
			t.Errorf("cost multiplier = %v, want 1.05", cost.Metadata.CostEstimate.LocationMultiplier)
		}
		if !strings.HasPrefix(cost.Description, "Grand total: $") {
			t.Errorf("cost description = %q", cost.Description)
		}
		if !strings.HasPrefix(run.Artifacts[i*4+1].Description, "Foundation: ") {
			t.Errorf("structural description = %q", run.Artifacts[i*4+1].Description)
		}
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	store := &fakeStore{}
	text := "Modern 4 bedroom, 3 bath, two story house, 2800 sqft, budget 500-650k"

	artifacts, err := newTestPipeline(store).Process(context.Background(), "project-1", text)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(artifacts) != 12 {
		t.Fatalf("got %d artifacts, want 12", len(artifacts))
	}

	spec := store.runs[0].Requirements
	if spec.Bedrooms != 4 || spec.Bathrooms != 3 || spec.Floors != 2 || spec.TargetSqft != 2800 {
		t.Errorf("requirements = %+v", spec)
	}
	if spec.BudgetRange != (model.BudgetRange{Low: 500000, High: 650000}) {
		t.Errorf("BudgetRange = %+v", spec.BudgetRange)
	}

	var order []string
	sizes := map[string]int{}
	counts := map[string]int{}
	for _, a := range artifacts {
		if err := a.Metadata.Validate(); err != nil {
			t.Errorf("artifact %d: %v", a.Sequence, err)
		}
		id := a.OptionID()
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
		if a.ArtifactType == model.ArtifactFloorPlan {
			sizes[id] = a.Metadata.FloorPlan.TotalSqft
		}
	}

	if len(order) != 3 {
		t.Fatalf("got %d option clusters, want 3", len(order))
	}
	for i, id := range order {
		if counts[id] != 4 {
			t.Errorf("option %s has %d artifacts, want 4", id, counts[id])
		}
		if i > 0 && sizes[id] <= sizes[order[i-1]] {
			t.Errorf("total_sqft not strictly increasing: %d after %d", sizes[id], sizes[order[i-1]])
		}
	}
}

func TestPipeline_ProcessSavesOnce(t *testing.T) {
	store := &fakeStore{}
	artifacts, err := newTestPipeline(store).Process(context.Background(), "project-1", sampleVibe)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(artifacts) != 12 {
		t.Errorf("got %d artifacts, want 12", len(artifacts))
	}
	if store.count() != 1 {
		t.Fatalf("SaveRun called %d times, want 1", store.count())
	}
	if len(store.runs[0].Artifacts) != 12 {
		t.Errorf("saved run has %d artifacts", len(store.runs[0].Artifacts))
	}
}

func TestPipeline_ProcessPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("database unavailable")
	store := &fakeStore{err: storeErr}

	artifacts, err := newTestPipeline(store).Process(context.Background(), "project-1", sampleVibe)
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
	if artifacts != nil {
		t.Errorf("got %d artifacts on failure", len(artifacts))
	}
}

func TestPipeline_ProcessWithoutStore(t *testing.T) {
	_, err := newTestPipeline(nil).Process(context.Background(), "project-1", sampleVibe)
	if !errors.Is(err, ErrNoStore) {
		t.Errorf("err = %v, want ErrNoStore", err)
	}
}

func TestPipeline_DeterministicApartFromIDs(t *testing.T) {
	a := newTestPipeline(nil).WithPlanGenerator(NewPlanGeneratorWithIDs(sequentialIDs())).Run("p", sampleVibe, "Miami")
	b := newTestPipeline(nil).WithPlanGenerator(NewPlanGeneratorWithIDs(sequentialIDs())).Run("p", sampleVibe, "Miami")

	for i := range a.Artifacts {
		x, y := a.Artifacts[i], b.Artifacts[i]
		if x.Title != y.Title || x.Description != y.Description || x.OptionID() != y.OptionID() {
			t.Errorf("artifact %d differs between identical runs", i)
		}
	}
	for i := range a.Options {
		if a.Options[i].EstimatedCost != b.Options[i].EstimatedCost {
			t.Errorf("option %d cost differs", i)
		}
	}
}

func TestPipeline_ConcurrentRuns(t *testing.T) {
	store := &fakeStore{}
	pipeline := newTestPipeline(store)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := pipeline.Process(context.Background(), "project-1", sampleVibe); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Process: %v", err)
	}
	if store.count() != 16 {
		t.Errorf("saved %d runs, want 16", store.count())
	}
}

func TestPipeline_ProcessStream(t *testing.T) {
	store := &fakeStore{}
	var events []string

	artifacts, err := newTestPipeline(store).ProcessStream(context.Background(), "project-1", sampleVibe, "", func(event string, data any) error {
		events = append(events, event)
		return nil
	})
	if err != nil {
		t.Fatalf("ProcessStream: %v", err)
	}
	if len(artifacts) != 12 {
		t.Errorf("got %d artifacts, want 12", len(artifacts))
	}

	want := []string{"parsing", "requirements", "option", "option", "option", "persisting"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestPipeline_ProcessStreamCallbackAborts(t *testing.T) {
	store := &fakeStore{}
	stop := errors.New("client went away")

	_, err := newTestPipeline(store).ProcessStream(context.Background(), "project-1", sampleVibe, "", func(event string, data any) error {
		if event == "option" {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v, want callback error", err)
	}
	if store.count() != 0 {
		t.Errorf("store received %d runs after abort", store.count())
	}
}
