package repository

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"vibehouse/internal/model"
)

var (
	// ErrArtifactNotFound is returned when no artifact matches the project and ID
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrNotFloorPlan is returned when selecting an artifact that is not a floor plan
	ErrNotFloorPlan = errors.New("only floor plan artifacts can be selected")
	// ErrInvalidRun is returned by SaveRun when a run's artifacts or vector are malformed
	ErrInvalidRun = errors.New("invalid pipeline run")
)

const artifactColumns = `id, project_id, run_id, artifact_type, version, title, description,
	file_url, metadata, is_selected, sequence`

// validateRun rejects runs that would store malformed metadata
func validateRun(run *model.PipelineRun) error {
	for i, a := range run.Artifacts {
		if err := a.Metadata.Validate(); err != nil {
			return fmt.Errorf("%w: artifact %d: %v", ErrInvalidRun, i, err)
		}
		if a.Metadata.Kind != a.ArtifactType {
			return fmt.Errorf("%w: artifact %d is %s but carries %s metadata", ErrInvalidRun, i, a.ArtifactType, a.Metadata.Kind)
		}
	}
	return checkVector(run.Requirements.FeatureVector())
}

func checkVector(vector []float32) error {
	if len(vector) != model.FeatureVectorDimensions {
		return fmt.Errorf("%w: vector has %d dimensions, want %d", ErrInvalidRun, len(vector), model.FeatureVectorDimensions)
	}
	return nil
}

// l2Distance returns the Euclidean distance between two vectors of equal length
func l2Distance(a, b []float32) float64 {
	n := min(len(a), len(b))
	sum := 0.0
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// sortSimilar orders runs by distance, newest first on ties, and truncates to limit
func sortSimilar(runs []model.SimilarRun, limit int) []model.SimilarRun {
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Distance != runs[j].Distance {
			return runs[i].Distance < runs[j].Distance
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs
}
