package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ArtifactType tags the kind of output an artifact carries
type ArtifactType string

// Artifact types produced by the pipeline, in per-option emission order
const (
	ArtifactFloorPlan    ArtifactType = "floor_plan"
	ArtifactStructural   ArtifactType = "structural"
	ArtifactMEP          ArtifactType = "mep"
	ArtifactCostEstimate ArtifactType = "cost_estimate"
)

// Valid reports whether t is one of the known artifact types
func (t ArtifactType) Valid() bool {
	switch t {
	case ArtifactFloorPlan, ArtifactStructural, ArtifactMEP, ArtifactCostEstimate:
		return true
	}
	return false
}

// Artifact represents one persisted output record of a pipeline run
type Artifact struct {
	ID           string           `json:"id" db:"id"`
	ProjectID    string           `json:"project_id" db:"project_id"`
	RunID        string           `json:"run_id" db:"run_id"`
	ArtifactType ArtifactType     `json:"artifact_type" db:"artifact_type"`
	Version      int              `json:"version" db:"version"`
	Title        string           `json:"title" db:"title"`
	Description  string           `json:"description" db:"description"`
	FileURL      *string          `json:"file_url" db:"file_url"`
	Metadata     ArtifactMetadata `json:"metadata" db:"metadata"`
	IsSelected   bool             `json:"is_selected" db:"is_selected"`
	Sequence     int              `json:"sequence" db:"sequence"` // Position within its run
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

// OptionID returns the design option this artifact belongs to
func (a Artifact) OptionID() string {
	return a.Metadata.OptionID()
}

// ArtifactMetadata is a tagged union: exactly one payload matching Kind is set
type ArtifactMetadata struct {
	Kind         ArtifactType          `json:"kind"`
	FloorPlan    *FloorPlanMetadata    `json:"floor_plan,omitempty"`
	Structural   *StructuralMetadata   `json:"structural,omitempty"`
	MEP          *MEPMetadata          `json:"mep,omitempty"`
	CostEstimate *CostEstimateMetadata `json:"cost_estimate,omitempty"`
}

// OptionID returns the option_id of whichever payload is set
func (m ArtifactMetadata) OptionID() string {
	switch {
	case m.FloorPlan != nil:
		return m.FloorPlan.OptionID
	case m.Structural != nil:
		return m.Structural.OptionID
	case m.MEP != nil:
		return m.MEP.OptionID
	case m.CostEstimate != nil:
		return m.CostEstimate.OptionID
	}
	return ""
}

// Validate checks that the payload matches Kind
func (m ArtifactMetadata) Validate() error {
	set := 0
	for _, present := range []bool{m.FloorPlan != nil, m.Structural != nil, m.MEP != nil, m.CostEstimate != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("metadata must carry exactly one payload, got %d", set)
	}
	ok := (m.Kind == ArtifactFloorPlan && m.FloorPlan != nil) ||
		(m.Kind == ArtifactStructural && m.Structural != nil) ||
		(m.Kind == ArtifactMEP && m.MEP != nil) ||
		(m.Kind == ArtifactCostEstimate && m.CostEstimate != nil)
	if !ok {
		return fmt.Errorf("metadata payload does not match kind %q", m.Kind)
	}
	return nil
}

// Value implements driver.Valuer interface
func (m ArtifactMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner interface
func (m *ArtifactMetadata) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// FloorPlanMetadata links a floor plan artifact to its design option
type FloorPlanMetadata struct {
	OptionID        string                   `json:"option_id"`
	TotalSqft       int                      `json:"total_sqft"`
	EstimatedCost   int                      `json:"estimated_cost"`
	StyleScore      float64                  `json:"style_score"`
	EfficiencyScore float64                  `json:"efficiency_score"`
	Rooms           []RoomLayout             `json:"rooms"`
	Requirements    RequirementSpecification `json:"rso"`
	BudgetFit       BudgetFit                `json:"budget_fit"`
}

// StructuralMetadata carries the engineering report of a design option
type StructuralMetadata struct {
	OptionID string `json:"option_id"`
	EngineeringReport
}

// MEPMetadata carries the MEP plan of a design option
type MEPMetadata struct {
	OptionID string `json:"option_id"`
	MEPPlan
}

// CostEstimateMetadata carries the itemized estimate of a design option
type CostEstimateMetadata struct {
	OptionID string `json:"option_id"`
	CostEstimate
}

// BudgetFit describes how a design option sits against the requested budget
type BudgetFit struct {
	Score          float64  `json:"score" yaml:"score"`
	WithinBudget   bool     `json:"within_budget" yaml:"within_budget"`
	MatchedReasons []string `json:"matched_reasons" yaml:"matched_reasons"`
}

// PipelineRun is one complete pipeline invocation, written to a store as a single unit
type PipelineRun struct {
	ID           string                   `json:"id" db:"id"`
	ProjectID    string                   `json:"project_id" db:"project_id"`
	VibeText     string                   `json:"vibe_text" db:"vibe_text"`
	Location     string                   `json:"location,omitempty" db:"location"`
	Requirements RequirementSpecification `json:"requirements" db:"requirements"`
	Options      []DesignOption           `json:"options" db:"-"`
	Artifacts    []Artifact               `json:"artifacts" db:"-"`
	CreatedAt    time.Time                `json:"created_at" db:"created_at"`
}

// SimilarRun is a previous run ranked by requirement similarity
type SimilarRun struct {
	RunID        string                   `json:"run_id" db:"id"`
	ProjectID    string                   `json:"project_id" db:"project_id"`
	VibeText     string                   `json:"vibe_text" db:"vibe_text"`
	Requirements RequirementSpecification `json:"requirements" db:"requirements"`
	Distance     float64                  `json:"distance" db:"distance"`
	CreatedAt    time.Time                `json:"created_at" db:"created_at"`
}

func scanJSON(value interface{}, target interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, target)
	case string:
		return json.Unmarshal([]byte(v), target)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}
