package model

// VibeRequest represents a vibe submission for a project
type VibeRequest struct {
	ProjectID       string `json:"-"`
	VibeDescription string `json:"vibe_description" binding:"required"`
	Location        string `json:"location,omitempty"` // City used for regional cost multipliers
}

// VibeResponse represents the artifacts produced by a vibe submission
type VibeResponse struct {
	ProjectID string     `json:"project_id"`
	RunID     string     `json:"run_id"`
	Artifacts []Artifact `json:"artifacts"`
	Total     int        `json:"total"`
	Attempts  int        `json:"attempts"`
	Took      int64      `json:"took_ms"`
}

// DesignListResponse represents the stored artifacts of a project
type DesignListResponse struct {
	Designs []Artifact `json:"designs"`
	Total   int        `json:"total"`
}

// ParseRequest represents a request to parse vibe text without generating plans
type ParseRequest struct {
	VibeDescription string `json:"vibe_description" binding:"required"`
}

// ParseResponse represents parsed requirements
type ParseResponse struct {
	Requirements RequirementSpecification `json:"requirements"`
}

// PreviewRequest represents a request to run the pipeline without persisting
type PreviewRequest struct {
	VibeDescription string `json:"vibe_description" binding:"required"`
	Location        string `json:"location,omitempty"`
}

// OptionBundle groups one design option with everything derived from it
type OptionBundle struct {
	Option      DesignOption      `json:"option" yaml:"option"`
	BudgetFit   BudgetFit         `json:"budget_fit" yaml:"budget_fit"`
	Engineering EngineeringReport `json:"engineering" yaml:"engineering"`
	MEP         MEPPlan           `json:"mep" yaml:"mep"`
	Cost        CostEstimate      `json:"cost" yaml:"cost"`
}

// PreviewResponse represents an unpersisted pipeline run
type PreviewResponse struct {
	Requirements RequirementSpecification `json:"requirements" yaml:"requirements"`
	Options      []OptionBundle           `json:"options" yaml:"options"`
	Took         int64                    `json:"took_ms" yaml:"-"`
}

// SimilarRequest represents a request for previous runs with similar requirements
type SimilarRequest struct {
	VibeDescription string `json:"vibe_description" binding:"required"`
	Limit           int    `json:"limit"`
}

// SimilarResponse represents the similar runs found
type SimilarResponse struct {
	Requirements RequirementSpecification `json:"requirements"`
	Results      []SimilarRun             `json:"results"`
	Total        int                      `json:"total"`
}
