package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vibehouse/internal/model"
	"vibehouse/internal/utils"
)

// ErrNoStore is returned by Process when the orchestrator was built without a store
var ErrNoStore = errors.New("no artifact store configured")

// ArtifactStore persists a complete pipeline run as one atomic unit
type ArtifactStore interface {
	SaveRun(ctx context.Context, run *model.PipelineRun) error
}

// PipelineEventCallback is called for streaming pipeline events
type PipelineEventCallback func(event string, data any) error

// PipelineOrchestrator composes parsing, plan generation, engineering and costing
// into the artifact set of one run
type PipelineOrchestrator struct {
	parser          *VibeParser
	planner         *PlanGenerator
	analyzer        *EngineeringAnalyzer
	estimator       *CostEstimator
	ranker          *BudgetRanker
	store           ArtifactStore
	defaultLocation string
	logger          *slog.Logger
	now             func() time.Time
}

// NewPipelineOrchestrator creates a new pipeline orchestrator. store may be nil when
// only Run and Evaluate are used.
func NewPipelineOrchestrator(
	store ArtifactStore,
	ranker *BudgetRanker,
	defaultLocation string,
	logger *slog.Logger,
) *PipelineOrchestrator {
	if ranker == nil {
		ranker = NewBudgetRanker(0.6, 0.25, 0.15)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineOrchestrator{
		parser:          NewVibeParser(),
		planner:         NewPlanGenerator(),
		analyzer:        NewEngineeringAnalyzer(),
		estimator:       NewCostEstimator(),
		ranker:          ranker,
		store:           store,
		defaultLocation: defaultLocation,
		logger:          logger,
		now:             time.Now,
	}
}

// WithPlanGenerator swaps the plan generator, mainly to inject deterministic option IDs
func (p *PipelineOrchestrator) WithPlanGenerator(planner *PlanGenerator) *PipelineOrchestrator {
	p.planner = planner
	return p
}

// Parser returns the vibe parser used by the pipeline
func (p *PipelineOrchestrator) Parser() *VibeParser {
	return p.parser
}

// Evaluate parses vibeText and derives every report for each generated option
func (p *PipelineOrchestrator) Evaluate(vibeText, location string) (model.RequirementSpecification, []model.OptionBundle) {
	spec := p.parser.Parse(vibeText)
	return spec, p.evaluateSpec(spec, location)
}

func (p *PipelineOrchestrator) evaluateSpec(spec model.RequirementSpecification, location string) []model.OptionBundle {
	options := p.planner.Generate(spec)
	bundles := make([]model.OptionBundle, 0, len(options))
	for _, opt := range options {
		bundles = append(bundles, p.bundle(spec, opt, location))
	}
	return bundles
}

func (p *PipelineOrchestrator) bundle(spec model.RequirementSpecification, opt model.DesignOption, location string) model.OptionBundle {
	return model.OptionBundle{
		Option:      opt,
		BudgetFit:   p.ranker.Score(opt, spec),
		Engineering: p.analyzer.AnalyzeStructure(opt),
		MEP:         p.analyzer.GenerateMEPPlan(opt),
		Cost:        p.estimator.EstimateCosts(opt, location),
	}
}

// Run executes the pipeline without touching any store. The returned run carries
// 12 artifacts: floor plan, structural, MEP and cost estimate for each option in
// generation order.
func (p *PipelineOrchestrator) Run(projectID, vibeText, location string) *model.PipelineRun {
	spec, bundles := p.Evaluate(vibeText, location)
	return p.assemble(projectID, vibeText, location, spec, bundles)
}

func (p *PipelineOrchestrator) assemble(
	projectID, vibeText, location string,
	spec model.RequirementSpecification,
	bundles []model.OptionBundle,
) *model.PipelineRun {
	run := &model.PipelineRun{
		ID:           uuid.NewString(),
		ProjectID:    projectID,
		VibeText:     vibeText,
		Location:     location,
		Requirements: spec,
		Options:      make([]model.DesignOption, 0, len(bundles)),
		Artifacts:    make([]model.Artifact, 0, len(bundles)*4),
		CreatedAt:    p.now().UTC(),
	}

	for _, b := range bundles {
		run.Options = append(run.Options, b.Option)
		run.Artifacts = append(run.Artifacts, buildArtifacts(run, spec, b)...)
	}
	for i := range run.Artifacts {
		run.Artifacts[i].Sequence = i
	}

	return run
}

func buildArtifacts(run *model.PipelineRun, spec model.RequirementSpecification, b model.OptionBundle) []model.Artifact {
	opt := b.Option
	newArtifact := func(kind model.ArtifactType, title, description string, meta model.ArtifactMetadata) model.Artifact {
		meta.Kind = kind
		return model.Artifact{
			ID:           uuid.NewString(),
			ProjectID:    run.ProjectID,
			RunID:        run.ID,
			ArtifactType: kind,
			Version:      1,
			Title:        title,
			Description:  description,
			Metadata:     meta,
			CreatedAt:    run.CreatedAt,
		}
	}

	return []model.Artifact{
		newArtifact(model.ArtifactFloorPlan,
			"Floor Plan - "+opt.Title,
			opt.Description,
			model.ArtifactMetadata{FloorPlan: &model.FloorPlanMetadata{
				OptionID:        opt.OptionID,
				TotalSqft:       opt.TotalSqft,
				EstimatedCost:   opt.EstimatedCost,
				StyleScore:      opt.StyleScore,
				EfficiencyScore: opt.EfficiencyScore,
				Rooms:           opt.Rooms,
				Requirements:    spec,
				BudgetFit:       b.BudgetFit,
			}},
		),
		newArtifact(model.ArtifactStructural,
			"Structural Report - "+opt.Title,
			fmt.Sprintf("Foundation: %s. System: %s.", b.Engineering.FoundationType, b.Engineering.StructuralSystem),
			model.ArtifactMetadata{Structural: &model.StructuralMetadata{
				OptionID:          opt.OptionID,
				EngineeringReport: b.Engineering,
			}},
		),
		newArtifact(model.ArtifactMEP,
			"MEP Plan - "+opt.Title,
			fmt.Sprintf("%d circuits, %d plumbing fixtures, %.1f-ton HVAC.",
				b.MEP.ElectricalCircuits, b.MEP.PlumbingFixtures, b.MEP.HVACTonnage),
			model.ArtifactMetadata{MEP: &model.MEPMetadata{
				OptionID: opt.OptionID,
				MEPPlan:  b.MEP,
			}},
		),
		newArtifact(model.ArtifactCostEstimate,
			"Cost Estimate - "+opt.Title,
			fmt.Sprintf("Grand total: %s (materials: %s, labor: %s, contingency: %s).",
				utils.FormatUSD(b.Cost.GrandTotal),
				utils.FormatUSD(b.Cost.TotalMaterials),
				utils.FormatUSD(b.Cost.TotalLabor),
				utils.FormatUSD(b.Cost.Contingency)),
			model.ArtifactMetadata{CostEstimate: &model.CostEstimateMetadata{
				OptionID:     opt.OptionID,
				CostEstimate: b.Cost,
			}},
		),
	}
}

// Process runs the pipeline with the default location and saves the result
func (p *PipelineOrchestrator) Process(ctx context.Context, projectID, vibeText string) ([]model.Artifact, error) {
	return p.ProcessAt(ctx, projectID, vibeText, p.defaultLocation)
}

// ProcessAt runs the pipeline for location and hands all artifacts to the store in a
// single call. Store errors are returned unchanged in the chain.
func (p *PipelineOrchestrator) ProcessAt(ctx context.Context, projectID, vibeText, location string) ([]model.Artifact, error) {
	if p.store == nil {
		return nil, ErrNoStore
	}

	startTime := time.Now()
	run := p.Run(projectID, vibeText, location)

	if err := p.store.SaveRun(ctx, run); err != nil {
		p.logger.Error("failed to save pipeline run",
			"project_id", projectID, "run_id", run.ID, "error", err)
		return nil, fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	p.logger.Info("pipeline run saved",
		"project_id", projectID,
		"run_id", run.ID,
		"artifacts", len(run.Artifacts),
		"style", run.Requirements.Style,
		"took_ms", time.Since(startTime).Milliseconds(),
	)

	return run.Artifacts, nil
}

// ProcessStream runs the pipeline emitting progress events through callback.
// A callback error aborts the run before anything is saved.
func (p *PipelineOrchestrator) ProcessStream(
	ctx context.Context,
	projectID, vibeText, location string,
	callback PipelineEventCallback,
) ([]model.Artifact, error) {
	if p.store == nil {
		return nil, ErrNoStore
	}
	if location == "" {
		location = p.defaultLocation
	}

	if err := callback("parsing", map[string]any{
		"status": "Parsing your vibe...",
	}); err != nil {
		return nil, err
	}

	spec := p.parser.Parse(vibeText)
	if err := callback("requirements", spec); err != nil {
		return nil, err
	}

	options := p.planner.Generate(spec)
	bundles := make([]model.OptionBundle, 0, len(options))
	for _, opt := range options {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := p.bundle(spec, opt, location)
		bundles = append(bundles, b)
		if err := callback("option", b); err != nil {
			return nil, err
		}
	}

	if err := callback("persisting", map[string]any{
		"status": "Saving design artifacts...",
	}); err != nil {
		return nil, err
	}

	run := p.assemble(projectID, vibeText, location, spec, bundles)
	if err := p.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	p.logger.Info("streamed pipeline run saved",
		"project_id", projectID, "run_id", run.ID, "artifacts", len(run.Artifacts))

	return run.Artifacts, nil
}
