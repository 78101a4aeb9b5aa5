package service

import (
	"math"
	"sort"
	"strings"

	"vibehouse/internal/model"
)

// Match reason constants
const (
	ReasonWithinBudget    = "Within budget"
	ReasonNearBudgetMid   = "Close to budget midpoint"
	ReasonOverBudget      = "Over budget"
	ReasonUnderBudget     = "Below budget range"
	ReasonMeetsTargetSize = "Meets target size"
	ReasonBedroomsMatch   = "Bedrooms match"
	ReasonEfficientLayout = "Highly efficient layout"
	ReasonStrongStyle     = "Strong style fit"
)

// RankedOption pairs a design option with its budget fit
type RankedOption struct {
	Option model.DesignOption `json:"option" yaml:"option"`
	Fit    model.BudgetFit    `json:"budget_fit" yaml:"budget_fit"`
}

// BudgetRanker scores design options against the requested budget and heuristics
type BudgetRanker struct {
	weightBudget     float64
	weightEfficiency float64
	weightStyle      float64
}

// NewBudgetRanker creates a new ranker with specified weights
func NewBudgetRanker(weightBudget, weightEfficiency, weightStyle float64) *BudgetRanker {
	if weightBudget+weightEfficiency+weightStyle <= 0 {
		weightBudget = 1
	}
	return &BudgetRanker{
		weightBudget:     weightBudget,
		weightEfficiency: weightEfficiency,
		weightStyle:      weightStyle,
	}
}

// Score computes a 0-1 fit of option against spec
func (r *BudgetRanker) Score(option model.DesignOption, spec model.RequirementSpecification) model.BudgetFit {
	budgetScore := r.calculateBudgetScore(option.EstimatedCost, spec.BudgetRange)
	efficiencyScore := clamp01(option.EfficiencyScore / 10)
	styleScore := clamp01(option.StyleScore / 10)

	total := r.weightBudget + r.weightEfficiency + r.weightStyle
	score := (r.weightBudget*budgetScore +
		r.weightEfficiency*efficiencyScore +
		r.weightStyle*styleScore) / total

	return model.BudgetFit{
		Score:          math.Round(score*1000) / 1000,
		WithinBudget:   spec.BudgetRange.Contains(option.EstimatedCost),
		MatchedReasons: r.generateMatchedReasons(option, spec, budgetScore),
	}
}

// Rank scores all options and orders them best first; ties keep generation order
func (r *BudgetRanker) Rank(options []model.DesignOption, spec model.RequirementSpecification) []RankedOption {
	ranked := make([]RankedOption, 0, len(options))
	for _, opt := range options {
		ranked = append(ranked, RankedOption{Option: opt, Fit: r.Score(opt, spec)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Fit.Score > ranked[j].Fit.Score
	})

	return ranked
}

// calculateBudgetScore rewards costs close to the budget midpoint, zero outside the range
func (r *BudgetRanker) calculateBudgetScore(cost int, budget model.BudgetRange) float64 {
	if !budget.Contains(cost) {
		return 0.0
	}

	priceRange := float64(budget.High - budget.Low)
	if priceRange == 0 {
		return 1.0
	}

	distance := math.Abs(float64(cost) - budget.Midpoint())
	return clamp01(1.0 - distance/(priceRange/2))
}

func (r *BudgetRanker) generateMatchedReasons(
	option model.DesignOption,
	spec model.RequirementSpecification,
	budgetScore float64,
) []string {
	reasons := []string{}

	switch {
	case option.EstimatedCost > spec.BudgetRange.High:
		reasons = append(reasons, ReasonOverBudget)
	case option.EstimatedCost < spec.BudgetRange.Low:
		reasons = append(reasons, ReasonUnderBudget)
	default:
		reasons = append(reasons, ReasonWithinBudget)
		if budgetScore > 0.8 {
			reasons = append(reasons, ReasonNearBudgetMid)
		}
	}

	if option.TotalSqft >= spec.TargetSqft {
		reasons = append(reasons, ReasonMeetsTargetSize)
	}

	bedrooms := 0
	for _, room := range option.Rooms {
		if strings.Contains(strings.ToLower(room.RoomName), "bedroom") {
			bedrooms++
		}
	}
	if bedrooms == spec.Bedrooms {
		reasons = append(reasons, ReasonBedroomsMatch)
	}

	if option.EfficiencyScore >= 9.0 {
		reasons = append(reasons, ReasonEfficientLayout)
	}
	if option.StyleScore >= 9.0 {
		reasons = append(reasons, ReasonStrongStyle)
	}

	return reasons
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
