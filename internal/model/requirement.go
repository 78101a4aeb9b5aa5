package model

import (
	"database/sql/driver"
	"encoding/json"
)

// RequirementSpecification represents the structured requirements parsed from a vibe description
type RequirementSpecification struct {
	Bedrooms            int         `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms           float64     `json:"bathrooms" yaml:"bathrooms"` // 0.5 = half bath
	Floors              int         `json:"floors" yaml:"floors"`
	Style               string      `json:"style" yaml:"style"`
	BudgetRange         BudgetRange `json:"budget_range" yaml:"budget_range"`
	LotSqft             int         `json:"lot_sqft" yaml:"lot_sqft"`
	TargetSqft          int         `json:"target_sqft" yaml:"target_sqft"`
	SpecialRequirements []string    `json:"special_requirements" yaml:"special_requirements"`
	Garage              bool        `json:"garage" yaml:"garage"`
	OutdoorSpace        bool        `json:"outdoor_space" yaml:"outdoor_space"`
}

// BudgetRange represents the low and high end of a budget in USD
type BudgetRange struct {
	Low  int `json:"low" yaml:"low"`
	High int `json:"high" yaml:"high"`
}

// Midpoint returns the center of the budget range
func (b BudgetRange) Midpoint() float64 {
	return float64(b.Low+b.High) / 2
}

// Contains reports whether cost falls inside the range (inclusive)
func (b BudgetRange) Contains(cost int) bool {
	return cost >= b.Low && cost <= b.High
}

// FeatureVector returns a fixed-length numeric fingerprint used for similarity lookup.
// Components are scaled so that each lands roughly in the 0-10 range.
func (r RequirementSpecification) FeatureVector() []float32 {
	return []float32{
		float32(r.Bedrooms),
		float32(r.Bathrooms),
		float32(r.Floors),
		float32(r.TargetSqft) / 1000,
		float32(r.BudgetRange.Midpoint() / 100000),
		float32(r.LotSqft) / 10000,
	}
}

// FeatureVectorDimensions is the length of FeatureVector
const FeatureVectorDimensions = 6

// Value implements driver.Valuer interface
func (r RequirementSpecification) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner interface
func (r *RequirementSpecification) Scan(value interface{}) error {
	return scanJSON(value, r)
}
