package model

// MaterialItem represents a single line on the materials bill
type MaterialItem struct {
	Name      string  `json:"name" yaml:"name"`
	Category  string  `json:"category" yaml:"category"`
	Quantity  float64 `json:"quantity" yaml:"quantity"`
	Unit      string  `json:"unit" yaml:"unit"`
	UnitCost  float64 `json:"unit_cost" yaml:"unit_cost"`
	TotalCost float64 `json:"total_cost" yaml:"total_cost"`
}

// CostEstimate represents an itemized construction estimate
type CostEstimate struct {
	Materials          []MaterialItem     `json:"materials" yaml:"materials"`
	LaborCosts         map[string]float64 `json:"labor_costs" yaml:"labor_costs"` // By trade
	TotalMaterials     float64            `json:"total_materials" yaml:"total_materials"`
	TotalLabor         float64            `json:"total_labor" yaml:"total_labor"`
	Contingency        float64            `json:"contingency" yaml:"contingency"`
	GrandTotal         float64            `json:"grand_total" yaml:"grand_total"`
	Location           string             `json:"location,omitempty" yaml:"location,omitempty"`
	LocationMultiplier float64            `json:"location_multiplier" yaml:"location_multiplier"`
}
