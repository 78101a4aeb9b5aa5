package model

// Foundation types
const (
	FoundationSlab     = "slab-on-grade"
	FoundationCrawl    = "crawl space"
	FoundationBasement = "full basement"
)

// Structural systems
const (
	StructuralConventional = "conventional wood frame"
	StructuralEngineered   = "engineered wood frame"
	StructuralSteel        = "steel frame with wood infill"
)

// EngineeringReport represents the structural analysis of a design option
type EngineeringReport struct {
	FoundationType   string            `json:"foundation_type" yaml:"foundation_type"`
	StructuralSystem string            `json:"structural_system" yaml:"structural_system"`
	LoadCalculations LoadCalculations  `json:"load_calculations" yaml:"load_calculations"`
	MaterialSpecs    map[string]string `json:"material_specs" yaml:"material_specs"`
	ComplianceNotes  []string          `json:"compliance_notes" yaml:"compliance_notes"`
}

// LoadCalculations holds the key load values in PSF / PLF / kips
type LoadCalculations struct {
	DeadLoadFloorPSF float64 `json:"dead_load_floor_psf" yaml:"dead_load_floor_psf"`
	LiveLoadFloorPSF float64 `json:"live_load_floor_psf" yaml:"live_load_floor_psf"`
	DeadLoadRoofPSF  float64 `json:"dead_load_roof_psf" yaml:"dead_load_roof_psf"`
	LiveLoadRoofPSF  float64 `json:"live_load_roof_psf" yaml:"live_load_roof_psf"`
	WindLoadPSF      float64 `json:"wind_load_psf" yaml:"wind_load_psf"`
	TotalGravityKips float64 `json:"total_gravity_kips" yaml:"total_gravity_kips"`
	BearingWallPLF   float64 `json:"bearing_wall_plf" yaml:"bearing_wall_plf"`
}

// MEPPlan represents the mechanical / electrical / plumbing sizing for a design option
type MEPPlan struct {
	ElectricalCircuits int     `json:"electrical_circuits" yaml:"electrical_circuits"`
	PlumbingFixtures   int     `json:"plumbing_fixtures" yaml:"plumbing_fixtures"`
	HVACTonnage        float64 `json:"hvac_tonnage" yaml:"hvac_tonnage"`
	EstimatedCost      int     `json:"estimated_cost" yaml:"estimated_cost"`
}
