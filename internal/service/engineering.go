package service

import (
	"fmt"
	"math"
	"strings"

	"vibehouse/internal/model"
)

// Design loads for light wood-frame residential construction (PSF)
const (
	deadLoadFloorPSF = 15.0
	liveLoadFloorPSF = 40.0
	deadLoadRoofPSF  = 12.0
	liveLoadRoofPSF  = 20.0
	windLoadPSF      = 25.0
)

var baseMaterialSpecs = map[string]string{
	"foundation_concrete": "4000 PSI normal-weight concrete",
	"rebar":               "#4 and #5 Grade 60 rebar",
	"framing_lumber":      "SPF #2 or better, kiln-dried",
	"sheathing":           `7/16" OSB structural sheathing`,
	"fasteners":           "16d common nails per IRC Table R602.3(1)",
}

// Plumbing fixtures per room, first matching name fragment wins
var fixturesByRoom = []struct {
	fragment string
	fixtures int
}{
	{"primary bath", 4},
	{"half bath", 2},
	{"bath", 3},
	{"kitchen", 2},
	{"laundry", 2},
}

// EngineeringAnalyzer derives structural and MEP reports from a design option
type EngineeringAnalyzer struct{}

// NewEngineeringAnalyzer creates a new engineering analyzer
func NewEngineeringAnalyzer() *EngineeringAnalyzer {
	return &EngineeringAnalyzer{}
}

// AnalyzeStructure selects foundation and framing systems and computes gravity loads
func (a *EngineeringAnalyzer) AnalyzeStructure(design model.DesignOption) model.EngineeringReport {
	sqft := float64(design.TotalSqft)
	floors := design.FloorCount()
	foundation := selectFoundation(design.TotalSqft, floors)
	system := selectStructuralSystem(design.TotalSqft)

	footprint := math.Max(sqft/float64(floors), 1)
	gravityKips := round1(((deadLoadFloorPSF+liveLoadFloorPSF)*sqft*float64(floors) +
		(deadLoadRoofPSF+liveLoadRoofPSF)*footprint) / 1000)
	perimeter := 4 * math.Sqrt(footprint)
	bearingPLF := math.Round(gravityKips * 1000 / perimeter)

	specs := make(map[string]string, len(baseMaterialSpecs)+3)
	for k, v := range baseMaterialSpecs {
		specs[k] = v
	}
	if strings.Contains(system, "steel") {
		specs["steel_beams"] = "W10x22 A992 Grade 50 wide-flange"
		specs["steel_columns"] = `HSS 4x4x1/4" A500 Grade B`
	}
	if strings.Contains(system, "engineered") {
		specs["lvl_beams"] = `1-3/4" x 11-7/8" LVL (2.0E)`
		specs["tji_joists"] = `TJI 210 at 16" O.C.`
	}
	if foundation == model.FoundationBasement {
		specs["basement_walls"] = `10" poured concrete or 12" CMU`
	}

	notes := []string{
		"Designed to IRC 2021 for one- and two-family dwellings.",
		fmt.Sprintf("Foundation type: %s. Verify local frost-depth requirements.", foundation),
		fmt.Sprintf("Roof framing sized for %.0f PSF live load. Check local snow loads and adjust if required.", liveLoadRoofPSF),
		"Wall bracing for lateral loads per IRC Section R602.10.",
		"Structural connections use Simpson Strong-Tie or equivalent hardware.",
	}
	if floors >= 2 {
		notes = append(notes, "Upper-floor framing needs an engineered joist schedule. Size final members from TJI span tables.")
	}
	if design.TotalSqft > 3500 {
		notes = append(notes, "Large footprint may need intermediate bearing walls or steel beams. Have a licensed structural engineer confirm.")
	}

	return model.EngineeringReport{
		FoundationType:   foundation,
		StructuralSystem: system,
		LoadCalculations: model.LoadCalculations{
			DeadLoadFloorPSF: deadLoadFloorPSF,
			LiveLoadFloorPSF: liveLoadFloorPSF,
			DeadLoadRoofPSF:  deadLoadRoofPSF,
			LiveLoadRoofPSF:  liveLoadRoofPSF,
			WindLoadPSF:      windLoadPSF,
			TotalGravityKips: gravityKips,
			BearingWallPLF:   bearingPLF,
		},
		MaterialSpecs:   specs,
		ComplianceNotes: notes,
	}
}

// GenerateMEPPlan sizes electrical, plumbing and HVAC systems
func (a *EngineeringAnalyzer) GenerateMEPPlan(design model.DesignOption) model.MEPPlan {
	sqft := float64(design.TotalSqft)
	floors := design.FloorCount()

	// General-purpose circuits plus dedicated ones: kitchen (2), laundry, HVAC,
	// water heater, one per bathroom and one for the garage
	circuits := max(8, int(math.Ceil(sqft/500)))
	dedicated := 5 + design.CountRooms("bath")
	if design.CountRooms("garage") > 0 {
		dedicated++
	}
	circuits += dedicated

	fixtures := 0
	for _, room := range design.Rooms {
		name := strings.ToLower(room.RoomName)
		for _, entry := range fixturesByRoom {
			if strings.Contains(name, entry.fragment) {
				fixtures += entry.fixtures
				break
			}
		}
	}
	fixtures = max(fixtures, 6)

	tonnage := round1(math.Max(1.5, sqft/550))
	if floors >= 2 {
		tonnage = round1(tonnage + 0.5)
	}

	electrical := float64(circuits)*280 + sqft*6
	plumbing := float64(fixtures)*750 + sqft*4
	hvac := tonnage*3200 + sqft*3

	return model.MEPPlan{
		ElectricalCircuits: circuits,
		PlumbingFixtures:   fixtures,
		HVACTonnage:        tonnage,
		EstimatedCost:      int(electrical + plumbing + hvac),
	}
}

func selectFoundation(sqft, floors int) string {
	switch {
	case floors >= 3 || sqft > 4000:
		return model.FoundationBasement
	case floors == 2 || sqft > 2500:
		return model.FoundationCrawl
	default:
		return model.FoundationSlab
	}
}

func selectStructuralSystem(sqft int) string {
	switch {
	case sqft > 5000:
		return model.StructuralSteel
	case sqft > 3500:
		return model.StructuralEngineered
	default:
		return model.StructuralConventional
	}
}
