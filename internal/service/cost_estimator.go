package service

import (
	"fmt"
	"math"
	"strings"

	"vibehouse/internal/model"
	"vibehouse/internal/utils"
)

const contingencyRate = 0.10

// Regional construction cost multipliers, matched in this order
var locationMultipliers = []struct {
	city       string
	multiplier float64
}{
	{"san francisco", 1.35},
	{"new york", 1.30},
	{"los angeles", 1.25},
	{"seattle", 1.20},
	{"denver", 1.10},
	{"austin", 1.05},
	{"dallas", 1.00},
	{"atlanta", 0.95},
	{"phoenix", 0.95},
	{"houston", 0.95},
	{"chicago", 1.10},
	{"miami", 1.05},
}

// laborTrade is a trade billed per square foot of living area
type laborTrade struct {
	name string
	rate float64
	// perFootprint bills against the ground-floor footprint instead of total area
	perFootprint bool
	// perExtraFloor adds this fraction of the rate for every floor above the first
	perExtraFloor float64
}

var laborTrades = []laborTrade{
	{name: "Site Work & Excavation", rate: 3.50},
	{name: "Concrete & Foundation", rate: 5.00},
	{name: "Framing", rate: 12.00, perExtraFloor: 0.15},
	{name: "Roofing", rate: 4.50, perFootprint: true},
	{name: "Plumbing", rate: 5.50},
	{name: "Electrical", rate: 5.00},
	{name: "HVAC", rate: 4.50},
	{name: "Insulation", rate: 2.00},
	{name: "Drywall", rate: 3.50},
	{name: "Painting", rate: 3.00},
	{name: "Flooring", rate: 6.00},
	{name: "Cabinetry & Countertops", rate: 4.00},
	{name: "Trim & Finish Carpentry", rate: 3.50},
	{name: "Windows & Doors", rate: 3.00},
	{name: "Exterior Finishes (Siding)", rate: 3.50},
	{name: "Cleanup & Dumpsters", rate: 1.00},
}

// LaborTrades returns the trade names in billing order
func LaborTrades() []string {
	names := make([]string, len(laborTrades))
	for i, trade := range laborTrades {
		names[i] = trade.name
	}
	return names
}

// cityKeys lists the table's city names in declaration order for matching
var cityKeys = func() []string {
	keys := make([]string, len(locationMultipliers))
	for i, entry := range locationMultipliers {
		keys[i] = entry.city
	}
	return keys
}()

// LocationMultiplier returns the regional multiplier for a city name, 1.0 when unknown
func LocationMultiplier(location string) float64 {
	if i := utils.FuzzyMatchKey(location, cityKeys); i >= 0 {
		return locationMultipliers[i].multiplier
	}
	return 1.0
}

// takeoff holds the quantities shared by the material routines
type takeoff struct {
	sqft      float64
	floors    int
	footprint float64
	wallSqft  float64 // exterior wall area, perimeter x 9ft x floors
	bathrooms int
	mult      float64
}

func (t takeoff) item(name, category string, quantity float64, unit string, baseRate float64) model.MaterialItem {
	unitCost := round2(baseRate * t.mult)
	return model.MaterialItem{
		Name:      name,
		Category:  category,
		Quantity:  quantity,
		Unit:      unit,
		UnitCost:  unitCost,
		TotalCost: round2(quantity * unitCost),
	}
}

// CostEstimator produces itemized material, labor and contingency estimates
type CostEstimator struct{}

// NewCostEstimator creates a new cost estimator
func NewCostEstimator() *CostEstimator {
	return &CostEstimator{}
}

// EstimateCosts builds the estimate for design, scaled by the multiplier of location
func (e *CostEstimator) EstimateCosts(design model.DesignOption, location string) model.CostEstimate {
	floors := design.FloorCount()
	sqft := float64(design.TotalSqft)
	footprint := math.Max(sqft/float64(floors), 1)

	t := takeoff{
		sqft:      sqft,
		floors:    floors,
		footprint: footprint,
		wallSqft:  math.Sqrt(footprint) * 4 * 9 * float64(floors),
		bathrooms: design.CountRooms("bath"),
		mult:      LocationMultiplier(location),
	}

	var materials []model.MaterialItem
	for _, routine := range []func(takeoff) []model.MaterialItem{
		concreteItems,
		lumberItems,
		roofingItems,
		insulationItems,
		electricalItems,
		plumbingItems,
		hvacItems,
		drywallItems,
	} {
		materials = append(materials, routine(t)...)
	}

	totalMaterials := 0.0
	for _, m := range materials {
		totalMaterials += m.TotalCost
	}
	totalMaterials = round2(totalMaterials)

	labor := make(map[string]float64, len(laborTrades))
	totalLabor := 0.0
	for _, trade := range laborTrades {
		area := sqft
		if trade.perFootprint {
			area = footprint
		}
		cost := round2(area * trade.rate * t.mult * (1 + trade.perExtraFloor*float64(floors-1)))
		labor[trade.name] = cost
		totalLabor += cost
	}
	totalLabor = round2(totalLabor)

	contingency := round2((totalMaterials + totalLabor) * contingencyRate)

	return model.CostEstimate{
		Materials:          materials,
		LaborCosts:         labor,
		TotalMaterials:     totalMaterials,
		TotalLabor:         totalLabor,
		Contingency:        contingency,
		GrandTotal:         round2(totalMaterials + totalLabor + contingency),
		Location:           strings.TrimSpace(location),
		LocationMultiplier: t.mult,
	}
}

func concreteItems(t takeoff) []model.MaterialItem {
	return []model.MaterialItem{
		t.item("Foundation Concrete (4000 PSI)", "Concrete", round1(t.footprint*0.012), "cu yd", 185.0),
		t.item("Footing Concrete (3500 PSI)", "Concrete", round1(t.footprint*0.006), "cu yd", 175.0),
		t.item("Rebar (#4 & #5 Grade 60)", "Concrete", math.Round(t.footprint*1.2), "lbs", 0.75),
	}
}

func lumberItems(t takeoff) []model.MaterialItem {
	items := []model.MaterialItem{
		t.item("Framing Lumber (SPF #2, 2x6)", "Lumber", math.Round(t.sqft*6.5), "bd ft", 0.85),
		t.item(`OSB Sheathing (7/16")`, "Lumber", math.Ceil((t.wallSqft+t.sqft)/32), "sheets (4x8)", 28.0),
	}
	if t.floors > 1 {
		// 16" on center
		items = append(items, t.item(`Engineered I-Joists (TJI 210, 11-7/8")`, "Lumber", math.Ceil(t.footprint/1.33), "ea", 18.50))
	}
	return items
}

func roofingItems(t takeoff) []model.MaterialItem {
	squares := round1(t.footprint * 1.15 / 100)
	return []model.MaterialItem{
		t.item("Architectural Shingles (30-year)", "Roofing", squares, "sq (100 sqft)", 120.0),
		t.item("Roofing Underlayment (synthetic)", "Roofing", squares, "sq", 25.0),
		t.item("Drip Edge & Flashing", "Roofing", math.Round(math.Sqrt(t.footprint)*4), "lin ft", 2.50),
	}
}

func insulationItems(t takeoff) []model.MaterialItem {
	return []model.MaterialItem{
		t.item("Batt Insulation (R-21, 2x6 walls)", "Insulation", math.Round(t.wallSqft), "sq ft", 1.10),
		t.item("Blown-in Attic Insulation (R-49)", "Insulation", math.Round(t.footprint), "sq ft", 1.75),
	}
}

func electricalItems(t takeoff) []model.MaterialItem {
	outlets := math.Max(12, math.Ceil(t.sqft/80))
	return []model.MaterialItem{
		t.item("Romex NM-B 14/2 Wire", "Electrical", math.Round(t.sqft*3.5), "ft", 0.45),
		t.item("Electrical Panel (200A)", "Electrical", 1, "ea", 1800.0),
		t.item("Outlets / Switches / Covers", "Electrical", outlets, "ea", 12.0),
	}
}

func plumbingItems(t takeoff) []model.MaterialItem {
	pipe := math.Round(t.sqft * 1.2)
	heaters := math.Max(1, math.Ceil(float64(t.bathrooms)/3))
	return []model.MaterialItem{
		t.item(`PEX Tubing (3/4" & 1/2")`, "Plumbing", pipe, "ft", 1.25),
		t.item(`PVC Drain Pipe (3" & 4")`, "Plumbing", math.Round(pipe*0.4), "ft", 3.50),
		t.item("Water Heater (50 gal, gas)", "Plumbing", heaters, "ea", 1400.0),
	}
}

func hvacItems(t takeoff) []model.MaterialItem {
	tonnage := round1(math.Max(1.5, t.sqft/550))
	return []model.MaterialItem{
		t.item(fmt.Sprintf("HVAC System (%.1f-ton split system)", tonnage), "HVAC", 1, "ea", tonnage*3200.0),
		t.item("Ductwork (flex & rigid)", "HVAC", math.Round(t.sqft*0.8), "ft", 6.50),
	}
}

func drywallItems(t takeoff) []model.MaterialItem {
	sheets := math.Ceil((t.wallSqft + t.sqft) / 32)
	return []model.MaterialItem{
		t.item(`Drywall (1/2" 4x8 sheets)`, "Interior", sheets, "sheets", 14.50),
		t.item("Joint Compound & Tape", "Interior", math.Ceil(sheets/10), "buckets", 18.0),
	}
}
