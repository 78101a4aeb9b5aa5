package service

import (
	"encoding/json"
	"math"
	"testing"

	"vibehouse/internal/model"
)

func TestLocationMultiplier(t *testing.T) {
	tests := []struct {
		location string
		want     float64
	}{
		{"", 1.0},
		{"   ", 1.0},
		{"San Francisco", 1.35},
		{"san francisco, ca", 1.35},
		{"  Seattle ", 1.20},
		{"york", 1.30},
		{"Houston", 0.95},
		{"Boise", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			if got := LocationMultiplier(tt.location); got != tt.want {
				t.Errorf("LocationMultiplier(%q) = %v, want %v", tt.location, got, tt.want)
			}
		})
	}
}

func TestCostEstimator_Totals(t *testing.T) {
	estimator := NewCostEstimator()

	for _, opt := range NewPlanGenerator().Generate(defaultSpec()) {
		for _, location := range []string{"", "Denver", "Phoenix"} {
			est := estimator.EstimateCosts(opt, location)

			sum := 0.0
			for _, item := range est.Materials {
				if item.Quantity < 0 || item.UnitCost < 0 || item.TotalCost < 0 {
					t.Errorf("%s/%s: negative item %+v", opt.Title, location, item)
				}
				if math.Abs(item.TotalCost-round2(item.Quantity*item.UnitCost)) > 1e-9 {
					t.Errorf("%s: item %q total %v != quantity x unit cost", opt.Title, item.Name, item.TotalCost)
				}
				sum += item.TotalCost
			}
			if math.Abs(est.TotalMaterials-sum) > 0.01 {
				t.Errorf("%s/%s: TotalMaterials = %v, items sum to %v", opt.Title, location, est.TotalMaterials, sum)
			}

			labor := 0.0
			for _, v := range est.LaborCosts {
				labor += v
			}
			if math.Abs(est.TotalLabor-labor) > 0.01 {
				t.Errorf("%s/%s: TotalLabor = %v, trades sum to %v", opt.Title, location, est.TotalLabor, labor)
			}

			if want := round2((est.TotalMaterials + est.TotalLabor) * 0.10); est.Contingency != want {
				t.Errorf("%s/%s: Contingency = %v, want %v", opt.Title, location, est.Contingency, want)
			}
			if want := round2(est.TotalMaterials + est.TotalLabor + est.Contingency); est.GrandTotal != want {
				t.Errorf("%s/%s: GrandTotal = %v, want %v", opt.Title, location, est.GrandTotal, want)
			}
		}
	}
}

func TestCostEstimator_LineItems(t *testing.T) {
	est := NewCostEstimator().EstimateCosts(designOf(2000, 1), "")

	if len(est.Materials) != 20 {
		t.Errorf("got %d material items, want 20", len(est.Materials))
	}
	if len(est.LaborCosts) != 16 {
		t.Errorf("got %d labor trades, want 16", len(est.LaborCosts))
	}

	categories := map[string]bool{}
	for _, item := range est.Materials {
		categories[item.Category] = true
	}
	for _, c := range []string{"Concrete", "Lumber", "Roofing", "Insulation", "Electrical", "Plumbing", "HVAC", "Interior"} {
		if !categories[c] {
			t.Errorf("missing category %q", c)
		}
	}

	if got := est.LaborCosts["Site Work & Excavation"]; got != 7000 {
		t.Errorf("Site Work = %v, want 7000", got)
	}
	if est.LocationMultiplier != 1.0 {
		t.Errorf("LocationMultiplier = %v, want 1.0", est.LocationMultiplier)
	}

	// one water heater for a design without bathrooms
	for _, item := range est.Materials {
		if item.Name == "Water Heater (50 gal, gas)" && item.Quantity != 1 {
			t.Errorf("water heaters = %v, want 1", item.Quantity)
		}
	}
}

func TestCostEstimator_MultiStory(t *testing.T) {
	est := NewCostEstimator().EstimateCosts(designOf(3000, 2), "")

	if len(est.Materials) != 21 {
		t.Errorf("got %d material items, want 21 with engineered joists", len(est.Materials))
	}
	if got := est.LaborCosts["Framing"]; math.Abs(got-41400) > 1e-6 {
		t.Errorf("Framing = %v, want 41400", got)
	}
	if got := est.LaborCosts["Roofing"]; got != 6750 {
		t.Errorf("Roofing = %v, want 6750", got)
	}
}

func TestCostEstimator_LocationScaling(t *testing.T) {
	design := designOf(2000, 1)
	base := NewCostEstimator().EstimateCosts(design, "")
	sf := NewCostEstimator().EstimateCosts(design, "San Francisco")

	if sf.LocationMultiplier != 1.35 {
		t.Fatalf("LocationMultiplier = %v, want 1.35", sf.LocationMultiplier)
	}
	if sf.GrandTotal <= base.GrandTotal {
		t.Errorf("San Francisco total %v not above national %v", sf.GrandTotal, base.GrandTotal)
	}
	for _, item := range sf.Materials {
		if item.Name == "Electrical Panel (200A)" && item.UnitCost != 2430 {
			t.Errorf("panel unit cost = %v, want 2430", item.UnitCost)
		}
	}
}

func TestLaborTrades(t *testing.T) {
	trades := LaborTrades()
	if len(trades) != 16 || trades[0] != "Site Work & Excavation" || trades[15] != "Cleanup & Dumpsters" {
		t.Errorf("unexpected trade order: %v", trades)
	}
}

func TestCostEstimator_DegenerateDesign(t *testing.T) {
	tests := []struct {
		name   string
		design model.DesignOption
	}{
		{"no rooms", model.DesignOption{}},
		{"negative area", model.DesignOption{TotalSqft: -500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := NewCostEstimator().EstimateCosts(tt.design, "Austin")
			for _, item := range est.Materials {
				if math.IsNaN(item.Quantity) || math.IsNaN(item.TotalCost) {
					t.Fatalf("%s has NaN values: %+v", item.Name, item)
				}
			}
			if _, err := json.Marshal(est); err != nil {
				t.Errorf("estimate does not marshal: %v", err)
			}
		})
	}
}
