package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"vibehouse/internal/model"
)

const (
	defaultCostPerSqft = 185.0
	circulationRatio   = 0.08
)

// costPerSqft holds base construction cost per square foot by style (USD)
var costPerSqft = map[string]float64{
	"modern":       195.0,
	"contemporary": 200.0,
	"farmhouse":    175.0,
	"craftsman":    185.0,
	"colonial":     180.0,
	"ranch":        160.0,
}

// designTier describes one of the three generated options
type designTier struct {
	title           string
	description     string
	sqftMultiplier  float64
	rateFactor      float64
	styleScore      float64
	efficiencyScore float64
	ranchBonus      float64
}

var designTiers = []designTier{
	{
		title: "Efficient Living",
		description: "Compact and budget-conscious, every square foot works hard. " +
			"An open living and dining area keeps the footprint small while staying comfortable to live in.",
		sqftMultiplier:  0.85,
		rateFactor:      0.90,
		styleScore:      7.5,
		efficiencyScore: 9.2,
		ranchBonus:      0.3,
	},
	{
		title: "Spacious Comfort",
		description: "Balanced room sizes with easy flow between spaces. " +
			"The kitchen opens onto dining and living, bedrooms are generous and storage is ample.",
		sqftMultiplier:  1.00,
		rateFactor:      1.00,
		styleScore:      8.5,
		efficiencyScore: 7.8,
	},
	{
		title: "Premium Design",
		description: "Oversized rooms and high-end finishes with space to grow into. " +
			"Includes a grand foyer, a spa-style primary bath and a chef's kitchen with island seating.",
		sqftMultiplier:  1.20,
		rateFactor:      1.12,
		styleScore:      9.4,
		efficiencyScore: 6.5,
	},
}

// PlanGenerator produces floor-plan options from a requirement specification
type PlanGenerator struct {
	newID func() string
}

// NewPlanGenerator creates a plan generator using random option IDs
func NewPlanGenerator() *PlanGenerator {
	return &PlanGenerator{newID: NewOptionID}
}

// NewPlanGeneratorWithIDs creates a plan generator with a custom option ID source,
// which makes the whole output reproducible
func NewPlanGeneratorWithIDs(newID func() string) *PlanGenerator {
	if newID == nil {
		newID = NewOptionID
	}
	return &PlanGenerator{newID: newID}
}

// NewOptionID returns "opt_" followed by 8 random hex characters
func NewOptionID() string {
	return "opt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Generate returns exactly three options: efficient, balanced and premium
func (g *PlanGenerator) Generate(spec model.RequirementSpecification) []model.DesignOption {
	rate := styleCostPerSqft(spec.Style)
	options := make([]model.DesignOption, 0, len(designTiers))

	for _, tier := range designTiers {
		rooms := buildRooms(spec, tier.sqftMultiplier)
		total := model.LivingSqft(rooms)

		styleScore := tier.styleScore
		if spec.Style == "ranch" {
			styleScore += tier.ranchBonus
		}

		options = append(options, model.DesignOption{
			OptionID:        g.newID(),
			Title:           tier.title,
			Description:     tier.description,
			TotalSqft:       total,
			Rooms:           rooms,
			EstimatedCost:   int(math.Round(float64(total) * rate * tier.rateFactor)),
			StyleScore:      round1(styleScore),
			EfficiencyScore: tier.efficiencyScore,
		})
	}

	return options
}

func styleCostPerSqft(style string) float64 {
	if rate, ok := costPerSqft[style]; ok {
		return rate
	}
	return defaultCostPerSqft
}

// buildRooms lays out the room program scaled by multiplier
func buildRooms(spec model.RequirementSpecification, multiplier float64) []model.RoomLayout {
	floors := max(spec.Floors, 1)
	size := func(base int) int {
		return int(float64(base) * multiplier)
	}

	rooms := []model.RoomLayout{
		{RoomName: "Primary Bedroom", Sqft: size(220), Floor: floors},
	}

	// Secondary bedrooms fill the upper floors first
	for i := 1; i < spec.Bedrooms; i++ {
		floor := 1
		if floors > 1 {
			floor = min(i+1, floors)
		}
		rooms = append(rooms, model.RoomLayout{RoomName: fmt.Sprintf("Bedroom %d", i+1), Sqft: size(150), Floor: floor})
	}

	fullBaths := int(spec.Bathrooms)
	rooms = append(rooms, model.RoomLayout{RoomName: "Primary Bathroom", Sqft: size(100), Floor: floors})
	for i := 1; i < fullBaths; i++ {
		floor := 1
		if floors > 1 {
			floor = max(1, floors-i+1)
		}
		rooms = append(rooms, model.RoomLayout{RoomName: fmt.Sprintf("Bathroom %d", i+1), Sqft: size(65), Floor: floor})
	}
	if math.Mod(spec.Bathrooms, 1) >= 0.5 {
		rooms = append(rooms, model.RoomLayout{RoomName: "Half Bath", Sqft: size(35), Floor: 1})
	}

	rooms = append(rooms,
		model.RoomLayout{RoomName: "Kitchen", Sqft: size(200), Floor: 1},
		model.RoomLayout{RoomName: "Living Room", Sqft: size(280), Floor: 1},
		model.RoomLayout{RoomName: "Dining Room", Sqft: size(160), Floor: 1},
		model.RoomLayout{RoomName: "Laundry Room", Sqft: size(60), Floor: 1},
		model.RoomLayout{RoomName: "Foyer / Entry", Sqft: size(50), Floor: 1},
	)

	if spec.Garage {
		rooms = append(rooms, model.RoomLayout{RoomName: model.GarageRoomName, Sqft: size(440), Floor: 1})
	}
	if spec.OutdoorSpace {
		rooms = append(rooms, model.RoomLayout{RoomName: "Covered Patio / Outdoor Living", Sqft: size(200), Floor: 1})
	}

	for _, req := range spec.SpecialRequirements {
		rooms = append(rooms, model.RoomLayout{RoomName: req, Sqft: size(120), Floor: floors})
	}

	circulation := int(float64(model.LivingSqft(rooms)) * circulationRatio)
	rooms = append(rooms, model.RoomLayout{RoomName: "Hallways / Circulation", Sqft: circulation, Floor: 1})

	return rooms
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
