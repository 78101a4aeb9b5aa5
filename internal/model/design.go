package model

import "strings"

// GarageRoomName is the name of the unconditioned garage room
const GarageRoomName = "Garage"

// RoomLayout represents a single room within a floor plan
type RoomLayout struct {
	RoomName string `json:"room_name" yaml:"room_name"`
	Sqft     int    `json:"sqft" yaml:"sqft"`
	Floor    int    `json:"floor" yaml:"floor"`
}

// IsGarage reports whether the room is the unconditioned garage
func (r RoomLayout) IsGarage() bool {
	return r.RoomName == GarageRoomName
}

// DesignOption represents one of the generated floor-plan options
type DesignOption struct {
	OptionID        string       `json:"option_id" yaml:"option_id"`
	Title           string       `json:"title" yaml:"title"`
	Description     string       `json:"description" yaml:"description"`
	TotalSqft       int          `json:"total_sqft" yaml:"total_sqft"` // Living area, garage excluded
	Rooms           []RoomLayout `json:"rooms" yaml:"rooms"`
	EstimatedCost   int          `json:"estimated_cost" yaml:"estimated_cost"`
	StyleScore      float64      `json:"style_score" yaml:"style_score"`
	EfficiencyScore float64      `json:"efficiency_score" yaml:"efficiency_score"`
	FloorPlanURL    *string      `json:"floor_plan_url" yaml:"floor_plan_url"` // Rendering is external, always nil here
}

// FloorCount returns the highest floor any room sits on, at least 1
func (d DesignOption) FloorCount() int {
	floors := 1
	for _, room := range d.Rooms {
		if room.Floor > floors {
			floors = room.Floor
		}
	}
	return floors
}

// CountRooms counts rooms whose lowercase name contains fragment
func (d DesignOption) CountRooms(fragment string) int {
	count := 0
	for _, room := range d.Rooms {
		if strings.Contains(strings.ToLower(room.RoomName), fragment) {
			count++
		}
	}
	return count
}

// LivingSqft sums all non-garage room areas
func LivingSqft(rooms []RoomLayout) int {
	total := 0
	for _, room := range rooms {
		if !room.IsGarage() {
			total += room.Sqft
		}
	}
	return total
}
