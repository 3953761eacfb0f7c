package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Route lifecycle states.
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// statusTransitions is the single source of truth for the route lifecycle.
// Completed and cancelled are terminal.
var statusTransitions = map[string][]string{
	StatusDraft:     {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether the lifecycle allows moving from one
// status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known route statuses.
func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// Route represents a planned freight transport route with its ordered stops.
// A route exclusively owns its stops.
type Route struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	RouteNumber        string     `json:"route_number" gorm:"uniqueIndex;not null"`
	Title              string     `json:"title" gorm:"not null"`
	Status             string     `json:"status" gorm:"not null;default:draft;index"`
	CreatedBy          uuid.UUID  `json:"created_by" gorm:"type:uuid;not null;index"`
	PlannedDepartureAt *time.Time `json:"planned_departure_at"`
	Comment            *string    `json:"comment"`
	CreatedAt          time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Stops []Stop `json:"stops" gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE;"`
}

func (r *Route) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// HasOriginAndDestination reports whether the loaded stop list contains at
// least one origin and one destination stop. Required before activation.
func (r *Route) HasOriginAndDestination() bool {
	hasOrigin, hasDestination := false, false
	for _, s := range r.Stops {
		switch s.Type {
		case StopTypeOrigin:
			hasOrigin = true
		case StopTypeDestination:
			hasDestination = true
		}
	}
	return hasOrigin && hasDestination
}
