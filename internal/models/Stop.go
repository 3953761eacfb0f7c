package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stop types. Every persisted route needs at least one origin and one
// destination; intermediate waypoints use StopTypeWaypoint.
const (
	StopTypeOrigin      = "origin"
	StopTypeWaypoint    = "stop"
	StopTypeDestination = "destination"
)

// Stop is a single waypoint on a route. Seq orders stops within the route
// and is unique per route.
type Stop struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	RouteID        uuid.UUID  `json:"route_id" gorm:"type:uuid;not null;index;uniqueIndex:uq_stops_route_seq"`
	Seq            int        `json:"seq" gorm:"not null;uniqueIndex:uq_stops_route_seq"`
	Type           string     `json:"type" gorm:"not null"`
	Address        string     `json:"address" gorm:"not null"`
	Lat            *float64   `json:"lat"`
	Lng            *float64   `json:"lng"`
	TimeWindowFrom *time.Time `json:"time_window_from"`
	TimeWindowTo   *time.Time `json:"time_window_to"`
	ContactName    *string    `json:"contact_name"`
	ContactPhone   *string    `json:"contact_phone"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (s *Stop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ValidStopType reports whether t is one of the known stop types.
func ValidStopType(t string) bool {
	switch t {
	case StopTypeOrigin, StopTypeWaypoint, StopTypeDestination:
		return true
	}
	return false
}
