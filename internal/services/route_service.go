package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"freight_routes/internal/apperr"
	"freight_routes/internal/auth"
	"freight_routes/internal/models"
	"freight_routes/internal/repository"
)

// StopInput carries one stop for route creation or full stop-list
// replacement.
type StopInput struct {
	Seq            int        `json:"seq"`
	Type           string     `json:"type"`
	Address        string     `json:"address"`
	Lat            *float64   `json:"lat"`
	Lng            *float64   `json:"lng"`
	TimeWindowFrom *time.Time `json:"time_window_from"`
	TimeWindowTo   *time.Time `json:"time_window_to"`
	ContactName    *string    `json:"contact_name"`
	ContactPhone   *string    `json:"contact_phone"`
}

type CreateRouteInput struct {
	RouteNumber        string      `json:"route_number"`
	Title              string      `json:"title" binding:"required"`
	PlannedDepartureAt *time.Time  `json:"planned_departure_at"`
	Comment            *string     `json:"comment"`
	Stops              []StopInput `json:"stops" binding:"required"`
}

// UpdateRouteInput carries a partial update; absent fields stay untouched.
type UpdateRouteInput struct {
	Title              *string    `json:"title"`
	PlannedDepartureAt *time.Time `json:"planned_departure_at"`
	Comment            *string    `json:"comment"`
	Status             *string    `json:"status"`
}

// RouteService orchestrates route lifecycle operations: creation, partial
// updates, stop-list replacement and cancellation, all gated by the
// authorization policy and the status state machine.
type RouteService struct {
	db     *gorm.DB
	routes *repository.RouteRepository
}

func NewRouteService(db *gorm.DB) *RouteService {
	return &RouteService{db: db, routes: repository.NewRouteRepository(db)}
}

// Create validates the stop list, resolves the route number and persists
// the route in draft together with its stops as one atomic unit.
func (s *RouteService) Create(input CreateRouteInput, actor *models.User) (*models.Route, error) {
	if !auth.Can(actor.Role, auth.ActionEditRoutes) {
		return nil, apperr.Authorization("You don't have permission to create routes")
	}
	if err := validateStops(input.Stops); err != nil {
		return nil, err
	}

	var route *models.Route
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.routes.WithTx(tx)

		number := input.RouteNumber
		if number == "" {
			generated, err := repo.NextRouteNumber(time.Now().Year())
			if err != nil {
				return err
			}
			number = generated
		} else {
			existing, err := repo.ByNumber(number)
			if err != nil {
				return err
			}
			if existing != nil {
				return apperr.Conflict(fmt.Sprintf("Route with number '%s' already exists", number))
			}
		}

		route = &models.Route{
			RouteNumber:        number,
			Title:              input.Title,
			Status:             models.StatusDraft,
			CreatedBy:          actor.ID,
			PlannedDepartureAt: input.PlannedDepartureAt,
			Comment:            input.Comment,
			Stops:              buildStops(input.Stops),
		}
		if err := repo.Create(route); err != nil {
			if repository.IsUniqueViolation(err) {
				return apperr.Conflict(fmt.Sprintf("Route with number '%s' already exists", number))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"route_id":     route.ID,
		"route_number": route.RouteNumber,
		"created_by":   actor.ID,
	}).Info("route created")

	return s.routes.ByID(route.ID)
}

// Update applies a partial field update. Cancelled routes reject all edits;
// status changes go through the transition table, and activation requires
// origin and destination stops.
func (s *RouteService) Update(id uuid.UUID, input UpdateRouteInput, actor *models.User) (*models.Route, error) {
	if !auth.Can(actor.Role, auth.ActionEditRoutes) {
		return nil, apperr.Authorization("You don't have permission to update routes")
	}

	route, err := s.routes.ByID(id)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, apperr.NotFound("Route")
	}
	if route.Status == models.StatusCancelled {
		return nil, apperr.BusinessRule("Cancelled routes cannot be edited")
	}

	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, apperr.Validation(fmt.Sprintf("Unknown route status '%s'", *input.Status))
		}
		if !models.CanTransition(route.Status, *input.Status) {
			return nil, apperr.BusinessRule(
				fmt.Sprintf("Invalid status transition from %s to %s", route.Status, *input.Status))
		}
		if *input.Status == models.StatusActive && !route.HasOriginAndDestination() {
			return nil, apperr.BusinessRule("Route must have origin and destination stops before activation")
		}
	}

	if input.Title != nil {
		route.Title = *input.Title
	}
	if input.PlannedDepartureAt != nil {
		route.PlannedDepartureAt = input.PlannedDepartureAt
	}
	if input.Comment != nil {
		route.Comment = input.Comment
	}
	if input.Status != nil {
		route.Status = *input.Status
	}

	if err := s.routes.Save(route); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"route_id":   route.ID,
		"updated_by": actor.ID,
	}).Info("route updated")

	return route, nil
}

// ReplaceStops validates the new stop list and atomically swaps the
// route's stops for it. Active and cancelled routes reject replacement.
func (s *RouteService) ReplaceStops(id uuid.UUID, stops []StopInput, actor *models.User) (*models.Route, error) {
	if !auth.Can(actor.Role, auth.ActionEditRoutes) {
		return nil, apperr.Authorization("You don't have permission to update routes")
	}

	route, err := s.routes.ByID(id)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, apperr.NotFound("Route")
	}
	if route.Status == models.StatusActive || route.Status == models.StatusCancelled {
		return nil, apperr.BusinessRule(fmt.Sprintf("Cannot modify stops of %s routes", route.Status))
	}
	if err := validateStops(stops); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.routes.WithTx(tx).ReplaceStops(route.ID, buildStops(stops))
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"route_id":    route.ID,
		"updated_by":  actor.ID,
		"stops_count": len(stops),
	}).Info("route stops replaced")

	return s.routes.ByID(route.ID)
}

// Cancel requests the transition to cancelled. Calling it on an already
// cancelled or completed route is an error, not a no-op.
func (s *RouteService) Cancel(id uuid.UUID, actor *models.User) (*models.Route, error) {
	if !auth.Can(actor.Role, auth.ActionEditRoutes) {
		return nil, apperr.Authorization("You don't have permission to cancel routes")
	}

	route, err := s.routes.ByID(id)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, apperr.NotFound("Route")
	}
	if route.Status == models.StatusCancelled {
		return nil, apperr.BusinessRule("Route is already cancelled")
	}
	if route.Status == models.StatusCompleted {
		return nil, apperr.BusinessRule("Completed routes cannot be cancelled")
	}

	route.Status = models.StatusCancelled
	if err := s.routes.Save(route); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"route_id":     route.ID,
		"cancelled_by": actor.ID,
	}).Info("route cancelled")

	return route, nil
}

// Get returns the route with its stops.
func (s *RouteService) Get(id uuid.UUID) (*models.Route, error) {
	route, err := s.routes.ByID(id)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, apperr.NotFound("Route")
	}
	return route, nil
}

// List returns a page of routes matching the filters plus the total count.
func (s *RouteService) List(filters repository.RouteFilters) ([]models.Route, int64, error) {
	if filters.Status != "" && !models.ValidStatus(filters.Status) {
		return nil, 0, apperr.Validation(fmt.Sprintf("Unknown route status '%s'", filters.Status))
	}
	if filters.Limit <= 0 {
		filters.Limit = 20
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	return s.routes.List(filters)
}

// validateStops applies the stop-list rules, identically on creation
// and on full replacement. Checks run in a fixed order, each with its own
// failure. Only presence of origin and destination types is required, not
// their count.
func validateStops(stops []StopInput) error {
	for _, stop := range stops {
		if stop.Seq < 1 {
			return apperr.Validation("Stop sequence numbers must be >= 1")
		}
		if !models.ValidStopType(stop.Type) {
			return apperr.Validation(fmt.Sprintf("Unknown stop type '%s'", stop.Type))
		}
		if stop.Address == "" {
			return apperr.Validation("Stop address must not be empty")
		}
		if stop.Lat != nil && (*stop.Lat < -90 || *stop.Lat > 90) {
			return apperr.Validation("Stop latitude must be between -90 and 90")
		}
		if stop.Lng != nil && (*stop.Lng < -180 || *stop.Lng > 180) {
			return apperr.Validation("Stop longitude must be between -180 and 180")
		}
	}

	if len(stops) < 2 {
		return apperr.Validation("Route must have at least 2 stops")
	}
	hasOrigin, hasDestination := false, false
	for _, stop := range stops {
		switch stop.Type {
		case models.StopTypeOrigin:
			hasOrigin = true
		case models.StopTypeDestination:
			hasDestination = true
		}
	}
	if !hasOrigin {
		return apperr.Validation("Route must have an origin stop")
	}
	if !hasDestination {
		return apperr.Validation("Route must have a destination stop")
	}
	seen := make(map[int]bool, len(stops))
	for _, stop := range stops {
		if seen[stop.Seq] {
			return apperr.Validation("Stop sequences must be unique")
		}
		seen[stop.Seq] = true
	}
	return nil
}

func buildStops(inputs []StopInput) []models.Stop {
	stops := make([]models.Stop, 0, len(inputs))
	for _, in := range inputs {
		stops = append(stops, models.Stop{
			Seq:            in.Seq,
			Type:           in.Type,
			Address:        in.Address,
			Lat:            in.Lat,
			Lng:            in.Lng,
			TimeWindowFrom: in.TimeWindowFrom,
			TimeWindowTo:   in.TimeWindowTo,
			ContactName:    in.ContactName,
			ContactPhone:   in.ContactPhone,
		})
	}
	return stops
}
