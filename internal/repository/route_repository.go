package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight_routes/internal/models"
)

// RouteFilters are the optional, conjunctive list filters.
type RouteFilters struct {
	Status      string
	Query       string
	CreatedBy   *uuid.UUID
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// RouteRepository is the persistence gateway for routes and their stops.
type RouteRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *RouteRepository) WithTx(tx *gorm.DB) *RouteRepository {
	return &RouteRepository{db: tx}
}

// ByID returns the route with its stops ordered by sequence, or nil when
// absent.
func (r *RouteRepository) ByID(id uuid.UUID) (*models.Route, error) {
	var route models.Route
	err := r.db.Preload("Stops", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	}).First(&route, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

// ByNumber returns the route with the given route number, or nil when
// absent.
func (r *RouteRepository) ByNumber(number string) (*models.Route, error) {
	var route models.Route
	if err := r.db.First(&route, "route_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

// List returns a page of routes matching the filters, ordered by creation
// time descending, plus the total matching count.
func (r *RouteRepository) List(f RouteFilters) ([]models.Route, int64, error) {
	query := r.db.Model(&models.Route{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Query != "" {
		pattern := "%" + strings.ToLower(f.Query) + "%"
		query = query.Where("LOWER(route_number) LIKE ? OR LOWER(title) LIKE ?", pattern, pattern)
	}
	if f.CreatedBy != nil {
		query = query.Where("created_by = ?", *f.CreatedBy)
	}
	if f.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		query = query.Where("created_at <= ?", *f.CreatedTo)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	routes := make([]models.Route, 0)
	err := query.Session(&gorm.Session{}).Preload("Stops", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	}).Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&routes).Error
	if err != nil {
		return nil, 0, err
	}
	return routes, total, nil
}

// NextRouteNumber generates the next route number for the given year as
// RT-<year>-<4-digit counter>, one greater than the highest counter issued
// that year. The first route of a year gets 0001. Zero-padding keeps the
// lexicographic max equal to the numeric max.
func (r *RouteRepository) NextRouteNumber(year int) (string, error) {
	prefix := fmt.Sprintf("RT-%d-", year)

	var numbers []string
	err := r.db.Model(&models.Route{}).
		Where("route_number LIKE ?", prefix+"%").
		Order("route_number DESC").
		Limit(1).
		Pluck("route_number", &numbers).Error
	if err != nil {
		return "", err
	}

	counter := 1
	if len(numbers) > 0 {
		last := numbers[0]
		if n, err := strconv.Atoi(last[strings.LastIndex(last, "-")+1:]); err == nil {
			counter = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, counter), nil
}

// Create persists the route together with its stops.
func (r *RouteRepository) Create(route *models.Route) error {
	return r.db.Create(route).Error
}

// Save persists field changes on an existing route without touching its
// stop rows.
func (r *RouteRepository) Save(route *models.Route) error {
	return r.db.Omit("Stops").Save(route).Error
}

// ReplaceStops removes every stop of the route and inserts the new list
// with fresh identities. Callers wrap this in a transaction together with
// any related writes.
func (r *RouteRepository) ReplaceStops(routeID uuid.UUID, stops []models.Stop) error {
	if err := r.db.Where("route_id = ?", routeID).Delete(&models.Stop{}).Error; err != nil {
		return err
	}
	for i := range stops {
		stops[i].ID = uuid.Nil
		stops[i].RouteID = routeID
	}
	return r.db.Create(&stops).Error
}
