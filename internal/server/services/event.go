package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/campusevents/internal/common"
	"github.com/dmitrijs2005/campusevents/internal/server/models"
	"github.com/dmitrijs2005/campusevents/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Listing page bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type EventService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewEventService(db *sql.DB, m repomanager.RepositoryManager) *EventService {
	return &EventService{db: db, repomanager: m}
}

// normalizePage applies the listing defaults and caps limit at MaxLimit.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// List returns one page of events, newest first.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) (*models.EventPage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repomanager.Events(s.db).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}

	return &models.EventPage{Total: total, Page: filter.Page, Limit: filter.Limit, Items: items}, nil
}

// Search is List narrowed to a case-insensitive name match. An empty query
// matches every event.
func (s *EventService) Search(ctx context.Context, q string, page, limit int) (*models.EventPage, error) {
	return s.List(ctx, models.EventFilter{Search: q, Page: page, Limit: limit})
}

func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	if !validID(id) {
		return nil, common.ErrEventNotFound
	}

	e, err := s.repomanager.Events(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading event: %w", err)
	}
	return e, nil
}

func (s *EventService) Create(ctx context.Context, in models.EventInput) (*models.Event, error) {
	if in.Name == nil || in.Date == nil || in.Location == nil || in.Category == nil {
		return nil, fmt.Errorf("%w: name, date, location and category are required", common.ErrorValidation)
	}

	e, err := s.repomanager.Events(s.db).Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}
	return e, nil
}

// Update changes only the fields set in in.
func (s *EventService) Update(ctx context.Context, id string, in models.EventInput) (*models.Event, error) {
	if !validID(id) {
		return nil, common.ErrEventNotFound
	}

	e, err := s.repomanager.Events(s.db).Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return e, nil
}

// Delete removes the event together with its registrations and returns the
// removed event.
func (s *EventService) Delete(ctx context.Context, id string) (*models.Event, error) {
	if !validID(id) {
		return nil, common.ErrEventNotFound
	}

	e, err := s.repomanager.Events(s.db).Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error deleting event: %w", err)
	}
	return e, nil
}
