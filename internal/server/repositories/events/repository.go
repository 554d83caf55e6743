package events

import (
	"context"

	"github.com/dmitrijs2005/campusevents/internal/server/models"
)

// Repository persists the event catalog. List expects a normalized filter
// (Page >= 1, Limit >= 1) and returns one page plus the total match count.
type Repository interface {
	List(ctx context.Context, filter models.EventFilter) ([]*models.Event, int, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, in models.EventInput) (*models.Event, error)
	Update(ctx context.Context, id string, in models.EventInput) (*models.Event, error)
	Delete(ctx context.Context, id string) (*models.Event, error)
}
