package registrations

import (
	"context"

	"github.com/dmitrijs2005/campusevents/internal/server/models"
)

// Repository persists event registrations. At most one row exists per
// (event, user) pair; the store's unique constraint guarantees it.
type Repository interface {
	// Register makes userID registered for eventID. created reports whether
	// the call produced a new active registration (fresh insert or revival
	// of a cancelled row) rather than returning an already active one.
	Register(ctx context.Context, eventID, userID string) (reg *models.Registration, created bool, err error)
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	DeleteByID(ctx context.Context, id string) (*models.Registration, error)
	DeleteActive(ctx context.Context, eventID, userID string) (*models.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]*models.EventRegistration, error)
	ListByUser(ctx context.Context, userID string) ([]*models.UserRegistration, error)
}
