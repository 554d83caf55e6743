package users

import (
	"context"

	"github.com/dmitrijs2005/campusevents/internal/server/models"
)

// Repository is the credential store. Email uniqueness is enforced by the
// store: Create reports common.ErrDuplicateEmail on conflict.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
