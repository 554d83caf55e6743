package auth

import (
	"context"

	"github.com/dmitrijs2005/campusevents/internal/server/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the authenticated caller as re-read from the credential store.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IdentityFromUser projects a stored account onto an Identity.
func IdentityFromUser(u *models.User) Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

// CanActFor reports whether the identity may act on resources owned by userID.
func (i Identity) CanActFor(userID string) bool {
	return i.IsAdmin() || i.ID == userID
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
