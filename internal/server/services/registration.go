package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/campusevents/internal/common"
	"github.com/dmitrijs2005/campusevents/internal/dbx"
	"github.com/dmitrijs2005/campusevents/internal/server/auth"
	"github.com/dmitrijs2005/campusevents/internal/server/models"
	"github.com/dmitrijs2005/campusevents/internal/server/repositories/repomanager"
)

type RegistrationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRegistrationService(db *sql.DB, m repomanager.RepositoryManager) *RegistrationService {
	return &RegistrationService{db: db, repomanager: m}
}

// Register signs userID up for eventID. Repeating the call is harmless: the
// existing registration comes back with created=false.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID string) (*models.Registration, bool, error) {
	if !validID(eventID) {
		return nil, false, common.ErrEventNotFound
	}

	var (
		reg     *models.Registration
		created bool
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Events(tx).GetByID(ctx, eventID); err != nil {
			return err
		}

		var err error
		reg, created, err = s.repomanager.Registrations(tx).Register(ctx, eventID, userID)
		return err
	})

	if err != nil {
		return nil, false, fmt.Errorf("error registering for event: %w", err)
	}

	return reg, created, nil
}

// CancelForUser removes the user's active registration for the event.
func (s *RegistrationService) CancelForUser(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	if !validID(eventID) {
		return nil, common.ErrRegistrationNotFound
	}

	reg, err := s.repomanager.Registrations(s.db).DeleteActive(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("error cancelling registration: %w", err)
	}
	return reg, nil
}

// CancelByID removes registration regID of event eventID on behalf of
// requester, who must be an admin or the registration's owner.
func (s *RegistrationService) CancelByID(ctx context.Context, eventID, regID string, requester auth.Identity) (*models.Registration, error) {
	if !validID(eventID) || !validID(regID) {
		return nil, common.ErrRegistrationNotFound
	}

	var removed *models.Registration

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Registrations(tx)

		reg, err := repo.GetByID(ctx, regID)
		if err != nil {
			return err
		}
		if reg.EventID != eventID {
			return common.ErrRegistrationNotFound
		}
		if !requester.CanActFor(reg.UserID) {
			return common.ErrForbidden
		}

		removed, err = repo.DeleteByID(ctx, regID)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("error cancelling registration: %w", err)
	}

	return removed, nil
}

// ListByEvent returns the event's registrations, newest first.
func (s *RegistrationService) ListByEvent(ctx context.Context, eventID string) ([]*models.EventRegistration, error) {
	if !validID(eventID) {
		return nil, common.ErrEventNotFound
	}

	if _, err := s.repomanager.Events(s.db).GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("error loading event: %w", err)
	}

	list, err := s.repomanager.Registrations(s.db).ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	return list, nil
}

// ListByUser returns the account's registrations, newest first.
func (s *RegistrationService) ListByUser(ctx context.Context, userID string) ([]*models.UserRegistration, error) {
	if !validID(userID) {
		return []*models.UserRegistration{}, nil
	}

	list, err := s.repomanager.Registrations(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	return list, nil
}

// ListForUser is ListByUser on behalf of requester: only admins may look at
// another account's registrations.
func (s *RegistrationService) ListForUser(ctx context.Context, requester auth.Identity, userID string) ([]*models.UserRegistration, error) {
	if !requester.CanActFor(userID) {
		return nil, common.ErrForbidden
	}
	return s.ListByUser(ctx, userID)
}
