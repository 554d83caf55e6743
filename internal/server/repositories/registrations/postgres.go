// Package registrations provides the PostgreSQL-backed registration store.
package registrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campusevents/internal/common"
	"github.com/dmitrijs2005/campusevents/internal/dbx"
	"github.com/dmitrijs2005/campusevents/internal/server/models"
)

const (
	registrationColumns = `id, event_id, user_id, registered_at, status`

	// a concurrent delete can remove the conflicting row between statements
	registerAttempts = 3
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanRegistration(row *sql.Row) (*models.Registration, error) {
	reg := &models.Registration{}
	if err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.RegisteredAt, &reg.Status); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *PostgresRepository) Register(ctx context.Context, eventID, userID string) (*models.Registration, bool, error) {
	insert :=
		`INSERT INTO registrations (event_id, user_id, status)
		 VALUES ($1, $2, 'registered')
		 ON CONFLICT (event_id, user_id) DO NOTHING
		 RETURNING ` + registrationColumns

	revive :=
		`UPDATE registrations SET status = 'registered', registered_at = NOW()
		 WHERE event_id = $1 AND user_id = $2 AND status = 'cancelled'
		 RETURNING ` + registrationColumns

	existing :=
		`SELECT ` + registrationColumns + ` FROM registrations
		 WHERE event_id = $1 AND user_id = $2`

	for range registerAttempts {
		reg, err := scanRegistration(r.db.QueryRowContext(ctx, insert, eventID, userID))
		if err == nil {
			return reg, true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, false, mapWriteErr(err)
		}

		reg, err = scanRegistration(r.db.QueryRowContext(ctx, revive, eventID, userID))
		if err == nil {
			return reg, true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, false, fmt.Errorf("db error: %w", err)
		}

		reg, err = scanRegistration(r.db.QueryRowContext(ctx, existing, eventID, userID))
		if err == nil {
			return reg, false, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, false, fmt.Errorf("db error: %w", err)
		}
	}

	return nil, false, fmt.Errorf("db error: registration for event %s kept changing", eventID)
}

func mapWriteErr(err error) error {
	if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidInput(err) {
		return common.ErrEventNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func mapLookupErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
		return common.ErrRegistrationNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return reg, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) (*models.Registration, error) {
	query := `DELETE FROM registrations WHERE id = $1 RETURNING ` + registrationColumns

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return reg, nil
}

// DeleteActive removes the user's registered row for the event. Cancelled
// rows are left alone and reported as not found.
func (r *PostgresRepository) DeleteActive(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	query :=
		`DELETE FROM registrations
		 WHERE event_id = $1 AND user_id = $2 AND status = 'registered'
		 RETURNING ` + registrationColumns

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return reg, nil
}

func (r *PostgresRepository) ListByEvent(ctx context.Context, eventID string) ([]*models.EventRegistration, error) {
	query :=
		`SELECT r.id, r.event_id, r.user_id, r.registered_at, r.status, u.nama, u.email
		 FROM registrations r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.event_id = $1
		 ORDER BY r.registered_at DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.EventRegistration, 0)
	for rows.Next() {
		item := &models.EventRegistration{}
		err := rows.Scan(&item.ID, &item.EventID, &item.UserID, &item.RegisteredAt, &item.Status,
			&item.UserName, &item.UserEmail)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.UserRegistration, error) {
	query :=
		`SELECT r.id, r.event_id, r.user_id, r.registered_at, r.status,
		        e.name, to_char(e.tanggal, 'YYYY-MM-DD'), e.waktu::text, e.location, e.category
		 FROM registrations r
		 JOIN events e ON e.id = r.event_id
		 WHERE r.user_id = $1
		 ORDER BY r.registered_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.UserRegistration, 0)
	for rows.Next() {
		var waktu sql.NullString
		item := &models.UserRegistration{}
		err := rows.Scan(&item.ID, &item.EventID, &item.UserID, &item.RegisteredAt, &item.Status,
			&item.EventName, &item.Date, &waktu, &item.Location, &item.Category)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if waktu.Valid {
			item.Time = &waktu.String
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
