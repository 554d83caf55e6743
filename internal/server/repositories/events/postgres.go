// Package events provides the PostgreSQL-backed event catalog.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/campusevents/internal/common"
	"github.com/dmitrijs2005/campusevents/internal/dbx"
	"github.com/dmitrijs2005/campusevents/internal/server/models"
)

// eventColumns renders dates and times as text so they round-trip in the
// same shape the API accepts them.
const eventColumns = `id, name, to_char(tanggal, 'YYYY-MM-DD'), waktu::text, location, category, description, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (*models.Event, error) {
	var (
		e           models.Event
		waktu, desc sql.NullString
		updatedAt   sql.NullTime
	)

	err := s.Scan(&e.ID, &e.Name, &e.Date, &waktu, &e.Location, &e.Category, &desc, &e.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if waktu.Valid {
		e.Time = &waktu.String
	}
	if desc.Valid {
		e.Description = &desc.String
	}
	if updatedAt.Valid {
		e.UpdatedAt = &updatedAt.Time
	}

	return &e, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func whereClause(f models.EventFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Location != "" {
		add("LOWER(location) = LOWER($%d)", f.Location)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Search != "" {
		add(`name ILIKE $%d ESCAPE '\'`, "%"+likeEscaper.Replace(f.Search)+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, int, error) {
	where, args := whereClause(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM events%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		eventColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Event, 0, filter.Limit)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return items, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, in models.EventInput) (*models.Event, error) {
	query :=
		`INSERT INTO events (name, tanggal, waktu, location, category, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + eventColumns

	e, err := scanEvent(r.db.QueryRowContext(ctx, query,
		in.Name, in.Date, in.Time, in.Location, in.Category, in.Description))
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return nil, fmt.Errorf("%w: invalid event field value", common.ErrorValidation)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// Update applies the non-nil fields of in and stamps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, id string, in models.EventInput) (*models.Event, error) {
	query :=
		`UPDATE events SET
		   name = COALESCE($2, name),
		   tanggal = COALESCE($3, tanggal),
		   waktu = COALESCE($4, waktu),
		   location = COALESCE($5, location),
		   category = COALESCE($6, category),
		   description = COALESCE($7, description),
		   updated_at = NOW()
		 WHERE id = $1
		 RETURNING ` + eventColumns

	e, err := scanEvent(r.db.QueryRowContext(ctx, query,
		id, in.Name, in.Date, in.Time, in.Location, in.Category, in.Description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrEventNotFound
		}
		if dbx.IsInvalidInput(err) {
			return nil, fmt.Errorf("%w: invalid event field value", common.ErrorValidation)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.Event, error) {
	query := `DELETE FROM events WHERE id = $1 RETURNING ` + eventColumns

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return e, nil
}

func mapLookupErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
		return common.ErrEventNotFound
	}
	return fmt.Errorf("db error: %w", err)
}
