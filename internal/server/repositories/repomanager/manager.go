package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/campusevents/internal/dbx"
	"github.com/dmitrijs2005/campusevents/internal/server/repositories/events"
	"github.com/dmitrijs2005/campusevents/internal/server/repositories/registrations"
	"github.com/dmitrijs2005/campusevents/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Events(db dbx.DBTX) events.Repository
	Registrations(db dbx.DBTX) registrations.Repository
}
