package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Open opens a pool for driverName/dsn, sizes it and verifies the server is
// reachable before returning. The pool is closed again if the ping fails.
func Open(ctx context.Context, driverName, dsn string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, nil
}
