// Command admin creates an administrator account in the campus events
// database. It reads the same configuration sources as the server.
//
//	admin -d postgres://... -name "Ops" -email ops@kampus.ac.id
package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/campusevents/internal/admincli"
	"github.com/dmitrijs2005/campusevents/internal/dbx"
	"github.com/dmitrijs2005/campusevents/internal/server/config"
	"github.com/dmitrijs2005/campusevents/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campusevents/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	opts, err := admincli.ParseOptions(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := dbx.Open(ctx, "pgx", cfg.DatabaseDSN, 1)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	us := services.NewUserService(db, rm, cfg)

	if _, err := admincli.Run(ctx, us, opts, bufio.NewReader(os.Stdin), os.Stdout); err != nil {
		log.Printf("%v", err)
		db.Close()
		os.Exit(1)
	}
}
