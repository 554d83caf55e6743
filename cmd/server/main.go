package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/campusevents/internal/buildinfo"
	"github.com/dmitrijs2005/campusevents/internal/server"
	"github.com/dmitrijs2005/campusevents/internal/server/config"
	"github.com/gin-gonic/gin"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
