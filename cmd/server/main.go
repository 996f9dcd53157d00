package main

import (
	"context"
	"fmt"

	"github.com/nuxeo/drive-sync/internal/adapter"
	"github.com/nuxeo/drive-sync/internal/config"
	httphandler "github.com/nuxeo/drive-sync/internal/handler/http"
	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/internal/server"
	"github.com/nuxeo/drive-sync/internal/service"
	"github.com/nuxeo/drive-sync/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("drive-sync-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	db, err := store.NewConnectPostgres(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to postgres")
	}

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	stores := store.NewStores(db, log)
	resolver := adapter.NewResolver(stores.Docs, log)
	services := service.NewServices(stores, resolver, cfg, log)
	handler := httphandler.NewHandler(services, log)

	srv, err := server.NewServer(handler, cfg.Server, log, services.Scroll.Close)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
