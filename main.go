package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/wnddl111/organoid/internal/config"
	"github.com/wnddl111/organoid/internal/database"
	"github.com/wnddl111/organoid/internal/models"
	"github.com/wnddl111/organoid/internal/repository"
	"github.com/wnddl111/organoid/internal/server"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	templateRepo := repository.NewTemplateRepository(db)
	if err := templateRepo.EnsureDefault(context.Background(), models.DefaultOrganoidTemplate()); err != nil {
		slog.Error("seeding default template", "error", err)
		os.Exit(1)
	}

	srv := server.New(db, cfg)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
