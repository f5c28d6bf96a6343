// @title CodeDrill API
// @version 1.0
// @description Backend for the CodeDrill coding practice platform.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"codedrill_backend/internal/app"
	"codedrill_backend/internal/config"
	"codedrill_backend/internal/model"
	"codedrill_backend/internal/repository"
	"codedrill_backend/pkg/configwatcher"
	"codedrill_backend/pkg/database"
	"codedrill_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "run database migrations on startup")
	makeAdmin := flag.String("make-admin", "", "grant the admin role to the user with this email and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *makeAdmin != "" {
		db, err := database.InitDB(&cfg.Database, false)
		if err != nil {
			log.Fatalf("Failed to connect: %v", err)
		}
		if err := repository.NewUserRepository(db).UpdateRoleByEmail(*makeAdmin, model.RoleAdmin); err != nil {
			log.Fatalf("Failed to promote %s: %v", *makeAdmin, err)
		}
		log.Printf("User %s is now an admin", *makeAdmin)
		return
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Migration complete, exiting")
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
