package main

import (
	"context"
	"fmt"
	"log"

	"github.com/MichaelDViau/Kunaay-Demo/internal/config"
	"github.com/MichaelDViau/Kunaay-Demo/internal/database"
	"github.com/MichaelDViau/Kunaay-Demo/internal/router"
	"github.com/MichaelDViau/Kunaay-Demo/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// setup router
	app, err := router.SetupRouter(cfg, db)
	if err != nil {
		log.Fatalf("setup router: %v", err)
	}

	ctx := context.Background()

	created, err := app.Users.EnsureUser(ctx, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		log.Fatalf("ensure admin user: %v", err)
	}
	if created {
		log.Printf("created admin user %q", cfg.Admin.Username)
	}

	if cfg.App.SeedSamples {
		n, err := store.SeedListings(ctx, app.Listings, store.SampleListings)
		if err != nil {
			log.Fatalf("seed listings: %v", err)
		}
		if n > 0 {
			log.Printf("seeded %d sample listings", n)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := app.Engine.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
