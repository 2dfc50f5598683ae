package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/MuseumTrail/MT-Backend/internal/catalog"
	"github.com/MuseumTrail/MT-Backend/internal/config"
	"github.com/MuseumTrail/MT-Backend/internal/db"
	"github.com/MuseumTrail/MT-Backend/internal/seeds"
	"github.com/MuseumTrail/MT-Backend/internal/server"
)

func main() {
	_ = godotenv.Load(".env.local")
	cfg := config.LoadFromEnv()

	db.Connect(db.Config{DSN: cfg.DatabaseURL, Schema: cfg.DBSchema})
	if err := server.Migrate(db.DB); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("❌ Catalog failed: %v", err)
	}

	if err := seeds.SeedAll(context.Background(), db.DB, cat); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
