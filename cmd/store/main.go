package main

import (
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/agromart/client/internal/config"
	"github.com/agromart/client/internal/simstore"
)

// main runs the simulated remote store. With DATABASE_URL set it keeps
// its catalog and orders in Postgres; otherwise it runs in memory from
// the seed catalog.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var repo simstore.Repository
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatalf("ping database: %v", err)
		}

		pg := simstore.NewPostgresRepository(db)
		if err := pg.EnsureSchema(simstore.SeedProducts()); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
		repo = pg
		log.Printf("store backed by postgres")
	} else {
		repo = simstore.NewInMemoryRepository(simstore.SeedProducts())
		log.Printf("store backed by in-memory seed catalog")
	}

	app := simstore.New(repo, cfg.JWTSecret, cfg.ShippingFee)
	log.Printf("simulated store listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("store stopped: %v", err)
	}
}
