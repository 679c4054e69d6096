package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"quill/internal/config"
	"quill/internal/repository/memory"
	"quill/internal/repository/postgres"

	"github.com/joho/godotenv"
)

// Sets up and seeds the notebooks table for the postgres storage driver.
func main() {
	dropTable := flag.Bool("drop-table", false, "Drop the notebooks table before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed notebooks")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.Environment == "prod" && *dropTable {
		log.Fatalf("Refusing to drop tables in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if *dropTable {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, cfg.NotebooksTable)); err != nil {
			log.Fatalf("Failed to drop table: %v", err)
		}
		logger.Info("table dropped", "table", cfg.NotebooksTable)
	}

	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id      TEXT PRIMARY KEY,
			name    TEXT NOT NULL,
			owner   TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			public  BOOLEAN NOT NULL DEFAULT FALSE
		)
	`, cfg.NotebooksTable)
	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}
	logger.Info("schema ready", "table", cfg.NotebooksTable)

	if *schemaOnly {
		return
	}

	repo := postgres.NewNotebookRepository(pool, cfg.NotebooksTable)
	seeded := 0
	for _, notebook := range memory.SeedNotebooks() {
		if err := repo.Save(ctx, &notebook); err != nil {
			// Re-running the seeder against existing fixtures is fine
			logger.Warn("skipping notebook", "id", notebook.ID, "error", err)
			continue
		}
		seeded++
	}

	logger.Info("seeding complete", "seeded", seeded)
}
