package bootstrap

import (
	"fmt"
	"log"

	"github.com/ahmedXDR/auth-visage-backend/internal/config"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"
)

// initializeDatabase creates and initializes the database connection
func initializeDatabase(cfg *config.Config) (*store.Store, error) {
	db, err := store.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.SeedDemoProject && !cfg.IsProduction {
		if err := db.SeedDemoProject(); err != nil {
			log.Printf("Failed to seed demo project: %v", err)
		}
	}

	return db, nil
}
