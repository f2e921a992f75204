package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/matchboard/internal/config"
)

// Initialize creates a database connection pool and verifies the dashboard
// tables exist
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	missing, err := db.MissingTables(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	if len(missing) > 0 {
		db.Close()
		return nil, fmt.Errorf("missing tables: %s; run the migrate command first", strings.Join(missing, ", "))
	}

	return db, nil
}
