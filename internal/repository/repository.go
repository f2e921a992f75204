// Package repository implements the PostgreSQL read paths of the dashboard.
package repository

import (
	"fmt"

	"github.com/yourusername/matchboard/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Match    MatchRepository
	Standing StandingRepository
	H2h      H2hRepository
	Snapshot SnapshotProvider
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Match:    NewPostgresMatchRepository(db),
		Standing: NewPostgresStandingRepository(db),
		H2h:      NewPostgresH2hRepository(db),
		Snapshot: NewPostgresSnapshotProvider(db),
	}, nil
}
