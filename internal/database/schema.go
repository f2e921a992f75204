package database

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var schemaSQL string

// Tables lists the tables the dashboard reads from
var Tables = []string{"matches", "h2h_matches", "standings"}

// EnsureSchema creates the dashboard tables and indexes when they are missing.
// All statements apply in one transaction.
func (db *DB) EnsureSchema(ctx context.Context) error {
	return db.WithTransaction(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
		for _, stmt := range SchemaStatements() {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}

// MissingTables returns the dashboard tables absent from the public schema
func (db *DB) MissingTables(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = current_schema() AND table_name::text = ANY($1::text[])`,
		Tables,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool, len(Tables))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return missingFrom(present), nil
}

func missingFrom(present map[string]bool) []string {
	var missing []string
	for _, table := range Tables {
		if !present[table] {
			missing = append(missing, table)
		}
	}
	return missing
}

// SchemaStatements returns the individual statements of the bundled schema
func SchemaStatements() []string {
	var statements []string
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			statements = append(statements, s)
		}
	}
	return statements
}
