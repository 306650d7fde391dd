package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// Migrate applies the bundled schema. Every statement is idempotent.
func Migrate(ctx context.Context, db PgxIface) error {
	// no arguments, so pgx sends it over the simple protocol as one batch
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
