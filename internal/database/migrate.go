package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.surql
var migrationFS embed.FS

// Migrations returns the embedded schema files in apply order
func Migrations() ([]string, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.surql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		content, err := migrationFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		out = append(out, string(content))
	}
	return out, nil
}

// Migrate applies every embedded migration. The statements are idempotent,
// so it is safe to run on each start.
func Migrate(ctx context.Context, db Database) error {
	migs, err := Migrations()
	if err != nil {
		return err
	}
	for i, mig := range migs {
		if err := db.Execute(ctx, mig, nil); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
