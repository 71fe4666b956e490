package repo

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"sdexindex/internal/modkit/repokit"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// EnsureSchema creates the ingest tables; every statement is IF NOT EXISTS
// ch may be nil when clickhouse is disabled
func EnsureSchema(ctx context.Context, pg repokit.Queryer, ch repokit.Clickhouse) error {
	if pg != nil {
		stmts, err := statements("schema/pg.sql")
		if err != nil {
			return err
		}
		for _, s := range stmts {
			if _, err := pg.Exec(ctx, s); err != nil {
				return fmt.Errorf("pg schema: %w", err)
			}
		}
	}
	if ch != nil {
		stmts, err := statements("schema/ch.sql")
		if err != nil {
			return err
		}
		for _, s := range stmts {
			if err := ch.Exec(ctx, s); err != nil {
				return fmt.Errorf("ch schema: %w", err)
			}
		}
	}
	return nil
}

// statements splits a schema file on ';', the files hold no procedural code
func statements(name string) ([]string, error) {
	b, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var out []string
	for part := range strings.SplitSeq(string(b), ";") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
