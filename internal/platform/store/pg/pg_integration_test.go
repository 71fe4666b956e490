//go:build integration_pg

package pg

import (
	"context"
	"testing"
	"time"

	"sdexindex/internal/platform/testkit"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_Integration(t *testing.T) {
	dsn := testkit.StartPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	p, err := Open(ctx, Config{URL: dsn, MaxConns: 2, AppName: "sdex-pg-integration"}, nil, func(pc *pgxpool.Config) {
		pc.MinConns = 1
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(p.Close)

	conn, err := p.Pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer conn.Release()

	var app string
	if err := conn.QueryRow(ctx, `select current_setting('application_name')`).Scan(&app); err != nil {
		t.Fatalf("application_name: %v", err)
	}
	if app != "sdex-pg-integration" {
		t.Fatalf("application_name = %q", app)
	}

	if _, err := conn.Exec(ctx, `create temporary table pairs (selling text, buying text, n int)`); err != nil {
		t.Fatalf("create temp: %v", err)
	}
	b := &pgx.Batch{}
	b.Queue(`insert into pairs values ($1, $2, $3)`, "native", "USDC:GA5Z", 2)
	b.Queue(`insert into pairs values ($1, $2, $3)`, "native", "EURT:GAP5", 1)
	if err := conn.SendBatch(ctx, b).Close(); err != nil {
		t.Fatalf("batch: %v", err)
	}

	type pair struct {
		Selling string
		Buying  string
		N       int
	}
	rows, err := conn.Query(ctx, `select selling, buying, n from pairs order by n desc`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	got, err := pgx.CollectRows(rows, pgx.RowToStructByPos[pair])
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 2 || got[0].Buying != "USDC:GA5Z" {
		t.Fatalf("rows = %+v", got)
	}
}
