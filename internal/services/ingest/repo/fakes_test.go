package repo

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"sdexindex/internal/platform/store"
)

type stmt struct {
	sql  string
	args []any
}

type tag int64

func (t tag) String() string      { return fmt.Sprintf("UPDATE %d", int64(t)) }
func (t tag) RowsAffected() int64 { return int64(t) }

// fakeQ records statements and replays scripted results
type fakeQ struct {
	stmts    []stmt
	affected int64
	execErr  error
	rows     [][]any
	row      []any
	rowErr   error
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.stmts = append(f.stmts, stmt{sql, args})
	if f.execErr != nil {
		return nil, f.execErr
	}
	return tag(f.affected), nil
}

func (f *fakeQ) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.stmts = append(f.stmts, stmt{sql, args})
	return &memRows{data: f.rows, i: -1}, nil
}

func (f *fakeQ) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	f.stmts = append(f.stmts, stmt{sql, args})
	return memRow{vals: f.row, err: f.rowErr}
}

type memRow struct {
	vals []any
	err  error
}

func (r memRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

type memRows struct {
	data [][]any
	i    int
}

func (r *memRows) Next() bool             { r.i++; return r.i < len(r.data) }
func (r *memRows) Scan(dest ...any) error { return assign(dest, r.data[r.i]) }
func (r *memRows) Err() error             { return nil }
func (r *memRows) Close()                 {}
func (r *memRows) Columns() []string      { return nil }

// assign copies vals into pointer dests by reflection
func assign(dest []any, vals []any) error {
	if len(dest) != len(vals) {
		return errors.New("scan arity mismatch")
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if vals[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		dv.Set(reflect.ValueOf(vals[i]))
	}
	return nil
}

// fakeCH records inserts and DDL
type fakeCH struct {
	table   string
	columns []string
	rows    [][]any
	execs   []string
}

func (f *fakeCH) Insert(_ context.Context, table string, columns []string, rows [][]any) error {
	f.table, f.columns = table, columns
	f.rows = append(f.rows, rows...)
	return nil
}
func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) {
	return &memRows{i: -1}, nil
}
func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return nil
}
func (f *fakeCH) Close() error { return nil }
