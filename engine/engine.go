// Package engine implements the Query Executor: CREATE/INSERT/SELECT/
// UPDATE/DELETE/LIST TABLES semantics, constraint enforcement, index
// use, foreign-key cascades, and multi-way joins. It is the component
// the Parser's request tree and any programmatic caller both feed
// into.
package engine

import (
	"context"
	"sort"

	"github.com/SamsonMokaya/pesapal-challenge/config"
	"github.com/SamsonMokaya/pesapal-challenge/dberr"
	"github.com/SamsonMokaya/pesapal-challenge/enginelog"
	"github.com/SamsonMokaya/pesapal-challenge/index"
	"github.com/SamsonMokaya/pesapal-challenge/schema"
	"github.com/SamsonMokaya/pesapal-challenge/storage"
	"github.com/SamsonMokaya/pesapal-challenge/value"
)

// Row is a result row handed back to callers: column name to raw Go
// value (nil, int64, float64, bool, or string). Field order inside a
// row is not significant.
type Row map[string]any

// Engine owns no table state itself; every operation loads its
// table(s) through Store, mutates in memory, and saves back.
type Engine struct {
	store storage.Store
	cfg   *config.Config
	log   *enginelog.Logger
}

// New creates an Engine over store. cfg and log may be nil: nil cfg
// falls back to config.Default(), nil log disables logging.
func New(store storage.Store, cfg *config.Config, log *enginelog.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{store: store, cfg: cfg, log: log}
}

func (e *Engine) logOp(ctx context.Context, op, table string) func(error) {
	if e.log == nil {
		return func(error) {}
	}
	return e.log.Operation(ctx, op, table)
}

// loadTable loads a table's snapshot, wrapping a missing table in a
// Schema-kind error.
func (e *Engine) loadTable(table string) (storage.Snapshot, error) {
	exists, err := e.store.Exists(table)
	if err != nil {
		return storage.Snapshot{}, dberr.Wrap(dberr.Storage, err, "checking table %q", table)
	}
	if !exists {
		return storage.Snapshot{}, dberr.New(dberr.Schema, "table %q does not exist", table)
	}
	snap, err := e.store.Load(table)
	if err != nil {
		return storage.Snapshot{}, dberr.Wrap(dberr.Storage, err, "loading table %q", table)
	}
	return snap, nil
}

// ListTables returns every table name in lexicographic order.
func (e *Engine) ListTables(ctx context.Context) ([]string, error) {
	done := e.logOp(ctx, "LIST TABLES", "")
	names, err := e.store.List()
	if err != nil {
		err = dberr.Wrap(dberr.Storage, err, "listing tables")
		done(err)
		return nil, err
	}
	sort.Strings(names)
	done(nil)
	return names, nil
}

// rowToResult converts an internal Row (column -> Value) into the
// caller-facing shape (column -> raw Go value).
func rowToResult(row index.Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v.Raw()
	}
	return out
}

// buildIndexes builds every declared index of sch from scratch over
// rows, used by CREATE TABLE (empty rows) and by DELETE's full rebuild
// of the affected table's indexes from the new row vector.
func buildIndexes(sch *schema.Schema, rows []index.Row) map[string]index.Index {
	out := make(map[string]index.Index, len(sch.Indexes))
	for _, id := range sch.Indexes {
		out[id.Name] = index.Build(rows, id.Column)
	}
	return out
}

// maxColumnValue scans rows for the largest Int value in column,
// returning 0 if there are no rows or none carry a non-Null value
// there. Used to compute "current-max-pk" for auto-increment.
func maxColumnValue(rows []index.Row, column string) int64 {
	var max int64
	for _, row := range rows {
		v, ok := row[column]
		if !ok || v.IsNull() || v.Kind != value.Int {
			continue
		}
		if v.Int > max {
			max = v.Int
		}
	}
	return max
}
