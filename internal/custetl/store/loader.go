package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/vaibhaw-/custetl/internal/custetl/etlerr"
	"github.com/vaibhaw-/custetl/internal/custetl/logger"
	"github.com/vaibhaw-/custetl/internal/custetl/records"
)

// maxParams is the lowest bind parameter limit among the targets (sqlite's
// default SQLITE_MAX_VARIABLE_NUMBER); postgres allows 65535.
const maxParams = 32766

// LoaderOptions control how country tables are replaced.
type LoaderOptions struct {
	TablePrefix string
	BatchSize   int
	// SingleTransaction replaces every country table in one transaction so a
	// failure leaves all tables untouched.
	SingleTransaction bool
}

// Loader replaces per-country tables with the current batch.
type Loader struct {
	conn *Conn
	opts LoaderOptions
}

// TableSummary describes one replaced country table.
type TableSummary struct {
	Country string `json:"country"`
	Table   string `json:"table"`
	Rows    int    `json:"rows"`
}

// Summary is what Load did.
type Summary struct {
	Tables    []TableSummary `json:"tables"`
	Rows      int            `json:"rows"`
	Committed []string       `json:"committed"`
}

// NewLoader returns a Loader writing through conn.
func NewLoader(conn *Conn, opts LoaderOptions) *Loader {
	perBatch := maxParams / len(columnDefs)
	if opts.BatchSize <= 0 || opts.BatchSize > perBatch {
		opts.BatchSize = perBatch
	}
	return &Loader{conn: conn, opts: opts}
}

// countryBatch holds every row bound for one table. Countries whose names
// sanitise to the same table share a batch, so the table is cleared once.
type countryBatch struct {
	table     string
	countries []string
	rows      []records.Customer
}

func (b *countryBatch) country() string { return strings.Join(b.countries, ",") }

// group splits rows by destination table, keeping first-appearance order of
// tables and of the countries within each table. Table names are matched
// case-insensitively, as sqlite, unquoted postgres identifiers and mysql with
// lower_case_table_names all fold case; the first spelling seen is used.
func (l *Loader) group(rows []records.Customer) []*countryBatch {
	var order []*countryBatch
	byTable := map[string]*countryBatch{}
	for _, r := range rows {
		table := TableName(l.opts.TablePrefix, r.Country)
		key := strings.ToLower(table)
		b, ok := byTable[key]
		if !ok {
			b = &countryBatch{table: table}
			byTable[key] = b
			order = append(order, b)
		}
		if !slices.Contains(b.countries, r.Country) {
			b.countries = append(b.countries, r.Country)
		}
		b.rows = append(b.rows, r)
	}
	return order
}

// Load ensures every country table exists, then replaces each table's
// contents with that country's rows. By default each country commits on its
// own; a failure returns an *etlerr.LoadError listing the countries already
// committed, and later countries are not touched.
func (l *Loader) Load(ctx context.Context, rows []records.Customer) (Summary, error) {
	log := logger.L()
	batches := l.group(rows)
	var summary Summary

	for _, b := range batches {
		if _, err := l.conn.db.ExecContext(ctx, l.conn.dialect.CreateTableSQL(b.table)); err != nil {
			return summary, etlerr.NewLoadError(b.country(), b.table, nil, fmt.Errorf("create table: %w", err))
		}
		log.Infow("table created or already exists", "table", b.table, "country", b.country())
	}

	if l.opts.SingleTransaction {
		return l.loadAll(ctx, batches)
	}

	for _, b := range batches {
		start := time.Now()
		tx, err := l.conn.db.BeginTx(ctx, nil)
		if err != nil {
			return summary, etlerr.NewLoadError(b.country(), b.table, summary.Committed, fmt.Errorf("begin: %w", err))
		}
		if err := l.replace(ctx, tx, b); err != nil {
			_ = tx.Rollback()
			return summary, etlerr.NewLoadError(b.country(), b.table, summary.Committed, err)
		}
		if err := tx.Commit(); err != nil {
			return summary, etlerr.NewLoadError(b.country(), b.table, summary.Committed, fmt.Errorf("commit: %w", err))
		}
		summary.add(b)
		log.Infow("country table replaced",
			"table", b.table,
			"rows", len(b.rows),
			"duration", time.Since(start))
	}
	return summary, nil
}

func (l *Loader) loadAll(ctx context.Context, batches []*countryBatch) (Summary, error) {
	log := logger.L()
	var summary Summary

	tx, err := l.conn.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, etlerr.NewLoadError("", "", nil, fmt.Errorf("begin: %w", err))
	}
	for _, b := range batches {
		if err := l.replace(ctx, tx, b); err != nil {
			_ = tx.Rollback()
			return summary, etlerr.NewLoadError(b.country(), b.table, nil, err)
		}
		log.Debugw("country table staged", "table", b.table, "rows", len(b.rows))
	}
	if err := tx.Commit(); err != nil {
		return summary, etlerr.NewLoadError("", "", nil, fmt.Errorf("commit: %w", err))
	}
	for _, b := range batches {
		summary.add(b)
	}
	log.Infow("all country tables replaced in one transaction",
		"tables", len(batches),
		"rows", summary.Rows)
	return summary, nil
}

// replace empties the table and bulk inserts the batch inside tx.
func (l *Loader) replace(ctx context.Context, tx *sql.Tx, b *countryBatch) error {
	d := l.conn.dialect
	if _, err := tx.ExecContext(ctx, d.ClearTableSQL(b.table)); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}

	for start := 0; start < len(b.rows); start += l.opts.BatchSize {
		end := start + l.opts.BatchSize
		if end > len(b.rows) {
			end = len(b.rows)
		}
		chunk := b.rows[start:end]

		args := make([]any, 0, len(chunk)*len(columnDefs))
		for _, r := range chunk {
			args = append(args, bindValues(r)...)
		}
		if _, err := tx.ExecContext(ctx, d.InsertSQL(b.table, len(chunk)), args...); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
	}
	return nil
}

// bindValues renders dates as YYYY-MM-DD so every driver stores a plain DATE.
func bindValues(r records.Customer) []any {
	vals := r.Values()
	for i, v := range vals {
		if t, ok := v.(time.Time); ok {
			vals[i] = t.Format("2006-01-02")
		}
	}
	return vals
}

func (s *Summary) add(b *countryBatch) {
	s.Tables = append(s.Tables, TableSummary{Country: b.country(), Table: b.table, Rows: len(b.rows)})
	s.Rows += len(b.rows)
	s.Committed = append(s.Committed, b.countries...)
}
