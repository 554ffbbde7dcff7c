package core

import (
	"database/sql"
	"fmt"

	"github.com/ministryofjustice/pamo-utilities/config"
)

// openDB returns a pooled database handle for the (driver, DSN) pair,
// opening and pinging it on first use.
func (r *Resolver) openDB(driver, dsn string) (*sql.DB, error) {
	key := driver + "|" + dsn
	if db, ok := r.dbs[key]; ok {
		return db.db, nil
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if r.dbs == nil {
		r.dbs = make(map[string]*pooledDB)
	}
	r.dbs[key] = &pooledDB{db: db}
	return db, nil
}

type pooledDB struct {
	db *sql.DB
}

func (p *pooledDB) close() error {
	return p.db.Close()
}

// fetchSQL runs the source's query (or a full scan of its table) and builds
// a Table preserving the result set's column order.
func (r *Resolver) fetchSQL(src *config.SourceConfig) (*Table, error) {
	db, err := r.openDB(src.Driver, src.DSN)
	if err != nil {
		return nil, err
	}

	query := src.Query
	if query == "" {
		query = "SELECT * FROM " + src.Table
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	t := &Table{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		row := make([]any, len(columns))
		for i, val := range values {
			// MySQL driver often returns strings as []byte.
			if b, ok := val.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = val
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return t, nil
}
