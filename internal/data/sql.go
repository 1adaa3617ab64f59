// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// SQLConnector runs a query against a PostgreSQL database through the pgx
// database/sql driver and returns the result set as a Frame.
type SQLConnector struct {
	db    *sql.DB
	query string
}

// NewSQLConnector prepares a connector for dsn. The connection is opened
// lazily on the first Load.
func NewSQLConnector(dsn, query string) (*SQLConnector, error) {
	if query == "" {
		return nil, errors.New("sql connector: query is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &SQLConnector{db: db, query: query}, nil
}

// NewSQLConnectorDB wraps an existing handle.
func NewSQLConnectorDB(db *sql.DB, query string) *SQLConnector {
	return &SQLConnector{db: db, query: query}
}

// Load executes the query.
func (c *SQLConnector) Load(ctx context.Context) (*Frame, error) {
	rows, err := c.db.QueryContext(ctx, c.query)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // rows.Err is checked below

	return scanRows(rows)
}

// Close releases the underlying connection pool.
func (c *SQLConnector) Close() error {
	return c.db.Close()
}

type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRows(rows rowScanner) (*Frame, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	frame := NewFrame(cols...)

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]any, len(cols))
		for i, v := range vals {
			row[i] = scannedValue(v)
		}
		if err := frame.Append(row...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return frame, nil
}

// scannedValue widens driver values to the types CSV and JSON produce, so
// identifiers compare equal whatever the source.
func scannedValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
