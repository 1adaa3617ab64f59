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
	"strings"

	// Registers the "duckdb" database/sql driver.
	_ "github.com/duckdb/duckdb-go/v2"
)

// ParquetConnector reads a Parquet file through an in-memory DuckDB.
type ParquetConnector struct {
	Path string
}

// Load reads every row of the file.
func (c *ParquetConnector) Load(ctx context.Context) (*Frame, error) {
	query := fmt.Sprintf("SELECT * FROM read_parquet(%s)", quoteLiteral(c.Path))
	return duckdbQuery(ctx, nil, query)
}

// SQLiteConnector reads a SQLite database file through DuckDB's
// sqlite_scanner extension. Query takes precedence over Table.
type SQLiteConnector struct {
	Path  string
	Query string
	Table string
}

// NewSQLiteConnector checks that a query or a table name is set.
func NewSQLiteConnector(path, query, table string) (*SQLiteConnector, error) {
	if query == "" && table == "" {
		return nil, errors.New("sqlite connector: query or table is required")
	}
	return &SQLiteConnector{Path: path, Query: query, Table: table}, nil
}

// Load attaches the database read-only and runs the query against it.
func (c *SQLiteConnector) Load(ctx context.Context) (*Frame, error) {
	query := c.Query
	if query == "" {
		query = "SELECT * FROM " + quoteIdent(c.Table)
	}
	setup := func(ctx context.Context, conn *sql.Conn) error {
		if err := loadSQLiteExtension(ctx, conn); err != nil {
			return fmt.Errorf("load sqlite extension: %w", err)
		}
		attach := fmt.Sprintf("ATTACH %s AS src (TYPE SQLITE, READ_ONLY)", quoteLiteral(c.Path))
		if _, err := conn.ExecContext(ctx, attach); err != nil {
			return fmt.Errorf("attach %s: %w", c.Path, err)
		}
		if _, err := conn.ExecContext(ctx, "USE src"); err != nil {
			return fmt.Errorf("use attached database: %w", err)
		}
		return nil
	}
	return duckdbQuery(ctx, setup, query)
}

// duckdbQuery opens a throwaway in-memory DuckDB, runs setup and query on a
// single connection, and scans the result.
func duckdbQuery(ctx context.Context, setup func(context.Context, *sql.Conn) error, query string) (*Frame, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close() //nolint:errcheck // in-memory database, nothing to flush

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("duckdb connection: %w", err)
	}
	defer conn.Close() //nolint:errcheck // released with db

	if setup != nil {
		if err := setup(ctx, conn); err != nil {
			return nil, err
		}
	}

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // rows.Err is checked in scanRows

	return scanRows(rows)
}

// loadSQLiteExtension installs and loads sqlite_scanner. INSTALL fails when
// the extension is already present or offline, so LOAD and FORCE INSTALL
// are tried before giving up.
func loadSQLiteExtension(ctx context.Context, conn *sql.Conn) error {
	if _, err := conn.ExecContext(ctx, "INSTALL sqlite_scanner;"); err != nil {
		_, loadErr := conn.ExecContext(ctx, "LOAD sqlite_scanner;")
		if loadErr == nil {
			return nil
		}
		if _, forceErr := conn.ExecContext(ctx, "FORCE INSTALL sqlite_scanner;"); forceErr != nil {
			return fmt.Errorf("install error: %w, load error: %w, force install error: %w", err, loadErr, forceErr)
		}
	}
	_, err := conn.ExecContext(ctx, "LOAD sqlite_scanner;")
	return err
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
