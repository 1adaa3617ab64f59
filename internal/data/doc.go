// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package data loads tabular interaction data and prepares it for training.
//
// # Connectors
//
//   - CSVConnector: local CSV with header row
//   - JSONConnector: JSON array of objects or JSON lines
//   - SQLConnector: PostgreSQL via the pgx database/sql driver
//   - SQLiteConnector: SQLite files through DuckDB's sqlite_scanner extension
//   - ParquetConnector: Parquet files read by an in-memory DuckDB
//   - S3Connector: CSV/JSON objects in S3-compatible storage (MinIO client)
//
// Open picks a connector from a URI. Cached wraps any connector with an
// in-memory copy.
//
// # Transforms
//
//   - MinMaxScaler: rescales numeric columns
//   - Filter: keeps rows matching a CEL expression
//
// Pipeline ties a connector, a Schema check, and transforms together.
package data
