// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package data

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
)

// Connector loads a dataset into a Frame.
type Connector interface {
	Load(ctx context.Context) (*Frame, error)
}

// Options configures connectors created by Open.
type Options struct {
	// Query is the SQL statement run by database connectors.
	Query string

	// Table is read in full by the SQLite connector when Query is empty.
	Table string

	// S3 holds object storage credentials for s3:// URIs.
	S3 S3Options
}

// Open selects a connector for uri by scheme, falling back to file extension.
//
// Supported: csv://path, json://path, parquet://path, sqlite://path,
// postgres:// and postgresql:// DSNs, s3://bucket/key, and bare paths ending
// in .csv, .json, .jsonl, .parquet, .db or .sqlite.
func Open(uri string, opts Options) (Connector, error) {
	scheme, rest, hasScheme := strings.Cut(uri, "://")
	if hasScheme {
		switch strings.ToLower(scheme) {
		case "csv":
			return &CSVConnector{Path: rest}, nil
		case "json", "jsonl":
			return &JSONConnector{Path: rest}, nil
		case "parquet":
			return &ParquetConnector{Path: rest}, nil
		case "sqlite":
			return NewSQLiteConnector(rest, opts.Query, opts.Table)
		case "postgres", "postgresql":
			return NewSQLConnector(uri, opts.Query)
		case "s3":
			u, err := url.Parse(uri)
			if err != nil {
				return nil, fmt.Errorf("parse s3 uri: %w", err)
			}
			return NewS3Connector(opts.S3, u.Host, strings.TrimPrefix(u.Path, "/"))
		default:
			return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, scheme)
		}
	}

	switch strings.ToLower(filepath.Ext(uri)) {
	case ".csv":
		return &CSVConnector{Path: uri}, nil
	case ".json", ".jsonl":
		return &JSONConnector{Path: uri}, nil
	case ".parquet":
		return &ParquetConnector{Path: uri}, nil
	case ".db", ".sqlite":
		return NewSQLiteConnector(uri, opts.Query, opts.Table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, uri)
	}
}

// Cached wraps a connector and serves a copy of the first successful load
// until Refresh is called.
type Cached struct {
	inner Connector
	mu    sync.Mutex
	frame *Frame
}

// NewCached wraps c with an in-memory cache.
func NewCached(c Connector) *Cached {
	return &Cached{inner: c}
}

// Load returns the cached frame, loading it on first use.
func (c *Cached) Load(ctx context.Context) (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frame == nil {
		f, err := c.inner.Load(ctx)
		if err != nil {
			return nil, err
		}
		c.frame = f
	}
	return c.frame.Clone(), nil
}

// Refresh drops the cached frame so the next Load hits the source.
func (c *Cached) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame = nil
}

// Close closes the wrapped connector when it holds resources.
func (c *Cached) Close() error {
	if closer, ok := c.inner.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
