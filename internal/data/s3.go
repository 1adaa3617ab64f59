// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package data

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Options holds object storage connection settings.
type S3Options struct {
	Endpoint        string `koanf:"endpoint"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	UseSSL          bool   `koanf:"use_ssl"`
	Region          string `koanf:"region"`
}

// ObjectGetter is the subset of the MinIO client used by S3Connector.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

type minioGetter struct {
	client *minio.Client
}

func (g minioGetter) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := g.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// S3Connector reads a CSV or JSON object from S3-compatible storage.
// The format is chosen from the key's extension.
type S3Connector struct {
	Bucket string
	Key    string
	client ObjectGetter
}

// NewS3Connector creates a connector backed by a MinIO client.
func NewS3Connector(opts S3Options, bucket, key string) (*S3Connector, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 connector: bucket and key are required")
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return NewS3ConnectorWithClient(minioGetter{client: client}, bucket, key), nil
}

// NewS3ConnectorWithClient creates a connector around any ObjectGetter.
func NewS3ConnectorWithClient(client ObjectGetter, bucket, key string) *S3Connector {
	return &S3Connector{Bucket: bucket, Key: key, client: client}
}

// Load downloads and parses the object.
func (c *S3Connector) Load(ctx context.Context) (*Frame, error) {
	ext := strings.ToLower(path.Ext(c.Key))
	if ext != ".csv" && ext != ".json" && ext != ".jsonl" {
		return nil, fmt.Errorf("%w: s3 object %q", ErrUnsupportedSource, c.Key)
	}

	obj, err := c.client.GetObject(ctx, c.Bucket, c.Key)
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s/%s: %w", c.Bucket, c.Key, err)
	}
	defer func() { _ = obj.Close() }() //nolint:errcheck // read-only stream

	if ext == ".csv" {
		return ReadCSV(ctx, obj)
	}
	return ReadJSON(ctx, obj)
}
