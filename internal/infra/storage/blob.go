// Package storage stores uploaded files in a gocloud.dev blob bucket. The
// bucket URL decides the backing driver: file:// for local disk, mem:// for
// tests, and cloud providers via their respective schemes.
package storage

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"

	// Register the bucket drivers used in deployments and tests.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

const uploadPrefix = "uploads/"

// blobStorage implements service.FileStorage on top of a blob bucket.
type blobStorage struct {
	bucket  *blob.Bucket
	baseURL string
	logger  *slog.Logger
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and wires its shutdown into the app lifecycle.
func New(params Params) (service.FileStorage, error) {
	if params.Config.Storage == nil || params.Config.Storage.BucketURL == "" {
		return nil, errors.New("storage bucket URL is missing")
	}

	bucket, err := blob.OpenBucket(params.Ctx, params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open storage bucket")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return newBlobStorage(bucket, params.Config.Storage.PublicBaseURL, params.Logger), nil
}

func newBlobStorage(bucket *blob.Bucket, baseURL string, logger *slog.Logger) service.FileStorage {
	return &blobStorage{
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// Store writes the content under a random key that keeps the original file
// extension, and returns the object's key and public URL.
func (s *blobStorage) Store(ctx context.Context, nameHint, contentType string, content io.Reader) (*service.StoredFile, error) {
	key := uploadPrefix + uuid.NewString() + strings.ToLower(path.Ext(nameHint))

	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open bucket writer")
	}

	if _, err := io.Copy(writer, content); err != nil {
		writer.Close()

		return nil, errors.Wrap(err, "failed to write uploaded file")
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize uploaded file")
	}

	s.logger.Debug("stored uploaded file", slog.String("key", key))

	return &service.StoredFile{
		Key: key,
		URL: s.baseURL + "/" + key,
	}, nil
}

// Delete removes a previously stored object by key.
func (s *blobStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	if err := s.bucket.Delete(ctx, key); err != nil {
		return errors.Wrapf(err, "failed to delete stored file %s", key)
	}

	return nil
}
