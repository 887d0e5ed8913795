package storage

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/ripixel/liftlog/pkg/errors"
)

// StorageAdapter reads catalog resources from Cloud Storage.
type StorageAdapter struct {
	Client *storage.Client
}

func (a *StorageAdapter) Read(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	rc, err := a.Client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, errors.WrapRetryable(err, errors.CodeStorageError, "failed to open object").
			WithMetadata("bucket", bucketName).
			WithMetadata("object", objectName)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.WrapRetryable(err, errors.CodeStorageError, "failed to read object").
			WithMetadata("bucket", bucketName).
			WithMetadata("object", objectName)
	}
	return data, nil
}
