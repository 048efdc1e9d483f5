package storage

import (
	"context"
	"io"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service stores catalog objects in a flat, prefix addressed namespace.
type Service interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	PutObject(ctx context.Context, key string, body io.Reader, size int64) (ObjectInfo, error)
}
