package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryService is a process local Service used when no bucket is configured.
type MemoryService struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	data     []byte
	modified time.Time
}

func NewMemoryService() *MemoryService {
	return &MemoryService{
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

func (m *MemoryService) PutObject(ctx context.Context, key string, body io.Reader, _ int64) (ObjectInfo, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return ObjectInfo{}, fmt.Errorf("object key is required")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("read object %s: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}

	modified := m.now().UTC()
	m.mu.Lock()
	m.objects[key] = memoryObject{data: data, modified: modified}
	m.mu.Unlock()

	return ObjectInfo{Key: key, Size: int64(len(data)), LastModified: &modified}, nil
}

// ListObjects returns objects under prefix ordered by key.
func (m *MemoryService) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var objects []ObjectInfo
	for key, obj := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		modified := obj.modified
		objects = append(objects, ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			LastModified: &modified,
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

var _ Service = (*MemoryService)(nil)
