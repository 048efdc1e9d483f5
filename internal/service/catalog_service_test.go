package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelhub/internal/domain"
	"modelhub/internal/storage"
)

func TestCatalog_AddAndList(t *testing.T) {
	objects := storage.NewMemoryService()
	svc := NewCatalogService(objects, "/users/")
	ctx := context.Background()

	item, err := svc.Add(ctx, "alice", domain.ItemKindModels, "resnet.pt", strings.NewReader("weights"), 7)
	require.NoError(t, err)
	assert.Equal(t, "resnet.pt", item.ID)
	assert.Equal(t, "alice", item.Owner)
	assert.Equal(t, int64(7), item.Size)

	_, err = svc.Add(ctx, "alice", domain.ItemKindDatasets, "train.csv", strings.NewReader("a,b"), 3)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "bob", domain.ItemKindModels, "other.pt", strings.NewReader("x"), 1)
	require.NoError(t, err)

	models, err := svc.List(ctx, "alice", domain.ItemKindModels)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "resnet.pt", models[0].ID)
	assert.Equal(t, domain.ItemKindModels, models[0].Kind)

	all, err := objects.ListObjects(ctx, "users/alice/")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalog_AddStripsDirectories(t *testing.T) {
	svc := NewCatalogService(storage.NewMemoryService(), "")
	ctx := context.Background()

	item, err := svc.Add(ctx, "alice", domain.ItemKindModels, "../../bob/models/evil.pt", strings.NewReader("x"), 1)
	require.NoError(t, err)
	assert.Equal(t, "evil.pt", item.ID)

	item, err = svc.Add(ctx, "alice", domain.ItemKindModels, `C:\tmp\win.pt`, strings.NewReader("x"), 1)
	require.NoError(t, err)
	assert.Equal(t, "win.pt", item.ID)

	bob, err := svc.List(ctx, "bob", domain.ItemKindModels)
	require.NoError(t, err)
	assert.Empty(t, bob)
}

func TestCatalog_AddRejectsInvalidNames(t *testing.T) {
	svc := NewCatalogService(storage.NewMemoryService(), "users")
	for _, name := range []string{"", " ", ".", "..", "/"} {
		_, err := svc.Add(context.Background(), "alice", domain.ItemKindModels, name, strings.NewReader("x"), 1)
		require.ErrorIs(t, err, ErrInvalidItemName, name)
	}
}

type failingStorage struct{}

func (failingStorage) ListObjects(context.Context, string) ([]storage.ObjectInfo, error) {
	return nil, errors.New("list failed")
}

func (failingStorage) PutObject(context.Context, string, io.Reader, int64) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, errors.New("put failed")
}

func TestCatalog_StorageErrors(t *testing.T) {
	svc := NewCatalogService(failingStorage{}, "users")
	ctx := context.Background()

	_, err := svc.List(ctx, "alice", domain.ItemKindDatasets)
	require.ErrorContains(t, err, "list failed")

	_, err = svc.Add(ctx, "alice", domain.ItemKindDatasets, "d.csv", strings.NewReader(""), 0)
	require.ErrorContains(t, err, "put failed")
}
