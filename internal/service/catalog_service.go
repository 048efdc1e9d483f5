package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"modelhub/internal/domain"
	"modelhub/internal/storage"
)

// CatalogService lists and stores the models and datasets owned by a user.
type CatalogService interface {
	List(ctx context.Context, owner string, kind domain.ItemKind) ([]domain.Item, error)
	Add(ctx context.Context, owner string, kind domain.ItemKind, name string, body io.Reader, size int64) (*domain.Item, error)
}

type catalogService struct {
	objects   storage.Service
	keyPrefix string
}

// NewCatalogService keeps items under <keyPrefix>/<owner>/<kind>/<name>.
func NewCatalogService(objects storage.Service, keyPrefix string) CatalogService {
	return &catalogService{
		objects:   objects,
		keyPrefix: strings.Trim(keyPrefix, "/"),
	}
}

func (s *catalogService) List(ctx context.Context, owner string, kind domain.ItemKind) ([]domain.Item, error) {
	prefix := s.prefix(owner, kind)
	objects, err := s.objects.ListObjects(ctx, prefix)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(objects))
	for _, obj := range objects {
		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		items = append(items, domain.Item{
			ID:        name,
			Owner:     owner,
			Kind:      kind,
			Size:      obj.Size,
			UpdatedAt: obj.LastModified,
		})
	}
	return items, nil
}

func (s *catalogService) Add(ctx context.Context, owner string, kind domain.ItemKind, name string, body io.Reader, size int64) (*domain.Item, error) {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return nil, ErrInvalidItemName
	}

	obj, err := s.objects.PutObject(ctx, s.prefix(owner, kind)+name, body, size)
	if err != nil {
		return nil, fmt.Errorf("store %s %s: %w", kind, name, err)
	}

	return &domain.Item{
		ID:        name,
		Owner:     owner,
		Kind:      kind,
		Size:      obj.Size,
		UpdatedAt: obj.LastModified,
	}, nil
}

func (s *catalogService) prefix(owner string, kind domain.ItemKind) string {
	parts := []string{owner, string(kind), ""}
	if s.keyPrefix != "" {
		parts = append([]string{s.keyPrefix}, parts...)
	}
	return strings.Join(parts, "/")
}
