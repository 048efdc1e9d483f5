package domain

import "time"

type ItemKind string

const (
	ItemKindModels   ItemKind = "models"
	ItemKindDatasets ItemKind = "datasets"
)

// Item is a catalog entry owned by a single user.
type Item struct {
	ID        string
	Owner     string
	Kind      ItemKind
	Size      int64
	UpdatedAt *time.Time
}
