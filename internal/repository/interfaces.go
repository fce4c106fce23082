package repository

import (
	"context"
	"encoding/json"

	"github.com/alexanderramin/pcam/internal/domain"
)

// StorageUsage reports the byte footprint of the store, counted as key plus
// value length per entry.
type StorageUsage struct {
	TotalBytes     int64
	NamespaceBytes int64
	Entries        int
	AutoSaves      int
	QuotaBytes     int64
}

// KVStore is a namespaced JSON blob store. Keys passed in and returned are
// unprefixed; the namespace is applied internally.
type KVStore interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Remove(ctx context.Context, key string) error
	ClearAll(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
	All(ctx context.Context) (map[string]json.RawMessage, error)
	Usage(ctx context.Context) (StorageUsage, error)

	AutoSave(ctx context.Context, key string, value json.RawMessage) error
	LatestAutoSave(ctx context.Context, key string) (json.RawMessage, error)
	PruneAutoSaves(ctx context.Context, key string, keep int) (int, error)

	Backup(ctx context.Context) ([]byte, error)
	Restore(ctx context.Context, data []byte) (int, error)
}

// ResultRepo stores the history of completed assessments.
type ResultRepo interface {
	Create(ctx context.Context, r *domain.AssessmentRecord) error
	GetByID(ctx context.Context, id string) (*domain.AssessmentRecord, error)
	List(ctx context.Context, limit int) ([]*domain.AssessmentRecord, error)
}
