package service

import (
	"context"
	"time"

	"github.com/alexanderramin/pcam/internal/repository"
)

type backupService struct {
	store    repository.KVStore
	observer UseCaseObserver
}

// NewBackupService exposes whole-namespace backup and storage reporting.
func NewBackupService(store repository.KVStore, observers ...UseCaseObserver) BackupService {
	return &backupService{store: store, observer: useCaseObserverOrNoop(observers)}
}

func (s *backupService) Backup(ctx context.Context) (data []byte, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "backup", startedAt, fields, err) }()

	data, err = s.store.Backup(ctx)
	fields["bytes"] = len(data)
	return data, err
}

// Restore replaces the namespace with the backup's entries. Callers holding
// an open assessment should reload it afterwards.
func (s *backupService) Restore(ctx context.Context, data []byte) (n int, err error) {
	startedAt := time.Now()
	fields := map[string]any{"bytes": len(data)}
	defer func() { observe(ctx, s.observer, "restore", startedAt, fields, err) }()

	n, err = s.store.Restore(ctx, data)
	fields["entries"] = n
	return n, err
}

func (s *backupService) Storage(ctx context.Context) (StorageReport, error) {
	usage, err := s.store.Usage(ctx)
	if err != nil {
		return StorageReport{}, err
	}
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return StorageReport{}, err
	}
	return StorageReport{Usage: usage, Keys: keys}, nil
}

func (s *backupService) Clear(ctx context.Context) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "clear", startedAt, nil, err) }()
	return s.store.ClearAll(ctx)
}
