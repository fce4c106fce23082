package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/repository"
)

type pillarService struct {
	store  repository.KVStore
	logger *slog.Logger
}

// NewPillarService keeps the per-pillar progress record in store.
func NewPillarService(store repository.KVStore, logger *slog.Logger) PillarService {
	if logger == nil {
		logger = discardLogger()
	}
	return &pillarService{store: store, logger: logger}
}

// Progress returns the stored record with every pillar present. A missing
// or unreadable record reads as all zeros.
func (s *pillarService) Progress(ctx context.Context) (domain.PillarProgress, error) {
	out := domain.NewPillarProgress()
	raw, err := s.store.Get(ctx, KeyPillarProgress)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, nil
		}
		return nil, fmt.Errorf("reading pillar progress: %w", err)
	}

	var stored map[domain.Pillar]int
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Warn("ignoring unreadable pillar progress", "key", KeyPillarProgress, "error", err)
		return out, nil
	}
	for _, p := range domain.Pillars {
		if v, ok := stored[p]; ok && v >= 0 && v <= 100 {
			out[p] = v
		}
	}
	return out, nil
}

func (s *pillarService) SetProgress(ctx context.Context, pillar domain.Pillar, pct int) error {
	if !knownPillar(pillar) {
		return fmt.Errorf("pillar %q: %w", pillar, domain.ErrInvalidArgument)
	}
	if pct < 0 || pct > 100 {
		return fmt.Errorf("pillar progress %d outside 0-100: %w", pct, domain.ErrInvalidArgument)
	}

	progress, err := s.Progress(ctx)
	if err != nil {
		return err
	}
	progress[pillar] = pct

	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encoding pillar progress: %w", err)
	}
	return s.store.Set(ctx, KeyPillarProgress, data)
}

func knownPillar(p domain.Pillar) bool {
	for _, known := range domain.Pillars {
		if p == known {
			return true
		}
	}
	return false
}
