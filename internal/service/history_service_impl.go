package service

import (
	"context"

	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/repository"
)

type historyService struct {
	results repository.ResultRepo
}

func NewHistoryService(results repository.ResultRepo) HistoryService {
	return &historyService{results: results}
}

func (s *historyService) List(ctx context.Context, limit int) ([]*domain.AssessmentRecord, error) {
	return s.results.List(ctx, limit)
}

func (s *historyService) Get(ctx context.Context, id string) (*domain.AssessmentRecord, error) {
	return s.results.GetByID(ctx, id)
}
