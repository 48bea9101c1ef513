package service

import (
	"context"
	"time"

	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/repository"
)

const (
	DefaultSalesDays = 7
	MaxSalesDays     = 365
)

type DashboardService interface {
	GetSalesMovement(ctx context.Context, days int) ([]repository.SalesMovementData, error)
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
}

type dashboardService struct {
	dashRepo repository.DashboardRepository
	now      func() time.Time
}

func NewDashboardService(dashRepo repository.DashboardRepository) DashboardService {
	return &dashboardService{dashRepo: dashRepo, now: time.Now}
}

func (s *dashboardService) GetSalesMovement(ctx context.Context, days int) ([]repository.SalesMovementData, error) {
	if days <= 0 {
		days = DefaultSalesDays
	}
	if days > MaxSalesDays {
		days = MaxSalesDays
	}
	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -days)

	data, err := s.dashRepo.GetSalesMovement(ctx, startDate, endDate)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return data, nil
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	stats, err := s.dashRepo.GetDashboardStats(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return stats, nil
}
