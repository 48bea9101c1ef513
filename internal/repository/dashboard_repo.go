package repository

import (
	"context"
	"time"

	"go-jewelry-store/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardRepository interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	GetSalesMovement(ctx context.Context, startDate, endDate time.Time) ([]SalesMovementData, error)
}

// SalesMovementData is one day of the sales chart.
type SalesMovementData struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DashboardStats is the overview panel.
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	ActiveProducts int64           `json:"active_products"`
	TotalOrders    int64           `json:"total_orders"`
	PendingOrders  int64           `json:"pending_orders"`
	Revenue        decimal.Decimal `json:"revenue"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	NetIncome      decimal.Decimal `json:"net_income"`
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

func (r *dashboardRepo) GetSalesMovement(ctx context.Context, startDate, endDate time.Time) ([]SalesMovementData, error) {
	results := []SalesMovementData{}

	rows, err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select(`
			TO_CHAR(created_at, 'YYYY-MM-DD') as date,
			COUNT(*) as orders,
			COALESCE(SUM(total_amount), 0) as revenue
		`).
		Where("created_at BETWEEN ? AND ? AND status <> ?", startDate, endDate, model.StatusCancelled).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data SalesMovementData
		if err := rows.Scan(&data.Date, &data.Orders, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *dashboardRepo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("is_active = ?", true).Count(&stats.ActiveProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Order{}).Where("status = ?", model.StatusPaymentPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}

	// Revenue counts only paid orders that were not cancelled.
	if err := db.Model(&model.Order{}).
		Where("payment_received = ? AND status <> ?", true, model.StatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.Revenue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalExpenses).Error; err != nil {
		return nil, err
	}

	stats.NetIncome = stats.Revenue.Sub(stats.TotalExpenses)
	return &stats, nil
}
