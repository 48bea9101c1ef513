package handler

import (
	"strconv"

	"go-jewelry-store/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetSalesMovement returns per-day order counts and revenue for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetSalesMovement(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", strconv.Itoa(service.DefaultSalesDays)))
	if err != nil || days <= 0 {
		days = service.DefaultSalesDays
	}
	if days > service.MaxSalesDays {
		days = service.MaxSalesDays
	}

	data, err := h.service.GetSalesMovement(c.UserContext(), days)
	if err != nil {
		return err
	}

	return ok(c, fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		return err
	}

	return ok(c, stats)
}
