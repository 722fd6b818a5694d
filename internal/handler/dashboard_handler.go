package handler

import (
	"go-stock-management/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboard assembles the overview payload: headline stats, stock
// alerts, recent activity, category stats, monthly trends and top movers.
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	q := service.DashboardQuery{
		DaysBack:          boundedLimit(c, "days_back", 30, 365),
		LimitAlerts:       boundedLimit(c, "limit_alerts", 10, 50),
		LimitTransactions: boundedLimit(c, "limit_transactions", 10, 50),
		LimitProducts:     boundedLimit(c, "limit_products", 10, 50),
	}

	dashboard, err := h.service.GetDashboard(q)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dashboard)
}

// GetTransactionTrends returns per-day activity split by transaction type.
// The window defaults to 30 days and is clamped to [7, 365].
func (h *DashboardHandler) GetTransactionTrends(c *fiber.Ctx) error {
	days := boundedLimit(c, "days", 30, 365)
	if days < 7 {
		days = 7
	}

	trends, err := h.service.GetTransactionTrends(days)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(trends)
}

func (h *DashboardHandler) GetValueBreakdown(c *fiber.Ctx) error {
	breakdown, err := h.service.GetValueBreakdown()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(breakdown)
}
