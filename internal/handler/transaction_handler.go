package handler

import (
	"time"

	"go-stock-management/internal/model"
	"go-stock-management/internal/repository"
	"go-stock-management/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	ledger service.LedgerService
}

func NewTransactionHandler(ledger service.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

func (h *TransactionHandler) transactionFilter(c *fiber.Ctx) repository.TransactionFilter {
	page, perPage := pagination(c)
	filter := repository.TransactionFilter{
		Search:    c.Query("search"),
		Type:      model.TransactionType(c.Query("transaction_type")),
		SortBy:    c.Query("sort_by", "transaction_date"),
		SortOrder: c.Query("sort_order", "desc"),
		Page:      page,
		PerPage:   perPage,
	}
	if id, err := uuid.Parse(c.Query("product_id")); err == nil {
		filter.ProductID = &id
	}
	if d, err := time.Parse("2006-01-02", c.Query("start_date")); err == nil {
		filter.StartDate = &d
	}
	if d, err := time.Parse("2006-01-02", c.Query("end_date")); err == nil {
		end := d.AddDate(0, 0, 1).Add(-time.Nanosecond) // inclusive end of day
		filter.EndDate = &end
	}
	return filter
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	filter := h.transactionFilter(c)
	transactions, total, err := h.ledger.ListTransactions(filter)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"transactions": transactions,
		"total":        total,
		"page":         filter.Page,
		"per_page":     filter.PerPage,
		"pages":        pages(total, filter.PerPage),
	})
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}
	transaction, err := h.ledger.GetTransaction(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(transaction)
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req model.TransactionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	transaction, err := h.ledger.PostTransaction(&req, username(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(201).JSON(transaction)
}

func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req model.TransactionUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	transaction, err := h.ledger.AmendTransaction(id, &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(transaction)
}

func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}
	if err := h.ledger.DeleteTransaction(id); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction deleted successfully and stock changes reverted"})
}

// GetSummary aggregates ledger activity, optionally windowed by date range
// and bounded to one product.
func (h *TransactionHandler) GetSummary(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{}
	if id, err := uuid.Parse(c.Query("product_id")); err == nil {
		filter.ProductID = &id
	}
	if d, err := time.Parse("2006-01-02", c.Query("start_date")); err == nil {
		filter.StartDate = &d
	}
	if d, err := time.Parse("2006-01-02", c.Query("end_date")); err == nil {
		end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}

	summary, err := h.ledger.Summary(filter)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(summary)
}
