package handler

import (
	"strconv"

	"go-stock-management/internal/model"
	"go-stock-management/internal/repository"
	"go-stock-management/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	page, perPage := pagination(c)
	filter := repository.ProductFilter{
		Search:       c.Query("search"),
		Category:     c.Query("category"),
		Status:       c.Query("status"),
		LowStockOnly: c.Query("low_stock_only") == "true",
		SortBy:       c.Query("sort_by", "name"),
		SortOrder:    c.Query("sort_order", "asc"),
		Page:         page,
		PerPage:      perPage,
	}
	if id, err := uuid.Parse(c.Query("supplier_id")); err == nil {
		filter.SupplierID = &id
	}

	products, total, err := h.service.ListProducts(filter)
	if err != nil {
		return errorJSON(c, err)
	}

	totalPages := pages(total, perPage)
	return c.JSON(fiber.Map{
		"items":    products,
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"pages":    totalPages,
		"has_next": page < totalPages,
		"has_prev": page > 1,
	})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req model.ProductCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(&req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(201).JSON(product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req model.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.UpdateProduct(id, &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(204)
}

func (h *ProductHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetLowStockReport returns the reorder report, optionally with a custom
// threshold overriding per-product minimum levels.
func (h *ProductHandler) GetLowStockReport(c *fiber.Ctx) error {
	var threshold *int
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid threshold"})
		}
		threshold = &v
	}

	report, err := h.service.LowStockReport(threshold)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(report)
}
