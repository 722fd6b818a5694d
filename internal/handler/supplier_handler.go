package handler

import (
	"go-stock-management/internal/model"
	"go-stock-management/internal/repository"
	"go-stock-management/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	page, perPage := pagination(c)
	filter := repository.SupplierFilter{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sort_by", "name"),
		SortOrder: c.Query("sort_order", "asc"),
		Page:      page,
		PerPage:   perPage,
	}

	suppliers, total, err := h.service.ListSuppliers(filter)
	if err != nil {
		return errorJSON(c, err)
	}

	totalPages := pages(total, perPage)
	return c.JSON(fiber.Map{
		"items":    suppliers,
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"pages":    totalPages,
		"has_next": page < totalPages,
		"has_prev": page > 1,
	})
}

func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}
	supplier, err := h.service.GetSupplier(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(supplier)
}

func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req model.SupplierCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	supplier, err := h.service.CreateSupplier(&req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(201).JSON(supplier)
}

func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}

	var req model.SupplierUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	supplier, err := h.service.UpdateSupplier(id, &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(supplier)
}

func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}
	if err := h.service.DeleteSupplier(id); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(204)
}

func (h *SupplierHandler) GetSupplierProducts(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}
	products, err := h.service.SupplierProducts(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"products": products})
}
