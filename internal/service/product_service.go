package service

import (
	"errors"
	"sort"

	"go-stock-management/internal/apperr"
	"go-stock-management/internal/model"
	"go-stock-management/internal/repository"
	"go-stock-management/internal/ws"
	"go-stock-management/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reorder priorities for the low stock report, in severity order
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

var priorityRank = map[string]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

type ProductService interface {
	CreateProduct(req *model.ProductCreateRequest) (*model.ProductResponse, error)
	GetProduct(id uuid.UUID) (*model.ProductResponse, error)
	ListProducts(filter repository.ProductFilter) ([]model.ProductResponse, int64, error)
	UpdateProduct(id uuid.UUID, req *model.ProductUpdateRequest) (*model.ProductResponse, error)
	DeleteProduct(id uuid.UUID) error
	Categories() ([]string, error)
	LowStockReport(threshold *int) (*model.LowStockReport, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	txRepo       repository.TransactionRepository
	hub          *ws.Hub
	log          *zap.Logger
}

func NewProductService(
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	txRepo repository.TransactionRepository,
	hub *ws.Hub,
	log *zap.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		txRepo:       txRepo,
		hub:          hub,
		log:          log,
	}
}

// checkSKU enforces SKU uniqueness, ignoring the product being updated.
func (s *productService) checkSKU(sku string, exclude uuid.UUID) error {
	existing, err := s.productRepo.FindBySKU(sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != exclude {
		return apperr.Conflict("SKU already exists")
	}
	return nil
}

func (s *productService) checkSupplier(id uuid.UUID) error {
	if _, err := s.supplierRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validation("supplier not found")
		}
		return err
	}
	return nil
}

func (s *productService) CreateProduct(req *model.ProductCreateRequest) (*model.ProductResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if req.UnitPrice.IsNegative() {
		return nil, apperr.Validation("unit_price must not be negative")
	}
	if req.SKU != nil {
		if err := s.checkSKU(*req.SKU, uuid.Nil); err != nil {
			return nil, err
		}
	}
	if req.SupplierID != nil {
		if err := s.checkSupplier(*req.SupplierID); err != nil {
			return nil, err
		}
	}

	status := req.Status
	if status == "" {
		status = model.ProductActive
	}
	product := &model.Product{
		Name:          req.Name,
		SKU:           req.SKU,
		Category:      req.Category,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		MinStockLevel: req.MinStockLevel,
		CurrentStock:  req.CurrentStock,
		SupplierID:    req.SupplierID,
		Status:        status,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))
	go s.hub.BroadcastEvent("product_created", product.ToResponse())

	return s.GetProduct(product.ID)
}

func (s *productService) GetProduct(id uuid.UUID) (*model.ProductResponse, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}
	resp := product.ToResponse()
	return &resp, nil
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.ProductResponse, int64, error) {
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]model.ProductResponse, len(products))
	for i := range products {
		responses[i] = products[i].ToResponse()
	}
	return responses, total, nil
}

func (s *productService) UpdateProduct(id uuid.UUID, req *model.ProductUpdateRequest) (*model.ProductResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}

	if req.SKU != nil && (product.SKU == nil || *req.SKU != *product.SKU) {
		if err := s.checkSKU(*req.SKU, id); err != nil {
			return nil, err
		}
	}
	if req.SupplierID != nil {
		if err := s.checkSupplier(*req.SupplierID); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, apperr.Validation("unit_price must not be negative")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = req.SKU
	}
	if req.Category != nil {
		product.Category = req.Category
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if req.MinStockLevel != nil {
		product.MinStockLevel = *req.MinStockLevel
	}
	if req.CurrentStock != nil {
		product.CurrentStock = *req.CurrentStock
	}
	if req.SupplierID != nil {
		product.SupplierID = req.SupplierID
	}
	if req.Status != nil {
		product.Status = *req.Status
	}

	if err := s.productRepo.Save(product); err != nil {
		return nil, err
	}

	s.log.Info("product updated", zap.String("product_id", id.String()))
	go s.hub.BroadcastEvent("product_updated", product.ToResponse())

	return s.GetProduct(id)
}

// DeleteProduct removes a product. Products with ledger history cannot be
// deleted; the transactions are the record of what happened to the stock.
func (s *productService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product not found")
		}
		return err
	}

	transactions, err := s.txRepo.ListAll(repository.TransactionFilter{ProductID: &id})
	if err != nil {
		return err
	}
	if len(transactions) > 0 {
		return apperr.Conflict("cannot delete product: %d transactions reference it", len(transactions))
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *productService) Categories() ([]string, error) {
	return s.productRepo.Categories()
}

// LowStockReport builds the reorder report: shortage, reorder value and a
// priority per product, ordered by severity.
func (s *productService) LowStockReport(threshold *int) (*model.LowStockReport, error) {
	products, err := s.productRepo.LowStock(threshold)
	if err != nil {
		return nil, err
	}

	report := &model.LowStockReport{
		Items:              make([]model.LowStockItem, 0, len(products)),
		TotalShortageValue: decimal.Zero,
	}
	for i := range products {
		p := &products[i]
		shortage := p.MinStockLevel - p.CurrentStock
		if shortage < 0 {
			shortage = 0
		}
		reorderValue := p.UnitPrice.Mul(decimal.NewFromInt(int64(shortage)))
		report.TotalShortageValue = report.TotalShortageValue.Add(reorderValue)

		var priority string
		switch {
		case p.CurrentStock == 0:
			priority = PriorityCritical
		case float64(shortage) > float64(p.MinStockLevel)*0.5:
			priority = PriorityHigh
		case shortage > 0:
			priority = PriorityMedium
		default:
			priority = PriorityLow
		}

		report.Items = append(report.Items, model.LowStockItem{
			ID:            p.ID,
			Name:          p.Name,
			SKU:           p.SKU,
			CurrentStock:  p.CurrentStock,
			MinStockLevel: p.MinStockLevel,
			Shortage:      shortage,
			UnitPrice:     p.UnitPrice,
			ReorderValue:  reorderValue,
			Priority:      priority,
		})
	}

	sort.SliceStable(report.Items, func(i, j int) bool {
		return priorityRank[report.Items[i].Priority] < priorityRank[report.Items[j].Priority]
	})
	report.TotalItems = len(report.Items)
	return report, nil
}
