package repository

import (
	"go-stock-management/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows and orders product list queries
type ProductFilter struct {
	Search       string
	Category     string
	Status       string
	SupplierID   *uuid.UUID
	LowStockOnly bool
	SortBy       string
	SortOrder    string
	Page         int
	PerPage      int
}

// Whitelist of sortable columns
var productSortColumns = map[string]string{
	"name":            "name",
	"sku":             "sku",
	"category":        "category",
	"unit_price":      "unit_price",
	"current_stock":   "current_stock",
	"min_stock_level": "min_stock_level",
	"status":          "status",
	"created_at":      "created_at",
	"updated_at":      "updated_at",
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	List(filter ProductFilter) ([]model.Product, int64, error)
	Save(product *model.Product) error
	Delete(id uuid.UUID) error
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int) error
	Categories() ([]string, error)
	LowStock(threshold *int) ([]model.Product, error)
	CountBySupplier(supplierID uuid.UUID) (int64, error)
	FindBySupplier(supplierID uuid.UUID) ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Supplier").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate locks the product row for the duration of the enclosing
// transaction so concurrent ledger operations against the same product are
// serialized by the database.
func (r *productRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(filter ProductFilter) ([]model.Product, int64, error) {
	query := r.db.Model(&model.Product{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ? OR description ILIKE ?", pattern, pattern, pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.LowStockOnly {
		query = query.Where("current_stock <= min_stock_level")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := productSortColumns[filter.SortBy]
	if !ok {
		column = "name"
	}
	order := column + " ASC"
	if filter.SortOrder == "desc" {
		order = column + " DESC"
	}

	offset := (filter.Page - 1) * filter.PerPage

	var products []model.Product
	err := query.Preload("Supplier").
		Order(order).
		Offset(offset).
		Limit(filter.PerPage).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Save(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// UpdateStock runs inside the caller's transaction so the stock counter and
// the transaction row commit or roll back together.
func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("current_stock", newStock).Error
}

func (r *productRepo) Categories() ([]string, error) {
	var categories []string
	err := r.db.Model(&model.Product{}).
		Where("category IS NOT NULL AND status = ?", model.ProductActive).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

// LowStock returns active products at or below their minimum stock level, or
// below the explicit threshold when one is given.
func (r *productRepo) LowStock(threshold *int) ([]model.Product, error) {
	query := r.db.Where("status = ?", model.ProductActive)
	if threshold != nil {
		query = query.Where("current_stock <= ?", *threshold)
	} else {
		query = query.Where("current_stock <= min_stock_level")
	}

	var products []model.Product
	err := query.Find(&products).Error
	return products, err
}

func (r *productRepo) CountBySupplier(supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("supplier_id = ?", supplierID).Count(&count).Error
	return count, err
}

func (r *productRepo) FindBySupplier(supplierID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("supplier_id = ?", supplierID).Find(&products).Error
	return products, err
}
