package repository

import (
	"go-stock-management/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupplierFilter narrows and orders supplier list queries
type SupplierFilter struct {
	Search    string
	Status    string
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

var supplierSortColumns = map[string]string{
	"name":           "name",
	"contact_person": "contact_person",
	"email":          "email",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

type SupplierRepository interface {
	Create(supplier *model.Supplier) error
	FindByID(id uuid.UUID) (*model.Supplier, error)
	FindByName(name string) (*model.Supplier, error)
	FindByEmail(email string) (*model.Supplier, error)
	List(filter SupplierFilter) ([]model.Supplier, int64, error)
	Save(supplier *model.Supplier) error
	Delete(id uuid.UUID) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(supplier *model.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *supplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) FindByName(name string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) FindByEmail(email string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) List(filter SupplierFilter) ([]model.Supplier, int64, error) {
	query := r.db.Model(&model.Supplier{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR contact_person ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := supplierSortColumns[filter.SortBy]
	if !ok {
		column = "name"
	}
	order := column + " ASC"
	if filter.SortOrder == "desc" {
		order = column + " DESC"
	}

	offset := (filter.Page - 1) * filter.PerPage

	var suppliers []model.Supplier
	err := query.Order(order).Offset(offset).Limit(filter.PerPage).Find(&suppliers).Error
	return suppliers, total, err
}

func (r *supplierRepo) Save(supplier *model.Supplier) error {
	return r.db.Save(supplier).Error
}

func (r *supplierRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Supplier{}, "id = ?", id).Error
}
