package repository

import (
	"time"

	"go-stock-management/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter narrows and orders transaction list queries
type TransactionFilter struct {
	Search    string // product name, SKU or reference number
	Type      model.TransactionType
	ProductID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

var transactionSortColumns = map[string]string{
	"transaction_date": "stock_transactions.transaction_date",
	"product_name":     "products.name",
	"quantity":         "stock_transactions.quantity",
	"total_amount":     "stock_transactions.total_amount",
	"created_at":       "stock_transactions.created_at",
}

type TransactionRepository interface {
	Create(tx *gorm.DB, t *model.StockTransaction) error
	Save(tx *gorm.DB, t *model.StockTransaction) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	// FindByID scopes the read to tx when given; a nil tx reads from the
	// base connection.
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.StockTransaction, error)
	List(filter TransactionFilter) ([]model.StockTransaction, int64, error)
	// ListAll applies the filter without pagination, for summary computations.
	ListAll(filter TransactionFilter) ([]model.StockTransaction, error)
	// ExistsNewerForProduct reports whether the product has a transaction
	// applied after the given one. Used to restrict deletes to the terminal
	// transaction of a product's ledger; must run inside the same tx that
	// holds the product row lock, or the answer can go stale before use.
	ExistsNewerForProduct(tx *gorm.DB, productID, excludeID uuid.UUID, after time.Time) (bool, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, t *model.StockTransaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) Save(tx *gorm.DB, t *model.StockTransaction) error {
	return tx.Save(t).Error
}

func (r *transactionRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.StockTransaction{}, "id = ?", id).Error
}

func (r *transactionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *transactionRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.StockTransaction, error) {
	var t model.StockTransaction
	err := r.conn(tx).Preload("Product").Preload("Product.Supplier").First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepo) buildQuery(filter TransactionFilter) *gorm.DB {
	query := r.db.Model(&model.StockTransaction{}).
		Joins("JOIN products ON products.id = stock_transactions.product_id")

	if filter.ProductID != nil {
		query = query.Where("stock_transactions.product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		query = query.Where("stock_transactions.transaction_type = ?", filter.Type)
	}
	if filter.StartDate != nil {
		query = query.Where("stock_transactions.transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("stock_transactions.transaction_date <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"products.name ILIKE ? OR products.sku ILIKE ? OR stock_transactions.reference_number ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	return query
}

func (r *transactionRepo) List(filter TransactionFilter) ([]model.StockTransaction, int64, error) {
	query := r.buildQuery(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := transactionSortColumns[filter.SortBy]
	if !ok {
		column = "stock_transactions.transaction_date"
	}
	order := column + " ASC"
	if filter.SortOrder != "asc" {
		order = column + " DESC"
	}

	offset := (filter.Page - 1) * filter.PerPage

	var transactions []model.StockTransaction
	err := query.Preload("Product").Preload("Product.Supplier").
		Order(order).
		Offset(offset).
		Limit(filter.PerPage).
		Find(&transactions).Error
	return transactions, total, err
}

func (r *transactionRepo) ListAll(filter TransactionFilter) ([]model.StockTransaction, error) {
	var transactions []model.StockTransaction
	err := r.buildQuery(filter).Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) ExistsNewerForProduct(tx *gorm.DB, productID, excludeID uuid.UUID, after time.Time) (bool, error) {
	var count int64
	err := r.conn(tx).Model(&model.StockTransaction{}).
		Where("product_id = ? AND id <> ? AND created_at > ?", productID, excludeID, after).
		Count(&count).Error
	return count > 0, err
}
