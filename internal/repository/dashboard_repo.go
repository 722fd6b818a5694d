package repository

import (
	"time"

	"go-stock-management/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryStat is one row of the per-category breakdown
type CategoryStat struct {
	Category     string          `json:"category"`
	ProductCount int64           `json:"product_count"`
	TotalStock   int64           `json:"total_stock"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// MonthlyTrendRow aggregates ledger movement per calendar month
type MonthlyTrendRow struct {
	Month             string `json:"month"`
	StockIn           int64  `json:"stock_in"`
	StockOut          int64  `json:"stock_out"`
	TransactionsCount int64  `json:"transactions_count"`
}

// TopProductRow ranks a product by its transaction activity
type TopProductRow struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	SKU               *string   `json:"sku,omitempty"`
	Category          *string   `json:"category,omitempty"`
	CurrentStock      int       `json:"current_stock"`
	SupplierName      *string   `json:"supplier_name,omitempty"`
	TotalTransactions int64     `json:"total_transactions"`
	TotalQuantity     int64     `json:"total_quantity"`
}

// DailyTrendRow aggregates ledger movement per calendar day and type
type DailyTrendRow struct {
	Day      string                `json:"day"`
	Type     model.TransactionType `json:"type"`
	Count    int64                 `json:"count"`
	Quantity int64                 `json:"quantity"`
	Amount   decimal.Decimal       `json:"amount"`
}

// SupplierValueRow is one row of the per-supplier valuation breakdown
type SupplierValueRow struct {
	Supplier     string          `json:"supplier"`
	ProductCount int64           `json:"product_count"`
	TotalStock   int64           `json:"total_stock"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// DashboardRepository exposes the read-only aggregation queries. Each query
// runs independently: a dashboard snapshot gives no cross-query consistency
// beyond read committed.
type DashboardRepository interface {
	CountActiveProducts() (int64, error)
	CountActiveSuppliers() (int64, error)
	TotalStockValue() (decimal.Decimal, error)
	CountLowStock() (int64, error)
	CountOutOfStock() (int64, error)
	CountTransactionsSince(since time.Time) (int64, error)
	SumQuantityByTypeSince(tt model.TransactionType, since time.Time) (int64, error)
	StockAlerts(limit int) ([]model.Product, error)
	RecentTransactions(limit int) ([]model.StockTransaction, error)
	CategoryStats() ([]CategoryStat, error)
	MonthlyTrends(since time.Time) ([]MonthlyTrendRow, error)
	DailyTrends(since time.Time) ([]DailyTrendRow, error)
	TopProducts(since time.Time, limit int) ([]TopProductRow, error)
	ValueBySupplier() ([]SupplierValueRow, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

func (r *dashboardRepo) CountActiveProducts() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("status = ?", model.ProductActive).Count(&count).Error
	return count, err
}

func (r *dashboardRepo) CountActiveSuppliers() (int64, error) {
	var count int64
	err := r.db.Model(&model.Supplier{}).Where("status = ?", model.SupplierActive).Count(&count).Error
	return count, err
}

func (r *dashboardRepo) TotalStockValue() (decimal.Decimal, error) {
	var value decimal.Decimal
	err := r.db.Model(&model.Product{}).
		Where("status = ?", model.ProductActive).
		Select("COALESCE(SUM(current_stock * unit_price), 0)").
		Scan(&value).Error
	return value, err
}

func (r *dashboardRepo) CountLowStock() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("status = ? AND current_stock <= min_stock_level AND current_stock > 0", model.ProductActive).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepo) CountOutOfStock() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("status = ? AND current_stock = 0", model.ProductActive).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepo) CountTransactionsSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.StockTransaction{}).
		Where("transaction_date >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepo) SumQuantityByTypeSince(tt model.TransactionType, since time.Time) (int64, error) {
	var sum int64
	err := r.db.Model(&model.StockTransaction{}).
		Where("transaction_type = ? AND transaction_date >= ?", tt, since).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *dashboardRepo) StockAlerts(limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Supplier").
		Where("status = ? AND current_stock <= min_stock_level", model.ProductActive).
		Order("current_stock ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *dashboardRepo) RecentTransactions(limit int) ([]model.StockTransaction, error) {
	var transactions []model.StockTransaction
	err := r.db.Preload("Product").Preload("Product.Supplier").
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

func (r *dashboardRepo) CategoryStats() ([]CategoryStat, error) {
	rows, err := r.db.Model(&model.Product{}).
		Select(`
			COALESCE(category, 'Uncategorized') as category,
			COUNT(id) as product_count,
			COALESCE(SUM(current_stock), 0) as total_stock,
			COALESCE(SUM(current_stock * unit_price), 0) as total_value
		`).
		Where("status = ?", model.ProductActive).
		Group("category").
		Order("category ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []CategoryStat
	for rows.Next() {
		var stat CategoryStat
		if err := rows.Scan(&stat.Category, &stat.ProductCount, &stat.TotalStock, &stat.TotalValue); err != nil {
			return nil, err
		}
		results = append(results, stat)
	}
	return results, rows.Err()
}

func (r *dashboardRepo) MonthlyTrends(since time.Time) ([]MonthlyTrendRow, error) {
	rows, err := r.db.Model(&model.StockTransaction{}).
		Select(`
			to_char(date_trunc('month', transaction_date), 'YYYY-MM') as month,
			COALESCE(SUM(CASE WHEN transaction_type = 'stock_in' THEN quantity ELSE 0 END), 0) as stock_in,
			COALESCE(SUM(CASE WHEN transaction_type = 'stock_out' THEN quantity ELSE 0 END), 0) as stock_out,
			COUNT(id) as transactions_count
		`).
		Where("transaction_date >= ?", since).
		Group("date_trunc('month', transaction_date)").
		Order("month ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MonthlyTrendRow
	for rows.Next() {
		var row MonthlyTrendRow
		if err := rows.Scan(&row.Month, &row.StockIn, &row.StockOut, &row.TransactionsCount); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *dashboardRepo) DailyTrends(since time.Time) ([]DailyTrendRow, error) {
	rows, err := r.db.Model(&model.StockTransaction{}).
		Select(`
			to_char(date_trunc('day', transaction_date), 'YYYY-MM-DD') as day,
			transaction_type,
			COUNT(id) as count,
			COALESCE(SUM(quantity), 0) as quantity,
			COALESCE(SUM(total_amount), 0) as amount
		`).
		Where("transaction_date >= ?", since).
		Group("date_trunc('day', transaction_date), transaction_type").
		Order("day ASC, transaction_type ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailyTrendRow
	for rows.Next() {
		var row DailyTrendRow
		if err := rows.Scan(&row.Day, &row.Type, &row.Count, &row.Quantity, &row.Amount); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TopProducts ranks active products by transaction count within the window.
// The LEFT JOIN keeps products with zero transactions, ranked last.
func (r *dashboardRepo) TopProducts(since time.Time, limit int) ([]TopProductRow, error) {
	rows, err := r.db.Raw(`
		SELECT p.id, p.name, p.sku, p.category, p.current_stock, s.name as supplier_name,
		       COUNT(t.id) as total_transactions,
		       COALESCE(SUM(t.quantity), 0) as total_quantity
		FROM products p
		LEFT JOIN stock_transactions t ON t.product_id = p.id AND t.transaction_date >= ?
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.status = ?
		GROUP BY p.id, p.name, p.sku, p.category, p.current_stock, s.name
		ORDER BY total_transactions DESC
		LIMIT ?
	`, since, model.ProductActive, limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []TopProductRow
	for rows.Next() {
		var row TopProductRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.SKU, &row.Category, &row.CurrentStock,
			&row.SupplierName, &row.TotalTransactions, &row.TotalQuantity,
		); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *dashboardRepo) ValueBySupplier() ([]SupplierValueRow, error) {
	rows, err := r.db.Raw(`
		SELECT s.name,
		       COUNT(p.id) as product_count,
		       COALESCE(SUM(p.current_stock), 0) as total_stock,
		       COALESCE(SUM(p.current_stock * p.unit_price), 0) as total_value
		FROM suppliers s
		JOIN products p ON p.supplier_id = s.id
		WHERE p.status = ? AND s.status = ?
		GROUP BY s.name
		ORDER BY s.name ASC
	`, model.ProductActive, model.SupplierActive).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SupplierValueRow
	for rows.Next() {
		var row SupplierValueRow
		if err := rows.Scan(&row.Supplier, &row.ProductCount, &row.TotalStock, &row.TotalValue); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
